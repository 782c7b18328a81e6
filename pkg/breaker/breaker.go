// Package breaker fails calls fast while a remote dependency keeps failing.
package breaker

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

type State uint8

const (
	Closed State = iota + 1
	Open
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	}
	return "unknown"
}

var ErrOpen = errors.New("circuit breaker is open")

// Config with a zero Window disables the breaker.
type Config struct {
	Window       int           `envconfig:"CATALOG_BREAKER_WINDOW" default:"20"`
	FailureRatio float64       `envconfig:"CATALOG_BREAKER_RATIO" default:"0.5"`
	Cooldown     time.Duration `envconfig:"CATALOG_BREAKER_COOLDOWN" default:"30s"`
	Probes       int           `envconfig:"CATALOG_BREAKER_PROBES" default:"3"`
}

type Breaker struct {
	mu  sync.Mutex
	cfg Config

	state    State
	openedAt time.Time
	// outcomes is a ring of the last Window calls, true meaning failed.
	outcomes []bool
	pos      int
	// successes counted while half-open
	successes int

	now func() time.Time
}

func New(cfg Config) *Breaker {
	b := &Breaker{
		cfg:   cfg,
		state: Closed,
		now:   time.Now,
	}
	if cfg.Window > 0 {
		b.outcomes = make([]bool, cfg.Window)
	}
	return b
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Call runs fn unless the breaker is open, and records its outcome.
func (b *Breaker) Call(fn func() error) error {
	if b.cfg.Window <= 0 {
		return fn()
	}

	b.mu.Lock()
	if b.state == Open {
		if b.now().Sub(b.openedAt) < b.cfg.Cooldown {
			b.mu.Unlock()
			return ErrOpen
		}
		b.state = HalfOpen
		b.successes = 0
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()

	b.outcomes[b.pos] = err != nil
	b.pos = (b.pos + 1) % len(b.outcomes)

	switch b.state {
	case HalfOpen:
		if err != nil {
			b.trip()
			return err
		}
		b.successes++
		if b.successes >= b.cfg.Probes {
			b.reset()
		}
	case Closed:
		failed := 0
		for _, f := range b.outcomes {
			if f {
				failed++
			}
		}
		if float64(failed)/float64(len(b.outcomes)) >= b.cfg.FailureRatio {
			b.trip()
		}
	}
	return err
}

func (b *Breaker) trip() {
	b.state = Open
	b.successes = 0
	b.openedAt = b.now()
}

func (b *Breaker) reset() {
	for i := range b.outcomes {
		b.outcomes[i] = false
	}
	b.pos = 0
	b.successes = 0
	b.state = Closed
}
