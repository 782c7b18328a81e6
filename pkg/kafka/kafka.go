package kafka

import (
	"time"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
)

const ActivityTopic = "bookcase.activity"

type Config struct {
	Addrs   []string `envconfig:"KAFKA_ADDRS"`
	Topic   string   `envconfig:"KAFKA_TOPIC" default:"bookcase.activity"`
	Enabled bool     `envconfig:"KAFKA_ENABLED" default:"false"`
}

type EventType string

const (
	EventBookAdded     EventType = "book_added"
	EventStatusChanged EventType = "status_changed"
	EventRated         EventType = "rated"
	EventSessionLogged EventType = "session_logged"
)

// EventActivity is one reading-activity fact published after a successful write.
type EventActivity struct {
	Type       EventType `json:"type"`
	UserID     int       `json:"user_id"`
	UserBookID int       `json:"user_book_id,omitempty"`
	Status     string    `json:"status,omitempty"`
	PagesRead  int       `json:"pages_read,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

func newConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Return.Successes = true
	cfg.Producer.Retry.Max = 3
	cfg.Admin.Timeout = 5 * time.Second
	return cfg
}

func NewSyncProducer(cfg Config) (sarama.SyncProducer, error) {
	return sarama.NewSyncProducer(cfg.Addrs, newConfig())
}

// CreateTopics makes sure the activity topic exists. An already existing topic is not an error.
func CreateTopics(cfg Config) error {
	admin, err := sarama.NewClusterAdmin(cfg.Addrs, newConfig())
	if err != nil {
		return errors.Wrap(err, "cluster admin")
	}
	defer admin.Close()

	topic := cfg.Topic
	if topic == "" {
		topic = ActivityTopic
	}
	err = admin.CreateTopic(topic, &sarama.TopicDetail{
		NumPartitions:     1,
		ReplicationFactor: 1,
	}, false)
	var topicErr *sarama.TopicError
	if errors.As(err, &topicErr) && topicErr.Err == sarama.ErrTopicAlreadyExists {
		return nil
	}
	return errors.Wrapf(err, "create topic %s", topic)
}
