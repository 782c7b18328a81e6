// Package auth keeps the logged-in user in a signed cookie session.
package auth

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const (
	SessionName        = "bookcase_session"
	MsgUnauthenticated = "Authentication credentials were not provided."
	userIDKey          = "user_id"
)

type ctxKey struct{}

var ErrNoSession = errors.New("no active session")

type Config struct {
	Secret string `envconfig:"SESSION_SECRET" required:"true"`
	MaxAge int    `envconfig:"SESSION_MAX_AGE" default:"1209600"`
	Secure bool   `envconfig:"SESSION_SECURE" default:"false"`
}

type Manager struct {
	store *sessions.CookieStore
}

func NewManager(cfg Config) *Manager {
	store := sessions.NewCookieStore([]byte(cfg.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store}
}

func (m *Manager) Login(c echo.Context, userID int) error {
	sess, _ := m.store.Get(c.Request(), SessionName)
	sess.Values[userIDKey] = userID
	return sess.Save(c.Request(), c.Response())
}

func (m *Manager) Logout(c echo.Context) error {
	sess, _ := m.store.Get(c.Request(), SessionName)
	delete(sess.Values, userIDKey)
	sess.Options.MaxAge = -1
	return sess.Save(c.Request(), c.Response())
}

// UserID returns the user bound to the request cookie.
func (m *Manager) UserID(r *http.Request) (int, error) {
	sess, err := m.store.Get(r, SessionName)
	if err != nil {
		return 0, ErrNoSession
	}
	id, ok := sess.Values[userIDKey].(int)
	if !ok || id <= 0 {
		return 0, ErrNoSession
	}
	return id, nil
}

// Middleware rejects anonymous requests with 401 and puts the user id into the request context.
func (m *Manager) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := m.UserID(c.Request())
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, MsgUnauthenticated)
		}
		req := c.Request()
		c.SetRequest(req.WithContext(SetAuthContext(req.Context(), id)))
		return next(c)
	}
}

func SetAuthContext(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

func GetUserID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(ctxKey{}).(int)
	return id, ok
}
