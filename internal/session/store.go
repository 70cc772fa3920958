package session

import (
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/pkg/errors"

	"github.com/debemdeboas/minimal-blog/internal/config"
)

var errNoRandomKey = errors.New("can't generate a random session key")

// NewStore signs session cookies with the configured secret. Without one a
// random key is used, so sessions do not survive a restart.
//
// The options are set explicitly: the gorilla defaults mark cookies Secure with
// SameSite=None, which browsers drop on plain http.
func NewStore(cfg config.SessionConfig) (*sessions.CookieStore, error) {
	key := []byte(cfg.Secret)
	if len(key) == 0 {
		key = securecookie.GenerateRandomKey(32)
		if key == nil {
			return nil, errors.WithStack(errNoRandomKey)
		}
		sessionLogger.Warn().Msg("session.secret is empty, using a random key for this run")
	}

	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.IdleTimeout / time.Second),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store, nil
}
