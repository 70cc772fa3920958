package session

import (
	"net/http"
	"testing"
	"time"

	"github.com/debemdeboas/minimal-blog/internal/config"
)

func TestNewStore(t *testing.T) {
	cfg := config.SessionConfig{
		Secret:      "0123456789abcdef0123456789abcdef",
		Secure:      true,
		IdleTimeout: 30 * time.Minute,
	}
	store, err := NewStore(cfg)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if store.Options.MaxAge != 1800 {
		t.Errorf("Expected MaxAge 1800, got %d", store.Options.MaxAge)
	}
	if !store.Options.Secure || !store.Options.HttpOnly {
		t.Error("Expected secure, http-only cookies")
	}
	if store.Options.SameSite != http.SameSiteLaxMode {
		t.Errorf("Expected SameSite=Lax, got %v", store.Options.SameSite)
	}

	cfg.Secret = ""
	if _, err := NewStore(cfg); err != nil {
		t.Errorf("Expected a random key when the secret is empty, got %v", err)
	}
}

func TestNewStore_PlainHTTPCookie(t *testing.T) {
	m := newTestManager(stubBackend{})

	cookies := roundTrip(t, m, nil, func(s *Session) {
		if err := s.Flush(); err != nil {
			t.Fatalf("Flush failed: %v", err)
		}
	})
	if len(cookies) != 1 {
		t.Fatalf("Expected one session cookie, got %d", len(cookies))
	}

	c := cookies[0]
	if c.Secure {
		t.Error("Expected a cookie usable over plain http when session.secure is off")
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Errorf("Expected SameSite=Lax, got %v", c.SameSite)
	}
	if !c.HttpOnly || c.Path != "/" {
		t.Errorf("Unexpected cookie attributes %+v", c)
	}
}
