package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Backend persists session values under an opaque id.
type Backend interface {
	// Load returns nil values when the id is unknown or expired.
	Load(ctx context.Context, id string) (map[string]string, error)
	Store(ctx context.Context, id string, values map[string]string, ttl time.Duration) error
	Remove(ctx context.Context, id string) error
}

// IDStore keeps only a session id in the cookie and the values in a Backend.
type IDStore struct {
	Backend    Backend
	CookieName string
	Secure     bool
	TTL        time.Duration
}

func (s *IDStore) Open(w http.ResponseWriter, r *http.Request) (Storage, error) {
	st := &idStorage{store: s, w: w, values: map[string]string{}}

	c, err := r.Cookie(s.CookieName)
	if err != nil || c.Value == "" {
		return st, nil
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return st, nil
	}

	values, err := s.Backend.Load(r.Context(), c.Value)
	if err != nil {
		return nil, err
	}
	if values != nil {
		st.id = c.Value
		st.values = values
	}
	return st, nil
}

type idStorage struct {
	store  *IDStore
	w      http.ResponseWriter
	id     string
	values map[string]string
}

func (s *idStorage) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *idStorage) Set(key, value string) { s.values[key] = value }

func (s *idStorage) Delete(key string) { delete(s.values, key) }

func (s *idStorage) Save(ctx context.Context) error {
	if len(s.values) == 0 {
		if s.id == "" {
			return nil
		}
		if err := s.store.Backend.Remove(ctx, s.id); err != nil {
			return err
		}
		s.id = ""
		s.setCookie("", -1)
		return nil
	}

	if s.id == "" {
		s.id = uuid.NewString()
	}
	if err := s.store.Backend.Store(ctx, s.id, s.values, s.store.TTL); err != nil {
		return err
	}
	s.setCookie(s.id, int(s.store.TTL.Seconds()))
	return nil
}

func (s *idStorage) setCookie(value string, maxAge int) {
	http.SetCookie(s.w, &http.Cookie{
		Name:     s.store.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.store.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
