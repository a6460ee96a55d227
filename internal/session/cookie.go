package session

import (
	"context"
	"crypto/sha256"
	"net/http"

	"github.com/gorilla/sessions"
)

const cookieMaxAge = 86400 * 7

// CookieStore keeps the whole session in a signed and encrypted cookie.
type CookieStore struct {
	store *sessions.CookieStore
	name  string
}

func NewCookieStore(name string, secret []byte, secure bool) *CookieStore {
	block := sha256.Sum256(append([]byte("mdp-session-enc:"), secret...))
	cs := sessions.NewCookieStore(secret, block[:])
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieStore{store: cs, name: name}
}

// Open never fails on a bad cookie: a cookie signed with an old key just
// yields an empty session.
func (s *CookieStore) Open(w http.ResponseWriter, r *http.Request) (Storage, error) {
	sess, err := s.store.Get(r, s.name)
	if sess == nil {
		return nil, err
	}
	return &cookieStorage{sess: sess, w: w, r: r}, nil
}

type cookieStorage struct {
	sess *sessions.Session
	w    http.ResponseWriter
	r    *http.Request
}

func (c *cookieStorage) Get(key string) (string, bool) {
	v, ok := c.sess.Values[key].(string)
	return v, ok
}

func (c *cookieStorage) Set(key, value string) { c.sess.Values[key] = value }

func (c *cookieStorage) Delete(key string) { delete(c.sess.Values, key) }

func (c *cookieStorage) Save(context.Context) error {
	if len(c.sess.Values) == 0 {
		opts := *c.sess.Options
		opts.MaxAge = -1
		c.sess.Options = &opts
	}
	return c.sess.Save(c.r, c.w)
}
