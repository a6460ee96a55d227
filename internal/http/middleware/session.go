package middleware

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"

	"mondedesparfum.com/admin/internal/session"
	"mondedesparfum.com/admin/internal/shared/apperr"
)

const CtxKeySession = "session"

// Session opens the persisted storage for the request, hydrates a
// session.State from it and stores it in the context. A corrupt stored user
// is cleared and the request continues anonymously.
func Session(store session.Store, l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		storage, err := store.Open(c.Writer, c.Request)
		if err != nil {
			Fail(c, apperr.Wrap(fmt.Errorf("open session: %w", err)))
			return
		}

		st := session.New(storage)
		if err := st.Hydrate(); err != nil {
			l.LogAttrs(c.Request.Context(), slog.LevelWarn, "session_corrupt",
				slog.String("request_id", GetRequestID(c)),
				slog.Any("err", err),
			)
			if errors.Is(err, session.ErrCorrupt) {
				_ = st.Save(c.Request.Context())
			}
		}

		c.Set(CtxKeySession, st)
		c.Next()
	}
}

func CurrentSession(c *gin.Context) *session.State {
	if v, ok := c.Get(CtxKeySession); ok {
		if st, ok := v.(*session.State); ok {
			return st
		}
	}
	return nil
}

// CurrentUser returns the logged-in admin.
func CurrentUser(c *gin.Context) (session.User, bool) {
	st := CurrentSession(c)
	if st == nil || !st.LoggedIn() {
		return session.User{}, false
	}
	return st.User()
}

// SaveSession persists a session changed by login or logout. It must run
// before the response body is written because backends set cookies.
func SaveSession(c *gin.Context) error {
	st := CurrentSession(c)
	if st == nil || !st.Dirty() {
		return nil
	}
	return st.Save(c.Request.Context())
}
