package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mondedesparfum.com/admin/internal/http/flash"
	"mondedesparfum.com/admin/internal/session"
)

func init() { gin.SetMode(gin.TestMode) }

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, strings.Repeat("x", 65))
	r.ServeHTTP(w, req)
	assert.Len(t, w.Body.String(), 36)
}

func TestRequireAuth(t *testing.T) {
	codec := flash.NewCodec([]byte("secret"), "flash", false)
	mem := session.NewMemory()

	r := gin.New()
	r.Use(RequestID(), Session(session.MemoryStore{M: mem}, discardLogger()))
	r.GET("/admin/x", RequireAuth(codec), func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/x?page=2", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?return_to=%2Fadmin%2Fx%3Fpage%3D2", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/x", nil)
	req.Header.Set("Accept", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	st := session.New(mem)
	require.NoError(t, st.Login(session.User{ID: "1", FirstName: "Ada"}, "tok"))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSaveSessionOnlyWhenDirty(t *testing.T) {
	mem := session.NewMemory()
	r := gin.New()
	r.Use(Session(session.MemoryStore{M: mem}, discardLogger()))
	r.GET("/read", func(c *gin.Context) {
		require.NoError(t, SaveSession(c))
		c.Status(http.StatusNoContent)
	})
	r.GET("/logout", func(c *gin.Context) {
		CurrentSession(c).Logout()
		require.NoError(t, SaveSession(c))
		c.Status(http.StatusNoContent)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/read", nil))
	assert.Equal(t, 0, mem.Saves())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/logout", nil))
	assert.Equal(t, 1, mem.Saves())
}

func TestLoggerQuietsProbes(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	r := gin.New()
	r.Use(RequestID(), Logger(l))
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/admin", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Empty(t, buf.String())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/admin?page=2", nil))
	assert.Contains(t, buf.String(), `"msg":"http_request"`)
	assert.Contains(t, buf.String(), `"path":"/admin?page=2"`)
	assert.Contains(t, buf.String(), `"route":"/admin"`)
}
