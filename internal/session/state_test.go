package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginPersistsFixedKeys(t *testing.T) {
	m := NewMemory()
	s := New(m)

	require.NoError(t, s.Login(User{ID: "42", Email: "admin@mdp.test", FullName: "Ada Admin"}, "tok"))
	require.NoError(t, s.Save(context.Background()))

	tok, _ := m.Get(KeyToken)
	status, _ := m.Get(KeyLoginStatus)
	uid, _ := m.Get(KeyUserID)
	raw, _ := m.Get(KeyUser)
	assert.Equal(t, "tok", tok)
	assert.Equal(t, "true", status)
	assert.Equal(t, "42", uid)
	assert.Contains(t, raw, `"email":"admin@mdp.test"`)
	assert.Equal(t, 1, m.Saves())
}

// A fresh State over the same storage sees the previous login.
func TestHydrateRoundTrip(t *testing.T) {
	m := NewMemory()
	require.NoError(t, New(m).Login(User{ID: "7", Email: "a@b.c"}, "tok-7"))

	s := New(m)
	require.NoError(t, s.Hydrate())
	assert.True(t, s.LoggedIn())
	assert.Equal(t, "tok-7", s.Token())
	assert.Equal(t, "7", s.UserID())
	u, ok := s.User()
	require.True(t, ok)
	assert.Equal(t, "a@b.c", u.Email)
}

func TestHydrateCorruptUserClearsSession(t *testing.T) {
	m := NewMemory()
	m.Set(KeyUser, "{not json")
	m.Set(KeyToken, "tok")
	m.Set(KeyLoginStatus, "true")

	s := New(m)
	assert.ErrorIs(t, s.Hydrate(), ErrCorrupt)
	assert.False(t, s.LoggedIn())
	_, ok := m.Get(KeyToken)
	assert.False(t, ok)
}

func TestHydrateWithoutTokenIsAnonymous(t *testing.T) {
	m := NewMemory()
	m.Set(KeyLoginStatus, "true")

	s := New(m)
	require.NoError(t, s.Hydrate())
	assert.False(t, s.LoggedIn())
}

func TestLogoutClearsEverything(t *testing.T) {
	m := NewMemory()
	s := New(m)
	require.NoError(t, s.Login(User{ID: "1"}, "tok"))

	s.Logout()
	assert.False(t, s.LoggedIn())
	assert.Empty(t, s.Token())
	_, ok := s.User()
	assert.False(t, ok)
	for _, k := range allKeys {
		_, ok := m.Get(k)
		assert.False(t, ok, k)
	}
}

func TestLoginRequiresToken(t *testing.T) {
	assert.ErrorIs(t, New(NewMemory()).Login(User{ID: "1"}, ""), ErrNoToken)
}

func TestUserIDAcceptsNumbers(t *testing.T) {
	m := NewMemory()
	m.Set(KeyUser, `{"id":15,"email":"x@y.z"}`)
	m.Set(KeyToken, "t")
	m.Set(KeyLoginStatus, "true")

	s := New(m)
	require.NoError(t, s.Hydrate())
	assert.Equal(t, "15", s.UserID())
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ada", User{FullName: " Ada "}.DisplayName())
	assert.Equal(t, "Ada Lovelace", User{FirstName: "Ada", LastName: "Lovelace"}.DisplayName())
	assert.Equal(t, "a@b.c", User{Email: "a@b.c"}.DisplayName())
}

type mapBackend struct {
	mu   sync.Mutex
	data map[string]map[string]string
}

func (b *mapBackend) Load(_ context.Context, id string) (map[string]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.data[id]
	if !ok {
		return nil, nil
	}
	out := map[string]string{}
	for k, x := range v {
		out[k] = x
	}
	return out, nil
}

func (b *mapBackend) Store(_ context.Context, id string, values map[string]string, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[id] = values
	return nil
}

func (b *mapBackend) Remove(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, id)
	return nil
}

func TestIDStoreRoundTrip(t *testing.T) {
	backend := &mapBackend{data: map[string]map[string]string{}}
	store := &IDStore{Backend: backend, CookieName: "mdp_sid", TTL: time.Hour}

	// login request
	rec := httptest.NewRecorder()
	st, err := store.Open(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	require.NoError(t, err)
	require.NoError(t, New(st).Login(User{ID: "3"}, "tok-3"))
	require.NoError(t, st.Save(context.Background()))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Len(t, backend.data, 1)

	// next request carries the cookie
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	st, err = store.Open(rec, req)
	require.NoError(t, err)
	s := New(st)
	require.NoError(t, s.Hydrate())
	assert.Equal(t, "tok-3", s.Token())

	// logout removes the row and expires the cookie
	s.Logout()
	require.NoError(t, s.Save(context.Background()))
	assert.Empty(t, backend.data)
	require.Len(t, rec.Result().Cookies(), 1)
	assert.Equal(t, -1, rec.Result().Cookies()[0].MaxAge)
}

func TestIDStoreIgnoresForeignCookie(t *testing.T) {
	store := &IDStore{Backend: &mapBackend{data: map[string]map[string]string{}}, CookieName: "mdp_sid", TTL: time.Hour}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "mdp_sid", Value: "not-a-uuid"})

	st, err := store.Open(httptest.NewRecorder(), req)
	require.NoError(t, err)
	_, ok := st.Get(KeyToken)
	assert.False(t, ok)
}

func TestCookieStoreRoundTrip(t *testing.T) {
	store := NewCookieStore("mdp_session", []byte("0123456789abcdef0123456789abcdef"), false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	st, err := store.Open(rec, req)
	require.NoError(t, err)
	require.NoError(t, New(st).Login(User{ID: "9", Email: "c@d.e"}, "tok-9"))
	require.NoError(t, st.Save(context.Background()))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	st, err = store.Open(httptest.NewRecorder(), req)
	require.NoError(t, err)
	s := New(st)
	require.NoError(t, s.Hydrate())
	assert.True(t, s.LoggedIn())
	assert.Equal(t, "9", s.UserID())
}

func TestDirtyAndOwner(t *testing.T) {
	s := New(NewMemory())
	require.NoError(t, s.Hydrate())
	assert.False(t, s.Dirty())
	assert.Empty(t, s.Owner())

	require.NoError(t, s.Login(User{ID: "5"}, "secret-token"))
	assert.True(t, s.Dirty())
	owner := s.Owner()
	assert.Len(t, owner, 16)
	assert.NotContains(t, owner, "secret")

	require.NoError(t, s.Save(context.Background()))
	assert.False(t, s.Dirty())

	other := New(NewMemory())
	require.NoError(t, other.Login(User{ID: "5"}, "secret-token"))
	assert.Equal(t, owner, other.Owner())
}
