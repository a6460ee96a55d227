package auth

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mondedesparfum.com/admin/internal/apiclient"
	"mondedesparfum.com/admin/internal/http/validation"
	"mondedesparfum.com/admin/internal/session"
)

func TestLogin(t *testing.T) {
	var got apiclient.Request
	api := apiclient.DoerFunc(func(_ context.Context, req apiclient.Request) (*apiclient.Response, error) {
		got = req
		return &apiclient.Response{Status: http.StatusOK, Data: []byte(`{"token":"abc","user":{"id":3,"email":"a@mdp.test","full_name":"Ada"}}`)}, nil
	})

	u, tok, err := NewService(api).Login(context.Background(), Credentials{Username: " ada ", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)
	assert.Equal(t, "3", u.ID.String())
	assert.Equal(t, "Ada", u.DisplayName())

	assert.Equal(t, LoginPath, got.URL)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, session.LoginFields, got.Params.Get("fields"))
	assert.Equal(t, Credentials{Username: "ada", Password: "pw"}, got.Data)
}

func TestLoginWithoutToken(t *testing.T) {
	api := apiclient.DoerFunc(func(context.Context, apiclient.Request) (*apiclient.Response, error) {
		return &apiclient.Response{Status: http.StatusOK, Data: []byte(`{"user":{"id":1}}`)}, nil
	})
	_, _, err := NewService(api).Login(context.Background(), Credentials{Username: "a", Password: "b"})
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestCredentialMessages(t *testing.T) {
	errs := validation.Struct(&Credentials{}, CredentialMessages)
	assert.Equal(t, "Enter username", errs["username"])
	assert.Equal(t, "Enter password", errs["password"])
}

func TestLogoutPosts(t *testing.T) {
	var got apiclient.Request
	api := apiclient.DoerFunc(func(_ context.Context, req apiclient.Request) (*apiclient.Response, error) {
		got = req
		return &apiclient.Response{Status: http.StatusOK}, nil
	})
	require.NoError(t, NewService(api).Logout(context.Background()))
	assert.Equal(t, LogoutPath, got.URL)
	assert.Equal(t, http.MethodPost, got.Method)
}
