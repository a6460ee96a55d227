// Package auth exchanges admin credentials for a backend token.
package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"mondedesparfum.com/admin/internal/apiclient"
	"mondedesparfum.com/admin/internal/http/validation"
	"mondedesparfum.com/admin/internal/session"
)

const (
	LoginPath  = "/users/auth/login"
	LogoutPath = "/users/auth/logout"
)

var ErrNoToken = errors.New("auth: backend returned no token")

type Credentials struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

var CredentialMessages = validation.Messages{
	"username": "Enter username",
	"password": "Enter password",
}

const LoginFailedMsg = "Login failed, please try again with correct credentials"

type loginResponse struct {
	Token string       `json:"token"`
	User  session.User `json:"user"`
}

type Service struct {
	api apiclient.Doer
}

func NewService(api apiclient.Doer) *Service { return &Service{api: api} }

// Login posts the credentials and returns the account and its token.
func (s *Service) Login(ctx context.Context, in Credentials) (session.User, string, error) {
	in.Username = strings.TrimSpace(in.Username)
	resp, err := s.api.Do(ctx, apiclient.Request{
		URL:    LoginPath,
		Method: http.MethodPost,
		Params: url.Values{"fields": {session.LoginFields}},
		Data:   in,
	})
	if err != nil {
		return session.User{}, "", err
	}

	var out loginResponse
	if err := resp.Decode(&out); err != nil {
		return session.User{}, "", err
	}
	if out.Token == "" {
		return session.User{}, "", ErrNoToken
	}
	return out.User, out.Token, nil
}

// Logout revokes the token on the backend. Callers clear the local session
// whatever the outcome.
func (s *Service) Logout(ctx context.Context) error {
	_, err := s.api.Do(ctx, apiclient.Request{URL: LogoutPath, Method: http.MethodPost})
	return err
}
