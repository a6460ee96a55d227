package session

import (
	"strings"

	"mondedesparfum.com/admin/internal/apiclient"
)

// User is the subset of the backend account returned at login.
type User struct {
	ID          apiclient.ID `json:"id"`
	Email       string       `json:"email"`
	FullName    string       `json:"full_name,omitempty"`
	FirstName   string       `json:"first_name,omitempty"`
	LastName    string       `json:"last_name,omitempty"`
	Username    string       `json:"username,omitempty"`
	PhoneNumber string       `json:"phone_number,omitempty"`
	Avatar      string       `json:"avatar,omitempty"`
	IsStaff     bool         `json:"is_staff,omitempty"`
	IsSuperuser bool         `json:"is_superuser,omitempty"`
}

// DisplayName prefers the full name, then first/last, then the email.
func (u User) DisplayName() string {
	if n := strings.TrimSpace(u.FullName); n != "" {
		return n
	}
	if n := strings.TrimSpace(u.FirstName + " " + u.LastName); n != "" {
		return n
	}
	return u.Email
}

// LoginFields is the field list requested from the login endpoint.
const LoginFields = "id,email,full_name,first_name,last_name,username,profile,phone_number,avatar"
