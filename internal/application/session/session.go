// Package session holds the signed-in identity of the planner
package session

import (
	"github.com/google/uuid"
	"github.com/savorly/savorly/internal/ports/inbound"
)

// Session is the authenticated user and the access token used for their calls
type Session struct {
	UserID      uuid.UUID
	Email       string
	FullName    string
	AccessToken string
}

// None is the explicit no-session value
var None = Session{}

// FromAuth builds a session from a sign-in or sign-up response
func FromAuth(resp *inbound.AuthResponse) Session {
	if resp == nil || resp.AccessToken == "" {
		return None
	}
	return Session{
		UserID:      resp.User.ID,
		Email:       resp.User.Email,
		FullName:    resp.User.FullName,
		AccessToken: resp.AccessToken,
	}
}

// IsAuthenticated reports whether s carries a user and a token
func (s Session) IsAuthenticated() bool {
	return s.UserID != uuid.Nil && s.AccessToken != ""
}

// DisplayName prefers the full name over the email
func (s Session) DisplayName() string {
	if s.FullName != "" {
		return s.FullName
	}
	return s.Email
}
