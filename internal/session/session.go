// Package session carries the identity of the user on whose behalf settings
// are loaded or saved. Authentication happens upstream; a Session is only the
// result of it.
package session

import (
	"net/http"
	"strings"

	"github.com/iwvelando/finance-calculator/pkg/constants"
)

// Session identifies an authenticated user.
type Session struct {
	UserID      string
	Email       string
	DisplayName string
}

// Anonymous is the zero Session.
var Anonymous = Session{}

// Authenticated reports whether the session names a user.
func (s Session) Authenticated() bool {
	return strings.TrimSpace(s.UserID) != ""
}

// FromRequest builds a Session from the identity headers set by the
// authenticating proxy in front of the server.
func FromRequest(r *http.Request) Session {
	return Session{
		UserID:      strings.TrimSpace(r.Header.Get(constants.UserIDHeader)),
		Email:       strings.TrimSpace(r.Header.Get(constants.UserEmailHeader)),
		DisplayName: strings.TrimSpace(r.Header.Get(constants.UserNameHeader)),
	}
}
