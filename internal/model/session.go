package model

import "time"

// Session is the per-browser login state. The zero value is unauthenticated.
type Session struct {
	IssuedAt      time.Time
	ID            string
	UserID        string
	Authenticated bool
}

// Reset returns the session to the unauthenticated state.
func (s *Session) Reset() {
	s.Authenticated = false
	s.UserID = ""
	s.ID = ""
	s.IssuedAt = time.Time{}
}
