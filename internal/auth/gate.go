// Package auth checks dashboard logins against the fixed staff table and
// carries the resulting session between requests.
package auth

import (
	"crypto/rand"
	"time"

	"github.com/Veraticus/hotelpro/internal/model"
	"github.com/oklog/ulid/v2"
)

// defaultCredentials is the staff login table. Secrets are stored and compared in plain text.
var defaultCredentials = map[string]string{
	"manager": "admin1234",
	"staff":   "hotel5678",
	"taehong": "1111",
}

// Gate authenticates users against a static ID to secret table.
type Gate struct {
	credentials map[string]string
	now         func() time.Time
}

// NewGate creates a gate backed by the built-in staff table.
func NewGate() *Gate {
	return NewGateWithCredentials(defaultCredentials)
}

// NewGateWithCredentials creates a gate backed by the given table.
func NewGateWithCredentials(credentials map[string]string) *Gate {
	table := make(map[string]string, len(credentials))
	for id, secret := range credentials {
		table[id] = secret
	}
	return &Gate{credentials: table, now: time.Now}
}

// Authenticate reports whether id and secret match an entry of the table.
// On success the session is marked authenticated for id; on failure it is left untouched.
//
// The comparison is a plain string equality and is not constant-time.
func (g *Gate) Authenticate(sess *model.Session, id, secret string) bool {
	if sess == nil || id == "" || secret == "" {
		return false
	}

	stored, ok := g.credentials[id]
	if !ok || stored != secret {
		return false
	}

	now := g.now()
	sess.Authenticated = true
	sess.UserID = id
	sess.ID = ulid.MustNew(ulid.Timestamp(now), rand.Reader).String()
	sess.IssuedAt = now
	return true
}

// Logout clears the session.
func (g *Gate) Logout(sess *model.Session) {
	if sess == nil {
		return
	}
	sess.Reset()
}

// Users returns the number of accounts in the table.
func (g *Gate) Users() int {
	return len(g.credentials)
}
