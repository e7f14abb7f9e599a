package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/hotelpro/internal/model"
	"github.com/golang-jwt/jwt/v4"
)

// CookieName is the name of the session cookie.
const CookieName = "hotelpro_session"

const tokenType = "dashboard_session"

// ErrInvalidToken is returned when a session token cannot be trusted.
var ErrInvalidToken = errors.New("invalid session token")

// Tokens signs authenticated sessions into HS256 JWTs and reads them back.
type Tokens struct {
	now    func() time.Time
	secret []byte
	ttl    time.Duration
}

// NewTokens creates a token codec. A zero ttl defaults to 12 hours.
func NewTokens(secret string, ttl time.Duration) (*Tokens, error) {
	if secret == "" {
		return nil, fmt.Errorf("session secret must not be empty")
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// TTL returns how long issued tokens stay valid.
func (t *Tokens) TTL() time.Duration {
	return t.ttl
}

// Issue encodes an authenticated session.
func (t *Tokens) Issue(sess *model.Session) (string, error) {
	if sess == nil || !sess.Authenticated || sess.UserID == "" {
		return "", fmt.Errorf("cannot issue token for unauthenticated session")
	}

	issued := sess.IssuedAt
	if issued.IsZero() {
		issued = t.now()
	}

	claims := jwt.MapClaims{
		"sub":  sess.UserID,
		"jti":  sess.ID,
		"type": tokenType,
		"iat":  issued.UTC().Unix(),
		"exp":  issued.UTC().Add(t.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse validates a token and returns the session it carries.
func (t *Tokens) Parse(tokenString string) (*model.Session, error) {
	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}

	claims := jwt.MapClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return t.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if typ, _ := claims["type"].(string); typ != tokenType {
		return nil, fmt.Errorf("%w: unexpected token type", ErrInvalidToken)
	}
	user, _ := claims["sub"].(string)
	if user == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	id, _ := claims["jti"].(string)

	sess := &model.Session{
		Authenticated: true,
		UserID:        user,
		ID:            id,
	}
	if iat, ok := claims["iat"].(float64); ok {
		sess.IssuedAt = time.Unix(int64(iat), 0).UTC()
	}
	return sess, nil
}
