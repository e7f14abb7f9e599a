package web

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/Veraticus/hotelpro/internal/auth"
	"github.com/Veraticus/hotelpro/internal/model"
	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// isClientDisconnectError reports errors caused by the browser going away mid-response.
func isClientDisconnectError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errors.Is(opErr.Err, syscall.EPIPE) || errors.Is(opErr.Err, syscall.ECONNRESET) {
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
}

// RequestLogger logs one structured line per request, skipping client disconnects.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			path = path + "?" + c.Request.URL.RawQuery
		}

		c.Next()

		lastError := c.Errors.Last()
		if lastError != nil && isClientDisconnectError(lastError.Err) {
			return
		}

		attrs := []any{
			"status", c.Writer.Status(),
			"method", c.Request.Method,
			"path", path,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if sess := currentSession(c); sess.Authenticated {
			attrs = append(attrs, "user", sess.UserID)
		}
		if lastError != nil {
			attrs = append(attrs, "error", lastError.Error())
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("request", attrs...)
		case lastError != nil:
			logger.Warn("request", attrs...)
		default:
			logger.Info("request", attrs...)
		}
	}
}

// SessionLoader decodes the session cookie into an explicit per-request session.
// Missing or invalid cookies yield an unauthenticated session.
func SessionLoader(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := &model.Session{}
		if raw, err := c.Cookie(auth.CookieName); err == nil && raw != "" {
			if parsed, err := tokens.Parse(raw); err == nil {
				sess = parsed
			}
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

// RequireAuth stops unauthenticated requests: pages redirect to the login form, the API gets 401.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentSession(c).Authenticated {
			c.Next()
			return
		}

		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
	}
}

func currentSession(c *gin.Context) *model.Session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(*model.Session); ok && sess != nil {
			return sess
		}
	}
	return &model.Session{}
}
