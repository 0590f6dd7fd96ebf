package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"produce-market/internal/domain"
	resp "produce-market/internal/transport/http/response"
)

const (
	keyUser     = "user"
	CookieToken = "token"
)

// Authenticator turns a raw token into the user it was issued for.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// Auth requires a valid token from the token cookie or an
// "Authorization: Bearer" header and stores the resolved user.
func Auth(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := TokenFrom(c)
		if tok == "" {
			resp.Abort(c, resp.CodeUnauthorized, "Unauthorized")
			return
		}
		u, err := a.Authenticate(c.Request.Context(), tok)
		if err != nil {
			msg := "Invalid token"
			if domain.KindOf(err) == domain.ErrUnauthorized {
				msg = err.Error()
			} else {
				_ = c.Error(err)
			}
			resp.Abort(c, resp.CodeUnauthorized, msg)
			return
		}
		c.Set(keyUser, u)
		c.Next()
	}
}

// OptionalAuth stores the user when a valid token is present and otherwise
// lets the request through anonymously.
func OptionalAuth(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok := TokenFrom(c); tok != "" {
			if u, err := a.Authenticate(c.Request.Context(), tok); err == nil {
				c.Set(keyUser, u)
			}
		}
		c.Next()
	}
}

// TokenFrom prefers the cookie over the header.
func TokenFrom(c *gin.Context) string {
	if v, err := c.Cookie(CookieToken); err == nil && v != "" {
		return v
	}
	ah := c.GetHeader("Authorization")
	if len(ah) > 7 && strings.EqualFold(ah[:7], "Bearer ") {
		return strings.TrimSpace(ah[7:])
	}
	return ""
}

// CurrentUser is nil for anonymous requests.
func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(keyUser)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}
