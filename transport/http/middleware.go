package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bookvault/bookvault/core"
	"github.com/bookvault/bookvault/ports"
)

// Keys under which the middleware exposes the verified identity to
// downstream handlers.
const (
	ContextUserIDKey   = "auth.userID"
	ContextUsernameKey = "auth.username"
)

// AccessCookieName and RefreshCookieName are the cookie halves of the token
// transport; both tokens also travel in response bodies for non-browser
// clients.
const (
	AccessCookieName  = "access_token"
	RefreshCookieName = "refresh_token"
)

// AuthMiddleware creates middleware that validates access tokens from the
// access cookie or the Authorization header. Verification is fully
// stateless; the credential store is never consulted here.
func AuthMiddleware(tokenizer ports.Tokenizer, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractAccessToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
			return
		}

		identity, err := tokenizer.VerifyAccessToken(token)
		if err != nil {
			// All verification failures are 401 to the client, but the
			// subtypes are logged distinctly
			switch {
			case errors.Is(err, core.ErrTokenExpired):
				logger.Debug("rejected expired access token", "path", c.FullPath())
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
			case errors.Is(err, core.ErrWrongTokenKind):
				logger.Warn("rejected token of wrong kind", "path", c.FullPath())
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			default:
				logger.Debug("rejected malformed or forged access token", "path", c.FullPath())
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			}
			return
		}

		c.Set(ContextUserIDKey, identity.UserID)
		c.Set(ContextUsernameKey, identity.Username)

		c.Next()
	}
}

func extractAccessToken(c *gin.Context) (string, error) {
	if cookie, err := c.Cookie(AccessCookieName); err == nil && cookie != "" {
		return cookie, nil
	}

	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer "), nil
	}
	return "", core.ErrNoToken
}
