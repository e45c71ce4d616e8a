// Package middleware holds the gin middleware chain: authentication,
// request ids, logging, metrics, timeouts and panic recovery.
package middleware

import (
	"strings"

	"github.com/PaulBabatuyi/chatapp-rest/internal/apperr"
	"github.com/PaulBabatuyi/chatapp-rest/internal/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// claimsKey is the gin context key holding verified token claims.
const claimsKey = "auth.claims"

// ErrUnauthenticated is the single answer to every failed token check.
var ErrUnauthenticated = apperr.Auth("Please authenticate")

// TokenVerifier validates a bearer token.
type TokenVerifier interface {
	VerifyToken(token string) (*auth.Claims, error)
}

// ClaimsFromContext returns the claims stored by Authenticate, if present.
func ClaimsFromContext(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// Authenticate rejects requests without a valid "Authorization: Bearer"
// token. The reason is logged at debug level and never sent to the client.
func Authenticate(v TokenVerifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			reject(c, logger, "missing authorization header", nil)
			return
		}

		scheme, token, found := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			reject(c, logger, "malformed authorization header", nil)
			return
		}

		claims, err := v.VerifyToken(token)
		if err != nil {
			reject(c, logger, "invalid token", err)
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

func reject(c *gin.Context, logger *zap.Logger, reason string, err error) {
	logger.Debug("authentication failed",
		zap.String("reason", reason),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	c.AbortWithStatusJSON(ErrUnauthenticated.Kind.HTTPStatus(), gin.H{"message": ErrUnauthenticated.Message})
}
