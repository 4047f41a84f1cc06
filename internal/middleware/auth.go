package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	apperrors "github.com/pinmapa/pinmapa-backend/internal/errors"
	"github.com/pinmapa/pinmapa-backend/internal/token"
	"github.com/sirupsen/logrus"
)

const identityKey = "identity"

// HeaderReader is the single capability the hosting layer must provide for
// credential extraction. gin requests satisfy it through ginHeaders.
type HeaderReader interface {
	Get(name string) string
}

type ginHeaders struct {
	c *gin.Context
}

func (g ginHeaders) Get(name string) string {
	return g.c.GetHeader(name)
}

var bearerPattern = regexp.MustCompile(`Bearer\s(\S+)`)

// ExtractToken looks for a bearer credential in priority order: the
// X-Auth-Token header carries the raw token (some hosting setups strip
// Authorization), then the standard Authorization header with a Bearer
// prefix. Returns "" when neither yields one.
func ExtractToken(h HeaderReader) string {
	if t := strings.TrimSpace(h.Get("X-Auth-Token")); t != "" {
		return t
	}
	if match := bearerPattern.FindStringSubmatch(strings.TrimSpace(h.Get("Authorization"))); match != nil {
		return match[1]
	}
	return ""
}

// RequireAuth rejects the request unless it carries a valid token.
// The two rejection bodies differ on purpose: a missing token points at a
// client integration bug, while an invalid one gets no further explanation.
func RequireAuth(manager *token.Manager, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := ExtractToken(ginHeaders{c})
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrMissingToken.Message})
			return
		}

		claims, err := manager.Verify(tokenStr)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"component": "auth_middleware",
				"path":      c.Request.URL.Path,
				"reason":    apperrors.ErrInvalidToken.Code,
			}).WithError(err).Warn("rejected bearer token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrInvalidToken.Message})
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuth installs the identity when a valid token is present and lets
// anonymous or badly-credentialed requests through untouched.
func OptionalAuth(manager *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr := ExtractToken(ginHeaders{c}); tokenStr != "" {
			if claims, err := manager.Verify(tokenStr); err == nil {
				setIdentity(c, claims)
			}
		}
		c.Next()
	}
}

func setIdentity(c *gin.Context, claims *token.Claims) {
	c.Set(identityKey, claims)
	c.Set("user_id", claims.UserID)
	c.Set("username", claims.Username)
	c.Set("email", claims.Email)
}

// CurrentIdentity returns the verified claims installed by RequireAuth or
// OptionalAuth. Downstream handlers must trust it as-is, never re-verify.
func CurrentIdentity(c *gin.Context) (*token.Claims, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*token.Claims)
	return claims, ok
}
