package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apperrors "github.com/vellalasercare/storefront-gateway/internal/errors"
	"github.com/vellalasercare/storefront-gateway/pkg/logger"
)

const (
	SessionHeader = "X-Cart-Session"
	SessionIDKey  = "session_id"
)

// SessionMiddleware resolves the visitor's cart session from the
// X-Cart-Session header (or the session query parameter for websocket
// upgrades). A missing id starts a new session; the id in use is always
// echoed back in the response header.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		raw := c.GetHeader(SessionHeader)
		if raw == "" {
			raw = c.Query("session")
		}

		var sessionID string
		if raw == "" {
			sessionID = uuid.NewString()
			log.Debug("Starting new cart session", map[string]interface{}{
				"session_id": sessionID,
			})
		} else {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				log.Warn("Invalid session id", map[string]interface{}{
					"path": c.Request.URL.Path,
				})
				apperrors.BadRequest(c, apperrors.SessionInvalid, "Invalid cart session")
				c.Abort()
				return
			}
			sessionID = parsed.String()
		}

		c.Set(SessionIDKey, sessionID)
		c.Header(SessionHeader, sessionID)
		c.Set("logger", log.WithContext(logger.Fields{"session_id": sessionID}))

		c.Next()
	}
}

// GetSessionID extracts the cart session id from context
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}
