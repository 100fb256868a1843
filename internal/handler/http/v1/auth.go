package v1

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/oreoregeo/internal/config"
	"github.com/sirupsen/logrus"
)

// extractAPIKey читает ключ из X-API-Key или Authorization: Bearer
func extractAPIKey(c *gin.Context) string {
	if apiKey := c.GetHeader("X-API-Key"); apiKey != "" {
		return apiKey
	}
	if token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok {
		return token
	}
	return ""
}

// validAPIKey сравнивает ключ со всеми настроенными за постоянное время
func validAPIKey(apiKey string, keys []string) bool {
	valid := 0
	for _, key := range keys {
		if key == "" {
			continue
		}
		valid |= subtle.ConstantTimeCompare([]byte(key), []byte(apiKey))
	}
	return valid == 1
}

// keyFingerprint - короткий отпечаток ключа для логов
func keyFingerprint(apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(sum[:4])
}

// APIKeyAuthMiddleware - middleware для аутентификации по API-ключу
func APIKeyAuthMiddleware(cfg *config.Config, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := extractAPIKey(c)
		if apiKey == "" {
			log.WithField("path", c.FullPath()).Warn("API key missing from request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API key required"})
			return
		}

		if !validAPIKey(apiKey, cfg.APIKeys) {
			log.WithFields(logrus.Fields{
				"path":            c.FullPath(),
				"key_fingerprint": keyFingerprint(apiKey),
			}).Warn("Invalid API key provided")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			return
		}

		c.Next()
	}
}
