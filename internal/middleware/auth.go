package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/prepquest/prepquest-backend/internal/response"
)

// ContextKeySubject is the Gin context key for the authenticated subject.
const ContextKeySubject = "subject"

// AnonymousSubject is the identity used when the API runs without an auth
// secret configured.
const AnonymousSubject = "anonymous"

// Auth verifies bearer tokens minted by the external auth service. Token
// issuance and storage live in that service; this API only checks the HMAC
// signature and extracts the subject claim, which keys session ownership and
// results history.
//
// With an empty secret every request passes with the anonymous subject.
func Auth(secret string) gin.HandlerFunc {
	if secret == "" {
		return func(c *gin.Context) {
			c.Set(ContextKeySubject, AnonymousSubject)
			c.Next()
		}
	}

	return func(c *gin.Context) {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		subject, err := validateToken(tokenStr, secret)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		c.Set(ContextKeySubject, subject)
		c.Next()
	}
}

// GetSubject retrieves the authenticated subject from the Gin context.
func GetSubject(c *gin.Context) string {
	val, exists := c.Get(ContextKeySubject)
	if !exists {
		return AnonymousSubject
	}
	subject, ok := val.(string)
	if !ok || subject == "" {
		return AnonymousSubject
	}
	return subject
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}

	// Fallback for WebSocket upgrades, which cannot set headers from the
	// browser client.
	return c.Query("token")
}

func validateToken(tokenStr, secret string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims")
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return subject, nil
}
