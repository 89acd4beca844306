package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

// UserIDKey is the gin context key controllers read the caller identity from.
const UserIDKey = "userID"

// UserID returns the authenticated caller id set by AuthRequired.
func UserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// AuthRequired verifies the bearer token issued by the identity provider and
// injects its subject as the caller's user id. The token must be HS256-signed
// with the shared secret, unexpired and carry a non-empty subject. Identity
// lifecycle itself (sign-up, sessions) lives entirely with the provider.
func AuthRequired(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}

		claims := &jwt.StandardClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c, "invalid or expired token")
			return
		}
		if claims.Subject == "" {
			abortUnauthorized(c, "token has no subject")
			return
		}

		c.Set(UserIDKey, claims.Subject)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":    "UNAUTHENTICATED",
		"message": message,
	})
}
