package middleware

import (
	"net/http"
	"strings"

	"austech/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	ClaimsKey = "claims"
)

// JWTClaims are the claims this service reads from the access token. Tokens
// are issued by the identity service; only the user id is used, to stamp
// usuario_id on afilados and batches.
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// JWTAuth validates the Bearer token on every protected route.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token invalido o expirado"))
			return
		}
		if _, err := uuid.Parse(claims.UserID); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token sin usuario valido"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// GetClaims is a helper to retrieve typed claims from the Gin context.
func GetClaims(c *gin.Context) *JWTClaims {
	claims, _ := c.MustGet(ClaimsKey).(*JWTClaims)
	return claims
}

// UsuarioID returns the authenticated user id; JWTAuth already validated it.
func UsuarioID(c *gin.Context) uuid.UUID {
	claims, ok := c.Get(ClaimsKey)
	if !ok {
		return uuid.Nil
	}
	id, _ := uuid.Parse(claims.(*JWTClaims).UserID)
	return id
}

// NewToken signs an HS256 token for userID. Used by cmd/seed and tests.
func NewToken(secret, userID, username string, claims jwt.RegisteredClaims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{
		UserID:           userID,
		Username:         username,
		RegisteredClaims: claims,
	})
	return t.SignedString([]byte(secret))
}
