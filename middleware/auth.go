package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"food-marketplace-api/config"
	"food-marketplace-api/models"
	"food-marketplace-api/scopes"
)

// Claims deliberately carry identity only. Roles and scopes are resolved
// from role assignments on every request, so a revocation takes effect on
// the next call — a token minted before the revocation grants nothing.
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed JWT for a given user.
func GenerateToken(user *models.User) (string, error) {
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(config.JWTSecret)
}

// AuthRequired validates the JWT, checks the account is still active, and
// resolves the caller's effective scopes for this request. Credential
// failures are 401; they are never reported as authorization failures.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated: authorization header required (Bearer <token>)"})
			c.Abort()
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			return config.JWTSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated: invalid or expired token"})
			c.Abort()
			return
		}

		var user models.User
		if err := config.DB.First(&user, claims.UserID).Error; err != nil || !user.IsActive {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated: account unknown or deactivated"})
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("scopes", scopes.Resolve(config.DB, claims.UserID))
		c.Next()
	}
}

// RoleRequired enforces that the caller holds one of the given role codes.
// Global admins pass every gate.
func RoleRequired(roleCodes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := GetScopes(c)
		if s.IsGlobalAdmin || s.HasRole(roleCodes...) {
			c.Next()
			return
		}
		c.JSON(http.StatusForbidden, gin.H{
			"error": "access denied. Required role(s): " + strings.Join(roleCodes, ", "),
		})
		c.Abort()
	}
}

// GetUserID extracts the caller's user id from context.
func GetUserID(c *gin.Context) uint {
	val, _ := c.Get("userID")
	return val.(uint)
}

// GetScopes extracts the caller's resolved scopes from context.
func GetScopes(c *gin.Context) scopes.EffectiveScopes {
	val, exists := c.Get("scopes")
	if !exists {
		return scopes.Empty(0)
	}
	return val.(scopes.EffectiveScopes)
}
