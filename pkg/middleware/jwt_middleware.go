package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"roadtrip/pkg/utils"
)

const (
	ContextUserID     = "user_id"
	ContextUserName   = "user_name"
	ContextUserAvatar = "user_avatar"
)

// BearerToken pulls the token out of an "Authorization: Bearer" header.
func BearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return token, token != ""
}

func JWTAuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {

	return func(c *gin.Context) {
		tokenString, ok := BearerToken(c)
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateToken(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		SetIdentity(c, claims)
		c.Next()
	}
}

func SetIdentity(c *gin.Context, claims *utils.Claims) {
	c.Set(ContextUserID, uuid.MustParse(claims.UserID))
	c.Set(ContextUserName, claims.DisplayName)
	c.Set(ContextUserAvatar, claims.Avatar)
}

// CurrentUserID returns the authenticated user set by JWTAuthMiddleware.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
