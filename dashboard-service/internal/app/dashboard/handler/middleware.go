package handler

import (
	"net/http"
	"strings"

	"revulink/dashboard-service/internal/app/dashboard/entity"
	"revulink/dashboard-service/internal/app/dashboard/util"
	"revulink/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const scopeContextKey = "scope"

// JWTClaims - ожидаемые claims токена внешнего провайдера аутентификации
type JWTClaims struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

type AuthMiddleware struct {
	jwtSecret string
	cache     util.CacheClient
}

func NewAuthMiddleware(jwtSecret string, cache util.CacheClient) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
		cache:     cache,
	}
}

// Authenticate проверяет JWT и кладет в контекст Scope запроса.
// Для администратора с активной имперсонацией Scope содержит
// пользователя, от имени которого выполняются операции.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		token, err := jwt.ParseWithClaims(parts[1], &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(m.jwtSecret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(*JWTClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user id in token"})
			c.Abort()
			return
		}

		scope := entity.Scope{
			UserID:  userID,
			IsAdmin: claims.IsAdmin,
		}

		// Имперсонация хранится на сервере и применяется только к админам.
		// Недоступность Redis не блокирует запрос: админ работает от себя.
		if claims.IsAdmin {
			targetID, err := m.cache.GetImpersonation(c.Request.Context(), userID)
			if err != nil {
				logger.Warn().Err(err).Str("admin_id", userID.String()).Msg("Failed to resolve impersonation")
			} else {
				scope.ImpersonatedUserID = targetID
			}
		}

		c.Set(scopeContextKey, scope)
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)

		c.Next()
	}
}

// RequireAdmin пропускает только администраторов
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := GetScope(c)
		if !scope.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetScope извлекает Scope запроса из контекста Gin
func GetScope(c *gin.Context) entity.Scope {
	value, exists := c.Get(scopeContextKey)
	if !exists {
		return entity.Scope{}
	}
	scope, ok := value.(entity.Scope)
	if !ok {
		return entity.Scope{}
	}
	return scope
}
