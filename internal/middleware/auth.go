package middleware

import (
	"strings"

	"skillup_backend/internal/auth"
	"skillup_backend/internal/logger"
	"skillup_backend/internal/models"
	"skillup_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

const (
	UserIDKey      = "userID"
	AccountTypeKey = "accountType"
	EmailKey       = "email"
)

// AuthMiddleware - middleware проверки JWT
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := tokens.Parse(tokenStr)
		if err != nil {
			logger.CtxWarn(c.Request.Context(), "Rejected token", "error", err.Error())
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			return
		}

		// Сохраняем claims в контекст
		c.Set(UserIDKey, claims.UserID)
		c.Set(AccountTypeKey, models.AccountType(claims.AccountType))
		c.Set(EmailKey, claims.Email)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

// RequirePermission - пропускает только типы аккаунтов, которым выдано разрешение
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		val, exists := c.Get(AccountTypeKey)
		if !exists {
			apperrors.HandleError(c, apperrors.NewForbiddenError("Access denied: no account type"))
			return
		}

		accountType, ok := val.(models.AccountType)
		if !ok {
			apperrors.HandleError(c, apperrors.NewForbiddenError("Access denied: invalid account type"))
			return
		}

		if !auth.HasPermission(accountType, permission) {
			logger.CtxWarn(c.Request.Context(), "Permission denied", "permission", permission, "account_type", accountType)
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			return
		}

		c.Next()
	}
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return ""
	}

	id, ok := userID.(string)
	if !ok {
		return ""
	}

	return id
}
