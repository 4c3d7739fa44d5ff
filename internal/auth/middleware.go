package auth

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const contextUserIDKey = "auth_user_id"

// Middleware проверяет заголовок Authorization и кладет uuid пользователя
// в контекст запроса. Все приватные группы роутов висят за ним.
func Middleware(manager *TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get("Authorization"))
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or malformed authorization header")
			}

			claims, err := manager.VerifyAccess(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
			}

			c.Set(contextUserIDKey, userID)
			return next(c)
		}
	}
}

// UserIDFromContext извлекает идентификатор пользователя, сохраненный Middleware.
func UserIDFromContext(c echo.Context) (uuid.UUID, bool) {
	userID, ok := c.Get(contextUserIDKey).(uuid.UUID)
	return userID, ok
}

func bearerToken(header string) (string, bool) {
	const prefix = "bearer "

	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
