package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	commonmw "github.com/rigforge/configurator/common/middleware"
)

// UserHeader carries the caller's identity
const UserHeader = "X-User-ID"

// ExtractUserID stores the X-User-ID header in the request context.
// Anonymous callers pass through; handlers that need an owner call
// RequireUserID.
//
// Usage:
//
//	api := e.Group("/api/v1", middleware.ExtractUserID())
//	userID := middleware.GetUserID(c)
func ExtractUserID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if userID := strings.TrimSpace(c.Request().Header.Get(UserHeader)); userID != "" {
				c.Set(commonmw.UserIDKey, userID)
			}
			return next(c)
		}
	}
}

// GetUserID retrieves the user id from the request context.
// Returns empty string if not set.
func GetUserID(c echo.Context) string {
	userID, _ := c.Get(commonmw.UserIDKey).(string)
	return userID
}

// RequireUserID ensures a user id exists in context.
// Writes a 401 response when it does not.
func RequireUserID(c echo.Context) (string, error) {
	userID := GetUserID(c)
	if userID == "" {
		err := c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"error": "authentication required (X-User-ID header missing)",
		})
		return "", err
	}
	return userID, nil
}
