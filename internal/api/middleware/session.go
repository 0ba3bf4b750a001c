package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"auction-marketplace/internal/domain"
	"auction-marketplace/internal/services"
)

// SessionCookie is the opaque session id cookie set on login.
const SessionCookie = "auction_session"

const userContextKey = "session_user"

// ResolveSession attaches the caller's identity to the request context when
// a valid session cookie is present. Requests without one pass through
// anonymously.
func ResolveSession(auth *services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return next(c)
			}
			user, err := auth.ResolveSession(c.Request().Context(), cookie.Value)
			if err != nil {
				// Expired or unknown session: treat as anonymous.
				return next(c)
			}
			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// RequireUser rejects anonymous requests.
func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if UserFrom(c) == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			}
			return next(c)
		}
	}
}

// UserFrom returns the resolved caller, or nil for anonymous requests.
func UserFrom(c echo.Context) *domain.SessionUser {
	user, _ := c.Get(userContextKey).(*domain.SessionUser)
	return user
}
