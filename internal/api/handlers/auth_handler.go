package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"auction-marketplace/internal/api/middleware"
	"auction-marketplace/internal/services"
	"auction-marketplace/pkg/logger"
)

type AuthHandler struct {
	auth *services.AuthService
	log  logger.Logger
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewAuthHandler(auth *services.AuthService, log logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	user, err := h.auth.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]string{
		"user_id": user.ID,
		"email":   user.Email,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	session, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, map[string]string{"session_id": session.ID})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	cookie, err := c.Cookie(middleware.SessionCookie)
	if err == nil && cookie.Value != "" {
		if err := h.auth.Logout(c.Request().Context(), cookie.Value); err != nil {
			h.log.Error("Failed to delete session", "error", err)
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) Me(c echo.Context) error {
	user := middleware.UserFrom(c)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"user_id":  user.ID,
		"email":    user.Email,
		"is_admin": user.IsAdmin,
	})
}
