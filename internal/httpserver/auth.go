package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventario/internal/middleware/auth"
	"github.com/Skotchmaster/inventario/internal/mykafka"
	"github.com/Skotchmaster/inventario/internal/service"
)

type AuthHandler struct {
	Svc      *service.AuthService
	Producer *mykafka.Producer
}

func (h *AuthHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "usuario_events", fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("kafka publish error: %v", err)
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req service.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := h.Svc.Register(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}

	h.publish(c, map[string]any{
		"type":   "usuario_registrado",
		"userID": user.ID,
		"email":  user.Email,
		"rol":    user.Rol,
	})

	return c.JSON(http.StatusCreated, echo.Map{"usuario": user})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	token, user, err := h.Svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"mensaje": "login successful",
		"token":   token,
		"usuario": user,
	})
}

func (h *AuthHandler) Perfil(c echo.Context) error {
	user, err := h.Svc.GetUsuario(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"usuario": user})
}
