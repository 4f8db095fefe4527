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

type CompraHandler struct {
	Svc      *service.OrderService
	Producer *mykafka.Producer
}

func (h *CompraHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "compra_events", fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("kafka publish error: %v", err)
	}
}

func (h *CompraHandler) CreateCompra(c echo.Context) error {
	var req struct {
		Productos []service.CompraLine `json:"productos"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	userID := auth.UserID(c)
	compra, err := h.Svc.CreateCompra(c.Request().Context(), userID, req.Productos)
	if err != nil {
		return httpError(err)
	}

	h.publish(c, map[string]any{
		"type":     "compra_creada",
		"userID":   userID,
		"compraID": compra.ID,
		"total":    compra.Total,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"mensaje":  "compra registered successfully",
		"compraId": compra.ID,
		"total":    compra.Total,
	})
}

func (h *CompraHandler) GetCompras(c echo.Context) error {
	compras, err := h.Svc.ListCompras(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, compras)
}

func (h *CompraHandler) MisCompras(c echo.Context) error {
	compras, err := h.Svc.ListComprasByUsuario(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, compras)
}

func (h *CompraHandler) GetCompra(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	compra, err := h.Svc.GetCompra(c.Request().Context(), id, auth.UserID(c), auth.Rol(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, compra)
}

func (h *CompraHandler) GetFactura(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	factura, err := h.Svc.GetFactura(c.Request().Context(), id, auth.UserID(c), auth.Rol(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, factura)
}
