package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventario/internal/es"
	"github.com/Skotchmaster/inventario/internal/logging"
	"github.com/Skotchmaster/inventario/internal/models"
	"github.com/Skotchmaster/inventario/internal/mykafka"
	"github.com/Skotchmaster/inventario/internal/service"
	"github.com/Skotchmaster/inventario/internal/util"
)

const fechaLayout = "2006-01-02"

type ProductHandler struct {
	Svc      *service.CatalogService
	Producer *mykafka.Producer
	Indexer  *es.Indexer
}

type productoRequest struct {
	Lote         *string  `json:"lote"`
	Nombre       *string  `json:"nombre"`
	Precio       *float64 `json:"precio"`
	Cantidad     *int     `json:"cantidad"`
	FechaIngreso *string  `json:"fechaIngreso"`
}

func (h *ProductHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "producto_events", fmt.Sprint(event["productoID"]), event); err != nil {
		c.Logger().Errorf("kafka publish error: %v", err)
	}
}

func (h *ProductHandler) index(c echo.Context, prod *models.Producto) {
	ctx := c.Request().Context()
	if err := h.Indexer.IndexProducto(ctx, prod); err != nil {
		logging.FromContext(ctx).Error("es_index_failed", "producto_id", prod.ID, "error", err)
	}
}

func paramID(c echo.Context) (uint, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

func parseFecha(s string) (time.Time, error) {
	if t, err := time.Parse(fechaLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func (h *ProductHandler) GetProducto(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	prod, err := h.Svc.GetProducto(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHandler) GetProductos(c echo.Context) error {
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.GetProductos(c.Request().Context(), offset, limit)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *ProductHandler) CreateProducto(c echo.Context) error {
	var req productoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Lote == nil || req.Nombre == nil || req.Precio == nil || req.Cantidad == nil || req.FechaIngreso == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "lote, nombre, precio, cantidad and fechaIngreso are required")
	}
	fecha, err := parseFecha(*req.FechaIngreso)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "fechaIngreso must be an ISO date")
	}

	prod, err := h.Svc.CreateProducto(c.Request().Context(), service.CreateProductoRequest{
		Lote:         *req.Lote,
		Nombre:       *req.Nombre,
		Precio:       *req.Precio,
		Cantidad:     *req.Cantidad,
		FechaIngreso: fecha,
	})
	if err != nil {
		return httpError(err)
	}

	h.index(c, prod)
	h.publish(c, map[string]any{
		"type":       "producto_creado",
		"productoID": prod.ID,
		"nombre":     prod.Nombre,
	})

	return c.JSON(http.StatusCreated, echo.Map{"mensaje": "producto created", "producto": prod})
}

func (h *ProductHandler) UpdateProducto(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var req productoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	upd := service.UpdateProductoRequest{
		Lote:     req.Lote,
		Nombre:   req.Nombre,
		Precio:   req.Precio,
		Cantidad: req.Cantidad,
	}
	if req.FechaIngreso != nil {
		fecha, err := parseFecha(*req.FechaIngreso)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "fechaIngreso must be an ISO date")
		}
		upd.FechaIngreso = &fecha
	}

	prod, err := h.Svc.UpdateProducto(c.Request().Context(), id, upd)
	if err != nil {
		return httpError(err)
	}

	h.index(c, prod)
	h.publish(c, map[string]any{
		"type":       "producto_actualizado",
		"productoID": prod.ID,
		"nombre":     prod.Nombre,
	})

	return c.JSON(http.StatusOK, echo.Map{"mensaje": "producto updated", "producto": prod})
}

func (h *ProductHandler) DeleteProducto(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteProducto(c.Request().Context(), id); err != nil {
		return httpError(err)
	}

	if err := h.Indexer.DeleteProducto(c.Request().Context(), id); err != nil {
		logging.FromContext(c.Request().Context()).Error("es_delete_failed", "producto_id", id, "error", err)
	}
	h.publish(c, map[string]any{
		"type":       "producto_eliminado",
		"productoID": id,
	})

	return c.JSON(http.StatusOK, echo.Map{"mensaje": "producto deleted"})
}
