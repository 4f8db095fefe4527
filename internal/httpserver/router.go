package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventario/internal/config"
	"github.com/Skotchmaster/inventario/internal/middleware/auth"
	"github.com/Skotchmaster/inventario/internal/models"
)

type Deps struct {
	Cfg            *config.Config
	AuthHandler    *AuthHandler
	ProductHandler *ProductHandler
	CompraHandler  *CompraHandler
	SearchHandler  *SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	secret := d.Cfg.JWTSecret

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"mensaje": "API Inventario running"})
	})
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", d.AuthHandler.Register)
	authGroup.POST("/login", d.AuthHandler.Login)
	authGroup.GET("/perfil", d.AuthHandler.Perfil, auth.RequireRoles(secret))

	adminOnly := auth.RequireRoles(secret, models.RolAdmin)
	productos := api.Group("/productos", adminOnly)
	productos.POST("", d.ProductHandler.CreateProducto)
	productos.GET("", d.ProductHandler.GetProductos)
	productos.GET("/buscar", d.SearchHandler.Search)
	productos.GET("/:id", d.ProductHandler.GetProducto)
	productos.PUT("/:id", d.ProductHandler.UpdateProducto)
	productos.DELETE("/:id", d.ProductHandler.DeleteProducto)

	anyRole := auth.RequireRoles(secret, models.RolCliente, models.RolAdmin)
	clienteOnly := auth.RequireRoles(secret, models.RolCliente)
	compras := api.Group("/compras")
	compras.POST("", d.CompraHandler.CreateCompra, anyRole)
	compras.GET("", d.CompraHandler.GetCompras, adminOnly)
	compras.GET("/mis-compras", d.CompraHandler.MisCompras, clienteOnly)
	compras.GET("/:id", d.CompraHandler.GetCompra, anyRole)
	compras.GET("/:id/factura", d.CompraHandler.GetFactura, anyRole)
}
