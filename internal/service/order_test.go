package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/inventario/internal/models"
)

func countRows(t *testing.T, svc *OrderService, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, svc.Repo.DB.Model(model).Count(&n).Error)
	return n
}

func stockOf(t *testing.T, svc *OrderService, id uint) int {
	t.Helper()
	var prod models.Producto
	require.NoError(t, svc.Repo.DB.First(&prod, id).Error)
	return prod.Cantidad
}

func TestCreateCompraComputesTotals(t *testing.T) {
	r := newRepo(t)
	svc := NewOrderService(r)

	u := createUsuario(t, r, "cliente@example.com")
	a := createProducto(t, r, "teclado", 10.0, 5)
	b := createProducto(t, r, "mouse", 2.5, 10)

	compra, err := svc.CreateCompra(context.Background(), u.ID, []CompraLine{
		{ProductoID: a.ID, Cantidad: 3},
		{ProductoID: b.ID, Cantidad: 4},
	})
	require.NoError(t, err)
	require.Len(t, compra.Detalles, 2)
	require.Equal(t, 40.0, compra.Total)

	var sum float64
	for _, d := range compra.Detalles {
		require.Equal(t, float64(d.Cantidad)*d.PrecioUnitario, d.Subtotal)
		sum += d.Subtotal
	}
	require.Equal(t, compra.Total, sum)

	require.Equal(t, 2, stockOf(t, svc, a.ID))
	require.Equal(t, 6, stockOf(t, svc, b.ID))
}

func TestCreateCompraValidation(t *testing.T) {
	svc := NewOrderService(newRepo(t))
	ctx := context.Background()

	_, err := svc.CreateCompra(ctx, 1, nil)
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateCompra(ctx, 1, []CompraLine{{ProductoID: 0, Cantidad: 1}})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateCompra(ctx, 1, []CompraLine{{ProductoID: 1, Cantidad: 0}})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateCompra(ctx, 1, []CompraLine{{ProductoID: 1, Cantidad: -2}})
	require.ErrorIs(t, err, ErrValidation)
}

func TestCreateCompraMissingProductRollsBack(t *testing.T) {
	r := newRepo(t)
	svc := NewOrderService(r)

	u := createUsuario(t, r, "cliente@example.com")
	a := createProducto(t, r, "teclado", 10.0, 5)

	_, err := svc.CreateCompra(context.Background(), u.ID, []CompraLine{
		{ProductoID: a.ID, Cantidad: 2},
		{ProductoID: 999, Cantidad: 1},
	})
	require.ErrorIs(t, err, ErrNotFound)

	require.EqualValues(t, 0, countRows(t, svc, &models.Compra{}))
	require.EqualValues(t, 0, countRows(t, svc, &models.CompraDetalle{}))
	require.Equal(t, 5, stockOf(t, svc, a.ID))
}

func TestCreateCompraInsufficientStockRollsBack(t *testing.T) {
	r := newRepo(t)
	svc := NewOrderService(r)

	u := createUsuario(t, r, "cliente@example.com")
	a := createProducto(t, r, "teclado", 10.0, 5)
	b := createProducto(t, r, "mouse", 2.5, 1)

	// The first line is satisfiable on its own; the short second line
	// must still leave nothing behind.
	_, err := svc.CreateCompra(context.Background(), u.ID, []CompraLine{
		{ProductoID: a.ID, Cantidad: 2},
		{ProductoID: b.ID, Cantidad: 3},
	})
	require.ErrorIs(t, err, ErrInsufficientStock)

	require.EqualValues(t, 0, countRows(t, svc, &models.Compra{}))
	require.EqualValues(t, 0, countRows(t, svc, &models.CompraDetalle{}))
	require.Equal(t, 5, stockOf(t, svc, a.ID))
	require.Equal(t, 1, stockOf(t, svc, b.ID))
}

func TestCreateCompraCompetingOrders(t *testing.T) {
	r := newRepo(t)
	svc := NewOrderService(r)

	u1 := createUsuario(t, r, "primero@example.com")
	u2 := createUsuario(t, r, "segundo@example.com")
	a := createProducto(t, r, "teclado", 10.0, 5)

	first, err := svc.CreateCompra(context.Background(), u1.ID, []CompraLine{{ProductoID: a.ID, Cantidad: 3}})
	require.NoError(t, err)
	require.Equal(t, 30.0, first.Total)
	require.Equal(t, 2, stockOf(t, svc, a.ID))

	_, err = svc.CreateCompra(context.Background(), u2.ID, []CompraLine{{ProductoID: a.ID, Cantidad: 3}})
	require.ErrorIs(t, err, ErrInsufficientStock)

	require.Equal(t, 2, stockOf(t, svc, a.ID))
	require.EqualValues(t, 1, countRows(t, svc, &models.Compra{}))
}

func TestCreateCompraDuplicateLinesCannotOversell(t *testing.T) {
	r := newRepo(t)
	svc := NewOrderService(r)

	u := createUsuario(t, r, "cliente@example.com")
	a := createProducto(t, r, "teclado", 10.0, 5)

	// Each line passes the read check against the same snapshot, but the
	// guarded decrement catches the combined oversell and rolls back.
	_, err := svc.CreateCompra(context.Background(), u.ID, []CompraLine{
		{ProductoID: a.ID, Cantidad: 3},
		{ProductoID: a.ID, Cantidad: 3},
	})
	require.ErrorIs(t, err, ErrInsufficientStock)

	require.Equal(t, 5, stockOf(t, svc, a.ID))
	require.EqualValues(t, 0, countRows(t, svc, &models.Compra{}))
	require.EqualValues(t, 0, countRows(t, svc, &models.CompraDetalle{}))
}

func TestCompraKeepsPriceSnapshot(t *testing.T) {
	r := newRepo(t)
	svc := NewOrderService(r)

	u := createUsuario(t, r, "cliente@example.com")
	a := createProducto(t, r, "teclado", 10.0, 5)

	compra, err := svc.CreateCompra(context.Background(), u.ID, []CompraLine{{ProductoID: a.ID, Cantidad: 2}})
	require.NoError(t, err)

	require.NoError(t, r.DB.Model(&models.Producto{}).Where("id = ?", a.ID).Update("precio", 99.0).Error)

	got, err := svc.GetCompra(context.Background(), compra.ID, u.ID, models.RolCliente)
	require.NoError(t, err)
	require.Equal(t, 20.0, got.Total)
	require.Len(t, got.Detalles, 1)
	require.Equal(t, 10.0, got.Detalles[0].PrecioUnitario)
	require.Equal(t, 20.0, got.Detalles[0].Subtotal)
}

func TestGetCompraOwnership(t *testing.T) {
	r := newRepo(t)
	svc := NewOrderService(r)

	owner := createUsuario(t, r, "owner@example.com")
	otro := createUsuario(t, r, "otro@example.com")
	a := createProducto(t, r, "teclado", 10.0, 5)
	compra, err := svc.CreateCompra(context.Background(), owner.ID, []CompraLine{{ProductoID: a.ID, Cantidad: 1}})
	require.NoError(t, err)

	_, err = svc.GetCompra(context.Background(), compra.ID, otro.ID, models.RolCliente)
	require.ErrorIs(t, err, ErrForbidden)

	got, err := svc.GetCompra(context.Background(), compra.ID, otro.ID, models.RolAdmin)
	require.NoError(t, err)
	require.Equal(t, compra.ID, got.ID)

	_, err = svc.GetCompra(context.Background(), 999, owner.ID, models.RolAdmin)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetFacturaProjection(t *testing.T) {
	r := newRepo(t)
	svc := NewOrderService(r)

	u := createUsuario(t, r, "cliente@example.com")
	a := createProducto(t, r, "teclado", 10.0, 5)
	compra, err := svc.CreateCompra(context.Background(), u.ID, []CompraLine{{ProductoID: a.ID, Cantidad: 2}})
	require.NoError(t, err)

	factura, err := svc.GetFactura(context.Background(), compra.ID, u.ID, models.RolCliente)
	require.NoError(t, err)
	require.Equal(t, compra.ID, factura.CompraID)
	require.Equal(t, 20.0, factura.Total)
	require.Len(t, factura.Productos, 1)
	require.Equal(t, "teclado", factura.Productos[0].Nombre)
	require.Equal(t, 2, factura.Productos[0].Cantidad)
	require.Equal(t, 10.0, factura.Productos[0].PrecioUnitario)
	require.Equal(t, 20.0, factura.Productos[0].Subtotal)
}

func TestListComprasByUsuario(t *testing.T) {
	r := newRepo(t)
	svc := NewOrderService(r)

	u1 := createUsuario(t, r, "primero@example.com")
	u2 := createUsuario(t, r, "segundo@example.com")
	a := createProducto(t, r, "teclado", 10.0, 50)

	_, err := svc.CreateCompra(context.Background(), u1.ID, []CompraLine{{ProductoID: a.ID, Cantidad: 1}})
	require.NoError(t, err)
	_, err = svc.CreateCompra(context.Background(), u2.ID, []CompraLine{{ProductoID: a.ID, Cantidad: 2}})
	require.NoError(t, err)

	mine, err := svc.ListComprasByUsuario(context.Background(), u1.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, u1.ID, mine[0].UsuarioID)

	all, err := svc.ListCompras(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
}
