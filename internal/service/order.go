package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/inventario/internal/logging"
	"github.com/Skotchmaster/inventario/internal/models"
	"github.com/Skotchmaster/inventario/internal/repo"
)

// OrderService commits purchases. The whole check-and-decrement sequence
// runs in a single transaction: any missing product, any short line or any
// write failure rolls everything back, so no partial purchase is ever
// visible and stock never goes negative.
type OrderService struct {
	Repo *repo.GormRepo
}

func NewOrderService(r *repo.GormRepo) *OrderService {
	return &OrderService{Repo: r}
}

type CompraLine struct {
	ProductoID uint `json:"productoId"`
	Cantidad   int  `json:"cantidad"`
}

func (s *OrderService) CreateCompra(ctx context.Context, usuarioID uint, lines []CompraLine) (*models.Compra, error) {
	l := logging.FromContext(ctx).With("svc", "order.create_compra", "user_id", usuarioID)

	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: productos is required and must not be empty", ErrValidation)
	}
	for _, ln := range lines {
		if ln.ProductoID == 0 {
			return nil, fmt.Errorf("%w: productoId is required", ErrValidation)
		}
		if ln.Cantidad <= 0 {
			return nil, fmt.Errorf("%w: cantidad must be > 0", ErrValidation)
		}
	}

	var compra models.Compra
	txErr := s.Repo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var total float64
		detalles := make([]models.CompraDetalle, 0, len(lines))

		for _, ln := range lines {
			var prod models.Producto
			if err := tx.First(&prod, ln.ProductoID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: producto %d does not exist", ErrNotFound, ln.ProductoID)
				}
				return err
			}

			if ln.Cantidad > prod.Cantidad {
				return fmt.Errorf("%w: %s (available %d, requested %d)",
					ErrInsufficientStock, prod.Nombre, prod.Cantidad, ln.Cantidad)
			}

			// Price snapshot: the line keeps the price read here even if
			// an admin edits the product mid-checkout.
			subtotal := prod.Precio * float64(ln.Cantidad)
			total += subtotal
			detalles = append(detalles, models.CompraDetalle{
				ProductoID:     prod.ID,
				NombreProducto: prod.Nombre,
				Lote:           prod.Lote,
				Cantidad:       ln.Cantidad,
				PrecioUnitario: prod.Precio,
				Subtotal:       subtotal,
			})
		}

		compra = models.Compra{
			UsuarioID: usuarioID,
			Fecha:     time.Now(),
			Total:     total,
		}
		if err := tx.Create(&compra).Error; err != nil {
			return err
		}

		for i := range detalles {
			detalles[i].CompraID = compra.ID
		}
		if err := tx.Create(&detalles).Error; err != nil {
			return err
		}

		// Guarded decrement: the row is only touched while enough stock
		// remains, so a competing transaction cannot drive it negative.
		// RowsAffected == 0 means someone else won the race.
		for _, ln := range lines {
			res := tx.Model(&models.Producto{}).
				Where("id = ? AND cantidad >= ?", ln.ProductoID, ln.Cantidad).
				UpdateColumn("cantidad", gorm.Expr("cantidad - ?", ln.Cantidad))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: producto %d was oversold concurrently",
					ErrInsufficientStock, ln.ProductoID)
			}
		}

		compra.Detalles = detalles
		return nil
	})
	if txErr != nil {
		l.Warn("compra_rejected", "reason", txErr.Error())
		return nil, txErr
	}

	l.Info("compra_created", "compra_id", compra.ID, "total", compra.Total, "lines", len(compra.Detalles))
	return &compra, nil
}

func (s *OrderService) ListCompras(ctx context.Context) ([]models.Compra, error) {
	return s.Repo.ListCompras(ctx)
}

func (s *OrderService) ListComprasByUsuario(ctx context.Context, usuarioID uint) ([]models.Compra, error) {
	return s.Repo.ListComprasByUsuario(ctx, usuarioID)
}

// GetCompra enforces ownership: clientes only see their own purchases,
// admins see everything.
func (s *OrderService) GetCompra(ctx context.Context, id, requesterID uint, requesterRol string) (*models.Compra, error) {
	compra, err := s.Repo.GetCompra(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: compra %d does not exist", ErrNotFound, id)
		}
		return nil, err
	}
	if requesterRol == models.RolCliente && compra.UsuarioID != requesterID {
		return nil, fmt.Errorf("%w: compra %d belongs to another user", ErrForbidden, id)
	}
	return compra, nil
}

// Factura is the flat invoice projection of a committed purchase.
type Factura struct {
	CompraID  uint            `json:"compraId"`
	Fecha     time.Time       `json:"fecha"`
	Cliente   *models.Usuario `json:"cliente,omitempty"`
	Productos []FacturaLinea  `json:"productos"`
	Total     float64         `json:"total"`
}

type FacturaLinea struct {
	ProductoID     uint    `json:"productoId"`
	Nombre         string  `json:"nombre"`
	Cantidad       int     `json:"cantidad"`
	PrecioUnitario float64 `json:"precioUnitario"`
	Subtotal       float64 `json:"subtotal"`
}

func (s *OrderService) GetFactura(ctx context.Context, id, requesterID uint, requesterRol string) (*Factura, error) {
	compra, err := s.GetCompra(ctx, id, requesterID, requesterRol)
	if err != nil {
		return nil, err
	}

	lineas := make([]FacturaLinea, len(compra.Detalles))
	for i, d := range compra.Detalles {
		lineas[i] = FacturaLinea{
			ProductoID:     d.ProductoID,
			Nombre:         d.NombreProducto,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       d.Subtotal,
		}
	}
	return &Factura{
		CompraID:  compra.ID,
		Fecha:     compra.Fecha,
		Cliente:   compra.Usuario,
		Productos: lineas,
		Total:     compra.Total,
	}, nil
}
