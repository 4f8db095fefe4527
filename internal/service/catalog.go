package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/inventario/internal/models"
	"github.com/Skotchmaster/inventario/internal/repo"
)

type CatalogService struct {
	Repo *repo.GormRepo
}

func NewCatalogService(r *repo.GormRepo) *CatalogService {
	return &CatalogService{Repo: r}
}

type CreateProductoRequest struct {
	Lote         string
	Nombre       string
	Precio       float64
	Cantidad     int
	FechaIngreso time.Time
}

type UpdateProductoRequest struct {
	Lote         *string
	Nombre       *string
	Precio       *float64
	Cantidad     *int
	FechaIngreso *time.Time
}

func (s *CatalogService) GetProducto(ctx context.Context, id uint) (*models.Producto, error) {
	prod, err := s.Repo.GetProducto(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: producto %d does not exist", ErrNotFound, id)
		}
		return nil, err
	}
	return prod, nil
}

func (s *CatalogService) GetProductos(ctx context.Context, offset, limit int) (int64, []models.Producto, error) {
	return s.Repo.GetProductos(ctx, offset, limit)
}

func (s *CatalogService) CreateProducto(ctx context.Context, req CreateProductoRequest) (*models.Producto, error) {
	if req.Lote == "" || req.Nombre == "" {
		return nil, fmt.Errorf("%w: lote and nombre are required", ErrValidation)
	}
	if req.Precio <= 0 {
		return nil, fmt.Errorf("%w: precio must be > 0", ErrValidation)
	}
	if req.Cantidad < 0 {
		return nil, fmt.Errorf("%w: cantidad must be >= 0", ErrValidation)
	}
	if req.FechaIngreso.IsZero() {
		return nil, fmt.Errorf("%w: fechaIngreso is required", ErrValidation)
	}

	prod := models.Producto{
		Lote:         req.Lote,
		Nombre:       req.Nombre,
		Precio:       req.Precio,
		Cantidad:     req.Cantidad,
		FechaIngreso: req.FechaIngreso,
	}
	if err := s.Repo.CreateProducto(ctx, &prod); err != nil {
		return nil, err
	}
	return &prod, nil
}

func (s *CatalogService) UpdateProducto(ctx context.Context, id uint, req UpdateProductoRequest) (*models.Producto, error) {
	prod, err := s.Repo.GetProducto(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: producto %d does not exist", ErrNotFound, id)
		}
		return nil, err
	}

	if req.Lote != nil {
		if *req.Lote == "" {
			return nil, fmt.Errorf("%w: lote cannot be empty", ErrValidation)
		}
		prod.Lote = *req.Lote
	}
	if req.Nombre != nil {
		if *req.Nombre == "" {
			return nil, fmt.Errorf("%w: nombre cannot be empty", ErrValidation)
		}
		prod.Nombre = *req.Nombre
	}
	if req.Precio != nil {
		if *req.Precio <= 0 {
			return nil, fmt.Errorf("%w: precio must be > 0", ErrValidation)
		}
		prod.Precio = *req.Precio
	}
	if req.Cantidad != nil {
		if *req.Cantidad < 0 {
			return nil, fmt.Errorf("%w: cantidad must be >= 0", ErrValidation)
		}
		prod.Cantidad = *req.Cantidad
	}
	if req.FechaIngreso != nil {
		prod.FechaIngreso = *req.FechaIngreso
	}

	if err := s.Repo.SaveProducto(ctx, prod); err != nil {
		return nil, err
	}
	return prod, nil
}

// DeleteProducto refuses to remove a product that purchase history still
// references, so ledger rows never point at a missing product.
func (s *CatalogService) DeleteProducto(ctx context.Context, id uint) error {
	refs, err := s.Repo.CountDetallesForProducto(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return fmt.Errorf("%w: producto %d has registered purchases", ErrConflict, id)
	}

	if err := s.Repo.DeleteProducto(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: producto %d does not exist", ErrNotFound, id)
		}
		return err
	}
	return nil
}
