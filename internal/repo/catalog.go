package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/inventario/internal/models"
)

func (r *GormRepo) GetProducto(ctx context.Context, id uint) (*models.Producto, error) {
	var prod models.Producto
	if err := r.DB.WithContext(ctx).First(&prod, id).Error; err != nil {
		return nil, err
	}
	return &prod, nil
}

func (r *GormRepo) GetProductos(ctx context.Context, offset, limit int) (int64, []models.Producto, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Producto{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Producto
	if err := r.DB.WithContext(ctx).Model(&models.Producto{}).
		Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) CreateProducto(ctx context.Context, prod *models.Producto) error {
	return r.DB.WithContext(ctx).Create(prod).Error
}

func (r *GormRepo) SaveProducto(ctx context.Context, prod *models.Producto) error {
	return r.DB.WithContext(ctx).Save(prod).Error
}

// CountDetallesForProducto reports how many purchase lines reference the
// product. Deletion is blocked while this is non-zero.
func (r *GormRepo) CountDetallesForProducto(ctx context.Context, id uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.CompraDetalle{}).
		Where("producto_id = ?", id).Count(&n).Error
	return n, err
}

func (r *GormRepo) DeleteProducto(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Producto{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
