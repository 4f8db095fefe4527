package repo

import (
	"context"

	"github.com/Skotchmaster/inventario/internal/models"
)

func (r *GormRepo) GetCompra(ctx context.Context, id uint) (*models.Compra, error) {
	var compra models.Compra
	if err := r.DB.WithContext(ctx).
		Preload("Usuario").
		Preload("Detalles").
		First(&compra, id).Error; err != nil {
		return nil, err
	}
	return &compra, nil
}

func (r *GormRepo) ListCompras(ctx context.Context) ([]models.Compra, error) {
	var compras []models.Compra
	if err := r.DB.WithContext(ctx).
		Preload("Usuario").
		Preload("Detalles").
		Order("fecha DESC").
		Find(&compras).Error; err != nil {
		return nil, err
	}
	return compras, nil
}

func (r *GormRepo) ListComprasByUsuario(ctx context.Context, usuarioID uint) ([]models.Compra, error) {
	var compras []models.Compra
	if err := r.DB.WithContext(ctx).
		Where("usuario_id = ?", usuarioID).
		Preload("Detalles").
		Order("fecha DESC").
		Find(&compras).Error; err != nil {
		return nil, err
	}
	return compras, nil
}
