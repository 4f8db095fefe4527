package repo

import (
	"context"
	"errors"

	"github.com/Skotchmaster/inventario/internal/models"
)

var ErrEmailTaken = errors.New("email already registered")

// CreateUsuario inserts the user unless the email is already taken.
func (r *GormRepo) CreateUsuario(ctx context.Context, u *models.Usuario) error {
	tx := r.DB.WithContext(ctx).Where("email = ?", u.Email).FirstOrCreate(u)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrEmailTaken
	}
	return nil
}

func (r *GormRepo) GetUsuarioByEmail(ctx context.Context, email string) (*models.Usuario, error) {
	var user models.Usuario
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUsuarioByID(ctx context.Context, id uint) (*models.Usuario, error) {
	var user models.Usuario
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
