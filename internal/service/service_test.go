package service

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Skotchmaster/inventario/internal/config"
	"github.com/Skotchmaster/inventario/internal/models"
	"github.com/Skotchmaster/inventario/internal/repo"
)

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Usuario{},
		&models.Producto{},
		&models.Compra{},
		&models.CompraDetalle{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:  []byte("test_secret"),
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
}

func newRepo(t *testing.T) *repo.GormRepo {
	return repo.New(initTestDB(t))
}

func createUsuario(t *testing.T, r *repo.GormRepo, email string) *models.Usuario {
	t.Helper()
	user := models.Usuario{
		Nombre:       "test_user",
		Email:        email,
		PasswordHash: "not_a_real_hash",
		Rol:          models.RolCliente,
	}
	require.NoError(t, r.DB.Create(&user).Error)
	return &user
}

func createProducto(t *testing.T, r *repo.GormRepo, nombre string, precio float64, cantidad int) *models.Producto {
	t.Helper()
	prod := models.Producto{
		Lote:         "L-001",
		Nombre:       nombre,
		Precio:       precio,
		Cantidad:     cantidad,
		FechaIngreso: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, r.DB.Create(&prod).Error)
	return &prod
}
