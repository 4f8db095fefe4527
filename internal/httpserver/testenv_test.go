package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Skotchmaster/inventario/internal/config"
	"github.com/Skotchmaster/inventario/internal/middleware/auth"
	"github.com/Skotchmaster/inventario/internal/models"
	"github.com/Skotchmaster/inventario/internal/mykafka"
	"github.com/Skotchmaster/inventario/internal/repo"
	"github.com/Skotchmaster/inventario/internal/service"
)

type testEnv struct {
	T       *testing.T
	E       *echo.Echo
	DB      *gorm.DB
	Cfg     *config.Config
	AuthSvc *service.AuthService
	A       *AuthHandler
	P       *ProductHandler
	C       *CompraHandler
}

func newTestEnv(t *testing.T) *testEnv {
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

	cfg := &config.Config{
		JWTSecret:  []byte("test_secret"),
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	}

	r := repo.New(db)
	producer := mykafka.NewProducer(nil)
	authSvc := service.NewAuthService(r, cfg)

	return &testEnv{
		T:       t,
		E:       echo.New(),
		DB:      db,
		Cfg:     cfg,
		AuthSvc: authSvc,
		A:       &AuthHandler{Svc: authSvc, Producer: producer},
		P:       &ProductHandler{Svc: service.NewCatalogService(r), Producer: producer},
		C:       &CompraHandler{Svc: service.NewOrderService(r), Producer: producer},
	}
}

func (env *testEnv) doJSONRequest(method, path string, body any) (*httptest.ResponseRecorder, echo.Context) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(env.T, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

// asUser mimics what the auth middleware sets after verifying a token.
func asUser(c echo.Context, u *models.Usuario) {
	c.Set(auth.CtxUserID, u.ID)
	c.Set(auth.CtxRol, u.Rol)
	c.Set(auth.CtxNombre, u.Nombre)
}

func (env *testEnv) createUsuario(rol, email string) *models.Usuario {
	env.T.Helper()
	user, err := env.AuthSvc.Register(context.Background(), service.RegisterRequest{
		Nombre:   "test_user",
		Email:    email,
		Password: "password",
		Rol:      rol,
	})
	require.NoError(env.T, err)
	return user
}

func (env *testEnv) createProducto(nombre string, precio float64, cantidad int) *models.Producto {
	env.T.Helper()
	prod := models.Producto{
		Lote:         "L-001",
		Nombre:       nombre,
		Precio:       precio,
		Cantidad:     cantidad,
		FechaIngreso: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(env.T, env.DB.Create(&prod).Error)
	return &prod
}

func (env *testEnv) tokenFor(u *models.Usuario) string {
	env.T.Helper()
	token, err := env.AuthSvc.CreateToken(u)
	require.NoError(env.T, err)
	return token
}

func idPath(prefix string, id uint) string {
	return fmt.Sprintf("%s/%d", prefix, id)
}

func jsonUnmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
