package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/Skotchmaster/inventario/internal/config"
	"github.com/Skotchmaster/inventario/internal/hash"
	"github.com/Skotchmaster/inventario/internal/logging"
	"github.com/Skotchmaster/inventario/internal/models"
	"github.com/Skotchmaster/inventario/internal/repo"
)

// AuthService is the access gate: it owns password hashing, bearer token
// issuance and the user store. Secrets and expiries come from the Config
// handed in at construction, never from the environment.
type AuthService struct {
	Repo       *repo.GormRepo
	JWTSecret  []byte
	TokenTTL   time.Duration
	BcryptCost int
}

func NewAuthService(r *repo.GormRepo, cfg *config.Config) *AuthService {
	return &AuthService{
		Repo:       r,
		JWTSecret:  cfg.JWTSecret,
		TokenTTL:   cfg.TokenTTL,
		BcryptCost: cfg.BcryptCost,
	}
}

type RegisterRequest struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Rol      string `json:"rol"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.Usuario, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if req.Nombre == "" || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: nombre, email and password are required", ErrValidation)
	}
	rol := req.Rol
	if rol == "" {
		rol = models.RolCliente
	}
	if !models.ValidRol(rol) {
		return nil, fmt.Errorf("%w: unknown rol %q", ErrValidation, req.Rol)
	}

	pwHash, err := hash.HashPassword(req.Password, s.BcryptCost)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash password", "error", err)
		return nil, err
	}

	user := models.Usuario{
		Nombre:       req.Nombre,
		Email:        req.Email,
		PasswordHash: pwHash,
		Rol:          rol,
	}
	if err := s.Repo.CreateUsuario(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			l.Warn("register_failed", "status", 409, "reason", "email already registered")
			return nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		l.Error("register_error", "status", 500, "error", err)
		return nil, err
	}

	l.Info("register_success", "user_id", user.ID, "rol", user.Rol)
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.Usuario, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.Repo.GetUsuarioByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown email")
			return "", nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		l.Error("login_error", "status", 500, "error", err)
		return "", nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "password mismatch", "user_id", user.ID)
		return "", nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	token, err := s.CreateToken(user)
	if err != nil {
		l.Error("login_error", "status", 500, "reason", "cannot sign token", "error", err)
		return "", nil, err
	}

	l.Info("login_success", "user_id", user.ID)
	return token, user, nil
}

// CreateToken signs an HS256 bearer token carrying identity and role.
func (s *AuthService) CreateToken(user *models.Usuario) (string, error) {
	exp := time.Now().Add(s.TokenTTL)
	claims := jwt.MapClaims{
		"sub":    user.ID,
		"rol":    user.Rol,
		"nombre": user.Nombre,
		"exp":    exp.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.JWTSecret)
}

func (s *AuthService) GetUsuario(ctx context.Context, id uint) (*models.Usuario, error) {
	user, err := s.Repo.GetUsuarioByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: usuario %d does not exist", ErrNotFound, id)
		}
		return nil, err
	}
	return user, nil
}
