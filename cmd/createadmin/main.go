package main

import (
	"context"
	"log"
	"os"

	"github.com/Skotchmaster/inventario/internal/config"
	"github.com/Skotchmaster/inventario/internal/models"
	"github.com/Skotchmaster/inventario/internal/repo"
	"github.com/Skotchmaster/inventario/internal/service"
)

// Seeds the first admin account. Email and password come from
// ADMIN_EMAIL / ADMIN_PASSWORD with local-only defaults.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("database error: %v", err)
	}

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@local"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	svc := service.NewAuthService(repo.New(db), cfg)
	user, err := svc.Register(context.Background(), service.RegisterRequest{
		Nombre:   "Admin",
		Email:    email,
		Password: password,
		Rol:      models.RolAdmin,
	})
	if err != nil {
		log.Fatalf("cannot create admin: %v", err)
	}

	log.Printf("admin created with id %d", user.ID)
}
