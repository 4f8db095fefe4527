package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/inventario/internal/config"
	"github.com/Skotchmaster/inventario/internal/es"
	"github.com/Skotchmaster/inventario/internal/httpserver"
	"github.com/Skotchmaster/inventario/internal/logging"
	"github.com/Skotchmaster/inventario/internal/mykafka"
	"github.com/Skotchmaster/inventario/internal/repo"
	"github.com/Skotchmaster/inventario/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.New(cfg.LogLevel)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("database error: %v", err)
	}

	producer := mykafka.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	esClient, err := es.NewClient(cfg)
	if err != nil {
		log.Fatalf("elasticsearch error: %v", err)
	}
	if esClient == nil {
		logger.Warn("elasticsearch not configured, product search disabled")
	}

	r := repo.New(db)
	authSvc := service.NewAuthService(r, cfg)
	catalogSvc := service.NewCatalogService(r)
	orderSvc := service.NewOrderService(r)

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.CORS())
	e.Use(logging.Middleware(logger))
	e.HTTPErrorHandler = httpserver.ErrorHandler(logger)

	httpserver.Register(e, &httpserver.Deps{
		Cfg:            cfg,
		AuthHandler:    &httpserver.AuthHandler{Svc: authSvc, Producer: producer},
		ProductHandler: &httpserver.ProductHandler{Svc: catalogSvc, Producer: producer, Indexer: es.NewIndexer(esClient)},
		CompraHandler:  &httpserver.CompraHandler{Svc: orderSvc, Producer: producer},
		SearchHandler:  &httpserver.SearchHandler{ES: esClient, Index: es.ProductIndex},
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.ServerPort)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
