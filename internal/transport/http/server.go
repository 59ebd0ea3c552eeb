package http

import (
	"fmt"
	"log"
	stdhttp "net/http"

	"github.com/rawa7/hightech/internal/config"
	"github.com/rawa7/hightech/internal/database"
	"github.com/rawa7/hightech/internal/handler"
	"github.com/rawa7/hightech/internal/repository"
)

func Run() error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Connect to Database
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// 3. Wire handlers and routes
	tokenRepo := repository.NewDeviceTokenRepository(db)
	tokenHandler := handler.NewTokenHandler(tokenRepo)

	router := NewRouter(RouterConfig{
		TokenHandler:  tokenHandler,
		AllowedOrigin: cfg.AllowedOrigin,
	})

	log.Printf("Starting server on :%s", cfg.ServerPort)
	return stdhttp.ListenAndServe(":"+cfg.ServerPort, router)
}
