package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"phonestore/internal/auth"
	"phonestore/internal/brand"
	"phonestore/internal/commons"
	"phonestore/internal/config"
	"phonestore/internal/infrastructure/logger"
	"phonestore/internal/infrastructure/mysql"
	"phonestore/internal/order"
	"phonestore/internal/phone"
	"phonestore/internal/server"
	"phonestore/internal/user"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	tokens := auth.NewManager(cfg.JWT.Secret, cfg.JWT.TokenTTL)

	brandRepo := brand.NewMySQLRepository(db)
	phoneRepo := phone.NewMySQLRepository(db)
	userRepo := user.NewMySQLRepository(db)

	orderModule := order.NewModule(db, userRepo, cfg, zapLogger)

	controllers := server.Controllers{
		Brands:     brand.NewModule(db, phoneRepo, zapLogger),
		Phones:     phone.NewModule(db, brandRepo, zapLogger),
		Users:      user.NewModule(db, orderModule.Service, tokens, zapLogger),
		Orders:     orderModule.Orders,
		OrderItems: orderModule.OrderItems,
	}

	router := server.NewRouter(controllers, tokens, zapLogger)

	srv := server.New(cfg.Server, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	if err := srv.Shutdown(context.Background()); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}

// loadConfig reads a yaml file when CONFIG_FILE is set and falls back to
// environment variables otherwise.
func loadConfig() (*config.Config, error) {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return commons.LoadConfig(path)
	}
	return config.Load()
}
