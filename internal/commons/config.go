package commons

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"phonestore/internal/config"
)

// fileConfig mirrors config.Config with string durations, which is what a
// yaml file actually contains.
type fileConfig struct {
	Server struct {
		Port            int    `yaml:"port"`
		ReadTimeout     string `yaml:"readTimeout"`
		WriteTimeout    string `yaml:"writeTimeout"`
		ShutdownTimeout string `yaml:"shutdownTimeout"`
	} `yaml:"server"`
	Database struct {
		Host            string `yaml:"host"`
		Port            int    `yaml:"port"`
		User            string `yaml:"user"`
		Password        string `yaml:"password"`
		Name            string `yaml:"name"`
		MaxOpenConns    int    `yaml:"maxOpenConns"`
		MaxIdleConns    int    `yaml:"maxIdleConns"`
		ConnMaxLifetime string `yaml:"connMaxLifetime"`
	} `yaml:"database"`
	Order struct {
		ReservationTxTimeout string `yaml:"reservationTxTimeout"`
		MaxRetryAttempts     int    `yaml:"maxRetryAttempts"`
	} `yaml:"order"`
	JWT struct {
		Secret   string `yaml:"secret"`
		TokenTTL string `yaml:"tokenTtl"`
	} `yaml:"jwt"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

func LoadConfig(path string) (*config.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	readTimeout, err := parseDuration(fc.Server.ReadTimeout, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("server.readTimeout: %w", err)
	}
	writeTimeout, err := parseDuration(fc.Server.WriteTimeout, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("server.writeTimeout: %w", err)
	}
	shutdownTimeout, err := parseDuration(fc.Server.ShutdownTimeout, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("server.shutdownTimeout: %w", err)
	}
	connMaxLifetime, err := parseDuration(fc.Database.ConnMaxLifetime, 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("database.connMaxLifetime: %w", err)
	}
	txTimeout, err := parseDuration(fc.Order.ReservationTxTimeout, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("order.reservationTxTimeout: %w", err)
	}
	tokenTTL, err := parseDuration(fc.JWT.TokenTTL, 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("jwt.tokenTtl: %w", err)
	}

	return &config.Config{
		Server: config.ServerConfig{
			Port:            fc.Server.Port,
			ReadTimeout:     readTimeout,
			WriteTimeout:    writeTimeout,
			ShutdownTimeout: shutdownTimeout,
		},
		Database: config.DatabaseConfig{
			Host:            fc.Database.Host,
			Port:            fc.Database.Port,
			User:            fc.Database.User,
			Password:        fc.Database.Password,
			Name:            fc.Database.Name,
			MaxOpenConns:    fc.Database.MaxOpenConns,
			MaxIdleConns:    fc.Database.MaxIdleConns,
			ConnMaxLifetime: connMaxLifetime,
		},
		Order: config.OrderConfig{
			ReservationTxTimeout: txTimeout,
			MaxRetryAttempts:     fc.Order.MaxRetryAttempts,
		},
		JWT: config.JWTConfig{
			Secret:   fc.JWT.Secret,
			TokenTTL: tokenTTL,
		},
		Log: config.LogConfig{
			Level: fc.Log.Level,
		},
	}, nil
}

func parseDuration(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	return time.ParseDuration(s)
}
