package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"phonestore/internal/config"
)

func TestNew_AppliesConfiguredTimeouts(t *testing.T) {
	cfg := config.ServerConfig{
		Port:            9090,
		ReadTimeout:     2 * time.Second,
		WriteTimeout:    3 * time.Second,
		ShutdownTimeout: 4 * time.Second,
	}

	srv := New(cfg, nil, zap.NewNop())

	assert.Equal(t, ":9090", srv.httpServer.Addr)
	assert.Equal(t, 2*time.Second, srv.httpServer.ReadTimeout)
	assert.Equal(t, 3*time.Second, srv.httpServer.WriteTimeout)
	assert.Equal(t, 6*time.Second, srv.httpServer.IdleTimeout)
	assert.Equal(t, 4*time.Second, srv.shutdownTimeout)
}
