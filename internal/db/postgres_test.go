package db

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/coursemate/backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Database.Host = "127.0.0.1"
	cfg.Database.Port = "1"
	cfg.Database.User = "postgres"
	cfg.Database.Password = "postgres"
	cfg.Database.DBName = "coursemate"
	cfg.Database.SSLMode = "disable"
	cfg.Database.MaxOpenConns = 8
	cfg.Database.MaxIdleConns = 2
	cfg.Database.ConnMaxLifetime = "30m"
	cfg.Database.ConnectRetryInterval = "10ms"
	return cfg
}

func TestPoolConfig(t *testing.T) {
	poolConfig, err := PoolConfig(testConfig())
	require.NoError(t, err)

	assert.Equal(t, int32(8), poolConfig.MaxConns)
	assert.Equal(t, int32(2), poolConfig.MinConns)
	assert.Equal(t, 30*time.Minute, poolConfig.MaxConnLifetime)
	assert.Equal(t, "coursemate", poolConfig.ConnConfig.Database)
	assert.NotNil(t, poolConfig.BeforeAcquire)
}

func TestNewPostgresDB_GivesUpAfterMaxAttempts(t *testing.T) {
	cfg := testConfig()
	cfg.Database.ConnectMaxAttempts = 2

	start := time.Now()
	_, err := NewPostgresDB(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
	assert.Less(t, time.Since(start), 25*time.Second)
}

func TestNewPostgresDB_StopsOnCancel(t *testing.T) {
	cfg := testConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := NewPostgresDB(ctx, cfg)
	assert.Error(t, err)
}

func TestRollbackFailedKeepsBothErrors(t *testing.T) {
	errSeed := errors.New("seed users failed")
	errConn := errors.New("conn closed")

	err := rollbackFailed(fmt.Errorf("insert: %w", errSeed), errConn)
	assert.ErrorIs(t, err, errSeed)
	assert.ErrorIs(t, err, errConn)
	assert.Contains(t, err.Error(), "rollback failed: conn closed")
}
