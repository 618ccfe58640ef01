package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestor-inventario/pkg/config"
)

func TestPoolConfig_Defaults(t *testing.T) {
	cfg, err := poolConfig(config.DBConfig{DatabaseURL: "postgres://u:p@localhost:5432/inv?sslmode=disable"})
	require.NoError(t, err)
	assert.Equal(t, int32(defaultMaxConns), cfg.MaxConns)
	assert.Equal(t, int32(1), cfg.MinConns)
	assert.Equal(t, time.Hour, cfg.MaxConnLifetime)
	assert.NotNil(t, cfg.AfterConnect)
	assert.Equal(t, "inv", cfg.ConnConfig.Database)
}

func TestPoolConfig_DesdeCampos(t *testing.T) {
	cfg, err := poolConfig(config.DBConfig{
		Host: "db", Port: 6543, User: "app", Password: "p@ss", DBName: "inventario",
		SSLMode: "disable", MaxConns: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, int32(4), cfg.MaxConns)
	assert.Equal(t, "db", cfg.ConnConfig.Host)
	assert.Equal(t, uint16(6543), cfg.ConnConfig.Port)
	assert.Equal(t, "p@ss", cfg.ConnConfig.Password)
}

func TestPoolConfig_DSNInvalido(t *testing.T) {
	_, err := poolConfig(config.DBConfig{DatabaseURL: "postgres://%zz"})
	require.Error(t, err)
}

func TestResolveIPv4_Literales(t *testing.T) {
	ip, err := resolveIPv4(context.Background(), "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", ip)

	_, err = resolveIPv4(context.Background(), "::1")
	assert.Error(t, err)
}
