package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/workbench-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.App.StorageDriver)
	assert.True(t, cfg.Workbench.Login)
	assert.Equal(t, 30*time.Second, cfg.BusinessLogic.Timeout)
	assert.Equal(t, "workbench-1", cfg.MQTT.ClientID)
	assert.Equal(t, "0.0.0.0:5000", cfg.HTTP.Addr())
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("WORKBENCH_NUMBER", "7")
	t.Setenv("WORKBENCH_LOGIN", "false")
	t.Setenv("PRINTER_ENABLE", "true")
	t.Setenv("BUSINESS_LOGIC_TIMEOUT", "5")
	t.Setenv("SCHEMA_CACHE_TTL", "90s")
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Workbench.Number)
	assert.False(t, cfg.Workbench.Login)
	assert.True(t, cfg.Printer.Enable)
	assert.Equal(t, 5*time.Second, cfg.BusinessLogic.Timeout)
	assert.Equal(t, 90*time.Second, cfg.Cache.SchemaTTL)
	assert.Equal(t, "memory", cfg.App.StorageDriver)
	assert.Equal(t, "workbench-7", cfg.MQTT.ClientID)
}

func TestLoad_DriverInvalido(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss/1", DBName: "wb", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss%2F1@db:5432/wb?sslmode=disable", c.ConnectionString())
}
