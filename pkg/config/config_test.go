package config_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/medtrack/pkg/config"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8081/api", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 60*time.Second, cfg.API.StripTimeout)
	assert.Equal(t, "http://localhost:8081", cfg.API.HostPrefix)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, 8081, cfg.HTTP.Port)
	assert.NotEmpty(t, cfg.Client.SessionDir)
}

func TestFromViper_EnvSobrescribe(t *testing.T) {
	v := viper.New()
	v.Set("API_BASE_URL", "https://api.example.test/api/")
	v.Set("API_TIMEOUT_SECONDS", "10")
	v.Set("STRIP_TIMEOUT_SECONDS", 90)
	v.Set("DOWNLOAD_HOST_PREFIX", "https://files.example.test/")

	cfg, err := config.FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.test/api", cfg.API.BaseURL, "la barra final se elimina")
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, 90*time.Second, cfg.API.StripTimeout)
	assert.Equal(t, "https://files.example.test", cfg.API.HostPrefix)
}

func TestFromViper_StripTimeoutNuncaMenorQueDefault(t *testing.T) {
	v := viper.New()
	v.Set("API_TIMEOUT_SECONDS", 45)
	v.Set("STRIP_TIMEOUT_SECONDS", 5)

	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.API.StripTimeout)
}

func TestFromViper_DriverInvalido(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "sqlite")

	_, err := config.FromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "med", Password: "p@ss:word", DBName: "medtrack", SSLMode: "disable"}
	assert.Equal(t, "postgres://med:p%40ss%3Aword@db:5432/medtrack?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://override"
	assert.Equal(t, "postgres://override", c.ConnectionString())
}
