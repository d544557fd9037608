package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	cfg := fromViper(viper.New())

	assert.Equal(t, "pedidos-api", cfg.App.Name)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpiryHours)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.Empty(t, cfg.CORS.AllowedMethods)
	assert.Equal(t, 5, cfg.LoginLimit.Requests)
	assert.Equal(t, "lru", cfg.Cache.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "fs", cfg.Storage.Driver)
	assert.Equal(t, 15*time.Minute, cfg.S3.PresignExpiry)
	assert.Equal(t, "https://wa.me/", cfg.Receipt.ShareBaseURL)
	assert.Empty(t, cfg.Receipt.Contact)
	assert.Equal(t, "admin", cfg.Admin.Username)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	v.Set("DB_DRIVER", "Memory")
	v.Set("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	v.Set("CACHE_DRIVER", "REDIS")
	v.Set("RECEIPT_CONTACT", "Tel 555 | ig @pedidos")
	v.Set("APP_ENV", "production")

	cfg := fromViper(v)

	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "redis", cfg.Cache.Driver)
	assert.Equal(t, []string{"Tel 555", "ig @pedidos"}, cfg.Receipt.Contact)
	assert.True(t, cfg.App.IsProduction())
}

func TestDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: "5432", Name: "pedidos", User: "u", Password: "p", SSLMode: "disable", Timezone: "UTC"}

	assert.Equal(t, "host=db user=u password=p dbname=pedidos port=5432 sslmode=disable TimeZone=UTC", c.DSN())
}
