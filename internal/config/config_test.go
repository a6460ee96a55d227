package config

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_ROOT", "https://api.example.com/api/")

	cfg := Load(quiet())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "127.0.0.1:9091", cfg.MetricsAddr)
	assert.Equal(t, "https://api.example.com/api", cfg.APIRoot)
	assert.Equal(t, 30*time.Second, cfg.APITimeout)
	assert.Equal(t, DriverCookie, cfg.SessionDriver)
	assert.Len(t, cfg.SessionKey, 32)
	assert.Len(t, cfg.CSRFKey, 32)
	assert.Equal(t, uint(1200), cfg.ImageMaxWidth)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadLegacyNames(t *testing.T) {
	t.Setenv("NEXT_PUBLIC_DEFAULT_API_ROOT", "https://legacy.example.com/api")
	t.Setenv("BASE_MEDIA_URL", "https://media.example.com")

	cfg := Load(quiet())
	assert.Equal(t, "https://legacy.example.com/api", cfg.APIRoot)
	assert.Equal(t, "https://media.example.com", cfg.MediaBaseURL)
}

func TestLoadStretchesShortSecret(t *testing.T) {
	t.Setenv("CSRF_KEY", "short")
	cfg := Load(quiet())
	assert.Len(t, cfg.CSRFKey, 32)
	assert.Equal(t, "shortshort", string(cfg.CSRFKey[:10]))
}

func TestLoadDBDriverWithoutDSNFallsBack(t *testing.T) {
	t.Setenv("SESSION_DRIVER", "db")
	t.Setenv("DB_DSN", "")
	assert.Equal(t, DriverCookie, Load(quiet()).SessionDriver)
}

func TestLoadTrustedOrigins(t *testing.T) {
	t.Setenv("TRUSTED_ORIGINS", "admin.example.com, shop.example.com ,")
	assert.Equal(t, []string{"admin.example.com", "shop.example.com"}, Load(quiet()).TrustedOrigin)
}
