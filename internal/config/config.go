// Package config loads settings from the environment (and .env).
package config

import (
	"crypto/rand"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"mondedesparfum.com/admin/internal/logging"
)

type Config struct {
	Port string
	// MetricsAddr is the private listener for /metrics; empty disables it.
	MetricsAddr string

	APIRoot      string
	AppURL       string
	MediaBaseURL string
	APITimeout   time.Duration
	// UseNext routes gateway calls through the frontend's /api proxy by default.
	UseNext bool

	SessionKey    []byte
	CSRFKey       []byte
	FlashSecret   []byte
	CookieSecure  bool
	SessionDriver string
	SessionTTL    time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	DBDSN         string

	ImageMaxWidth uint
	TrustedOrigin []string

	Log logging.Config
}

const (
	DriverCookie = "cookie"
	DriverRedis  = "redis"
	DriverDB     = "db"
)

// Load reads the environment. Missing secrets are replaced with random
// ones and reported on l, which logs every admin out on restart.
func Load(l *slog.Logger) *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("METRICS_ADDR", "127.0.0.1:9091")
	v.SetDefault("API_TIMEOUT", "30s")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("SESSION_DRIVER", DriverCookie)
	v.SetDefault("SESSION_TTL", "168h")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("IMAGE_MAX_WIDTH", 1200)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_OUTPUT", "stdout")
	v.SetDefault("LOG_FILE", "logs/admin.log")
	v.SetDefault("LOG_MAX_SIZE_MB", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 10)
	v.SetDefault("LOG_MAX_AGE_DAYS", 30)
	v.SetDefault("LOG_COMPRESS", true)

	// the storefront's variable names are accepted as fallbacks
	_ = v.BindEnv("API_ROOT", "API_ROOT", "NEXT_PUBLIC_DEFAULT_API_ROOT")
	_ = v.BindEnv("APP_URL", "APP_URL", "NEXT_PUBLIC_DEFAULT_APP_URL", "DEFAULT_APP_URL")
	_ = v.BindEnv("MEDIA_BASE_URL", "MEDIA_BASE_URL", "NEXT_PUBLIC_BASE_MEDIA_URL", "BASE_MEDIA_URL")

	cfg := &Config{
		Port:          v.GetString("PORT"),
		MetricsAddr:   strings.TrimSpace(v.GetString("METRICS_ADDR")),
		APIRoot:       strings.TrimRight(v.GetString("API_ROOT"), "/"),
		AppURL:        strings.TrimRight(v.GetString("APP_URL"), "/"),
		MediaBaseURL:  strings.TrimRight(v.GetString("MEDIA_BASE_URL"), "/"),
		APITimeout:    v.GetDuration("API_TIMEOUT"),
		UseNext:       v.GetBool("USE_NEXT"),
		CookieSecure:  v.GetBool("COOKIE_SECURE"),
		SessionDriver: strings.ToLower(v.GetString("SESSION_DRIVER")),
		SessionTTL:    v.GetDuration("SESSION_TTL"),
		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),
		DBDSN:         v.GetString("DB_DSN"),
		ImageMaxWidth: v.GetUint("IMAGE_MAX_WIDTH"),
		TrustedOrigin: splitList(v.GetString("TRUSTED_ORIGINS")),
		Log: logging.Config{
			Level:      v.GetString("LOG_LEVEL"),
			Format:     v.GetString("LOG_FORMAT"),
			Output:     v.GetString("LOG_OUTPUT"),
			FilePath:   v.GetString("LOG_FILE"),
			MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
			MaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),
			Compress:   v.GetBool("LOG_COMPRESS"),
		},
	}

	if cfg.APIRoot == "" {
		l.Warn("API_ROOT is not set, backend calls will fail")
	}

	cfg.SessionKey = secret(l, v, "SESSION_KEY")
	cfg.CSRFKey = secret(l, v, "CSRF_KEY")
	cfg.FlashSecret = secret(l, v, "FLASH_SECRET")

	switch cfg.SessionDriver {
	case DriverCookie, DriverRedis, DriverDB:
	default:
		l.Warn("unknown SESSION_DRIVER, falling back to cookie", "driver", cfg.SessionDriver)
		cfg.SessionDriver = DriverCookie
	}
	if cfg.SessionDriver == DriverDB && cfg.DBDSN == "" {
		l.Warn("SESSION_DRIVER=db needs DB_DSN, falling back to cookie")
		cfg.SessionDriver = DriverCookie
	}
	return cfg
}

// secret returns the key as 32 bytes (gorilla/csrf requires exactly 32).
func secret(l *slog.Logger, v *viper.Viper, name string) []byte {
	raw := v.GetString(name)
	if raw == "" {
		l.Warn(name + " is not set, using a random key")
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			panic("config: crypto/rand failed: " + err.Error())
		}
		return b
	}
	b := []byte(raw)
	if len(b) >= 32 {
		return b[:32]
	}
	out := make([]byte, 32)
	for i := range out {
		out[i] = b[i%len(b)]
	}
	l.Warn(name + " is shorter than 32 bytes, it has been stretched")
	return out
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
