package config

import (
	"fmt"
	"time"

	"github.com/gotify/configor"
)

type Config struct {
	App struct {
		Host      string `default:"" env:"APP_HOST"`
		Port      int    `default:"8080" env:"APP_PORT"`
		GinMode   string `default:"debug" env:"GIN_MODE"`
		WebRoot   string `default:"web/dist" env:"APP_WEB_ROOT"`
		TimeZone  string `default:"Local" env:"APP_TIME_ZONE"`
		PublicURL string `default:"http://localhost:8080" env:"APP_PUBLIC_URL"`
		LogLevel  string `default:"info" env:"LOG_LEVEL"`
		LogFormat string `default:"text" env:"LOG_FORMAT"`
	}
	Database struct {
		Driver         string `default:"postgres" env:"DB_DRIVER"`
		Host           string `default:"localhost" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		User           string `default:"staff" env:"DB_USER"`
		Password       string `default:"staff" env:"DB_PASSWORD"`
		Name           string `default:"staff_management" env:"DB_NAME"`
		SQLitePath     string `default:"staff.db" env:"DB_SQLITE_PATH"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
	}
	Session struct {
		Store         string `default:"gorm" env:"SESSION_STORE"`
		Name          string `default:"staff_session" env:"SESSION_NAME"`
		Secret        string `default:"default-secret-key-change-me" env:"SESSION_SECRET"`
		MaxAgeDays    int    `default:"7" env:"SESSION_MAX_AGE_DAYS"`
		RedisHost     string `default:"localhost" env:"REDIS_HOST"`
		RedisPort     string `default:"6379" env:"REDIS_PORT"`
		RedisPassword string `default:"" env:"REDIS_PASSWORD"`
	}
	Smtp struct {
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"587" env:"SMTP_PORT"`
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		From       string `default:"" env:"SMTP_FROM"`
		TLSEnabled *bool  `default:"false" env:"SMTP_TLS_ENABLED"`
	}
	Storage struct {
		Driver      string `default:"local" env:"STORAGE_DRIVER"`
		UploadDir   string `default:"uploads" env:"STORAGE_UPLOAD_DIR"`
		MaxUploadMB int64  `default:"10" env:"STORAGE_MAX_UPLOAD_MB"`
		Endpoint    string `default:"" env:"S3_ENDPOINT"`
		AccessKeyID string `default:"" env:"S3_ACCESS_KEY_ID"`
		SecretKey   string `default:"" env:"S3_SECRET_ACCESS_KEY"`
		BucketName  string `default:"staff-media" env:"S3_BUCKET_NAME"`
		UseSSL      *bool  `default:"false" env:"S3_USE_SSL"`
	}
	Admin struct {
		Username string `default:"" env:"ADMIN_USERNAME"`
		Password string `default:"" env:"ADMIN_PASSWORD"`
		Email    string `default:"" env:"ADMIN_EMAIL"`
		Name     string `default:"Administrator" env:"ADMIN_NAME"`
	}
	OpenAI struct {
		APIKey string `default:"" env:"OPENAI_API_KEY"`
		Model  string `default:"gpt-4o" env:"OPENAI_MODEL"`
	}
	Outbox struct {
		Workers   int `default:"2" env:"OUTBOX_WORKERS"`
		QueueSize int `default:"256" env:"OUTBOX_QUEUE_SIZE"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

// Load reads config.yml (when present) and overlays environment variables.
func Load() (*Config, error) {
	cfg := new(Config)
	if err := configor.New(&configor.Config{}).Load(cfg, configFiles()...); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// ListenAddr returns the address the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

// SessionMaxAge is the rolling session lifetime.
func (c *Config) SessionMaxAge() time.Duration {
	return time.Duration(c.Session.MaxAgeDays) * 24 * time.Hour
}

// Location resolves App.TimeZone, falling back to the local zone.
func (c *Config) Location() *time.Location {
	if c.App.TimeZone == "" || c.App.TimeZone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.App.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

// MaxUploadBytes is the per-file upload ceiling.
func (c *Config) MaxUploadBytes() int64 {
	return c.Storage.MaxUploadMB * 1024 * 1024
}

func boolValue(b *bool) bool {
	return b != nil && *b
}

func (c *Config) DBDebug() bool          { return boolValue(c.Database.DebugMode) }
func (c *Config) DBMigrateOnStart() bool { return boolValue(c.Database.MigrateOnStart) }
func (c *Config) SmtpTLS() bool          { return boolValue(c.Smtp.TLSEnabled) }
func (c *Config) S3UseSSL() bool         { return boolValue(c.Storage.UseSSL) }

// Secure reports whether cookies should carry the Secure flag.
func (c *Config) Secure() bool {
	return c.App.GinMode == "release"
}
