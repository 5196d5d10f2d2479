package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDriverLocal = "local"
	StorageDriverMinio = "minio"
)

// Config is built once at start-up and handed to every component that needs it.
type Config struct {
	ServerPort string
	LogLevel   string

	DB     DBConfig
	Auth   AuthConfig
	Upload UploadConfig
	Minio  MinioConfig
	SMTP   SMTPConfig

	CORSOrigins        []string
	ProfanityWordsFile string
	AuditRetentionDays int
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns the libpq style connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

type AuthConfig struct {
	JWTSecret     string
	Issuer        string
	AdminUser     string
	AdminPassword string
	AdminTokenTTL time.Duration
}

type UploadConfig struct {
	Driver     string
	Root       string
	TempDir    string
	TempMaxAge time.Duration
	MaxBytes   int64
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Enabled reports whether outbound mail is configured.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

// Load reads the optional .env file and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "password"),
			Name:     getEnv("DB_NAME", "ods_projetos"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			Issuer:        getEnv("JWT_ISSUER", "ods-platform"),
			AdminUser:     getEnv("ADMIN_USER", ""),
			AdminPassword: getEnv("ADMIN_PASSWORD", ""),
			AdminTokenTTL: getDuration("ADMIN_TOKEN_TTL", 8*time.Hour),
		},
		Upload: UploadConfig{
			Driver:     strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverLocal)),
			Root:       getEnv("UPLOADS_ROOT", "."),
			TempDir:    getEnv("UPLOAD_TEMP_DIR", filepath.Join(os.TempDir(), "ods-uploads")),
			TempMaxAge: getDuration("UPLOAD_TEMP_MAX_AGE", 24*time.Hour),
			MaxBytes:   getInt64("UPLOAD_MAX_BYTES", 10*1024*1024),
		},
		Minio: MinioConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getBool("MINIO_USE_SSL", false),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     int(getInt64("SMTP_PORT", 587)),
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", ""),
		},
		CORSOrigins:        splitList(getEnv("CORS_ORIGINS", "")),
		ProfanityWordsFile: getEnv("PROFANITY_WORDS_FILE", ""),
		AuditRetentionDays: int(getInt64("AUDIT_RETENTION_DAYS", 180)),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate refuses configurations the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Auth.AdminUser == "" || c.Auth.AdminPassword == "" {
		errs = append(errs, errors.New("ADMIN_USER and ADMIN_PASSWORD are required"))
	}
	switch c.Upload.Driver {
	case StorageDriverLocal:
	case StorageDriverMinio:
		if c.Minio.Endpoint == "" || c.Minio.Bucket == "" {
			errs = append(errs, errors.New("MINIO_ENDPOINT and MINIO_BUCKET are required for the minio storage driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.Upload.Driver))
	}
	if c.AuditRetentionDays <= 0 {
		errs = append(errs, errors.New("AUDIT_RETENTION_DAYS must be positive"))
	}
	if c.Upload.MaxBytes <= 0 {
		errs = append(errs, errors.New("UPLOAD_MAX_BYTES must be positive"))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
	if err != nil {
		return fallback
	}
	return v
}

func getInt64(key string, fallback int64) int64 {
	v, err := strconv.ParseInt(getEnv(key, ""), 10, 64)
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
