package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ADMIN_USER", "admin")
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	t.Setenv("STORAGE_DRIVER", "local")
	t.Setenv("UPLOAD_MAX_BYTES", "")
	t.Setenv("ADMIN_TOKEN_TTL", "")
	t.Setenv("AUDIT_RETENTION_DAYS", "")
	t.Setenv("UPLOAD_TEMP_MAX_AGE", "")
	t.Setenv("SMTP_HOST", "")
	t.Setenv("SMTP_FROM", "")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("CORS_ORIGINS", " http://a.example , ,http://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageDriverLocal, cfg.Upload.Driver)
	assert.Equal(t, int64(10*1024*1024), cfg.Upload.MaxBytes)
	assert.Equal(t, 8*time.Hour, cfg.Auth.AdminTokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.Upload.TempMaxAge)
	assert.Equal(t, 180, cfg.AuditRetentionDays)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORSOrigins)
	assert.False(t, cfg.SMTP.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("STORAGE_DRIVER", "MINIO")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("MINIO_BUCKET", "ods")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("ADMIN_TOKEN_TTL", "30m")
	t.Setenv("UPLOAD_MAX_BYTES", "2048")
	t.Setenv("SMTP_HOST", "smtp.example")
	t.Setenv("SMTP_FROM", "ods@example.gov.br")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageDriverMinio, cfg.Upload.Driver)
	assert.True(t, cfg.Minio.UseSSL)
	assert.Equal(t, 30*time.Minute, cfg.Auth.AdminTokenTTL)
	assert.Equal(t, int64(2048), cfg.Upload.MaxBytes)
	assert.True(t, cfg.SMTP.Enabled())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Auth:   AuthConfig{JWTSecret: "k", AdminUser: "a", AdminPassword: "p"},
			Upload: UploadConfig{Driver: StorageDriverLocal, MaxBytes: 1},

			AuditRetentionDays: 1,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing secret", func(c *Config) { c.Auth.JWTSecret = "" }, "JWT_SECRET"},
		{"missing admin", func(c *Config) { c.Auth.AdminPassword = "" }, "ADMIN_PASSWORD"},
		{"minio without endpoint", func(c *Config) { c.Upload.Driver = StorageDriverMinio }, "MINIO_ENDPOINT"},
		{"unknown driver", func(c *Config) { c.Upload.Driver = "ftp" }, "STORAGE_DRIVER"},
		{"zero upload size", func(c *Config) { c.Upload.MaxBytes = 0 }, "UPLOAD_MAX_BYTES"},
		{"zero retention", func(c *Config) { c.AuditRetentionDays = 0 }, "AUDIT_RETENTION_DAYS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "ods", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=ods sslmode=disable", c.DSN())
}
