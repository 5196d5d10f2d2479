package db

import (
	"fmt"
	"time"

	"github.com/sustentai/ods-platform/internal/config"
	"github.com/sustentai/ods-platform/internal/domain/audit"
	"github.com/sustentai/ods-platform/internal/domain/project"
	"github.com/sustentai/ods-platform/internal/domain/review"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to Postgres with the pool settings used by the API.
func Open(cfg config.DBConfig) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return gdb, nil
}

var indexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_projeto_nome_lower ON projeto (lower(nome_projeto))`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_avaliacoes_root ON avaliacoes (usuario_id, projeto_id) WHERE parent_id IS NULL`,
}

// Migrate creates the schema. The raw indexes work on Postgres and SQLite.
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(
		&project.Project{},
		&project.Image{},
		&review.Review{},
		&audit.Entry{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for _, stmt := range indexes {
		if err := gdb.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}
