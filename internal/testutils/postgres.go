package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/sustentai/ods-platform/internal/config/db"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupPostgresForIntegration starts a throwaway Postgres, or uses TEST_DB_DSN
// when set, and returns a migrated gorm handle.
func SetupPostgresForIntegration() (*gorm.DB, func()) {
	if dsn := os.Getenv("TEST_DB_DSN"); dsn != "" {
		waitReady(dsn)
		gdb := migrated(dsn)
		return gdb, func() { closeDB(gdb) }
	}

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image: "postgres:15",
		Env: map[string]string{
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_USER":     "test",
			"POSTGRES_DB":       "ods_projetos",
		},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	pg, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		log.Fatal(err)
	}

	host, err := pg.Host(ctx)
	if err != nil {
		log.Fatal(err)
	}
	port, err := pg.MappedPort(ctx, "5432")
	if err != nil {
		log.Fatal(err)
	}

	dsn := fmt.Sprintf("postgres://test:test@%s:%s/ods_projetos?sslmode=disable", host, port.Port())
	waitReady(dsn)
	gdb := migrated(dsn)

	cleanup := func() {
		closeDB(gdb)
		_ = pg.Terminate(ctx)
	}
	return gdb, cleanup
}

// waitReady pings through lib/pq until the server accepts connections.
func waitReady(dsn string) {
	var (
		sqlDB *sql.DB
		err   error
	)
	for i := 0; i < 10; i++ {
		sqlDB, err = sql.Open("postgres", dsn)
		if err == nil {
			err = sqlDB.Ping()
			if err == nil {
				break
			}
			_ = sqlDB.Close()
		}
		time.Sleep(1 * time.Second)
	}
	if err != nil {
		log.Fatal(err)
	}
	_ = sqlDB.Close()
}

// migrated opens the pgx backed gorm driver so error translation matches
// production.
func migrated(dsn string) *gorm.DB {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatal(err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal(err)
	}
	return gdb
}

func closeDB(gdb *gorm.DB) {
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
