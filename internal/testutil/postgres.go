// Package testutil поднимает Postgres в контейнере для интеграционных тестов.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// SetupTestDB создает тестовую БД с помощью testcontainers.
// В режиме -short тест пропускается.
func SetupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	ctx := context.Background()

	// Находим путь к миграциям
	_, filename, _, _ := runtime.Caller(0)
	internalDir := filepath.Dir(filepath.Dir(filename))
	migrationsPath := filepath.Join(internalDir, "repo", "migrations")

	// Создаем PostgreSQL контейнер
	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		postgres.WithInitScripts(filepath.Join(migrationsPath, "001_create_versions.up.sql")),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	cleanup := func() {
		pool.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Errorf("Failed to terminate container: %v", err)
		}
	}

	return pool, cleanup
}

// TruncateTables очищает таблицу версий и сбрасывает последовательность id
func TruncateTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()

	_, err := pool.Exec(ctx, "TRUNCATE versions RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
}

// SeedVersions создает тестовые версии с последовательными датами начала
func SeedVersions(t *testing.T, pool *pgxpool.Pool, count int) []int64 {
	t.Helper()
	ctx := context.Background()
	start := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

	ids := make([]int64, 0, count)
	for i := 0; i < count; i++ {
		var id int64
		begin := start.AddDate(0, 0, i*7)
		err := pool.QueryRow(ctx, `
			INSERT INTO versions (name, priority, summary, start_date, end_date, status, progress)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`, fmt.Sprintf("1.%d.0", i), (i%4)+1, "seeded", begin, begin.AddDate(0, 0, 6), "planning", 0).Scan(&id)

		if err != nil {
			t.Fatalf("Failed to seed version: %v", err)
		}
		ids = append(ids, id)
	}

	return ids
}
