package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BuzzLyutic/version-tracker-api/internal/config"
	"github.com/BuzzLyutic/version-tracker-api/internal/model"
)

// Open создает хранилище, выбранное в конфигурации, и функцию его закрытия.
// Для SQL-хранилищ схема создается при открытии.
func Open(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (VersionRepository, func(), error) {
	switch cfg.Driver {
	case config.DriverMemory:
		r := NewMemoryRepo()
		if cfg.SeedDemo {
			r.Seed(DemoVersions()...)
		}
		logger.Info("Using in-memory store", zap.Bool("seed_demo", cfg.SeedDemo))
		return r, func() {}, nil

	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL) // Создаем новое соединение к БД
		if err != nil {
			return nil, nil, fmt.Errorf("repo: connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil { // Пытаемся пингануть БД
			pool.Close()
			return nil, nil, fmt.Errorf("repo: ping postgres: %w", err)
		}
		if err := Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("repo: migrate postgres: %w", err)
		}
		r := NewPostgresRepo(pool)
		if err := seedIfEmpty(ctx, r, cfg.SeedDemo); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("Successfully connected to the Database!", zap.String("driver", cfg.Driver))
		return r, pool.Close, nil

	case config.DriverMySQL, config.DriverSQLite:
		var (
			db  *gorm.DB
			err error
		)
		if cfg.Driver == config.DriverMySQL {
			m := cfg.MySQL
			db, err = OpenMySQL(MySQLDSN(m.Host, m.Port, m.User, m.Password, m.Database))
		} else {
			db, err = OpenSQLite(cfg.SQLitePath)
		}
		if err != nil {
			return nil, nil, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		}
		if err := AutoMigrate(db); err != nil {
			closeDB()
			return nil, nil, err
		}
		r := NewGormRepo(db)
		if err := seedIfEmpty(ctx, r, cfg.SeedDemo); err != nil {
			closeDB()
			return nil, nil, err
		}
		logger.Info("Successfully connected to the Database!", zap.String("driver", cfg.Driver))
		return r, closeDB, nil
	}
	return nil, nil, fmt.Errorf("repo: unknown driver %q", cfg.Driver)
}

// seedIfEmpty вставляет демо-версии в пустую таблицу. Id и даты
// создания назначает хранилище.
func seedIfEmpty(ctx context.Context, r VersionRepository, enabled bool) error {
	if !enabled {
		return nil
	}
	existing, err := r.List(ctx)
	if err != nil {
		return fmt.Errorf("repo: seed: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	for _, v := range DemoVersions() {
		if _, err := r.Create(ctx, v.Input()); err != nil {
			return fmt.Errorf("repo: seed %s: %w", v.Name, err)
		}
	}
	return nil
}

// DemoVersions returns the sample releases the UI ships with for demos.
func DemoVersions() []model.Version {
	d := model.MustParseDate
	return []model.Version{
		{
			ID: 1, Name: "版本 1.0.0", Priority: model.PriorityHigh, Summary: "初始版本发布",
			StartDate: d("2023-01-01"), EndDate: d("2023-02-15"),
			Status: model.StatusCompleted, Progress: 100,
			CreatedAt: d("2023-01-01"), UpdatedAt: d("2023-02-15"),
		},
		{
			ID: 2, Name: "版本 1.1.0", Priority: model.PriorityMedium, Summary: "新增用户管理功能",
			StartDate: d("2023-02-20"), EndDate: d("2023-03-30"),
			Status: model.StatusTesting, Progress: 80,
			CreatedAt: d("2023-02-20"), UpdatedAt: d("2023-03-15"),
		},
		{
			ID: 3, Name: "版本 1.2.0", Priority: model.PriorityCritical, Summary: "修复安全漏洞",
			StartDate: d("2023-04-01"), EndDate: d("2023-04-15"),
			Status: model.StatusDevelopment, Progress: 50,
			CreatedAt: d("2023-04-01"), UpdatedAt: d("2023-04-10"),
		},
		{
			ID: 4, Name: "版本 2.0.0", Priority: model.PriorityCritical, Summary: "重大升级，全新界面设计",
			StartDate: d("2023-05-01"), EndDate: d("2023-07-30"),
			Status: model.StatusPlanning, Progress: 10,
			CreatedAt: d("2023-05-01"), UpdatedAt: d("2023-05-01"),
		},
	}
}
