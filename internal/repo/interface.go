package repo

import (
	"context"
	"errors"

	"github.com/BuzzLyutic/version-tracker-api/internal/model"
)

var (
	ErrorNotFound = errors.New("not found")
)

// VersionRepository определяет интерфейс хранилища версий.
// Реализации: MemoryRepo, PostgresRepo, GormRepo (mysql, sqlite).
type VersionRepository interface {
	List(ctx context.Context) ([]model.Version, error)
	Get(ctx context.Context, id int64) (model.Version, error)
	Create(ctx context.Context, in model.VersionInput) (model.Version, error)
	Update(ctx context.Context, id int64, in model.VersionInput) (model.Version, error)
	Delete(ctx context.Context, id int64) error
}
