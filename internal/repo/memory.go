package repo

import (
	"context"
	"sync"

	"github.com/BuzzLyutic/version-tracker-api/internal/model"
)

// MemoryRepo хранит версии в памяти процесса. Данные теряются при перезапуске.
type MemoryRepo struct {
	mu       sync.RWMutex
	versions []model.Version
	lastID   int64
	today    func() model.Date
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{today: model.Today}
}

// WithClock replaces the source of "today" used for timestamps.
func (r *MemoryRepo) WithClock(today func() model.Date) *MemoryRepo {
	r.today = today
	return r
}

// Seed appends records as-is, keeping their ids and timestamps.
func (r *MemoryRepo) Seed(versions ...model.Version) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.versions = append(r.versions, versions...)
	for _, v := range versions {
		if v.ID > r.lastID {
			r.lastID = v.ID
		}
	}
}

func (r *MemoryRepo) List(ctx context.Context) ([]model.Version, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Version, len(r.versions))
	copy(out, r.versions)
	return out, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id int64) (model.Version, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return model.Version{}, ErrorNotFound
	}
	return r.versions[i], nil
}

func (r *MemoryRepo) Create(ctx context.Context, in model.VersionInput) (model.Version, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	today := r.today()
	v := model.Version{
		ID:        r.nextID(),
		CreatedAt: today,
		UpdatedAt: today,
	}
	v.Apply(in)
	r.versions = append(r.versions, v)
	return v, nil
}

func (r *MemoryRepo) Update(ctx context.Context, id int64, in model.VersionInput) (model.Version, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return model.Version{}, ErrorNotFound
	}
	v := r.versions[i]
	v.Apply(in)
	v.UpdatedAt = r.today()
	r.versions[i] = v
	return v, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrorNotFound
	}
	r.versions = append(r.versions[:i], r.versions[i+1:]...)
	return nil
}

func (r *MemoryRepo) indexOf(id int64) int {
	for i := range r.versions {
		if r.versions[i].ID == id {
			return i
		}
	}
	return -1
}

// nextID = максимальный существующий id + 1. Id удаленной последней
// записи повторно не выдается.
func (r *MemoryRepo) nextID() int64 {
	r.lastID++
	return r.lastID
}
