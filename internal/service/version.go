package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BuzzLyutic/version-tracker-api/internal/chart"
	"github.com/BuzzLyutic/version-tracker-api/internal/model"
	"github.com/BuzzLyutic/version-tracker-api/internal/repo"
)

var (
	ErrValidation = errors.New("validation error")
)

type VersionService struct {
	repo repo.VersionRepository
}

func NewVersionService(repo repo.VersionRepository) *VersionService {
	return &VersionService{repo: repo}
}

func (s *VersionService) List(ctx context.Context) ([]model.Version, error) {
	versions, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if versions == nil { // пустой список сериализуется как [], а не null
		versions = []model.Version{}
	}
	return versions, nil
}

func (s *VersionService) Get(ctx context.Context, id int64) (model.Version, error) {
	return s.repo.Get(ctx, id)
}

func (s *VersionService) Create(ctx context.Context, in model.VersionInput) (model.Version, error) {
	if err := s.validate(in); err != nil { // Валидация модели на корректность введенных данных
		return model.Version{}, err
	}
	return s.repo.Create(ctx, in)
}

func (s *VersionService) Update(ctx context.Context, id int64, in model.VersionInput) (model.Version, error) {
	if err := s.validate(in); err != nil {
		return model.Version{}, err
	}
	return s.repo.Update(ctx, id, in)
}

func (s *VersionService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Chart строит данные диаграммы Ганта по всем версиям.
// На пустом хранилище возвращает chart.ErrEmpty.
func (s *VersionService) Chart(ctx context.Context) (chart.Chart, error) {
	versions, err := s.repo.List(ctx)
	if err != nil {
		return chart.Chart{}, err
	}
	return chart.Build(versions)
}

func (s *VersionService) validate(in model.VersionInput) error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: name is required", ErrValidation)
	case !in.Priority.Valid():
		return fmt.Errorf("%w: priority must be between %d and %d", ErrValidation, model.PriorityLow, model.PriorityCritical)
	case !in.Status.Valid():
		return fmt.Errorf("%w: unknown status %q", ErrValidation, in.Status)
	case in.Progress < 0 || in.Progress > 100:
		return fmt.Errorf("%w: progress must be between 0 and 100", ErrValidation)
	case in.StartDate.IsZero():
		return fmt.Errorf("%w: start_date is required", ErrValidation)
	case in.EndDate.IsZero():
		return fmt.Errorf("%w: end_date is required", ErrValidation)
	case in.EndDate.Before(in.StartDate):
		return fmt.Errorf("%w: end_date is before start_date", ErrValidation)
	}
	return nil
}
