package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"moodmatch/internal/logging"
	"moodmatch/internal/model"
	"moodmatch/internal/repository"
	"moodmatch/internal/taxonomy"
	"moodmatch/internal/vision"
)

// AdminService swaps the inference model and the active taxonomy version.
type AdminService struct {
	holder   *vision.ModelHolder
	registry *taxonomy.Registry
	versions *repository.ModelVersionRepository
}

func NewAdminService(holder *vision.ModelHolder, registry *taxonomy.Registry, versions *repository.ModelVersionRepository) *AdminService {
	return &AdminService{holder: holder, registry: registry, versions: versions}
}

func (s *AdminService) ModelStatus() vision.ModelStatus {
	return s.holder.Status()
}

// LoadModel loads path, swaps it in and records the activation. A model that
// fails validation leaves the serving model untouched.
func (s *AdminService) LoadModel(ctx context.Context, adminID uint, path string) (vision.ModelStatus, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return vision.ModelStatus{}, ErrInvalidInput
	}
	if _, err := s.holder.Load(path); err != nil {
		return vision.ModelStatus{}, err
	}
	status := s.holder.Status()

	if s.versions != nil {
		record := &model.ModelVersion{
			Path:        path,
			Layout:      status.Layout,
			InputShape:  fmt.Sprint(status.Shape),
			Classes:     status.Classes,
			Rescaling:   status.Rescale,
			Fallback:    status.Fallback,
			ActivatedBy: adminID,
			ActivatedAt: time.Now(),
		}
		if err := s.versions.Create(ctx, record); err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("record model version failed")
		}
	}
	return status, nil
}

func (s *AdminService) ModelHistory(ctx context.Context, limit int) ([]model.ModelVersion, error) {
	if s.versions == nil {
		return []model.ModelVersion{}, nil
	}
	return s.versions.List(ctx, limit)
}

func (s *AdminService) SetActiveTaxonomy(id string) error {
	if err := s.registry.SetActive(strings.TrimSpace(id)); err != nil {
		return err
	}
	logging.Info().Str("version", id).Msg("active taxonomy switched")
	return nil
}

func (s *AdminService) Taxonomy() ([]taxonomy.Version, string) {
	return s.registry.Versions(), s.registry.Active()
}
