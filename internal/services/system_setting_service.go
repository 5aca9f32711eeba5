package services

import (
	"context"
	"errors"

	"caja-backend/internal/models"
	"caja-backend/internal/repositories"

	"github.com/jackc/pgx/v5"
)

type SystemSettingService struct {
	Repo *repositories.SystemSettingRepository
}

func NewSystemSettingService(repo *repositories.SystemSettingRepository) *SystemSettingService {
	return &SystemSettingService{Repo: repo}
}

func (s *SystemSettingService) Get(ctx context.Context, key string) (*models.SystemSetting, error) {
	setting, err := s.Repo.Get(ctx, key)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errors.New("setting not found")
	}
	return setting, err
}

func (s *SystemSettingService) List(ctx context.Context) ([]*models.SystemSetting, error) {
	return s.Repo.List(ctx)
}

func (s *SystemSettingService) Update(ctx context.Context, key, value string, userID int) (*models.SystemSetting, error) {
	if key == "" {
		return nil, errors.New("setting key is required")
	}
	if err := s.Repo.Upsert(ctx, key, value, userID); err != nil {
		return nil, err
	}
	return s.Repo.Get(ctx, key)
}
