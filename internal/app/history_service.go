package app

import (
	"context"

	"moodmatch/internal/model"
	"moodmatch/internal/repository"
)

type HistoryService struct {
	scanRepo *repository.ScanRepository
}

func NewHistoryService(scanRepo *repository.ScanRepository) *HistoryService {
	return &HistoryService{scanRepo: scanRepo}
}

func (s *HistoryService) List(ctx context.Context, userID uint, limit int) ([]model.EmotionScan, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.scanRepo.ListByUser(ctx, userID, limit)
}
