package services

import (
	"context"
	"fmt"

	"cantina/internal/common"
	"cantina/internal/models"
	"cantina/internal/repositories"

	"github.com/google/uuid"
)

// CanteenService is read-only lookup plumbing over the canteen catalog.
type CanteenService interface {
	GetCanteen(ctx context.Context, id uuid.UUID) (*models.Canteen, error)
	ListCanteens(ctx context.Context, status *string) ([]*models.Canteen, error)
}

type canteenService struct {
	canteenRepo repositories.CanteenRepository
}

func NewCanteenService(canteenRepo repositories.CanteenRepository) CanteenService {
	return &canteenService{canteenRepo: canteenRepo}
}

func (s *canteenService) GetCanteen(ctx context.Context, id uuid.UUID) (*models.Canteen, error) {
	canteen, err := s.canteenRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get canteen: %w", err)
	}
	if canteen == nil {
		return nil, common.InvalidParam("canteen not found")
	}
	return canteen, nil
}

func (s *canteenService) ListCanteens(ctx context.Context, status *string) ([]*models.Canteen, error) {
	return s.canteenRepo.List(ctx, status)
}
