package services

import (
	"context"
	"fmt"

	"cantina/internal/common"
	"cantina/internal/models"
	"cantina/internal/repositories"

	"github.com/google/uuid"
)

// DishService is read-only lookup plumbing over the dish catalog.
type DishService interface {
	GetDish(ctx context.Context, id uuid.UUID) (*models.Dish, error)
	ListDishes(ctx context.Context, filter *models.DishFilter) ([]*models.Dish, error)
	ListCategories(ctx context.Context) ([]*models.DishCategory, error)
}

type dishService struct {
	dishRepo repositories.DishRepository
}

func NewDishService(dishRepo repositories.DishRepository) DishService {
	return &dishService{dishRepo: dishRepo}
}

func (s *dishService) GetDish(ctx context.Context, id uuid.UUID) (*models.Dish, error) {
	dish, err := s.dishRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get dish: %w", err)
	}
	if dish == nil {
		return nil, common.InvalidParam("dish not found")
	}
	return dish, nil
}

func (s *dishService) ListDishes(ctx context.Context, filter *models.DishFilter) ([]*models.Dish, error) {
	if filter != nil && filter.Status != nil {
		if *filter.Status != models.DishStatusActive && *filter.Status != models.DishStatusInactive {
			return nil, common.InvalidParam("unknown dish status")
		}
	}
	return s.dishRepo.List(ctx, filter)
}

func (s *dishService) ListCategories(ctx context.Context) ([]*models.DishCategory, error) {
	return s.dishRepo.ListCategories(ctx)
}
