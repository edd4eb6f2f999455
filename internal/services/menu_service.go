package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cantina/internal/caching"
	"cantina/internal/common"
	"cantina/internal/models"
	"cantina/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const menuCacheTTL = 30 * time.Second

// MenuService serves published menus and the staff-side stock resize.
type MenuService interface {
	GetMenu(ctx context.Context, menuID uuid.UUID) (*models.Menu, error)
	ListMenus(ctx context.Context, filter *models.MenuFilter) ([]*models.Menu, error)
	ResizeMenuItem(ctx context.Context, itemID uuid.UUID, newQuantity int) error
}

type menuService struct {
	menuRepo repositories.MenuRepository
	ledger   repositories.StockLedger
	cache    caching.CacheService
}

func NewMenuService(menuRepo repositories.MenuRepository, ledger repositories.StockLedger, cache caching.CacheService) MenuService {
	return &menuService{menuRepo: menuRepo, ledger: ledger, cache: cache}
}

func (s *menuService) GetMenu(ctx context.Context, menuID uuid.UUID) (*models.Menu, error) {
	if s.cache != nil {
		if cached, _ := s.cache.GetMenu(ctx, menuID); cached != nil {
			return cached, nil
		}
	}

	menu, err := s.menuRepo.GetByID(ctx, menuID)
	if err != nil {
		return nil, fmt.Errorf("get menu: %w", err)
	}
	if menu == nil {
		return nil, common.InvalidParam("menu not found")
	}
	menu.Items, err = s.menuRepo.ListItems(ctx, menuID)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetMenu(ctx, menu, menuCacheTTL); err != nil {
			log.Debug().Err(err).Msg("menu cache write failed")
		}
	}
	return menu, nil
}

func (s *menuService) ListMenus(ctx context.Context, filter *models.MenuFilter) ([]*models.Menu, error) {
	if filter != nil && filter.MealType != nil && !models.ValidMealType(*filter.MealType) {
		return nil, common.InvalidParam("unknown meal type")
	}
	return s.menuRepo.List(ctx, filter)
}

// ResizeMenuItem republishes a menu item at a new quantity. Availability
// is recomputed from what is already reserved; shrinking below the
// reserved amount is rejected.
func (s *menuService) ResizeMenuItem(ctx context.Context, itemID uuid.UUID, newQuantity int) error {
	if newQuantity < 0 {
		return common.InvalidParam("quantity must not be negative")
	}

	item, err := s.menuRepo.GetItemByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("get menu item: %w", err)
	}
	if item == nil {
		return common.InvalidParam("menu item not found")
	}

	if err := s.ledger.Resize(ctx, itemID, newQuantity); err != nil {
		switch {
		case errors.Is(err, repositories.ErrShrinkBelowReserved):
			return common.ErrInvalidQuantity
		case errors.Is(err, repositories.ErrMenuItemNotFound):
			return common.InvalidParam("menu item not found")
		default:
			return fmt.Errorf("resize stock: %w", err)
		}
	}

	if s.cache != nil {
		if err := s.cache.DeleteMenu(ctx, item.MenuID); err != nil {
			log.Debug().Err(err).Msg("menu cache invalidation failed")
		}
	}
	return nil
}
