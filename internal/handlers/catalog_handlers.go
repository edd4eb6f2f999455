package handlers

import (
	"cantina/internal/common"
	"cantina/internal/models"
	"cantina/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CatalogHandlers serves the read-only canteen and dish catalog.
type CatalogHandlers struct {
	canteenService services.CanteenService
	dishService    services.DishService
}

func NewCatalogHandlers(canteenService services.CanteenService, dishService services.DishService) *CatalogHandlers {
	return &CatalogHandlers{canteenService: canteenService, dishService: dishService}
}

// ListCanteens handles GET /api/canteens
func (h *CatalogHandlers) ListCanteens(c echo.Context) error {
	var status *string
	if s := c.QueryParam("status"); s != "" {
		status = &s
	}

	canteens, err := h.canteenService.ListCanteens(c.Request().Context(), status)
	if err != nil {
		return common.SendError(c, err)
	}
	return common.SendSuccess(c, canteens)
}

// GetCanteen handles GET /api/canteens/:id
func (h *CatalogHandlers) GetCanteen(c echo.Context) error {
	canteenID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendError(c, common.InvalidParam("invalid canteen id"))
	}

	canteen, err := h.canteenService.GetCanteen(c.Request().Context(), canteenID)
	if err != nil {
		return common.SendError(c, err)
	}
	return common.SendSuccess(c, canteen)
}

// ListDishes handles GET /api/dishes
func (h *CatalogHandlers) ListDishes(c echo.Context) error {
	filter := &models.DishFilter{}
	if idStr := c.QueryParam("canteen_id"); idStr != "" {
		canteenID, err := uuid.Parse(idStr)
		if err != nil {
			return common.SendError(c, common.InvalidParam("invalid canteen_id"))
		}
		filter.CanteenID = &canteenID
	}
	if idStr := c.QueryParam("category_id"); idStr != "" {
		categoryID, err := uuid.Parse(idStr)
		if err != nil {
			return common.SendError(c, common.InvalidParam("invalid category_id"))
		}
		filter.CategoryID = &categoryID
	}
	if status := c.QueryParam("status"); status != "" {
		filter.Status = &status
	}

	dishes, err := h.dishService.ListDishes(c.Request().Context(), filter)
	if err != nil {
		return common.SendError(c, err)
	}
	return common.SendSuccess(c, dishes)
}

// GetDish handles GET /api/dishes/:id
func (h *CatalogHandlers) GetDish(c echo.Context) error {
	dishID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendError(c, common.InvalidParam("invalid dish id"))
	}

	dish, err := h.dishService.GetDish(c.Request().Context(), dishID)
	if err != nil {
		return common.SendError(c, err)
	}
	return common.SendSuccess(c, dish)
}

// ListDishCategories handles GET /api/dish-categories
func (h *CatalogHandlers) ListDishCategories(c echo.Context) error {
	categories, err := h.dishService.ListCategories(c.Request().Context())
	if err != nil {
		return common.SendError(c, err)
	}
	return common.SendSuccess(c, categories)
}
