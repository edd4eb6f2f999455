package handlers

import (
	"time"

	"cantina/internal/common"
	"cantina/internal/models"
	"cantina/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type MenuHandlers struct {
	menuService services.MenuService
}

func NewMenuHandlers(menuService services.MenuService) *MenuHandlers {
	return &MenuHandlers{menuService: menuService}
}

// ListMenus handles GET /api/menus
func (h *MenuHandlers) ListMenus(c echo.Context) error {
	filter := &models.MenuFilter{}
	if idStr := c.QueryParam("canteen_id"); idStr != "" {
		canteenID, err := uuid.Parse(idStr)
		if err != nil {
			return common.SendError(c, common.InvalidParam("invalid canteen_id"))
		}
		filter.CanteenID = &canteenID
	}
	if dateStr := c.QueryParam("menu_date"); dateStr != "" {
		menuDate, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return common.SendError(c, common.InvalidParam("invalid menu_date, expected YYYY-MM-DD"))
		}
		filter.MenuDate = &menuDate
	}
	if mealType := c.QueryParam("meal_type"); mealType != "" {
		filter.MealType = &mealType
	}

	menus, err := h.menuService.ListMenus(c.Request().Context(), filter)
	if err != nil {
		return common.SendError(c, err)
	}
	return common.SendSuccess(c, menus)
}

// GetMenu handles GET /api/menus/:id
func (h *MenuHandlers) GetMenu(c echo.Context) error {
	menuID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendError(c, common.InvalidParam("invalid menu id"))
	}

	menu, err := h.menuService.GetMenu(c.Request().Context(), menuID)
	if err != nil {
		return common.SendError(c, err)
	}
	return common.SendSuccess(c, menu)
}

// ResizeMenuItem handles PUT /api/menus/items/:itemId/quantity
func (h *MenuHandlers) ResizeMenuItem(c echo.Context) error {
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		return common.SendError(c, common.InvalidParam("invalid menu item id"))
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, common.InvalidParam("invalid request format"))
	}

	if err := h.menuService.ResizeMenuItem(c.Request().Context(), itemID, req.Quantity); err != nil {
		return common.SendError(c, err)
	}
	return common.SendSuccess(c, nil)
}
