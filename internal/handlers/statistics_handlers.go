package handlers

import (
	"time"

	"cantina/internal/common"
	"cantina/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type StatisticsHandlers struct {
	statsService services.StatisticsService
}

func NewStatisticsHandlers(statsService services.StatisticsService) *StatisticsHandlers {
	return &StatisticsHandlers{statsService: statsService}
}

// GetMealStatistics handles GET /api/statistics/meal
func (h *StatisticsHandlers) GetMealStatistics(c echo.Context) error {
	canteenID, err := uuid.Parse(c.QueryParam("canteen_id"))
	if err != nil {
		return common.SendError(c, common.InvalidParam("invalid canteen_id"))
	}
	orderDate, err := time.Parse("2006-01-02", c.QueryParam("order_date"))
	if err != nil {
		return common.SendError(c, common.InvalidParam("invalid order_date, expected YYYY-MM-DD"))
	}
	mealType := c.QueryParam("meal_type")

	stats, err := h.statsService.MealStatistics(c.Request().Context(), canteenID, orderDate, mealType)
	if err != nil {
		return common.SendError(c, err)
	}
	return common.SendSuccess(c, stats)
}
