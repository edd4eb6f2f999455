package handlers

import (
	"net/http"
	"time"

	"cantina/internal/common"
	"cantina/internal/models"
	"cantina/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// OrderHandlers exposes the order lifecycle over HTTP.
type OrderHandlers struct {
	orderService services.OrderService
}

func NewOrderHandlers(orderService services.OrderService) *OrderHandlers {
	return &OrderHandlers{orderService: orderService}
}

type orderLineRequest struct {
	DishID   string `json:"dish_id"`
	Quantity int    `json:"quantity"`
}

type createOrderRequest struct {
	CanteenID string             `json:"canteen_id"`
	MenuID    string             `json:"menu_id"`
	MealType  string             `json:"meal_type"`
	OrderDate string             `json:"order_date"`
	Items     []orderLineRequest `json:"items"`
}

func parseOrderLines(reqItems []orderLineRequest) ([]models.OrderLine, error) {
	if len(reqItems) == 0 {
		return nil, common.InvalidParam("items must not be empty")
	}
	lines := make([]models.OrderLine, 0, len(reqItems))
	for _, item := range reqItems {
		dishID, err := uuid.Parse(item.DishID)
		if err != nil {
			return nil, common.InvalidParam("invalid dish_id")
		}
		if item.Quantity <= 0 {
			return nil, common.InvalidParam("item quantity must be positive")
		}
		lines = append(lines, models.OrderLine{DishID: dishID, Quantity: item.Quantity})
	}
	return lines, nil
}

// CreateOrder handles POST /api/orders
func (h *OrderHandlers) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing principal")
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, common.InvalidParam("invalid request format"))
	}

	canteenID, err := uuid.Parse(req.CanteenID)
	if err != nil {
		return common.SendError(c, common.InvalidParam("invalid canteen_id"))
	}
	menuID, err := uuid.Parse(req.MenuID)
	if err != nil {
		return common.SendError(c, common.InvalidParam("invalid menu_id"))
	}
	orderDate, err := time.Parse("2006-01-02", req.OrderDate)
	if err != nil {
		return common.SendError(c, common.InvalidParam("invalid order_date, expected YYYY-MM-DD"))
	}
	lines, err := parseOrderLines(req.Items)
	if err != nil {
		return common.SendError(c, err)
	}

	orderID, err := h.orderService.CreateOrder(ctx, userID, canteenID, menuID, req.MealType, orderDate, lines)
	if err != nil {
		return common.SendError(c, err)
	}
	return common.SendSuccess(c, map[string]string{"order_id": orderID.String()})
}

// GetOrder handles GET /api/orders/:id
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendError(c, common.InvalidParam("invalid order id"))
	}

	order, err := h.orderService.GetOrder(ctx, orderID)
	if err != nil {
		return common.SendError(c, err)
	}

	// Employees may only see their own orders; staff see everything. A
	// foreign order reads as not found, same as the mutation paths, so
	// its existence is not leaked.
	userID, _ := common.GetUserIDFromContext(ctx)
	role, _ := common.GetUserRoleFromContext(ctx)
	if role == models.RoleEmployee && order.UserID != userID {
		return common.SendError(c, common.ErrOrderNotFound)
	}
	return common.SendSuccess(c, order)
}

// GetMyOrders handles GET /api/orders/my
func (h *OrderHandlers) GetMyOrders(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing principal")
	}

	var status *string
	if s := c.QueryParam("status"); s != "" {
		status = &s
	}

	orders, err := h.orderService.GetUserOrders(ctx, userID, status)
	if err != nil {
		return common.SendError(c, err)
	}
	return common.SendSuccess(c, orders)
}

// UpdateOrder handles PUT /api/orders/:id
func (h *OrderHandlers) UpdateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing principal")
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendError(c, common.InvalidParam("invalid order id"))
	}

	var req struct {
		Items []orderLineRequest `json:"items"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, common.InvalidParam("invalid request format"))
	}
	lines, err := parseOrderLines(req.Items)
	if err != nil {
		return common.SendError(c, err)
	}

	if err := h.orderService.UpdateOrder(ctx, orderID, userID, lines); err != nil {
		return common.SendError(c, err)
	}
	return common.SendSuccess(c, nil)
}

// CancelOrder handles POST /api/orders/:id/cancel
func (h *OrderHandlers) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing principal")
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendError(c, common.InvalidParam("invalid order id"))
	}

	if err := h.orderService.CancelOrder(ctx, orderID, userID); err != nil {
		return common.SendError(c, err)
	}
	return common.SendSuccess(c, nil)
}

// GetCanteenOrders handles GET /api/orders/canteen/:canteenId
func (h *OrderHandlers) GetCanteenOrders(c echo.Context) error {
	ctx := c.Request().Context()
	canteenID, err := uuid.Parse(c.Param("canteenId"))
	if err != nil {
		return common.SendError(c, common.InvalidParam("invalid canteen id"))
	}

	filter := &models.OrderFilter{}
	if dateStr := c.QueryParam("order_date"); dateStr != "" {
		orderDate, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return common.SendError(c, common.InvalidParam("invalid order_date, expected YYYY-MM-DD"))
		}
		filter.OrderDate = &orderDate
	}
	if mealType := c.QueryParam("meal_type"); mealType != "" {
		filter.MealType = &mealType
	}
	if status := c.QueryParam("status"); status != "" {
		filter.Status = &status
	}

	orders, err := h.orderService.GetCanteenOrders(ctx, canteenID, filter)
	if err != nil {
		return common.SendError(c, err)
	}
	return common.SendSuccess(c, orders)
}
