package handlers

import (
	"net/http"

	"cantina/internal/common"
	"cantina/internal/services"

	"github.com/labstack/echo/v4"
)

type AuthHandlers struct {
	authService services.AuthService
}

func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// Login handles POST /api/auth/login
func (h *AuthHandlers) Login(c echo.Context) error {
	var req struct {
		EmployeeID string `json:"employee_id"`
		Password   string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, common.InvalidParam("invalid request format"))
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.EmployeeID, req.Password)
	if err != nil {
		return common.SendError(c, err)
	}
	return common.SendSuccess(c, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// GetUserInfo handles GET /api/auth/user-info
func (h *AuthHandlers) GetUserInfo(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing principal")
	}

	user, err := h.authService.GetUserInfo(ctx, userID)
	if err != nil {
		return common.SendError(c, err)
	}
	return common.SendSuccess(c, user)
}
