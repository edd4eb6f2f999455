package common

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIResponse is the uniform envelope every endpoint returns:
// code 0 on success, a business error code otherwise.
type APIResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// SendSuccess writes a success envelope with the given payload.
func SendSuccess(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, &APIResponse{Code: CodeSuccess, Message: "success", Data: data})
}

// SendError maps err onto the envelope. Business errors keep their code
// and message; anything else is surfaced as an opaque system failure.
func SendError(c echo.Context, err error) error {
	if be, ok := AsBusinessError(err); ok {
		return c.JSON(httpStatusFor(be.Code), &APIResponse{Code: be.Code, Message: be.Message})
	}
	return c.JSON(http.StatusInternalServerError, &APIResponse{Code: CodeSystem, Message: "internal server error"})
}

func httpStatusFor(code int) int {
	switch code {
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeOrderNotFound, CodeUserNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}
