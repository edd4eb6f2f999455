package common

import (
	"errors"
	"fmt"
)

// Business error codes surfaced to clients. Values follow the canteen
// platform's established error table so existing clients keep working.
const (
	CodeSuccess = 0

	CodeSystem       = 1000
	CodeDatabase     = 1001
	CodeInvalidParam = 1002

	CodeTimeLimit         = 2001
	CodeDuplicateOrder    = 2002
	CodeInsufficientStock = 2003
	CodeOrderNotFound     = 2004
	CodeCannotModify      = 2005
	CodeDishNotInMenu     = 2006
	CodeInvalidQuantity   = 2007

	CodeUnauthorized    = 3001
	CodeForbidden       = 3002
	CodeUserNotFound    = 3003
	CodeInvalidPassword = 3004
)

// BusinessError is a domain-level rejection: the caller's request was
// well-formed but violates an ordering rule. It is never retried
// automatically and always maps to a stable client-facing code.
type BusinessError struct {
	Code    int
	Message string
}

func (e *BusinessError) Error() string { return e.Message }

// Is matches two business errors by code so sentinel comparisons with
// errors.Is work across wrapped instances.
func (e *BusinessError) Is(target error) bool {
	var be *BusinessError
	if errors.As(target, &be) {
		return be.Code == e.Code
	}
	return false
}

var (
	ErrInvalidParam    = &BusinessError{Code: CodeInvalidParam, Message: "invalid request parameter"}
	ErrTimeLimit       = &BusinessError{Code: CodeTimeLimit, Message: "ordering window for this meal has closed"}
	ErrDuplicateOrder  = &BusinessError{Code: CodeDuplicateOrder, Message: "an active order already exists for this meal slot"}
	ErrOrderNotFound   = &BusinessError{Code: CodeOrderNotFound, Message: "order not found"}
	ErrCannotModify    = &BusinessError{Code: CodeCannotModify, Message: "order can no longer be modified"}
	ErrInvalidQuantity = &BusinessError{Code: CodeInvalidQuantity, Message: "quantity cannot shrink below what is already reserved"}

	ErrUnauthorized    = &BusinessError{Code: CodeUnauthorized, Message: "not authenticated"}
	ErrForbidden       = &BusinessError{Code: CodeForbidden, Message: "access denied"}
	ErrUserNotFound    = &BusinessError{Code: CodeUserNotFound, Message: "user not found"}
	ErrInvalidPassword = &BusinessError{Code: CodeInvalidPassword, Message: "invalid employee id or password"}
)

// ErrInsufficientStock names the dish that could not be reserved.
func ErrInsufficientStock(dishName string) *BusinessError {
	return &BusinessError{
		Code:    CodeInsufficientStock,
		Message: fmt.Sprintf("insufficient stock for dish %q", dishName),
	}
}

// ErrDishNotInMenu names the dish that is absent from the target menu.
func ErrDishNotInMenu(dishID string) *BusinessError {
	return &BusinessError{
		Code:    CodeDishNotInMenu,
		Message: fmt.Sprintf("dish %s is not on this menu", dishID),
	}
}

// InvalidParam builds a validation rejection with a field-specific message.
func InvalidParam(message string) *BusinessError {
	return &BusinessError{Code: CodeInvalidParam, Message: message}
}

// AsBusinessError unwraps err to its business error, if it carries one.
func AsBusinessError(err error) (*BusinessError, bool) {
	var be *BusinessError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}
