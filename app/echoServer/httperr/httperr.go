// Package httperr maps service error codes to HTTP responses so every
// controller answers the same way for the same failure class.
package httperr

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/brijeshkrdube/kloudserver-sub000/util/apperr"
)

func Status(err error) int {
	switch apperr.Code(err) {
	case apperr.CodeValidation, apperr.CodeInsufficientFunds:
		return http.StatusBadRequest
	case apperr.CodeInvalidState:
		return http.StatusConflict
	case apperr.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// JSON writes the mapped status; uncoded errors hide the message.
func JSON(c echo.Context, err error) error {
	status := Status(err)
	if status == http.StatusInternalServerError {
		return c.JSON(status, echo.Map{"message": "internal error"})
	}
	return c.JSON(status, echo.Map{"message": err.Error(), "code": apperr.Code(err)})
}
