package models

import (
	"math"

	"github.com/gofiber/fiber/v2"
)

// ExposeErrorDetails controls whether internal error causes are echoed to
// clients. It is switched off in production.
var ExposeErrorDetails = true

// Envelope is the response body shared by every endpoint.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Data    any    `json:"data,omitempty"`
	Details string `json:"details,omitempty"`
}

// Pagination describes a page of a larger result set.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewPagination computes the page count for total rows at the given limit.
func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// Respond writes a success envelope.
func Respond(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RespondWithError writes a failure envelope with the status derived from the
// error code. Non-AppErrors are reported as internal errors.
func RespondWithError(c *fiber.Ctx, err error) error {
	appErr := AsAppError(err)

	response := Envelope{
		Success: false,
		Message: appErr.Message,
		Code:    appErr.Code,
	}
	if appErr.Err != nil && ExposeErrorDetails {
		response.Details = appErr.Err.Error()
	}

	return c.Status(appErr.HTTPStatus()).JSON(response)
}
