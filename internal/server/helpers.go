package server

import (
	"errors"
	"log/slog"

	"alumnet/internal/middleware"
	"alumnet/internal/models"
	"alumnet/internal/service"
	"alumnet/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// respondError writes the failure envelope. Internal errors are logged with
// their cause first; clients only see the generic message.
func respondError(c *fiber.Ctx, err error) error {
	appErr := models.AsAppError(err)
	if appErr.Code == models.CodeInternal {
		cause := appErr.Error()
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("error", cause))
	}
	return models.RespondWithError(c, appErr)
}

// parseBody decodes the JSON body into dst and runs struct validation.
// On failure it writes a 400 response and returns errResponseWritten.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		_ = respondError(c, models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	if err := validation.Struct(dst); err != nil {
		_ = respondError(c, err)
		return errResponseWritten
	}
	return nil
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = respondError(c, models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "userId" -> "user ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if n := len(param); n > 2 && param[n-2:] == "Id" {
		return param[:n-2] + " ID"
	}
	return param
}

// parsePage reads the 1-based page and limit query parameters.
func parsePage(c *fiber.Ctx, defaultLimit int) service.Page {
	return service.NewPage(c.QueryInt("page", 1), c.QueryInt("limit", defaultLimit), defaultLimit)
}

// actor is the authenticated caller as seen by the service layer.
func actor(c *fiber.Ctx) service.Actor {
	return service.Actor{UserID: middleware.CurrentUserID(c), Role: middleware.CurrentRole(c)}
}

// pageOf is the data shape of every paginated list response.
type pageOf[T any] struct {
	Items      []T               `json:"items"`
	Pagination models.Pagination `json:"pagination"`
}

func newPage[T any](items []T, page service.Page, total int64) pageOf[T] {
	if items == nil {
		items = []T{}
	}
	return pageOf[T]{Items: items, Pagination: page.Pagination(total)}
}
