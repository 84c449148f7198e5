package botapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// UpdateHandler processes one decoded Telegram update. Errors are logged
// by the caller; they never abort the HTTP response (spec.md §7: a
// per-item platform failure must not take down ingestion).
type UpdateHandler func(u *Update) error

// EchoHandler decodes the webhook POST body into an Update and invokes
// handle, always replying 200 OK so Telegram doesn't retry the delivery
// (grounded on the teacher's webhook.go decode-then-dispatch shape).
func EchoHandler(handle UpdateHandler) echo.HandlerFunc {
	return func(c echo.Context) error {
		var update Update
		if err := json.NewDecoder(c.Request().Body).Decode(&update); err != nil {
			slog.Warn("botapi: failed to decode webhook payload", "error", err)
			return c.NoContent(http.StatusOK)
		}

		if err := handle(&update); err != nil {
			slog.Error("botapi: update handler failed", "error", err)
		}
		return c.NoContent(http.StatusOK)
	}
}
