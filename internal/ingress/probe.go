package ingress

import (
	"context"
	"log/slog"
	"strings"

	"github.com/narvesen/supportbot/internal/botapi"
)

// deletionProbeChatID is a stable not-our-chat id; spec.md §4.8 leaves the
// exact value unspecified ("intent unclear; any stable not-our-chat id
// works"), so it is hard-coded as the spec allows.
const deletionProbeChatID = 1234567890

// ProbeDeleted reports whether a user's message still exists on the
// platform by attempting to copy it to an unrelated chat id and reading
// the resulting error substring (spec.md §4.8).
func ProbeDeleted(ctx context.Context, bot *botapi.Client, fromChatID int64, messageID int) bool {
	_, err := bot.CopyMessage(ctx, deletionProbeChatID, fromChatID, messageID)
	if err == nil {
		// the copy actually succeeded against our probe target, which
		// should never happen; treat conservatively as not deleted.
		return false
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "message to copy not found"),
		strings.Contains(msg, "message_id_invalid"),
		strings.Contains(msg, "message identifier is not valid"):
		return true
	case strings.Contains(msg, "chat not found"):
		return false
	default:
		slog.Warn("ingress: deletion probe returned unexpected error", "error", err)
		return false
	}
}
