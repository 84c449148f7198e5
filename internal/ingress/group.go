package ingress

import (
	"context"
	"strconv"
	"strings"

	"github.com/narvesen/supportbot/internal/botapi"
	"github.com/narvesen/supportbot/store"
)

// groupUserID resolves the user an operator group chat was created for.
// The persisted group bindings are scanned for a matching group_id first;
// the group's "about" field, set to the user_id at creation time (spec.md
// §4.4), is the fallback when no binding matches.
func groupUserID(ctx context.Context, st *store.Store, bot *botapi.Client, chatID int64) (int64, error) {
	bindings, err := st.GetAllGroupBindings(ctx)
	if err != nil {
		return 0, err
	}
	for _, b := range bindings {
		if b.GroupID == chatID {
			return b.UserID, nil
		}
	}

	about, err := bot.ChatDescription(ctx, chatID)
	if err != nil {
		return 0, nil
	}
	id, ok := parseAboutUserID(about)
	if !ok {
		return 0, nil
	}
	return id, nil
}

// parseAboutUserID parses the numeric user_id stored in a group's about
// field at creation time (spec.md §4.6 step 2).
func parseAboutUserID(about string) (int64, bool) {
	about = strings.TrimSpace(about)
	id, err := strconv.ParseInt(about, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
