package botapi

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// Update aliases the library's Update, documented here to anchor the
// fields the ingress middleware actually reads.
type Update = tgbotapi.Update

// ExtractUserID returns the sender's numeric id from any update shape
// that carries one.
func ExtractUserID(u *Update) int64 {
	switch {
	case u.Message != nil && u.Message.From != nil:
		return u.Message.From.ID
	case u.EditedMessage != nil && u.EditedMessage.From != nil:
		return u.EditedMessage.From.ID
	case u.CallbackQuery != nil && u.CallbackQuery.From != nil:
		return u.CallbackQuery.From.ID
	default:
		return 0
	}
}

// ExtractChatID returns the chat id an update occurred in.
func ExtractChatID(u *Update) int64 {
	switch {
	case u.Message != nil:
		return u.Message.Chat.ID
	case u.EditedMessage != nil:
		return u.EditedMessage.Chat.ID
	case u.CallbackQuery != nil && u.CallbackQuery.Message != nil:
		return u.CallbackQuery.Message.Chat.ID
	default:
		return 0
	}
}

// IsPrivateChat reports whether the update's chat is a 1:1 DM with the bot
// (spec.md §4.4's "user private message" sub-route), as opposed to an
// operator group.
func IsPrivateChat(u *Update) bool {
	switch {
	case u.Message != nil:
		return u.Message.Chat.IsPrivate()
	case u.EditedMessage != nil:
		return u.EditedMessage.Chat.IsPrivate()
	default:
		return false
	}
}

// MessageText returns the text of whichever message variant is populated,
// or "" for non-text/non-message updates.
func MessageText(u *Update) string {
	switch {
	case u.Message != nil:
		return u.Message.Text
	case u.EditedMessage != nil:
		return u.EditedMessage.Text
	default:
		return ""
	}
}
