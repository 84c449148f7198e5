package engine

import (
	"unicode"

	"github.com/narvesen/supportbot/internal/botapi"
	"github.com/narvesen/supportbot/store"
)

// messageKinds classifies a batch of unread messages back into content
// types, recovering them from the stored placeholder text (spec.md §4.5
// step 4, "content-only shortcuts").
func messageKinds(msgs []*store.SupportMessage) []botapi.ContentType {
	kinds := make([]botapi.ContentType, len(msgs))
	for i, m := range msgs {
		kinds[i] = botapi.ContentTypeFromStoredText(m.UserText)
	}
	return kinds
}

func allIn(kinds []botapi.ContentType, set map[botapi.ContentType]bool) bool {
	if len(kinds) == 0 {
		return false
	}
	for _, k := range kinds {
		if !set[k] {
			return false
		}
	}
	return true
}

var mediaKinds = map[botapi.ContentType]bool{
	botapi.ContentPhoto:     true,
	botapi.ContentVideo:     true,
	botapi.ContentVideoNote: true,
}

var voiceKinds = map[botapi.ContentType]bool{
	botapi.ContentVoice: true,
	botapi.ContentAudio: true,
}

// anyMedia reports whether any message in msgs is a photo/video/video_note,
// used by subroutine A's "escalate immediately with proof" special case
// (spec.md §4.5 step 7) and by subroutine B's media check.
func anyMedia(msgs []*store.SupportMessage) bool {
	for _, m := range msgs {
		if mediaKinds[botapi.ContentTypeFromStoredText(m.UserText)] {
			return true
		}
	}
	return false
}

// isPlaceholderOnlyBatch reports whether every message is a non-text kind other
// than voice/audio/media — sticker, animation, document, or other — which
// the spec closes silently.
func isPlaceholderOnlyBatch(kinds []botapi.ContentType) bool {
	if len(kinds) == 0 {
		return false
	}
	for _, k := range kinds {
		switch k {
		case botapi.ContentSticker, botapi.ContentAnimation, botapi.ContentDocument, botapi.ContentOther:
		default:
			return false
		}
	}
	return true
}

// isEmojiOnly reports whether text consists solely of emoji/symbol runes
// and whitespace. There is no emoji library anywhere in the example pack
// (grounding ledger: DESIGN.md), so this is one of the few concerns this
// repo implements directly against unicode range tables rather than a
// third-party dependency.
func isEmojiOnly(text string) bool {
	trimmed := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		trimmed = true
		if !isEmojiRune(r) {
			return false
		}
	}
	return trimmed
}

func isEmojiRune(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF: // misc symbols & pictographs through symbols-and-pictographs-extended-a
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols, dingbats
		return true
	case r >= 0x2190 && r <= 0x21FF: // arrows
		return true
	case r == 0x200D || r == 0xFE0F: // ZWJ, variation selector
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF: // regional indicators (flags)
		return true
	default:
		return false
	}
}

// isEmojiOnlyBatch reports whether every message in the batch is either
// emoji-only text or a sticker/animation/document/other placeholder
// (spec.md §4.5 step 4 third bullet); any media or voice message makes it
// false.
func isEmojiOnlyBatch(msgs []*store.SupportMessage, kinds []botapi.ContentType) bool {
	for i, k := range kinds {
		switch k {
		case botapi.ContentText:
			if !isEmojiOnly(msgs[i].UserText) {
				return false
			}
		case botapi.ContentSticker, botapi.ContentAnimation, botapi.ContentDocument, botapi.ContentOther:
		default:
			return false
		}
	}
	return true
}
