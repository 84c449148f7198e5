// Package botapi wraps github.com/go-telegram-bot-api/telegram-bot-api/v5
// for the two Bot-API-facing roles named in spec.md §6: the user-facing
// bot identity (send/copy/edit) and the inbound webhook decoder.
package botapi

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// ContentType is the content-label set from spec.md §4.4, extending the
// teacher's MessageType switch (plugin/chat_apps/channels/telegram/
// telegram.go only modeled text/photo/audio/video/document) with every
// kind Telegram can deliver.
type ContentType string

const (
	ContentText      ContentType = "text"
	ContentPhoto     ContentType = "photo"
	ContentVideo     ContentType = "video"
	ContentVoice     ContentType = "voice"
	ContentAudio     ContentType = "audio"
	ContentSticker   ContentType = "sticker"
	ContentAnimation ContentType = "animation"
	ContentDocument  ContentType = "document"
	ContentVideoNote ContentType = "video_note"
	ContentOther     ContentType = "other"
)

// ClassifyContent maps a Telegram message to one of the content labels in
// spec.md §4.4, the way the teacher's ParseMessage switches on tgMsg's
// populated media field.
func ClassifyContent(msg *tgbotapi.Message) ContentType {
	switch {
	case msg.Text != "":
		return ContentText
	case len(msg.Photo) > 0:
		return ContentPhoto
	case msg.Video != nil:
		return ContentVideo
	case msg.Voice != nil:
		return ContentVoice
	case msg.Audio != nil:
		return ContentAudio
	case msg.Sticker != nil:
		return ContentSticker
	case msg.Animation != nil:
		return ContentAnimation
	case msg.Document != nil:
		return ContentDocument
	case msg.VideoNote != nil:
		return ContentVideoNote
	default:
		return ContentOther
	}
}

// Placeholder renders the bracketed placeholder stored as a SupportMessage's
// user_text for non-text content (spec.md §3: "a bracketed placeholder
// like (photo), (voice)").
func (c ContentType) Placeholder() string {
	if c == ContentText {
		return ""
	}
	return "(" + string(c) + ")"
}

var placeholderTypes = map[string]ContentType{
	"(photo)":      ContentPhoto,
	"(video)":      ContentVideo,
	"(voice)":      ContentVoice,
	"(audio)":      ContentAudio,
	"(sticker)":    ContentSticker,
	"(animation)":  ContentAnimation,
	"(document)":   ContentDocument,
	"(video_note)": ContentVideoNote,
	"(other)":      ContentOther,
}

// ContentTypeFromStoredText recovers the content label a SupportMessage was
// stored under: the inverse of Placeholder, used once the original
// tgbotapi.Message is no longer available (spec.md §4.5 content-only
// shortcuts consult the persisted ticket, not the live update).
func ContentTypeFromStoredText(text string) ContentType {
	if ct, ok := placeholderTypes[text]; ok {
		return ct
	}
	return ContentText
}
