package botapi

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/narvesen/supportbot/internal/apperr"
)

// Client is the bot identity's Bot API handle: send/copy/edit calls used
// by the ingress middleware and the escalation orchestrator (spec.md §6a).
type Client struct {
	bot *tgbotapi.BotAPI
}

func New(token string) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, apperr.NewPlatformError("NewBotAPI", err)
	}
	return &Client{bot: bot}, nil
}

func (c *Client) Self() tgbotapi.User {
	return c.bot.Self
}

// ChatDescription returns a chat's "about" field, used to identify the
// user an operator group was created for (spec.md §4.4/§4.6).
func (c *Client) ChatDescription(ctx context.Context, chatID int64) (string, error) {
	chat, err := c.bot.GetChat(tgbotapi.ChatInfoConfig{ChatConfig: tgbotapi.ChatConfig{ChatID: chatID}})
	if err != nil {
		return "", apperr.NewPlatformError("GetChat", err)
	}
	return chat.Description, nil
}

// SendText sends a text message with Markdown parse mode, per spec.md §6's
// "send text" Bot API.
func (c *Client) SendText(ctx context.Context, chatID int64, text string) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	sent, err := c.bot.Send(msg)
	if err != nil {
		return 0, apperr.NewPlatformError("SendText", err)
	}
	return sent.MessageID, nil
}

// SendTextWithKeyboard sends text with an inline keyboard, used for the
// "Close Ticket" callback button (spec.md §6).
func (c *Client) SendTextWithKeyboard(ctx context.Context, chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = markup
	sent, err := c.bot.Send(msg)
	if err != nil {
		return 0, apperr.NewPlatformError("SendTextWithKeyboard", err)
	}
	return sent.MessageID, nil
}

// EditReplyMarkup replaces a message's inline keyboard, used to disable
// the "Close Ticket" button once pressed (spec.md §6/§4.10).
func (c *Client) EditReplyMarkup(ctx context.Context, chatID int64, messageID int, markup tgbotapi.InlineKeyboardMarkup) error {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, markup)
	if _, err := c.bot.Send(edit); err != nil {
		return apperr.NewPlatformError("EditReplyMarkup", err)
	}
	return nil
}

// CopyMessage copies a message without the "forwarded from" attribution.
// Used both for normal relaying and, pointed at an invalid chat id, as the
// deletion probe (spec.md §4.8).
func (c *Client) CopyMessage(ctx context.Context, toChatID, fromChatID int64, messageID int) (int, error) {
	copyCfg := tgbotapi.NewCopyMessage(toChatID, fromChatID, messageID)
	sent, err := c.bot.CopyMessage(copyCfg)
	if err != nil {
		return 0, apperr.NewPlatformError("CopyMessage", err)
	}
	return sent.MessageID, nil
}

// SendPhoto relays a photo by file id, keeping its caption (spec.md §4.4).
func (c *Client) SendPhoto(ctx context.Context, chatID int64, fileID, caption string) (int, error) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(fileID))
	photo.Caption = caption
	sent, err := c.bot.Send(photo)
	if err != nil {
		return 0, apperr.NewPlatformError("SendPhoto", err)
	}
	return sent.MessageID, nil
}

// SendVideo relays a video by file id, keeping its caption (spec.md §4.4).
func (c *Client) SendVideo(ctx context.Context, chatID int64, fileID, caption string) (int, error) {
	video := tgbotapi.NewVideo(chatID, tgbotapi.FileID(fileID))
	video.Caption = caption
	sent, err := c.bot.Send(video)
	if err != nil {
		return 0, apperr.NewPlatformError("SendVideo", err)
	}
	return sent.MessageID, nil
}

// SendVoice relays a voice note by file id (spec.md §4.4).
func (c *Client) SendVoice(ctx context.Context, chatID int64, fileID, caption string) (int, error) {
	voice := tgbotapi.NewVoice(chatID, tgbotapi.FileID(fileID))
	voice.Caption = caption
	sent, err := c.bot.Send(voice)
	if err != nil {
		return 0, apperr.NewPlatformError("SendVoice", err)
	}
	return sent.MessageID, nil
}

// SendAudio relays an audio file by file id, keeping its caption (spec.md
// §4.4).
func (c *Client) SendAudio(ctx context.Context, chatID int64, fileID, caption string) (int, error) {
	audio := tgbotapi.NewAudio(chatID, tgbotapi.FileID(fileID))
	audio.Caption = caption
	sent, err := c.bot.Send(audio)
	if err != nil {
		return 0, apperr.NewPlatformError("SendAudio", err)
	}
	return sent.MessageID, nil
}

// SendDocument relays a document by file id, keeping its caption (spec.md
// §4.4).
func (c *Client) SendDocument(ctx context.Context, chatID int64, fileID, caption string) (int, error) {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileID(fileID))
	doc.Caption = caption
	sent, err := c.bot.Send(doc)
	if err != nil {
		return 0, apperr.NewPlatformError("SendDocument", err)
	}
	return sent.MessageID, nil
}

// SendSticker relays a sticker by file id (spec.md §4.4). Stickers carry no
// caption.
func (c *Client) SendSticker(ctx context.Context, chatID int64, fileID string) (int, error) {
	sticker := tgbotapi.NewSticker(chatID, tgbotapi.FileID(fileID))
	sent, err := c.bot.Send(sticker)
	if err != nil {
		return 0, apperr.NewPlatformError("SendSticker", err)
	}
	return sent.MessageID, nil
}

// SendAnimation relays a GIF/animation by file id, keeping its caption
// (spec.md §4.4).
func (c *Client) SendAnimation(ctx context.Context, chatID int64, fileID, caption string) (int, error) {
	anim := tgbotapi.NewAnimation(chatID, tgbotapi.FileID(fileID))
	anim.Caption = caption
	sent, err := c.bot.Send(anim)
	if err != nil {
		return 0, apperr.NewPlatformError("SendAnimation", err)
	}
	return sent.MessageID, nil
}

// SendVideoNote relays a round video note by file id (spec.md §4.4). Video
// notes carry no caption; length is the note's side length in pixels, as
// reported on the original message.
func (c *Client) SendVideoNote(ctx context.Context, chatID int64, fileID string, length int) (int, error) {
	note := tgbotapi.NewVideoNote(chatID, length, tgbotapi.FileID(fileID))
	sent, err := c.bot.Send(note)
	if err != nil {
		return 0, apperr.NewPlatformError("SendVideoNote", err)
	}
	return sent.MessageID, nil
}

// SendTextToUsername sends a text message addressed by @username instead of
// a chat id, used to page the configured support handle when no worker
// identity is available (spec.md §4.6/§7).
func (c *Client) SendTextToUsername(ctx context.Context, username, text string) (int, error) {
	msg := tgbotapi.NewMessageToChannel(username, text)
	sent, err := c.bot.Send(msg)
	if err != nil {
		return 0, apperr.NewPlatformError("SendTextToUsername", err)
	}
	return sent.MessageID, nil
}
