package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/narvesen/supportbot/internal/botapi"
	"github.com/narvesen/supportbot/store"
)

func TestIsEmojiOnly(t *testing.T) {
	assert.True(t, isEmojiOnly("👍"))
	assert.True(t, isEmojiOnly("🔥🔥 🤡"))
	assert.False(t, isEmojiOnly("👍 thanks"))
	assert.False(t, isEmojiOnly(""))
	assert.False(t, isEmojiOnly("   "))
}

func TestIsPlaceholderOnlyBatch(t *testing.T) {
	assert.True(t, isPlaceholderOnlyBatch([]botapi.ContentType{botapi.ContentSticker, botapi.ContentDocument}))
	assert.False(t, isPlaceholderOnlyBatch([]botapi.ContentType{botapi.ContentSticker, botapi.ContentPhoto}))
	assert.False(t, isPlaceholderOnlyBatch(nil))
}

func TestAnyMediaDetectsPhotoFromStoredPlaceholder(t *testing.T) {
	msgs := []*store.SupportMessage{
		{UserText: "(photo)"},
		{UserText: "hello"},
	}
	assert.True(t, anyMedia(msgs))
}

func TestIsEmojiOnlyBatchIgnoresNonTextKinds(t *testing.T) {
	msgs := []*store.SupportMessage{{UserText: "(sticker)"}, {UserText: "👍"}}
	kinds := messageKinds(msgs)
	assert.True(t, isEmojiOnlyBatch(msgs, kinds))
}
