package ingress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCommandLikeSlash(t *testing.T) {
	assert.True(t, isCommandLike("/start"))
	assert.True(t, isCommandLike("/help"))
}

func TestIsCommandLikeFuzzyStart(t *testing.T) {
	assert.True(t, isCommandLike("start"))
	assert.True(t, isCommandLike("strt"))
	assert.True(t, isCommandLike("Start"))
}

func TestIsCommandLikeRejectsUnrelatedText(t *testing.T) {
	assert.False(t, isCommandLike("hi I can't find the drop"))
	assert.False(t, isCommandLike(""))
}
