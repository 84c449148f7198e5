package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/narvesen/supportbot/store"
)

func TestDispatchTableCoversEveryKnownCategory(t *testing.T) {
	for _, c := range knownCategories {
		_, ok := dispatchTable[c]
		assert.True(t, ok, "missing dispatch entry for %q", c)
	}
}

func TestSuppressibleExcludesEscalationAndGatherInfo(t *testing.T) {
	assert.False(t, suppressible("wrong_drop_info"))
	assert.False(t, suppressible("cant_find_product_or_drop_or_dead_drop"))
	assert.True(t, suppressible("dont_know_how_to_pay"))
	assert.True(t, suppressible("user_says_thanks"))
	assert.False(t, suppressible("unknown_category"))
}

func TestLangDefaultsToOtherWhenUnset(t *testing.T) {
	assert.Equal(t, "other", lang(&store.SupportTicket{}))
}

func TestLangReturnsSetValue(t *testing.T) {
	l := "eng"
	assert.Equal(t, "eng", lang(&store.SupportTicket{Lang: &l}))
}
