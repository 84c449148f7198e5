package escalation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narvesen/supportbot/store"
)

func sampleUser() *store.User {
	return &store.User{ID: 42, Handle: "jdoe", FirstName: "John", LastName: "Doe"}
}

func TestRenderDossierSingleMessageUnderLimit(t *testing.T) {
	data := &store.UserDossierData{
		User: sampleUser(),
		Drops: []*store.Drop{
			{ID: 1, Amount: "1g", Area: "riga", ProductName: "snus", Status: store.DropStatusPaid, CreatedTs: 1000},
		},
		FirstSeenTs: 900,
		LastSeenTs:  1000,
	}

	parts := renderDossier(data)
	require.Len(t, parts, 1)
	assert.Contains(t, parts[0], "@jdoe")
	assert.Contains(t, parts[0], "Paid: 1")
	assert.NotContains(t, parts[0], "Part 1/")
}

func TestRenderDossierSplitsWhenOverLimit(t *testing.T) {
	data := &store.UserDossierData{
		User:        sampleUser(),
		FirstSeenTs: 900,
		LastSeenTs:  1000,
	}
	for i := 0; i < 200; i++ {
		data.Drops = append(data.Drops, &store.Drop{
			ID: int64(i), Amount: "1g", Area: "riga", ProductName: "snus",
			Status: store.DropStatusPaid, CreatedTs: 1000,
		})
	}

	parts := renderDossier(data)
	require.Greater(t, len(parts), 1)
	for _, p := range parts {
		assert.True(t, strings.HasPrefix(p, "Part "))
	}
	assert.Contains(t, parts[0], "@jdoe")
	for _, p := range parts[1:] {
		assert.Contains(t, p, tableHeader)
	}
}

func TestStatusLabelAngryRedropAndLost(t *testing.T) {
	d := &store.Drop{Status: store.DropStatusAngryRedrop, Lost: true}
	assert.Equal(t, "🤡 Redrop (Lost)", statusLabel(d))
}

func TestEmojiForFallsBackToGenericPackage(t *testing.T) {
	assert.Equal(t, "📦", emojiFor("unknown-product"))
	assert.Equal(t, "🟤", emojiFor("Snus"))
}

func TestRenderCountsOmitsZeroRows(t *testing.T) {
	drops := []*store.Drop{
		{Status: store.DropStatusPaid},
		{Status: store.DropStatusPaid},
	}
	counts := renderCounts(drops)
	assert.Contains(t, counts, "Paid: 2")
	assert.NotContains(t, counts, "Lost")
	assert.NotContains(t, counts, "Redrops")
}
