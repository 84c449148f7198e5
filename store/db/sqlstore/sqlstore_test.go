package sqlstore_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/narvesen/supportbot/store"
	"github.com/narvesen/supportbot/store/db/sqlstore"
)

func newTestDriver(t *testing.T) store.Driver {
	t.Helper()
	conn, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	driver := sqlstore.New(conn, sqlstore.DialectSQLite)
	require.NoError(t, driver.Migrate(context.Background()))
	return driver
}

func TestUpsertUserCreatesThenUpdates(t *testing.T) {
	ctx := context.Background()
	driver := newTestDriver(t)

	u, err := driver.UpsertUser(ctx, &store.UpsertUser{ID: 42, Handle: "alice", FirstName: "Alice"})
	require.NoError(t, err)
	require.Equal(t, "alice", u.Handle)
	require.Equal(t, "Alice", u.FullName())

	u2, err := driver.UpsertUser(ctx, &store.UpsertUser{ID: 42, Handle: "alice2", FirstName: "Alice", LastName: "Smith"})
	require.NoError(t, err)
	require.Equal(t, "alice2", u2.Handle)
	require.Equal(t, "Alice Smith", u2.FullName())
}

func TestAppendUserMessageReusesOpenTicket(t *testing.T) {
	ctx := context.Background()
	driver := newTestDriver(t)
	_, err := driver.UpsertUser(ctx, &store.UpsertUser{ID: 7})
	require.NoError(t, err)

	m1, err := driver.AppendUserMessage(ctx, 7, 100, "hello", false)
	require.NoError(t, err)
	m2, err := driver.AppendUserMessage(ctx, 7, 101, "still broken", false)
	require.NoError(t, err)

	require.Equal(t, m1.TicketID, m2.TicketID)

	open, err := driver.HasOpenTicket(ctx, 7)
	require.NoError(t, err)
	require.True(t, open)

	ticket, err := driver.GetTicket(ctx, m1.TicketID)
	require.NoError(t, err)
	require.Len(t, ticket.Messages, 2)
	require.False(t, ticket.Categorized())
}

func TestAppendUserMessageOpensNewTicketAfterClose(t *testing.T) {
	ctx := context.Background()
	driver := newTestDriver(t)
	_, err := driver.UpsertUser(ctx, &store.UpsertUser{ID: 8})
	require.NoError(t, err)

	m1, err := driver.AppendUserMessage(ctx, 8, 1, "hi", false)
	require.NoError(t, err)
	require.NoError(t, driver.CloseTicket(ctx, m1.TicketID))

	m2, err := driver.AppendUserMessage(ctx, 8, 2, "hi again", false)
	require.NoError(t, err)
	require.NotEqual(t, m1.TicketID, m2.TicketID)
}

func TestSetLangAndCategoryOnlyOnce(t *testing.T) {
	ctx := context.Background()
	driver := newTestDriver(t)
	_, err := driver.UpsertUser(ctx, &store.UpsertUser{ID: 9})
	require.NoError(t, err)
	msg, err := driver.AppendUserMessage(ctx, 9, 1, "hi", false)
	require.NoError(t, err)

	require.NoError(t, driver.SetLangAndCategory(ctx, msg.TicketID, "billing", "eng"))

	err = driver.SetLangAndCategory(ctx, msg.TicketID, "shipping", "eng")
	require.Error(t, err)

	ticket, err := driver.GetTicket(ctx, msg.TicketID)
	require.NoError(t, err)
	require.True(t, ticket.Categorized())
	require.Equal(t, "billing", *ticket.SupportIssue)
}

func TestUpdateEditedMessageOnlyBeforeReply(t *testing.T) {
	ctx := context.Background()
	driver := newTestDriver(t)
	_, err := driver.UpsertUser(ctx, &store.UpsertUser{ID: 10})
	require.NoError(t, err)
	msg, err := driver.AppendUserMessage(ctx, 10, 1, "orig", false)
	require.NoError(t, err)

	ok, err := driver.UpdateEditedMessage(ctx, 10, 1, "edited")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, driver.MarkMessagesReplied(ctx, msg.TicketID))

	ok, err = driver.UpdateEditedMessage(ctx, 10, 1, "edited again")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMuteExpiresOnRead(t *testing.T) {
	ctx := context.Background()
	driver := newTestDriver(t)
	_, err := driver.UpsertUser(ctx, &store.UpsertUser{ID: 11})
	require.NoError(t, err)

	require.NoError(t, driver.UpsertMute(ctx, 11, -1))

	muted, err := driver.IsMuted(ctx, 11)
	require.NoError(t, err)
	require.False(t, muted)
}

func TestGroupBindingLifecycle(t *testing.T) {
	ctx := context.Background()
	driver := newTestDriver(t)
	_, err := driver.UpsertUser(ctx, &store.UpsertUser{ID: 12})
	require.NoError(t, err)

	require.NoError(t, driver.UpsertGroupBinding(ctx, 12, -1001, "worker-a"))
	b, err := driver.GetGroupBinding(ctx, 12)
	require.NoError(t, err)
	require.Equal(t, int64(-1001), b.GroupID)

	n, err := driver.CountGroupsCreatedBy(ctx, "worker-a")
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.NoError(t, driver.DeleteGroupBinding(ctx, 12))
	b, err = driver.GetGroupBinding(ctx, 12)
	require.NoError(t, err)
	require.Nil(t, b)
}

func TestGetPreviousCategoryKey(t *testing.T) {
	ctx := context.Background()
	driver := newTestDriver(t)
	_, err := driver.UpsertUser(ctx, &store.UpsertUser{ID: 13})
	require.NoError(t, err)

	m1, err := driver.AppendUserMessage(ctx, 13, 1, "first", false)
	require.NoError(t, err)
	require.NoError(t, driver.SetLangAndCategory(ctx, m1.TicketID, "billing", "eng"))
	require.NoError(t, driver.CloseTicket(ctx, m1.TicketID))

	m2, err := driver.AppendUserMessage(ctx, 13, 2, "second", false)
	require.NoError(t, err)
	require.NoError(t, driver.SetLangAndCategory(ctx, m2.TicketID, "shipping", "eng"))

	key, err := driver.GetPreviousCategoryKey(ctx, 13)
	require.NoError(t, err)
	require.Equal(t, "billing", key)
}
