package store

import "context"

// Driver is the typed data-access contract implemented by each backing
// database (postgres, sqlite), per spec.md §4.1. Store delegates every
// business-facing method to a Driver, adding caching and StorageError
// wrapping.
type Driver interface {
	Migrate(ctx context.Context) error
	Close() error

	GetUser(ctx context.Context, id int64) (*User, error)
	UpsertUser(ctx context.Context, upsert *UpsertUser) (*User, error)

	AppendUserMessage(ctx context.Context, userID int64, messageID int64, text string, replied bool) (*SupportMessage, error)
	GetActiveTickets(ctx context.Context, filter *TicketFilter) ([]*SupportTicket, error)
	GetTicket(ctx context.Context, ticketID int64) (*SupportTicket, error)
	SetLangAndCategory(ctx context.Context, ticketID int64, category, lang string) error
	MarkMessagesReplied(ctx context.Context, ticketID int64) error
	MarkMessageDeleted(ctx context.Context, id int64) error
	CloseTicket(ctx context.Context, ticketID int64) error
	SetMessagesForwarded(ctx context.Context, ticketID int64) error
	GetPreviousCategoryKey(ctx context.Context, userID int64) (string, error)
	UpdateEditedMessage(ctx context.Context, userID, messageID int64, newText string) (bool, error)
	GetMessageByPlatformID(ctx context.Context, userID, messageID int64) (*SupportMessage, error)

	UpsertMute(ctx context.Context, userID int64, durationSeconds int64) error
	IsMuted(ctx context.Context, userID int64) (bool, error)

	UpsertGroupBinding(ctx context.Context, userID, groupID int64, createdBy string) error
	GetGroupBinding(ctx context.Context, userID int64) (*OperatorGroupBinding, error)
	DeleteGroupBinding(ctx context.Context, userID int64) error
	CountGroupsCreatedBy(ctx context.Context, workerIdentity string) (int, error)
	GetAllGroupBindings(ctx context.Context) ([]*OperatorGroupBinding, error)
	GetLatestTicketCreatedTs(ctx context.Context, userID int64) (int64, bool, error)
	HasOpenTicket(ctx context.Context, userID int64) (bool, error)

	GetUserAndDrops(ctx context.Context, userID int64, statuses []DropStatus, orderBy string) (*UserDossierData, error)

	GetBotSettings(ctx context.Context) (*BotSettings, error)
	UpdateBotSettings(ctx context.Context, settings *BotSettings) error
}
