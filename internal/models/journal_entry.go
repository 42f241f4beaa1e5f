package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind categorizes a single balance-affecting event on a drawer.
type EntryKind string

// JournalEntry represents one append-only journal row. Rows are never updated
// or deleted; (drawer_id, sequence_number) is unique.
type JournalEntry struct {
	EntryID           string          `db:"entry_id"` // Primary Key (UUID)
	DrawerID          string          `db:"drawer_id"`
	SequenceNumber    int64           `db:"sequence_number"`
	Kind              EntryKind       `db:"kind"`
	Amount            decimal.Decimal `db:"amount"` // Signed
	BalanceAfter      decimal.Decimal `db:"balance_after"`
	Description       string          `db:"description"`
	OccurredAt        time.Time       `db:"occurred_at"`
	RelatedTransferID *string         `db:"related_transfer_id"` // Nullable FK -> transfer_requests
	CreatedBy         string          `db:"created_by"`
}
