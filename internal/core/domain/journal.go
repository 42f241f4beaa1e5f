package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind categorizes a single balance-affecting event on a drawer.
type EntryKind string

const (
	EntrySalePayment    EntryKind = "SALE_PAYMENT"
	EntryChangeIssued   EntryKind = "CHANGE_ISSUED"
	EntryTransferIn     EntryKind = "TRANSFER_IN"
	EntryTransferOut    EntryKind = "TRANSFER_OUT"
	EntryBankDeposit    EntryKind = "BANK_DEPOSIT"
	EntryExpensePayment EntryKind = "EXPENSE_PAYMENT"
	EntryAdjustment     EntryKind = "ADJUSTMENT"
	EntryOpeningBalance EntryKind = "OPENING_BALANCE"
	EntryClosingBalance EntryKind = "CLOSING_BALANCE"
)

// JournalEntry is an immutable, signed-amount record of one drawer event.
// Entries are append-only and totally ordered per drawer by SequenceNumber.
//
// Invariant: BalanceAfter of entry n equals BalanceAfter of entry n-1 plus Amount.
type JournalEntry struct {
	EntryID           string          `json:"entryID"`  // Primary Key (UUID)
	DrawerID          string          `json:"drawerID"` // FK -> drawers.drawer_id
	SequenceNumber    int64           `json:"sequenceNumber"`
	Kind              EntryKind       `json:"kind"`
	Amount            decimal.Decimal `json:"amount"` // Signed; positive credits the drawer
	BalanceAfter      decimal.Decimal `json:"balanceAfter"`
	Description       string          `json:"description"`
	OccurredAt        time.Time       `json:"occurredAt"`
	RelatedTransferID *string         `json:"relatedTransferID,omitempty"` // Set for transfer-driven entries
	CreatedBy         string          `json:"createdBy"`
}

// PeriodSummary aggregates journal entries over a date range.
// NetChange must equal BalanceAfter(last entry) - BalanceAfter(entry before range).
type PeriodSummary struct {
	TotalIn   decimal.Decimal `json:"totalIn"`  // Sum of positive amounts
	TotalOut  decimal.Decimal `json:"totalOut"` // Sum of |amount| for negative amounts
	NetChange decimal.Decimal `json:"netChange"`
}
