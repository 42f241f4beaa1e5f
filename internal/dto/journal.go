package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tillpoint/cashdesk_backend/internal/core/domain"
)

// GetJournalParams defines query parameters for fetching a drawer's journal.
type GetJournalParams struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID           string           `json:"entryID"`
	DrawerID          string           `json:"drawerID"`
	SequenceNumber    int64            `json:"sequenceNumber"`
	Kind              domain.EntryKind `json:"kind"`
	Amount            decimal.Decimal  `json:"amount"`
	BalanceAfter      decimal.Decimal  `json:"balanceAfter"`
	Description       string           `json:"description"`
	OccurredAt        time.Time        `json:"occurredAt"`
	RelatedTransferID *string          `json:"relatedTransferID,omitempty"`
}

// JournalResponse bundles the entries of a period with their aggregation.
type JournalResponse struct {
	DrawerID string                 `json:"drawerID"`
	Entries  []JournalEntryResponse `json:"entries"`
	Summary  domain.PeriodSummary   `json:"summary"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to its DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	return JournalEntryResponse{
		EntryID:           e.EntryID,
		DrawerID:          e.DrawerID,
		SequenceNumber:    e.SequenceNumber,
		Kind:              e.Kind,
		Amount:            e.Amount,
		BalanceAfter:      e.BalanceAfter,
		Description:       e.Description,
		OccurredAt:        e.OccurredAt,
		RelatedTransferID: e.RelatedTransferID,
	}
}

// ToJournalEntryResponses converts a slice of entries to DTOs.
func ToJournalEntryResponses(entries []domain.JournalEntry) []JournalEntryResponse {
	res := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		res[i] = ToJournalEntryResponse(&entries[i])
	}
	return res
}
