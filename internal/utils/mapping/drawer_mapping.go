package mapping

import (
	"github.com/tillpoint/cashdesk_backend/internal/core/domain"
	"github.com/tillpoint/cashdesk_backend/internal/models"
)

// ToModelDrawer converts a domain Drawer to a model Drawer
func ToModelDrawer(d domain.Drawer) models.Drawer {
	return models.Drawer{
		DrawerID:       d.DrawerID,
		TenantID:       d.TenantID,
		OwnerID:        d.OwnerID,
		Name:           d.Name,
		Status:         models.DrawerStatus(d.Status),
		OpeningBalance: d.OpeningBalance,
		CurrentBalance: d.CurrentBalance,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDrawer converts a model Drawer to a domain Drawer
func ToDomainDrawer(m models.Drawer) domain.Drawer {
	return domain.Drawer{
		DrawerID:       m.DrawerID,
		TenantID:       m.TenantID,
		OwnerID:        m.OwnerID,
		Name:           m.Name,
		Status:         domain.DrawerStatus(m.Status),
		OpeningBalance: m.OpeningBalance,
		CurrentBalance: m.CurrentBalance,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainDrawerSlice converts a slice of model Drawers to domain Drawers
func ToDomainDrawerSlice(ms []models.Drawer) []domain.Drawer {
	ds := make([]domain.Drawer, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainDrawer(m)
	}
	return ds
}

// ToModelJournalEntry converts a domain JournalEntry to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:           d.EntryID,
		DrawerID:          d.DrawerID,
		SequenceNumber:    d.SequenceNumber,
		Kind:              models.EntryKind(d.Kind),
		Amount:            d.Amount,
		BalanceAfter:      d.BalanceAfter,
		Description:       d.Description,
		OccurredAt:        d.OccurredAt,
		RelatedTransferID: d.RelatedTransferID,
		CreatedBy:         d.CreatedBy,
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:           m.EntryID,
		DrawerID:          m.DrawerID,
		SequenceNumber:    m.SequenceNumber,
		Kind:              domain.EntryKind(m.Kind),
		Amount:            m.Amount,
		BalanceAfter:      m.BalanceAfter,
		Description:       m.Description,
		OccurredAt:        m.OccurredAt,
		RelatedTransferID: m.RelatedTransferID,
		CreatedBy:         m.CreatedBy,
	}
}

// ToDomainJournalEntrySlice converts a slice of model JournalEntries to domain JournalEntries
func ToDomainJournalEntrySlice(ms []models.JournalEntry) []domain.JournalEntry {
	ds := make([]domain.JournalEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalEntry(m)
	}
	return ds
}
