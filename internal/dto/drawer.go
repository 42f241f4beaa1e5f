package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tillpoint/cashdesk_backend/internal/core/domain"
)

// CreateDrawerRequest defines the data needed to register a new drawer.
type CreateDrawerRequest struct {
	Name    string `json:"name" binding:"required"`
	OwnerID string `json:"ownerID"` // Optional; defaults to the calling actor
}

// OpenDrawerRequest defines the data needed to open a drawer.
type OpenDrawerRequest struct {
	OpeningBalance decimal.Decimal `json:"openingBalance" binding:"required"`
}

// RecordEntryRequest defines the data needed to record a cash movement on an
// open drawer (sale payment, change, deposit, expense, adjustment).
type RecordEntryRequest struct {
	Kind        domain.EntryKind `json:"kind" binding:"required,oneof=SALE_PAYMENT CHANGE_ISSUED BANK_DEPOSIT EXPENSE_PAYMENT ADJUSTMENT"`
	Amount      decimal.Decimal  `json:"amount" binding:"required"`
	Description string           `json:"description"`
}

// DrawerResponse defines the data returned for a drawer.
type DrawerResponse struct {
	DrawerID       string              `json:"drawerID"`
	TenantID       string              `json:"tenantID"`
	OwnerID        string              `json:"ownerID"`
	Name           string              `json:"name"`
	Status         domain.DrawerStatus `json:"status"`
	OpeningBalance decimal.Decimal     `json:"openingBalance"`
	CurrentBalance decimal.Decimal     `json:"currentBalance"`
	CreatedAt      time.Time           `json:"createdAt"`
	LastUpdatedAt  time.Time           `json:"lastUpdatedAt"`
}

// DrawerBalanceResponse defines the data returned for a balance query.
type DrawerBalanceResponse struct {
	DrawerID string          `json:"drawerID"`
	Balance  decimal.Decimal `json:"balance"`
}

// ToDrawerResponse converts a domain.Drawer to DrawerResponse DTO.
func ToDrawerResponse(d *domain.Drawer) DrawerResponse {
	return DrawerResponse{
		DrawerID:       d.DrawerID,
		TenantID:       d.TenantID,
		OwnerID:        d.OwnerID,
		Name:           d.Name,
		Status:         d.Status,
		OpeningBalance: d.OpeningBalance,
		CurrentBalance: d.CurrentBalance,
		CreatedAt:      d.CreatedAt,
		LastUpdatedAt:  d.LastUpdatedAt,
	}
}

// ToListDrawerResponse converts a slice of domain.Drawer to response DTOs.
func ToListDrawerResponse(drawers []domain.Drawer) []DrawerResponse {
	res := make([]DrawerResponse, len(drawers))
	for i := range drawers {
		res[i] = ToDrawerResponse(&drawers[i])
	}
	return res
}
