package mapping

import (
	"github.com/tillpoint/cashdesk_backend/internal/core/domain"
	"github.com/tillpoint/cashdesk_backend/internal/models"
)

// ToModelTransferRequest converts a domain TransferRequest to a model TransferRequest
func ToModelTransferRequest(d domain.TransferRequest) models.TransferRequest {
	return models.TransferRequest{
		RequestID:       d.RequestID,
		TenantID:        d.TenantID,
		Kind:            models.TransferKind(d.Kind),
		Amount:          d.Amount,
		Status:          models.TransferStatus(d.Status),
		FromActorID:     d.FromActorID,
		ToActorID:       d.ToActorID,
		FromDrawerID:    d.FromDrawerID,
		ToDrawerID:      d.ToDrawerID,
		ToExternalAccID: d.ToExternalAccID,
		Reason:          d.Reason,
		Notes:           d.Notes,
		ReferenceNumber: d.ReferenceNumber,
		CreatedAt:       d.CreatedAt,
		CreatedBy:       d.CreatedBy,
		RespondedAt:     d.RespondedAt,
		RespondedBy:     d.RespondedBy,
	}
}

// ToDomainTransferRequest converts a model TransferRequest to a domain TransferRequest
func ToDomainTransferRequest(m models.TransferRequest) domain.TransferRequest {
	return domain.TransferRequest{
		RequestID:       m.RequestID,
		TenantID:        m.TenantID,
		Kind:            domain.TransferKind(m.Kind),
		Amount:          m.Amount,
		Status:          domain.TransferStatus(m.Status),
		FromActorID:     m.FromActorID,
		ToActorID:       m.ToActorID,
		FromDrawerID:    m.FromDrawerID,
		ToDrawerID:      m.ToDrawerID,
		ToExternalAccID: m.ToExternalAccID,
		Reason:          m.Reason,
		Notes:           m.Notes,
		ReferenceNumber: m.ReferenceNumber,
		CreatedAt:       m.CreatedAt,
		CreatedBy:       m.CreatedBy,
		RespondedAt:     m.RespondedAt,
		RespondedBy:     m.RespondedBy,
	}
}

// ToDomainTransferRequestSlice converts a slice of model TransferRequests to domain TransferRequests
func ToDomainTransferRequestSlice(ms []models.TransferRequest) []domain.TransferRequest {
	ds := make([]domain.TransferRequest, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransferRequest(m)
	}
	return ds
}
