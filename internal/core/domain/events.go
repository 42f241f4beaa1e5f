package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferResolvedEvent is emitted after a transfer request reaches a terminal
// state. Notification and audit subsystems subscribe to it; the core never
// waits for delivery.
type TransferResolvedEvent struct {
	RequestID   string          `json:"requestID"`
	Kind        TransferKind    `json:"kind"`
	Status      TransferStatus  `json:"status"`
	FromActorID string          `json:"fromActorID"`
	ToActorID   string          `json:"toActorID"`
	Amount      decimal.Decimal `json:"amount"`
	ResolvedBy  string          `json:"resolvedBy"`
	ResolvedAt  time.Time       `json:"resolvedAt"`
}
