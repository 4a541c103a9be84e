package payments

import (
	"context"

	"github.com/google/uuid"
)

// Intent is the gateway handle returned when payment collection starts.
type Intent struct {
	ID          string `json:"id"`
	OrderID     string `json:"order_id"`
	AmountCents int    `json:"amount_cents"`
	Status      string `json:"status"`
}

// CustomerInfo is the minimal payer identity passed to the gateway.
type CustomerInfo struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// Collaborator starts payment collection for a submitted checkout.
// Implementations talk to an external gateway; the manual collaborator
// records intent locally and leaves settlement to back-office flows.
type Collaborator interface {
	CreateIntent(ctx context.Context, orderID uuid.UUID, amountCents int, customer CustomerInfo) (*Intent, error)
}

type manualCollaborator struct{}

// NewManualCollaborator returns a collaborator for card-on-delivery and
// manual settlement. It never rejects and performs no external calls.
func NewManualCollaborator() Collaborator {
	return manualCollaborator{}
}

func (manualCollaborator) CreateIntent(_ context.Context, orderID uuid.UUID, amountCents int, _ CustomerInfo) (*Intent, error) {
	return &Intent{
		ID:          "manual_" + uuid.NewString(),
		OrderID:     orderID.String(),
		AmountCents: amountCents,
		Status:      "requires_manual_settlement",
	}, nil
}
