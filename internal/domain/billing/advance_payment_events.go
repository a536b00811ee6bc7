package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/sales/internal/domain/shared"
)

// Event type identifiers
const (
	EventTypeAdvancePaymentReceived = "advance_payment.received"
	EventTypeAdvancePaymentApplied  = "advance_payment.applied"
	EventTypeAdvancePaymentRefunded = "advance_payment.refunded"
)

// AdvancePaymentReceivedEvent is published when a deposit is recorded
type AdvancePaymentReceivedEvent struct {
	shared.BaseDomainEvent
	AdvanceNumber string          `json:"advance_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
}

// NewAdvancePaymentReceivedEvent creates a new AdvancePaymentReceivedEvent
func NewAdvancePaymentReceivedEvent(a *AdvancePayment) *AdvancePaymentReceivedEvent {
	return &AdvancePaymentReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAdvancePaymentReceived, "AdvancePayment", a.ID, a.TenantID),
		AdvanceNumber:   a.AdvanceNumber,
		CustomerID:      a.CustomerID,
		Amount:          a.Amount,
		Currency:        string(a.Currency),
	}
}

// AdvancePaymentAppliedEvent is published when part of the advance is
// applied to an invoice
type AdvancePaymentAppliedEvent struct {
	shared.BaseDomainEvent
	AdvanceNumber   string          `json:"advance_number"`
	InvoiceID       uuid.UUID       `json:"invoice_id"`
	InvoiceNumber   string          `json:"invoice_number"`
	Amount          decimal.Decimal `json:"amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
}

// NewAdvancePaymentAppliedEvent creates a new AdvancePaymentAppliedEvent
func NewAdvancePaymentAppliedEvent(a *AdvancePayment, invoiceID uuid.UUID, invoiceNumber string, amount decimal.Decimal) *AdvancePaymentAppliedEvent {
	return &AdvancePaymentAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAdvancePaymentApplied, "AdvancePayment", a.ID, a.TenantID),
		AdvanceNumber:   a.AdvanceNumber,
		InvoiceID:       invoiceID,
		InvoiceNumber:   invoiceNumber,
		Amount:          amount,
		RemainingAmount: a.RemainingAmount(),
	}
}

// AdvancePaymentRefundedEvent is published when the unapplied balance is
// returned to the customer
type AdvancePaymentRefundedEvent struct {
	shared.BaseDomainEvent
	AdvanceNumber  string          `json:"advance_number"`
	RefundedAmount decimal.Decimal `json:"refunded_amount"`
	Currency       string          `json:"currency"`
}

// NewAdvancePaymentRefundedEvent creates a new AdvancePaymentRefundedEvent
func NewAdvancePaymentRefundedEvent(a *AdvancePayment) *AdvancePaymentRefundedEvent {
	return &AdvancePaymentRefundedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAdvancePaymentRefunded, "AdvancePayment", a.ID, a.TenantID),
		AdvanceNumber:   a.AdvanceNumber,
		RefundedAmount:  a.RefundedAmount,
		Currency:        string(a.Currency),
	}
}
