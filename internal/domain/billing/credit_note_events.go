package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/sales/internal/domain/shared"
)

// Event type identifiers
const (
	EventTypeCreditNoteCreated = "credit_note.created"
	EventTypeCreditNoteIssued  = "credit_note.issued"
	EventTypeCreditNoteApplied = "credit_note.applied"
)

// CreditNoteCreatedEvent is published when a credit note is created
type CreditNoteCreatedEvent struct {
	shared.BaseDomainEvent
	CreditNoteNumber string     `json:"credit_note_number"`
	InvoiceID        uuid.UUID  `json:"invoice_id"`
	SalesReturnID    *uuid.UUID `json:"sales_return_id,omitempty"`
	CustomerID       uuid.UUID  `json:"customer_id"`
	Reason           string     `json:"reason"`
}

// NewCreditNoteCreatedEvent creates a new CreditNoteCreatedEvent
func NewCreditNoteCreatedEvent(cn *CreditNote) *CreditNoteCreatedEvent {
	return &CreditNoteCreatedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeCreditNoteCreated, "CreditNote", cn.ID, cn.TenantID),
		CreditNoteNumber: cn.CreditNoteNumber,
		InvoiceID:        cn.InvoiceID,
		SalesReturnID:    cn.SalesReturnID,
		CustomerID:       cn.CustomerID,
		Reason:           cn.Reason,
	}
}

// CreditNoteIssuedEvent is published when a credit note becomes applicable
type CreditNoteIssuedEvent struct {
	shared.BaseDomainEvent
	CreditNoteNumber string          `json:"credit_note_number"`
	InvoiceID        uuid.UUID       `json:"invoice_id"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	Currency         string          `json:"currency"`
}

// NewCreditNoteIssuedEvent creates a new CreditNoteIssuedEvent
func NewCreditNoteIssuedEvent(cn *CreditNote) *CreditNoteIssuedEvent {
	return &CreditNoteIssuedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeCreditNoteIssued, "CreditNote", cn.ID, cn.TenantID),
		CreditNoteNumber: cn.CreditNoteNumber,
		InvoiceID:        cn.InvoiceID,
		TotalAmount:      cn.TotalAmount,
		Currency:         string(cn.Currency),
	}
}

// CreditNoteAppliedEvent is published when credit is applied to an invoice
type CreditNoteAppliedEvent struct {
	shared.BaseDomainEvent
	CreditNoteNumber string          `json:"credit_note_number"`
	InvoiceID        uuid.UUID       `json:"invoice_id"`
	Amount           decimal.Decimal `json:"amount"`
	RemainingAmount  decimal.Decimal `json:"remaining_amount"`
}

// NewCreditNoteAppliedEvent creates a new CreditNoteAppliedEvent
func NewCreditNoteAppliedEvent(cn *CreditNote, invoiceID uuid.UUID, amount decimal.Decimal) *CreditNoteAppliedEvent {
	return &CreditNoteAppliedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeCreditNoteApplied, "CreditNote", cn.ID, cn.TenantID),
		CreditNoteNumber: cn.CreditNoteNumber,
		InvoiceID:        invoiceID,
		Amount:           amount,
		RemainingAmount:  cn.RemainingAmount(),
	}
}
