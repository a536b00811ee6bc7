package sales

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/sales/internal/domain/shared"
)

// Event type identifiers for quotation events
const (
	EventTypeQuotationCreated   = "quotation.created"
	EventTypeQuotationAccepted  = "quotation.accepted"
	EventTypeQuotationConverted = "quotation.converted"
)

// QuotationCreatedEvent is published when a new quotation is created
type QuotationCreatedEvent struct {
	shared.BaseDomainEvent
	QuotationNumber string    `json:"quotation_number"`
	CustomerID      uuid.UUID `json:"customer_id"`
	CustomerName    string    `json:"customer_name"`
	RevisionNumber  int       `json:"revision_number"`
}

// NewQuotationCreatedEvent creates a new QuotationCreatedEvent
func NewQuotationCreatedEvent(q *Quotation) *QuotationCreatedEvent {
	return &QuotationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationCreated, "Quotation", q.ID, q.TenantID),
		QuotationNumber: q.QuotationNumber,
		CustomerID:      q.CustomerID,
		CustomerName:    q.CustomerName,
		RevisionNumber:  q.RevisionNumber,
	}
}

// QuotationAcceptedEvent is published when the customer accepts a quotation
type QuotationAcceptedEvent struct {
	shared.BaseDomainEvent
	QuotationNumber string          `json:"quotation_number"`
	CustomerID      uuid.UUID       `json:"customer_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Currency        string          `json:"currency"`
}

// NewQuotationAcceptedEvent creates a new QuotationAcceptedEvent
func NewQuotationAcceptedEvent(q *Quotation) *QuotationAcceptedEvent {
	return &QuotationAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationAccepted, "Quotation", q.ID, q.TenantID),
		QuotationNumber: q.QuotationNumber,
		CustomerID:      q.CustomerID,
		TotalAmount:     q.TotalAmount,
		Currency:        string(q.Currency),
	}
}

// QuotationConvertedEvent is published when an accepted quotation becomes a
// sales order
type QuotationConvertedEvent struct {
	shared.BaseDomainEvent
	QuotationNumber string    `json:"quotation_number"`
	SalesOrderID    uuid.UUID `json:"sales_order_id"`
}

// NewQuotationConvertedEvent creates a new QuotationConvertedEvent
func NewQuotationConvertedEvent(q *Quotation, orderID uuid.UUID) *QuotationConvertedEvent {
	return &QuotationConvertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationConverted, "Quotation", q.ID, q.TenantID),
		QuotationNumber: q.QuotationNumber,
		SalesOrderID:    orderID,
	}
}
