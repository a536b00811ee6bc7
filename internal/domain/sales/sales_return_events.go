package sales

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/sales/internal/domain/shared"
)

// Event type identifiers
const (
	EventTypeSalesReturnCreated  = "sales_return.created"
	EventTypeSalesReturnApproved = "sales_return.approved"
	EventTypeSalesReturnReceived = "sales_return.received"
	EventTypeSalesReturnRefunded = "sales_return.refunded"
)

// SalesReturnCreatedEvent is published when a return request is created
type SalesReturnCreatedEvent struct {
	shared.BaseDomainEvent
	ReturnNumber string    `json:"return_number"`
	SalesOrderID uuid.UUID `json:"sales_order_id"`
	CustomerID   uuid.UUID `json:"customer_id"`
	Reason       string    `json:"reason"`
}

// NewSalesReturnCreatedEvent creates a new SalesReturnCreatedEvent
func NewSalesReturnCreatedEvent(r *SalesReturn) *SalesReturnCreatedEvent {
	return &SalesReturnCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesReturnCreated, "SalesReturn", r.ID, r.TenantID),
		ReturnNumber:    r.ReturnNumber,
		SalesOrderID:    r.SalesOrderID,
		CustomerID:      r.CustomerID,
		Reason:          r.Reason,
	}
}

// SalesReturnApprovedEvent is published when a return is approved. Credit
// note creation listens for this.
type SalesReturnApprovedEvent struct {
	shared.BaseDomainEvent
	ReturnNumber string          `json:"return_number"`
	SalesOrderID uuid.UUID       `json:"sales_order_id"`
	InvoiceID    *uuid.UUID      `json:"invoice_id,omitempty"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Currency     string          `json:"currency"`
}

// NewSalesReturnApprovedEvent creates a new SalesReturnApprovedEvent
func NewSalesReturnApprovedEvent(r *SalesReturn) *SalesReturnApprovedEvent {
	return &SalesReturnApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesReturnApproved, "SalesReturn", r.ID, r.TenantID),
		ReturnNumber:    r.ReturnNumber,
		SalesOrderID:    r.SalesOrderID,
		InvoiceID:       r.InvoiceID,
		TotalAmount:     r.TotalAmount,
		Currency:        string(r.Currency),
	}
}

// SalesReturnReceivedEvent is published when returned goods arrive
type SalesReturnReceivedEvent struct {
	shared.BaseDomainEvent
	ReturnNumber string `json:"return_number"`
	ItemCount    int    `json:"item_count"`
}

// NewSalesReturnReceivedEvent creates a new SalesReturnReceivedEvent
func NewSalesReturnReceivedEvent(r *SalesReturn) *SalesReturnReceivedEvent {
	return &SalesReturnReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesReturnReceived, "SalesReturn", r.ID, r.TenantID),
		ReturnNumber:    r.ReturnNumber,
		ItemCount:       len(r.Items),
	}
}

// SalesReturnRefundedEvent is published when the refund is issued
type SalesReturnRefundedEvent struct {
	shared.BaseDomainEvent
	ReturnNumber string          `json:"return_number"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
	Currency     string          `json:"currency"`
}

// NewSalesReturnRefundedEvent creates a new SalesReturnRefundedEvent
func NewSalesReturnRefundedEvent(r *SalesReturn) *SalesReturnRefundedEvent {
	return &SalesReturnRefundedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesReturnRefunded, "SalesReturn", r.ID, r.TenantID),
		ReturnNumber:    r.ReturnNumber,
		RefundAmount:    r.RefundAmount,
		Currency:        string(r.Currency),
	}
}
