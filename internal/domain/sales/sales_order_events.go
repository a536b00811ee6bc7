package sales

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/sales/internal/domain/shared"
)

// Event type identifiers
const (
	EventTypeSalesOrderCreated   = "sales_order.created"
	EventTypeSalesOrderConfirmed = "sales_order.confirmed"
	EventTypeSalesOrderShipped   = "sales_order.shipped"
	EventTypeSalesOrderCompleted = "sales_order.completed"
	EventTypeSalesOrderCancelled = "sales_order.cancelled"
)

// SalesOrderCreatedEvent is published when a new sales order is created
type SalesOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber  string    `json:"order_number"`
	CustomerID   uuid.UUID `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
}

// NewSalesOrderCreatedEvent creates a new SalesOrderCreatedEvent
func NewSalesOrderCreatedEvent(o *SalesOrder) *SalesOrderCreatedEvent {
	return &SalesOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderCreated, "SalesOrder", o.ID, o.TenantID),
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		CustomerName:    o.CustomerName,
	}
}

// SalesOrderConfirmedEvent is published when an order is confirmed for
// fulfillment
type SalesOrderConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Currency    string          `json:"currency"`
}

// NewSalesOrderConfirmedEvent creates a new SalesOrderConfirmedEvent
func NewSalesOrderConfirmedEvent(o *SalesOrder) *SalesOrderConfirmedEvent {
	return &SalesOrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderConfirmed, "SalesOrder", o.ID, o.TenantID),
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		TotalAmount:     o.TotalAmount,
		Currency:        string(o.Currency),
	}
}

// SalesOrderShippedEvent is published when an order ships
type SalesOrderShippedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
	Partial     bool   `json:"partial"`
}

// NewSalesOrderShippedEvent creates a new SalesOrderShippedEvent
func NewSalesOrderShippedEvent(o *SalesOrder) *SalesOrderShippedEvent {
	return &SalesOrderShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderShipped, "SalesOrder", o.ID, o.TenantID),
		OrderNumber:     o.OrderNumber,
		Partial:         o.HasPendingQuantities(),
	}
}

// SalesOrderCompletedEvent is published when an order closes. Commission
// calculation listens for this.
type SalesOrderCompletedEvent struct {
	shared.BaseDomainEvent
	OrderNumber   string          `json:"order_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	SalesPersonID *uuid.UUID      `json:"sales_person_id,omitempty"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Currency      string          `json:"currency"`
}

// NewSalesOrderCompletedEvent creates a new SalesOrderCompletedEvent
func NewSalesOrderCompletedEvent(o *SalesOrder) *SalesOrderCompletedEvent {
	return &SalesOrderCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderCompleted, "SalesOrder", o.ID, o.TenantID),
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		SalesPersonID:   o.SalesPersonID,
		TotalAmount:     o.TotalAmount,
		Currency:        string(o.Currency),
	}
}

// SalesOrderCancelledEvent is published when an order is cancelled
type SalesOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
	Reason      string `json:"reason"`
}

// NewSalesOrderCancelledEvent creates a new SalesOrderCancelledEvent
func NewSalesOrderCancelledEvent(o *SalesOrder, reason string) *SalesOrderCancelledEvent {
	return &SalesOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderCancelled, "SalesOrder", o.ID, o.TenantID),
		OrderNumber:     o.OrderNumber,
		Reason:          reason,
	}
}
