package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/sales/internal/domain/shared"
)

// BackOrderStatus represents the status of a back order
type BackOrderStatus string

const (
	BackOrderStatusPending            BackOrderStatus = "PENDING"
	BackOrderStatusPartiallyFulfilled BackOrderStatus = "PARTIALLY_FULFILLED"
	BackOrderStatusFulfilled          BackOrderStatus = "FULFILLED"
	BackOrderStatusCancelled          BackOrderStatus = "CANCELLED"
)

var backOrderTransitions = shared.Transitions[BackOrderStatus]{
	BackOrderStatusPending:            {BackOrderStatusPartiallyFulfilled, BackOrderStatusFulfilled, BackOrderStatusCancelled},
	BackOrderStatusPartiallyFulfilled: {BackOrderStatusPartiallyFulfilled, BackOrderStatusFulfilled, BackOrderStatusCancelled},
}

// String returns the string representation of BackOrderStatus
func (s BackOrderStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transition leaves this status
func (s BackOrderStatus) IsTerminal() bool {
	return backOrderTransitions.IsTerminal(s)
}

// BackOrder tracks demand that could not be met from available stock. The
// available quantity arrives as caller-supplied input; this aggregate never
// computes stock levels itself.
type BackOrder struct {
	shared.TenantAggregateRoot
	BackOrderNumber   string
	SalesOrderID      uuid.UUID
	SalesOrderItemID  uuid.UUID
	ProductID         uuid.UUID
	ProductName       string
	OrderedQuantity   decimal.Decimal
	AvailableQuantity decimal.Decimal
	BackOrderedQty    decimal.Decimal
	FulfilledQty      decimal.Decimal
	Status            BackOrderStatus
	ExpectedAt        *time.Time
	FulfilledAt       *time.Time
	CancelledAt       *time.Time
	CancelReason      string
}

// NewBackOrder creates a back order for the shortfall between the ordered
// and available quantities
func NewBackOrder(tenantID uuid.UUID, number string, salesOrderID, orderItemID, productID uuid.UUID, productName string, orderedQty, availableQty decimal.Decimal) (*BackOrder, error) {
	if number == "" {
		return nil, shared.NewValidationError("INVALID_BACKORDER_NUMBER", "Back order number cannot be empty")
	}
	if salesOrderID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_ORDER", "Sales order ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !orderedQty.IsPositive() {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Ordered quantity must be positive")
	}
	if availableQty.IsNegative() {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Available quantity cannot be negative")
	}
	if availableQty.GreaterThanOrEqual(orderedQty) {
		return nil, shared.NewValidationError("NO_SHORTFALL", "Available quantity covers the ordered quantity")
	}

	return &BackOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BackOrderNumber:     number,
		SalesOrderID:        salesOrderID,
		SalesOrderItemID:    orderItemID,
		ProductID:           productID,
		ProductName:         productName,
		OrderedQuantity:     orderedQty,
		AvailableQuantity:   availableQty,
		BackOrderedQty:      orderedQty.Sub(availableQty),
		FulfilledQty:        decimal.Zero,
		Status:              BackOrderStatusPending,
	}, nil
}

// RemainingQuantity returns the back-ordered quantity not yet fulfilled
func (b *BackOrder) RemainingQuantity() decimal.Decimal {
	return b.BackOrderedQty.Sub(b.FulfilledQty)
}

// SetExpectedDate records when replenishment is expected
func (b *BackOrder) SetExpectedDate(date time.Time) error {
	if b.Status.IsTerminal() {
		return shared.NewConflictError("BACKORDER_INVALID_STATE", "Cannot change a closed back order")
	}
	b.ExpectedAt = &date
	b.Touch()
	return nil
}

// RecordFulfillment records stock that became available and was allocated
// to this back order. Status derives from the remaining quantity.
func (b *BackOrder) RecordFulfillment(quantity decimal.Decimal) error {
	if b.Status.IsTerminal() {
		return shared.NewConflictError("BACKORDER_INVALID_STATE", "Cannot fulfill a closed back order")
	}
	if !quantity.IsPositive() {
		return shared.NewValidationError("INVALID_QUANTITY", "Fulfillment quantity must be positive")
	}
	if quantity.GreaterThan(b.RemainingQuantity()) {
		return shared.NewValidationError("FULFILLMENT_EXCEEDS_REMAINING", "Fulfillment quantity cannot exceed the remaining back-ordered quantity")
	}

	b.FulfilledQty = b.FulfilledQty.Add(quantity)
	now := time.Now()
	if b.RemainingQuantity().IsZero() {
		b.Status = BackOrderStatusFulfilled
		b.FulfilledAt = &now
	} else {
		b.Status = BackOrderStatusPartiallyFulfilled
	}
	b.UpdatedAt = now

	return nil
}

// Cancel cancels the outstanding back order
func (b *BackOrder) Cancel(reason string) error {
	if err := backOrderTransitions.Guard(b.Status, BackOrderStatusCancelled, "BACKORDER_INVALID_STATE"); err != nil {
		return err
	}
	if reason == "" {
		return shared.NewValidationError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	b.Status = BackOrderStatusCancelled
	b.CancelledAt = &now
	b.CancelReason = reason
	b.UpdatedAt = now

	return nil
}
