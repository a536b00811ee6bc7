package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/sales/internal/domain/shared"
)

// ReservationStatus represents the status of an inventory reservation
type ReservationStatus string

const (
	ReservationStatusActive   ReservationStatus = "ACTIVE"
	ReservationStatusConsumed ReservationStatus = "CONSUMED"
	ReservationStatusReleased ReservationStatus = "RELEASED"
	ReservationStatusExpired  ReservationStatus = "EXPIRED"
)

var reservationTransitions = shared.Transitions[ReservationStatus]{
	ReservationStatusActive: {ReservationStatusConsumed, ReservationStatusReleased, ReservationStatusExpired},
}

// String returns the string representation of ReservationStatus
func (s ReservationStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transition leaves this status
func (s ReservationStatus) IsTerminal() bool {
	return reservationTransitions.IsTerminal(s)
}

// InventoryReservation records a stock hold granted by the warehouse for a
// sales order line. The reservation outcome is supplied by the caller; the
// sales layer never moves physical stock.
type InventoryReservation struct {
	shared.TenantAggregateRoot
	SalesOrderID     uuid.UUID
	SalesOrderItemID uuid.UUID
	ProductID        uuid.UUID
	WarehouseID      uuid.UUID
	ReservedQuantity decimal.Decimal
	ConsumedQuantity decimal.Decimal
	Status           ReservationStatus
	ExpiresAt        *time.Time
	ConsumedAt       *time.Time
	ReleasedAt       *time.Time
}

// NewInventoryReservation records a granted reservation in active status
func NewInventoryReservation(tenantID, salesOrderID, orderItemID, productID, warehouseID uuid.UUID, quantity decimal.Decimal, expiresAt *time.Time) (*InventoryReservation, error) {
	if salesOrderID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_ORDER", "Sales order ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if !quantity.IsPositive() {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Reserved quantity must be positive")
	}

	return &InventoryReservation{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SalesOrderID:        salesOrderID,
		SalesOrderItemID:    orderItemID,
		ProductID:           productID,
		WarehouseID:         warehouseID,
		ReservedQuantity:    quantity,
		ConsumedQuantity:    decimal.Zero,
		Status:              ReservationStatusActive,
		ExpiresAt:           expiresAt,
	}, nil
}

// RemainingQuantity returns the reserved quantity not yet consumed
func (r *InventoryReservation) RemainingQuantity() decimal.Decimal {
	return r.ReservedQuantity.Sub(r.ConsumedQuantity)
}

// Consume records shipment against the reservation. The reservation closes
// once fully consumed.
func (r *InventoryReservation) Consume(quantity decimal.Decimal) error {
	if r.Status != ReservationStatusActive {
		return shared.NewConflictError("RESERVATION_INVALID_STATE", "Only an active reservation can be consumed")
	}
	if !quantity.IsPositive() {
		return shared.NewValidationError("INVALID_QUANTITY", "Consumed quantity must be positive")
	}
	if quantity.GreaterThan(r.RemainingQuantity()) {
		return shared.NewValidationError("CONSUME_EXCEEDS_RESERVED", "Consumed quantity cannot exceed the remaining reservation")
	}

	r.ConsumedQuantity = r.ConsumedQuantity.Add(quantity)
	if r.RemainingQuantity().IsZero() {
		now := time.Now()
		r.Status = ReservationStatusConsumed
		r.ConsumedAt = &now
	}
	r.Touch()

	return nil
}

// Release returns the unconsumed hold to the warehouse
func (r *InventoryReservation) Release() error {
	if err := reservationTransitions.Guard(r.Status, ReservationStatusReleased, "RESERVATION_INVALID_STATE"); err != nil {
		return err
	}

	now := time.Now()
	r.Status = ReservationStatusReleased
	r.ReleasedAt = &now
	r.UpdatedAt = now

	return nil
}

// MarkExpired expires an active reservation once its expiry has passed
func (r *InventoryReservation) MarkExpired() error {
	if err := reservationTransitions.Guard(r.Status, ReservationStatusExpired, "RESERVATION_INVALID_STATE"); err != nil {
		return err
	}
	if r.ExpiresAt == nil || time.Now().Before(*r.ExpiresAt) {
		return shared.NewConflictError("RESERVATION_NOT_EXPIRED", "Reservation expiry has not passed")
	}

	r.Status = ReservationStatusExpired
	r.Touch()

	return nil
}
