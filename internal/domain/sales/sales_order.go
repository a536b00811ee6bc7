package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/sales/internal/domain/shared"
	"github.com/erp/sales/internal/domain/shared/valueobject"
)

// SalesOrderStatus represents the status of a sales order
type SalesOrderStatus string

const (
	SalesOrderStatusDraft     SalesOrderStatus = "DRAFT"
	SalesOrderStatusApproved  SalesOrderStatus = "APPROVED"
	SalesOrderStatusConfirmed SalesOrderStatus = "CONFIRMED"
	SalesOrderStatusShipped   SalesOrderStatus = "SHIPPED"
	SalesOrderStatusDelivered SalesOrderStatus = "DELIVERED"
	SalesOrderStatusCompleted SalesOrderStatus = "COMPLETED"
	SalesOrderStatusCancelled SalesOrderStatus = "CANCELLED"
)

var salesOrderTransitions = shared.Transitions[SalesOrderStatus]{
	SalesOrderStatusDraft:     {SalesOrderStatusApproved, SalesOrderStatusCancelled},
	SalesOrderStatusApproved:  {SalesOrderStatusConfirmed, SalesOrderStatusCancelled},
	SalesOrderStatusConfirmed: {SalesOrderStatusShipped, SalesOrderStatusCancelled},
	SalesOrderStatusShipped:   {SalesOrderStatusDelivered, SalesOrderStatusCancelled},
	SalesOrderStatusDelivered: {SalesOrderStatusCompleted, SalesOrderStatusCancelled},
}

// IsValid checks if the status is a valid SalesOrderStatus
func (s SalesOrderStatus) IsValid() bool {
	switch s {
	case SalesOrderStatusDraft, SalesOrderStatusApproved, SalesOrderStatusConfirmed,
		SalesOrderStatusShipped, SalesOrderStatusDelivered, SalesOrderStatusCompleted,
		SalesOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of SalesOrderStatus
func (s SalesOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s SalesOrderStatus) CanTransitionTo(target SalesOrderStatus) bool {
	return salesOrderTransitions.Can(s, target)
}

// IsTerminal returns true if no further transition leaves this status
func (s SalesOrderStatus) IsTerminal() bool {
	return salesOrderTransitions.IsTerminal(s)
}

// SalesOrderItem represents a line item in a sales order
type SalesOrderItem struct {
	ID                uuid.UUID
	SalesOrderID      uuid.UUID
	ProductID         uuid.UUID
	ProductName       string
	ProductCode       string
	Quantity          decimal.Decimal
	ShippedQuantity   decimal.Decimal
	DeliveredQuantity decimal.Decimal
	Unit              string
	UnitPrice         decimal.Decimal
	DiscountRate      decimal.Decimal
	DiscountAmount    decimal.Decimal
	VatRate           decimal.Decimal
	VatAmount         decimal.Decimal
	LineTotal         decimal.Decimal
	SortOrder         int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewSalesOrderItem creates a new sales order line item with computed amounts
func NewSalesOrderItem(orderID, productID uuid.UUID, productName, productCode, unit string, quantity, unitPrice decimal.Decimal, vatRate valueobject.Percent) (*SalesOrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewValidationError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}

	line, err := shared.ComputeLine(quantity, unitPrice, decimal.Zero, valueobject.ZeroPercent(), vatRate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &SalesOrderItem{
		ID:                uuid.New(),
		SalesOrderID:      orderID,
		ProductID:         productID,
		ProductName:       productName,
		ProductCode:       productCode,
		Quantity:          quantity,
		ShippedQuantity:   decimal.Zero,
		DeliveredQuantity: decimal.Zero,
		Unit:              unit,
		UnitPrice:         unitPrice,
		DiscountRate:      decimal.Zero,
		DiscountAmount:    decimal.Zero,
		VatRate:           vatRate.Value(),
		VatAmount:         line.VatAmount,
		LineTotal:         line.LineTotal,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

func (i *SalesOrderItem) recompute() error {
	discountRate, err := valueobject.NewPercent(i.DiscountRate)
	if err != nil {
		return shared.NewValidationError("INVALID_DISCOUNT_RATE", "Discount rate must be between 0 and 100")
	}
	vatRate, err := valueobject.NewPercent(i.VatRate)
	if err != nil {
		return shared.NewValidationError("INVALID_VAT_RATE", "VAT rate must be between 0 and 100")
	}
	line, err := shared.ComputeLine(i.Quantity, i.UnitPrice, i.DiscountAmount, discountRate, vatRate)
	if err != nil {
		return err
	}
	i.VatAmount = line.VatAmount
	i.LineTotal = line.LineTotal
	i.UpdatedAt = time.Now()
	return nil
}

func (i *SalesOrderItem) lineAmounts() shared.LineAmounts {
	discountRate, _ := valueobject.NewPercent(i.DiscountRate)
	vatRate, _ := valueobject.NewPercent(i.VatRate)
	line, _ := shared.ComputeLine(i.Quantity, i.UnitPrice, i.DiscountAmount, discountRate, vatRate)
	return line
}

// PendingQuantity returns the quantity not yet shipped
func (i *SalesOrderItem) PendingQuantity() decimal.Decimal {
	return i.Quantity.Sub(i.ShippedQuantity)
}

// SalesOrder represents a confirmed customer order aggregate root
type SalesOrder struct {
	shared.DocumentRoot
	OrderNumber     string
	OrderDate       time.Time
	CustomerID      uuid.UUID
	CustomerName    string
	SalesPersonID   *uuid.UUID
	SalesPersonName string
	QuotationID     *uuid.UUID
	Items           []SalesOrderItem
	SubTotal        decimal.Decimal
	DiscountAmount  decimal.Decimal
	DiscountRate    decimal.Decimal
	VatAmount       decimal.Decimal
	ShippingAmount  decimal.Decimal
	TotalAmount     decimal.Decimal
	Status          SalesOrderStatus
	PaymentTerms    string
	DeliveryAddress string
	ExpectedShipAt  *time.Time
	ApprovedBy      *uuid.UUID
	ApprovedAt      *time.Time
	ConfirmedAt     *time.Time
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	CompletedAt     *time.Time
	CancelledAt     *time.Time
	CancelReason    string
}

// NewSalesOrder creates a new sales order in draft status
func NewSalesOrder(tenantID uuid.UUID, orderNumber string, customerID uuid.UUID, customerName string, currency valueobject.Currency) (*SalesOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewValidationError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewValidationError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewValidationError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}

	o := &SalesOrder{
		DocumentRoot:   shared.NewDocumentRoot(tenantID, currency),
		OrderNumber:    orderNumber,
		OrderDate:      time.Now(),
		CustomerID:     customerID,
		CustomerName:   customerName,
		Items:          make([]SalesOrderItem, 0),
		SubTotal:       decimal.Zero,
		DiscountAmount: decimal.Zero,
		DiscountRate:   decimal.Zero,
		VatAmount:      decimal.Zero,
		ShippingAmount: decimal.Zero,
		TotalAmount:    decimal.Zero,
		Status:         SalesOrderStatusDraft,
	}

	o.AddDomainEvent(NewSalesOrderCreatedEvent(o))

	return o, nil
}

// NewSalesOrderFromQuotation creates a draft sales order from an accepted
// quotation, copying its customer, terms, items and discount configuration.
// The caller is responsible for marking the quotation converted.
func NewSalesOrderFromQuotation(q *Quotation, orderNumber string) (*SalesOrder, error) {
	if q.Status != QuotationStatusAccepted {
		return nil, shared.NewConflictError("QUOTATION_INVALID_STATE", "Only an accepted quotation can be converted")
	}

	o, err := NewSalesOrder(q.TenantID, orderNumber, q.CustomerID, q.CustomerName, q.Currency)
	if err != nil {
		return nil, err
	}

	quotationID := q.ID
	o.QuotationID = &quotationID
	o.SalesPersonID = q.SalesPersonID
	o.SalesPersonName = q.SalesPersonName
	o.PaymentTerms = q.PaymentTerms
	o.DiscountAmount = q.DiscountAmount
	o.DiscountRate = q.DiscountRate
	o.ShippingAmount = q.ShippingAmount
	o.ExchangeRate = q.ExchangeRate
	o.Notes = q.Notes

	now := time.Now()
	for _, qi := range q.Items {
		o.Items = append(o.Items, SalesOrderItem{
			ID:                uuid.New(),
			SalesOrderID:      o.ID,
			ProductID:         qi.ProductID,
			ProductName:       qi.ProductName,
			ProductCode:       qi.ProductCode,
			Quantity:          qi.Quantity,
			ShippedQuantity:   decimal.Zero,
			DeliveredQuantity: decimal.Zero,
			Unit:              qi.Unit,
			UnitPrice:         qi.UnitPrice,
			DiscountRate:      qi.DiscountRate,
			DiscountAmount:    qi.DiscountAmount,
			VatRate:           qi.VatRate,
			VatAmount:         qi.VatAmount,
			LineTotal:         qi.LineTotal,
			SortOrder:         qi.SortOrder,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}
	o.recalculateTotals()

	return o, nil
}

// AddItem adds a new line item. Only allowed in DRAFT status.
func (o *SalesOrder) AddItem(productID uuid.UUID, productName, productCode, unit string, quantity, unitPrice decimal.Decimal, vatRate valueobject.Percent) (*SalesOrderItem, error) {
	if o.Status != SalesOrderStatusDraft {
		return nil, shared.NewConflictError("ORDER_INVALID_STATE", "Cannot add items to a non-draft order")
	}

	item, err := NewSalesOrderItem(o.ID, productID, productName, productCode, unit, quantity, unitPrice, vatRate)
	if err != nil {
		return nil, err
	}
	item.SortOrder = len(o.Items)

	o.Items = append(o.Items, *item)
	o.recalculateTotals()
	o.Touch()

	return item, nil
}

// UpdateItemQuantity updates the quantity of an existing item. Only allowed
// in DRAFT status.
func (o *SalesOrder) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if o.Status != SalesOrderStatusDraft {
		return shared.NewConflictError("ORDER_INVALID_STATE", "Cannot update items in a non-draft order")
	}

	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			prev := o.Items[idx].Quantity
			o.Items[idx].Quantity = quantity
			if err := o.Items[idx].recompute(); err != nil {
				o.Items[idx].Quantity = prev
				return err
			}
			o.recalculateTotals()
			o.Touch()
			return nil
		}
	}

	return shared.NewNotFoundError("ITEM_NOT_FOUND", "Order item not found")
}

// SetItemDiscount sets the line discount of an existing item. Only allowed
// in DRAFT status.
func (o *SalesOrder) SetItemDiscount(itemID uuid.UUID, discountAmount decimal.Decimal, discountRate valueobject.Percent) error {
	if o.Status != SalesOrderStatusDraft {
		return shared.NewConflictError("ORDER_INVALID_STATE", "Cannot update items in a non-draft order")
	}

	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			prevAmount, prevRate := o.Items[idx].DiscountAmount, o.Items[idx].DiscountRate
			o.Items[idx].DiscountAmount = discountAmount
			o.Items[idx].DiscountRate = discountRate.Value()
			if err := o.Items[idx].recompute(); err != nil {
				o.Items[idx].DiscountAmount, o.Items[idx].DiscountRate = prevAmount, prevRate
				return err
			}
			o.recalculateTotals()
			o.Touch()
			return nil
		}
	}

	return shared.NewNotFoundError("ITEM_NOT_FOUND", "Order item not found")
}

// RemoveItem removes an item. Only allowed in DRAFT status.
func (o *SalesOrder) RemoveItem(itemID uuid.UUID) error {
	if o.Status != SalesOrderStatusDraft {
		return shared.NewConflictError("ORDER_INVALID_STATE", "Cannot remove items from a non-draft order")
	}

	for idx, item := range o.Items {
		if item.ID == itemID {
			o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
			o.recalculateTotals()
			o.Touch()
			return nil
		}
	}

	return shared.NewNotFoundError("ITEM_NOT_FOUND", "Order item not found")
}

// ApplyDiscount sets the document-level discount. Only allowed in DRAFT
// status.
func (o *SalesOrder) ApplyDiscount(discountAmount decimal.Decimal, discountRate valueobject.Percent) error {
	if o.Status != SalesOrderStatusDraft {
		return shared.NewConflictError("ORDER_INVALID_STATE", "Cannot apply discount to a non-draft order")
	}
	if discountAmount.IsNegative() {
		return shared.NewValidationError("INVALID_DISCOUNT", "Discount cannot be negative")
	}

	o.DiscountAmount = discountAmount
	o.DiscountRate = discountRate.Value()
	o.recalculateTotals()
	o.Touch()

	return nil
}

// SetShipping sets the shipping amount. Only allowed in DRAFT status.
func (o *SalesOrder) SetShipping(amount decimal.Decimal) error {
	if o.Status != SalesOrderStatusDraft {
		return shared.NewConflictError("ORDER_INVALID_STATE", "Cannot change shipping on a non-draft order")
	}
	if amount.IsNegative() {
		return shared.NewValidationError("INVALID_SHIPPING", "Shipping amount cannot be negative")
	}

	o.ShippingAmount = amount
	o.recalculateTotals()
	o.Touch()

	return nil
}

// SetDeliveryAddress sets the delivery address
func (o *SalesOrder) SetDeliveryAddress(address string) error {
	if o.Status.IsTerminal() {
		return shared.NewConflictError("ORDER_INVALID_STATE", "Cannot change a closed order")
	}
	o.DeliveryAddress = address
	o.Touch()
	return nil
}

// SetSalesPerson assigns the owning sales person
func (o *SalesOrder) SetSalesPerson(id uuid.UUID, name string) {
	o.SalesPersonID = &id
	o.SalesPersonName = name
	o.Touch()
}

// Approve approves the order. Requires at least one item.
func (o *SalesOrder) Approve(approverID uuid.UUID) error {
	if err := salesOrderTransitions.Guard(o.Status, SalesOrderStatusApproved, "ORDER_INVALID_STATE"); err != nil {
		return err
	}
	if len(o.Items) == 0 {
		return shared.NewValidationError("ORDER_NO_ITEMS", "Cannot approve an order without items")
	}
	if approverID == uuid.Nil {
		return shared.NewValidationError("INVALID_APPROVER", "Approver ID cannot be empty")
	}

	now := time.Now()
	o.Status = SalesOrderStatusApproved
	o.ApprovedBy = &approverID
	o.ApprovedAt = &now
	o.UpdatedAt = now

	return nil
}

// Confirm confirms the approved order for fulfillment
func (o *SalesOrder) Confirm() error {
	if err := salesOrderTransitions.Guard(o.Status, SalesOrderStatusConfirmed, "ORDER_INVALID_STATE"); err != nil {
		return err
	}

	now := time.Now()
	o.Status = SalesOrderStatusConfirmed
	o.ConfirmedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewSalesOrderConfirmedEvent(o))

	return nil
}

// Ship marks the order shipped and records per-item shipped quantities.
// A nil map ships every item in full.
func (o *SalesOrder) Ship(shippedQuantities map[uuid.UUID]decimal.Decimal) error {
	if err := salesOrderTransitions.Guard(o.Status, SalesOrderStatusShipped, "ORDER_INVALID_STATE"); err != nil {
		return err
	}

	for idx := range o.Items {
		qty := o.Items[idx].Quantity
		if shippedQuantities != nil {
			requested, ok := shippedQuantities[o.Items[idx].ID]
			if !ok {
				continue
			}
			if requested.IsNegative() || requested.GreaterThan(o.Items[idx].Quantity) {
				return shared.NewValidationError("INVALID_SHIPPED_QUANTITY", "Shipped quantity must be between 0 and the ordered quantity")
			}
			qty = requested
		}
		o.Items[idx].ShippedQuantity = qty
		o.Items[idx].UpdatedAt = time.Now()
	}

	now := time.Now()
	o.Status = SalesOrderStatusShipped
	o.ShippedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewSalesOrderShippedEvent(o))

	return nil
}

// Deliver marks the shipped order as delivered
func (o *SalesOrder) Deliver() error {
	if err := salesOrderTransitions.Guard(o.Status, SalesOrderStatusDelivered, "ORDER_INVALID_STATE"); err != nil {
		return err
	}

	now := time.Now()
	o.Status = SalesOrderStatusDelivered
	o.DeliveredAt = &now
	for idx := range o.Items {
		o.Items[idx].DeliveredQuantity = o.Items[idx].ShippedQuantity
		o.Items[idx].UpdatedAt = now
	}
	o.UpdatedAt = now

	return nil
}

// Complete closes the delivered order
func (o *SalesOrder) Complete() error {
	if err := salesOrderTransitions.Guard(o.Status, SalesOrderStatusCompleted, "ORDER_INVALID_STATE"); err != nil {
		return err
	}

	now := time.Now()
	o.Status = SalesOrderStatusCompleted
	o.CompletedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewSalesOrderCompletedEvent(o))

	return nil
}

// Cancel cancels the order. Allowed in any state before COMPLETED.
func (o *SalesOrder) Cancel(reason string) error {
	if err := salesOrderTransitions.Guard(o.Status, SalesOrderStatusCancelled, "ORDER_INVALID_STATE"); err != nil {
		return err
	}
	if reason == "" {
		return shared.NewValidationError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	o.Status = SalesOrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now

	o.AddDomainEvent(NewSalesOrderCancelledEvent(o, reason))

	return nil
}

// HasPendingQuantities returns true if any item is not fully shipped
func (o *SalesOrder) HasPendingQuantities() bool {
	for idx := range o.Items {
		if o.Items[idx].PendingQuantity().IsPositive() {
			return true
		}
	}
	return false
}

func (o *SalesOrder) recalculateTotals() {
	lines := make([]shared.LineAmounts, len(o.Items))
	for i := range o.Items {
		lines[i] = o.Items[i].lineAmounts()
	}

	rate, _ := valueobject.NewPercent(o.DiscountRate)
	totals := shared.ComputeTotals(lines, o.DiscountAmount, rate, o.ShippingAmount)

	o.SubTotal = totals.SubTotal
	o.VatAmount = totals.VatAmount
	o.TotalAmount = totals.TotalAmount
}

// GetItem returns an item by its ID
func (o *SalesOrder) GetItem(itemID uuid.UUID) *SalesOrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// ItemCount returns the number of items
func (o *SalesOrder) ItemCount() int {
	return len(o.Items)
}

// IsDraft returns true if the order is in draft status
func (o *SalesOrder) IsDraft() bool {
	return o.Status == SalesOrderStatusDraft
}

// IsTerminal returns true if the order is in a terminal state
func (o *SalesOrder) IsTerminal() bool {
	return o.Status.IsTerminal()
}
