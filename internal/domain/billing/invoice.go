package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/sales/internal/domain/shared"
	"github.com/erp/sales/internal/domain/shared/valueobject"
)

// InvoiceStatus represents the status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "DRAFT"
	InvoiceStatusIssued        InvoiceStatus = "ISSUED"
	InvoiceStatusSent          InvoiceStatus = "SENT"
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoiceStatusPaid          InvoiceStatus = "PAID"
	InvoiceStatusCancelled     InvoiceStatus = "CANCELLED"
)

var invoiceTransitions = shared.Transitions[InvoiceStatus]{
	InvoiceStatusDraft:         {InvoiceStatusIssued, InvoiceStatusCancelled},
	InvoiceStatusIssued:        {InvoiceStatusSent, InvoiceStatusPartiallyPaid, InvoiceStatusPaid, InvoiceStatusCancelled},
	InvoiceStatusSent:          {InvoiceStatusPartiallyPaid, InvoiceStatusPaid, InvoiceStatusCancelled},
	InvoiceStatusPartiallyPaid: {InvoiceStatusPaid, InvoiceStatusCancelled},
	InvoiceStatusPaid:          {InvoiceStatusPartiallyPaid},
}

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusIssued, InvoiceStatusSent,
		InvoiceStatusPartiallyPaid, InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	return invoiceTransitions.Can(s, target)
}

// InvoiceItem represents a billed line item
type InvoiceItem struct {
	ID             uuid.UUID
	InvoiceID      uuid.UUID
	ProductID      uuid.UUID
	ProductName    string
	ProductCode    string
	Description    string
	Quantity       decimal.Decimal
	Unit           string
	UnitPrice      decimal.Decimal
	DiscountRate   decimal.Decimal
	DiscountAmount decimal.Decimal
	VatRate        decimal.Decimal
	VatAmount      decimal.Decimal
	LineTotal      decimal.Decimal
	SortOrder      int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewInvoiceItem creates a new invoice line item with computed amounts
func NewInvoiceItem(invoiceID, productID uuid.UUID, productName, productCode, unit string, quantity, unitPrice decimal.Decimal, vatRate valueobject.Percent) (*InvoiceItem, error) {
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
	return &InvoiceItem{
		ID:             uuid.New(),
		InvoiceID:      invoiceID,
		ProductID:      productID,
		ProductName:    productName,
		ProductCode:    productCode,
		Quantity:       quantity,
		Unit:           unit,
		UnitPrice:      unitPrice,
		DiscountRate:   decimal.Zero,
		DiscountAmount: decimal.Zero,
		VatRate:        vatRate.Value(),
		VatAmount:      line.VatAmount,
		LineTotal:      line.LineTotal,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func (i *InvoiceItem) recompute() error {
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

func (i *InvoiceItem) lineAmounts() shared.LineAmounts {
	discountRate, _ := valueobject.NewPercent(i.DiscountRate)
	vatRate, _ := valueobject.NewPercent(i.VatRate)
	line, _ := shared.ComputeLine(i.Quantity, i.UnitPrice, i.DiscountAmount, discountRate, vatRate)
	return line
}

// Invoice represents a billing document aggregate root
type Invoice struct {
	shared.DocumentRoot
	InvoiceNumber  string
	InvoiceDate    time.Time
	DueDate        *time.Time
	CustomerID     uuid.UUID
	CustomerName   string
	SalesOrderID   *uuid.UUID
	OrderNumber    string
	Items          []InvoiceItem
	SubTotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	DiscountRate   decimal.Decimal
	VatAmount      decimal.Decimal
	ShippingAmount decimal.Decimal
	TotalAmount    decimal.Decimal
	PaidAmount     decimal.Decimal
	Status         InvoiceStatus
	IssuedAt       *time.Time
	SentAt         *time.Time
	PaidAt         *time.Time
	CancelledAt    *time.Time
	CancelReason   string
}

// NewInvoice creates a new invoice in draft status
func NewInvoice(tenantID uuid.UUID, invoiceNumber string, customerID uuid.UUID, customerName string, currency valueobject.Currency) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewValidationError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if len(invoiceNumber) > 50 {
		return nil, shared.NewValidationError("INVALID_INVOICE_NUMBER", "Invoice number cannot exceed 50 characters")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewValidationError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}

	inv := &Invoice{
		DocumentRoot:   shared.NewDocumentRoot(tenantID, currency),
		InvoiceNumber:  invoiceNumber,
		InvoiceDate:    time.Now(),
		CustomerID:     customerID,
		CustomerName:   customerName,
		Items:          make([]InvoiceItem, 0),
		SubTotal:       decimal.Zero,
		DiscountAmount: decimal.Zero,
		DiscountRate:   decimal.Zero,
		VatAmount:      decimal.Zero,
		ShippingAmount: decimal.Zero,
		TotalAmount:    decimal.Zero,
		PaidAmount:     decimal.Zero,
		Status:         InvoiceStatusDraft,
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// LinkSalesOrder records the order this invoice bills
func (inv *Invoice) LinkSalesOrder(orderID uuid.UUID, orderNumber string) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewConflictError("INVOICE_INVALID_STATE", "Cannot link an order on a non-draft invoice")
	}
	if orderID == uuid.Nil {
		return shared.NewValidationError("INVALID_ORDER", "Order ID cannot be empty")
	}
	inv.SalesOrderID = &orderID
	inv.OrderNumber = orderNumber
	inv.Touch()
	return nil
}

// RemainingAmount returns the outstanding balance, always derived from the
// total and paid amounts
func (inv *Invoice) RemainingAmount() decimal.Decimal {
	return inv.TotalAmount.Sub(inv.PaidAmount)
}

// AddItem adds a new line item. Only allowed in DRAFT status.
func (inv *Invoice) AddItem(productID uuid.UUID, productName, productCode, unit string, quantity, unitPrice decimal.Decimal, vatRate valueobject.Percent) (*InvoiceItem, error) {
	if inv.Status != InvoiceStatusDraft {
		return nil, shared.NewConflictError("INVOICE_INVALID_STATE", "Cannot add items to a non-draft invoice")
	}

	item, err := NewInvoiceItem(inv.ID, productID, productName, productCode, unit, quantity, unitPrice, vatRate)
	if err != nil {
		return nil, err
	}
	item.SortOrder = len(inv.Items)

	inv.Items = append(inv.Items, *item)
	inv.recalculateTotals()
	inv.Touch()

	return item, nil
}

// UpdateItemQuantity updates the quantity of an existing item. Only allowed
// in DRAFT status.
func (inv *Invoice) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewConflictError("INVOICE_INVALID_STATE", "Cannot update items in a non-draft invoice")
	}

	for idx := range inv.Items {
		if inv.Items[idx].ID == itemID {
			prev := inv.Items[idx].Quantity
			inv.Items[idx].Quantity = quantity
			if err := inv.Items[idx].recompute(); err != nil {
				inv.Items[idx].Quantity = prev
				return err
			}
			inv.recalculateTotals()
			inv.Touch()
			return nil
		}
	}

	return shared.NewNotFoundError("ITEM_NOT_FOUND", "Invoice item not found")
}

// SetItemDiscount sets the line discount of an existing item. Only allowed
// in DRAFT status.
func (inv *Invoice) SetItemDiscount(itemID uuid.UUID, discountAmount decimal.Decimal, discountRate valueobject.Percent) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewConflictError("INVOICE_INVALID_STATE", "Cannot update items in a non-draft invoice")
	}

	for idx := range inv.Items {
		if inv.Items[idx].ID == itemID {
			prevAmount, prevRate := inv.Items[idx].DiscountAmount, inv.Items[idx].DiscountRate
			inv.Items[idx].DiscountAmount = discountAmount
			inv.Items[idx].DiscountRate = discountRate.Value()
			if err := inv.Items[idx].recompute(); err != nil {
				inv.Items[idx].DiscountAmount, inv.Items[idx].DiscountRate = prevAmount, prevRate
				return err
			}
			inv.recalculateTotals()
			inv.Touch()
			return nil
		}
	}

	return shared.NewNotFoundError("ITEM_NOT_FOUND", "Invoice item not found")
}

// RemoveItem removes an item. Only allowed in DRAFT status.
func (inv *Invoice) RemoveItem(itemID uuid.UUID) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewConflictError("INVOICE_INVALID_STATE", "Cannot remove items from a non-draft invoice")
	}

	for idx, item := range inv.Items {
		if item.ID == itemID {
			inv.Items = append(inv.Items[:idx], inv.Items[idx+1:]...)
			inv.recalculateTotals()
			inv.Touch()
			return nil
		}
	}

	return shared.NewNotFoundError("ITEM_NOT_FOUND", "Invoice item not found")
}

// ApplyDiscount sets the document-level discount. Only allowed in DRAFT
// status.
func (inv *Invoice) ApplyDiscount(discountAmount decimal.Decimal, discountRate valueobject.Percent) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewConflictError("INVOICE_INVALID_STATE", "Cannot apply discount to a non-draft invoice")
	}
	if discountAmount.IsNegative() {
		return shared.NewValidationError("INVALID_DISCOUNT", "Discount cannot be negative")
	}

	inv.DiscountAmount = discountAmount
	inv.DiscountRate = discountRate.Value()
	inv.recalculateTotals()
	inv.Touch()

	return nil
}

// SetShipping sets the shipping amount. Only allowed in DRAFT status.
func (inv *Invoice) SetShipping(amount decimal.Decimal) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewConflictError("INVOICE_INVALID_STATE", "Cannot change shipping on a non-draft invoice")
	}
	if amount.IsNegative() {
		return shared.NewValidationError("INVALID_SHIPPING", "Shipping amount cannot be negative")
	}

	inv.ShippingAmount = amount
	inv.recalculateTotals()
	inv.Touch()

	return nil
}

// SetDueDate sets the payment due date
func (inv *Invoice) SetDueDate(date time.Time) error {
	if inv.Status == InvoiceStatusPaid || inv.Status == InvoiceStatusCancelled {
		return shared.NewConflictError("INVOICE_INVALID_STATE", "Cannot change due date of a closed invoice")
	}
	if date.Before(inv.InvoiceDate) {
		return shared.NewValidationError("INVALID_DUE_DATE", "Due date cannot be before the invoice date")
	}
	inv.DueDate = &date
	inv.Touch()
	return nil
}

// Issue finalizes the draft invoice. Requires at least one item.
func (inv *Invoice) Issue() error {
	if err := invoiceTransitions.Guard(inv.Status, InvoiceStatusIssued, "INVOICE_INVALID_STATE"); err != nil {
		return err
	}
	if len(inv.Items) == 0 {
		return shared.NewValidationError("INVOICE_NO_ITEMS", "Cannot issue an invoice without items")
	}

	now := time.Now()
	inv.Status = InvoiceStatusIssued
	inv.IssuedAt = &now
	inv.UpdatedAt = now

	inv.AddDomainEvent(NewInvoiceIssuedEvent(inv))

	return nil
}

// Send marks the issued invoice as sent to the customer
func (inv *Invoice) Send() error {
	if err := invoiceTransitions.Guard(inv.Status, InvoiceStatusSent, "INVOICE_INVALID_STATE"); err != nil {
		return err
	}

	now := time.Now()
	inv.Status = InvoiceStatusSent
	inv.SentAt = &now
	inv.UpdatedAt = now

	return nil
}

// RecordPayment applies a received amount against the outstanding balance.
// The amount is bounded by RemainingAmount and the paid status derives from
// the new paid amount.
func (inv *Invoice) RecordPayment(amount decimal.Decimal) error {
	switch inv.Status {
	case InvoiceStatusIssued, InvoiceStatusSent, InvoiceStatusPartiallyPaid:
	default:
		return shared.NewConflictError("INVOICE_INVALID_STATE", "Payments can only be recorded on an issued invoice")
	}
	if !amount.IsPositive() {
		return shared.NewValidationError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.GreaterThan(inv.RemainingAmount()) {
		return shared.NewValidationError("PAYMENT_EXCEEDS_REMAINING", "Payment amount cannot exceed the remaining balance")
	}

	inv.PaidAmount = inv.PaidAmount.Add(amount)
	inv.deriveStatusFromPaid()
	inv.Touch()

	if inv.Status == InvoiceStatusPaid {
		inv.AddDomainEvent(NewInvoicePaidEvent(inv))
	}

	return nil
}

// ReversePayment backs out a previously recorded amount, compensating an
// erroneous payment or a bounced receipt
func (inv *Invoice) ReversePayment(amount decimal.Decimal) error {
	switch inv.Status {
	case InvoiceStatusPartiallyPaid, InvoiceStatusPaid:
	default:
		return shared.NewConflictError("INVOICE_INVALID_STATE", "No payments to reverse")
	}
	if !amount.IsPositive() {
		return shared.NewValidationError("INVALID_AMOUNT", "Reversal amount must be positive")
	}
	if amount.GreaterThan(inv.PaidAmount) {
		return shared.NewValidationError("REVERSAL_EXCEEDS_PAID", "Reversal amount cannot exceed the paid amount")
	}

	inv.PaidAmount = inv.PaidAmount.Sub(amount)
	inv.deriveStatusFromPaid()
	inv.Touch()

	return nil
}

// Cancel cancels the invoice. Only allowed while nothing has been paid.
func (inv *Invoice) Cancel(reason string) error {
	if inv.PaidAmount.IsPositive() {
		return shared.NewConflictError("INVOICE_INVALID_STATE", "Cannot cancel an invoice with recorded payments")
	}
	if err := invoiceTransitions.Guard(inv.Status, InvoiceStatusCancelled, "INVOICE_INVALID_STATE"); err != nil {
		return err
	}
	if reason == "" {
		return shared.NewValidationError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	inv.Status = InvoiceStatusCancelled
	inv.CancelledAt = &now
	inv.CancelReason = reason
	inv.UpdatedAt = now

	inv.AddDomainEvent(NewInvoiceCancelledEvent(inv, reason))

	return nil
}

// deriveStatusFromPaid recomputes the paid status after a balance mutation.
// A fully reversed invoice falls back to its pre-payment state.
func (inv *Invoice) deriveStatusFromPaid() {
	switch {
	case inv.PaidAmount.GreaterThanOrEqual(inv.TotalAmount):
		now := time.Now()
		inv.Status = InvoiceStatusPaid
		inv.PaidAt = &now
	case inv.PaidAmount.IsPositive():
		inv.Status = InvoiceStatusPartiallyPaid
		inv.PaidAt = nil
	default:
		if inv.SentAt != nil {
			inv.Status = InvoiceStatusSent
		} else {
			inv.Status = InvoiceStatusIssued
		}
		inv.PaidAt = nil
	}
}

func (inv *Invoice) recalculateTotals() {
	lines := make([]shared.LineAmounts, len(inv.Items))
	for i := range inv.Items {
		lines[i] = inv.Items[i].lineAmounts()
	}

	rate, _ := valueobject.NewPercent(inv.DiscountRate)
	totals := shared.ComputeTotals(lines, inv.DiscountAmount, rate, inv.ShippingAmount)

	inv.SubTotal = totals.SubTotal
	inv.VatAmount = totals.VatAmount
	inv.TotalAmount = totals.TotalAmount
}

// GetItem returns an item by its ID
func (inv *Invoice) GetItem(itemID uuid.UUID) *InvoiceItem {
	for idx := range inv.Items {
		if inv.Items[idx].ID == itemID {
			return &inv.Items[idx]
		}
	}
	return nil
}

// ItemCount returns the number of items
func (inv *Invoice) ItemCount() int {
	return len(inv.Items)
}

// IsPaid returns true if the invoice is fully paid
func (inv *Invoice) IsPaid() bool {
	return inv.Status == InvoiceStatusPaid
}

// IsOverdue returns true if the invoice has an unpaid balance past its due
// date
func (inv *Invoice) IsOverdue() bool {
	if inv.DueDate == nil || inv.Status == InvoiceStatusPaid || inv.Status == InvoiceStatusCancelled || inv.Status == InvoiceStatusDraft {
		return false
	}
	return time.Now().After(*inv.DueDate)
}
