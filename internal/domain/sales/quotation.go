package sales

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/sales/internal/domain/shared"
	"github.com/erp/sales/internal/domain/shared/valueobject"
)

// QuotationStatus represents the status of a quotation
type QuotationStatus string

const (
	QuotationStatusDraft     QuotationStatus = "DRAFT"
	QuotationStatusSubmitted QuotationStatus = "SUBMITTED"
	QuotationStatusApproved  QuotationStatus = "APPROVED"
	QuotationStatusSent      QuotationStatus = "SENT"
	QuotationStatusAccepted  QuotationStatus = "ACCEPTED"
	QuotationStatusRejected  QuotationStatus = "REJECTED"
	QuotationStatusExpired   QuotationStatus = "EXPIRED"
	QuotationStatusConverted QuotationStatus = "CONVERTED"
	QuotationStatusCancelled QuotationStatus = "CANCELLED"
)

// quotationTransitions is the full legal-transition table for quotations
var quotationTransitions = shared.Transitions[QuotationStatus]{
	QuotationStatusDraft:     {QuotationStatusSubmitted, QuotationStatusCancelled},
	QuotationStatusSubmitted: {QuotationStatusApproved, QuotationStatusCancelled},
	QuotationStatusApproved:  {QuotationStatusSent},
	QuotationStatusSent:      {QuotationStatusAccepted, QuotationStatusRejected, QuotationStatusExpired},
	QuotationStatusAccepted:  {QuotationStatusConverted},
}

// IsValid checks if the status is a valid QuotationStatus
func (s QuotationStatus) IsValid() bool {
	switch s {
	case QuotationStatusDraft, QuotationStatusSubmitted, QuotationStatusApproved,
		QuotationStatusSent, QuotationStatusAccepted, QuotationStatusRejected,
		QuotationStatusExpired, QuotationStatusConverted, QuotationStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of QuotationStatus
func (s QuotationStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s QuotationStatus) CanTransitionTo(target QuotationStatus) bool {
	return quotationTransitions.Can(s, target)
}

// IsTerminal returns true if no further transition leaves this status
func (s QuotationStatus) IsTerminal() bool {
	return quotationTransitions.IsTerminal(s)
}

// QuotationItem represents a line item in a quotation
type QuotationItem struct {
	ID             uuid.UUID
	QuotationID    uuid.UUID
	ProductID      uuid.UUID
	ProductName    string
	ProductCode    string
	Description    string
	Quantity       decimal.Decimal
	Unit           string
	UnitPrice      decimal.Decimal
	DiscountRate   decimal.Decimal // 0-100
	DiscountAmount decimal.Decimal // flat line discount
	VatRate        decimal.Decimal // 0-100
	VatAmount      decimal.Decimal
	LineTotal      decimal.Decimal
	SortOrder      int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewQuotationItem creates a new quotation line item with computed amounts
func NewQuotationItem(quotationID, productID uuid.UUID, productName, productCode, unit string, quantity, unitPrice decimal.Decimal, vatRate valueobject.Percent) (*QuotationItem, error) {
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
	return &QuotationItem{
		ID:             uuid.New(),
		QuotationID:    quotationID,
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

// recompute recalculates the item's derived amounts from its current fields
func (i *QuotationItem) recompute() error {
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

// lineAmounts returns the item's monetary breakdown for totals computation
func (i *QuotationItem) lineAmounts() shared.LineAmounts {
	discountRate, _ := valueobject.NewPercent(i.DiscountRate)
	vatRate, _ := valueobject.NewPercent(i.VatRate)
	line, _ := shared.ComputeLine(i.Quantity, i.UnitPrice, i.DiscountAmount, discountRate, vatRate)
	return line
}

// Quotation represents a pre-sale proposal aggregate root
type Quotation struct {
	shared.DocumentRoot
	QuotationNumber   string
	QuotationDate     time.Time
	ExpirationDate    *time.Time
	CustomerID        uuid.UUID
	CustomerName      string
	SalesPersonID     *uuid.UUID
	SalesPersonName   string
	Items             []QuotationItem
	SubTotal          decimal.Decimal
	DiscountAmount    decimal.Decimal // configured flat document discount
	DiscountRate      decimal.Decimal // configured document discount rate, 0-100
	VatAmount         decimal.Decimal
	ShippingAmount    decimal.Decimal
	TotalAmount       decimal.Decimal
	Status            QuotationStatus
	PaymentTerms      string
	DeliveryTerms     string
	RevisionNumber    int
	ParentQuotationID *uuid.UUID
	ApprovedBy        *uuid.UUID
	ApprovedAt        *time.Time
	SentAt            *time.Time
	AcceptedAt        *time.Time
	RejectedAt        *time.Time
	RejectionReason   string
	ExpiredAt         *time.Time
	ConvertedToOrder  *uuid.UUID
	ConvertedAt       *time.Time
	CancelledAt       *time.Time
	CancelReason      string
}

// NewQuotation creates a new quotation in draft status
func NewQuotation(tenantID uuid.UUID, quotationNumber string, customerID uuid.UUID, customerName string, currency valueobject.Currency) (*Quotation, error) {
	if quotationNumber == "" {
		return nil, shared.NewValidationError("INVALID_QUOTATION_NUMBER", "Quotation number cannot be empty")
	}
	if len(quotationNumber) > 50 {
		return nil, shared.NewValidationError("INVALID_QUOTATION_NUMBER", "Quotation number cannot exceed 50 characters")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewValidationError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}

	q := &Quotation{
		DocumentRoot:    shared.NewDocumentRoot(tenantID, currency),
		QuotationNumber: quotationNumber,
		QuotationDate:   time.Now(),
		CustomerID:      customerID,
		CustomerName:    customerName,
		Items:           make([]QuotationItem, 0),
		SubTotal:        decimal.Zero,
		DiscountAmount:  decimal.Zero,
		DiscountRate:    decimal.Zero,
		VatAmount:       decimal.Zero,
		ShippingAmount:  decimal.Zero,
		TotalAmount:     decimal.Zero,
		Status:          QuotationStatusDraft,
		RevisionNumber:  1,
	}

	q.AddDomainEvent(NewQuotationCreatedEvent(q))

	return q, nil
}

// AddItem adds a new line item. Only allowed in DRAFT status.
func (q *Quotation) AddItem(productID uuid.UUID, productName, productCode, unit string, quantity, unitPrice decimal.Decimal, vatRate valueobject.Percent) (*QuotationItem, error) {
	if q.Status != QuotationStatusDraft {
		return nil, shared.NewConflictError("QUOTATION_INVALID_STATE", "Cannot add items to a non-draft quotation")
	}

	item, err := NewQuotationItem(q.ID, productID, productName, productCode, unit, quantity, unitPrice, vatRate)
	if err != nil {
		return nil, err
	}
	item.SortOrder = len(q.Items)

	q.Items = append(q.Items, *item)
	q.recalculateTotals()
	q.Touch()

	return item, nil
}

// UpdateItemQuantity updates the quantity of an existing item. Only allowed
// in DRAFT status.
func (q *Quotation) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if q.Status != QuotationStatusDraft {
		return shared.NewConflictError("QUOTATION_INVALID_STATE", "Cannot update items in a non-draft quotation")
	}

	for idx := range q.Items {
		if q.Items[idx].ID == itemID {
			prev := q.Items[idx].Quantity
			q.Items[idx].Quantity = quantity
			if err := q.Items[idx].recompute(); err != nil {
				q.Items[idx].Quantity = prev
				return err
			}
			q.recalculateTotals()
			q.Touch()
			return nil
		}
	}

	return shared.NewNotFoundError("ITEM_NOT_FOUND", "Quotation item not found")
}

// UpdateItemPrice updates the unit price of an existing item. Only allowed
// in DRAFT status.
func (q *Quotation) UpdateItemPrice(itemID uuid.UUID, unitPrice decimal.Decimal) error {
	if q.Status != QuotationStatusDraft {
		return shared.NewConflictError("QUOTATION_INVALID_STATE", "Cannot update items in a non-draft quotation")
	}

	for idx := range q.Items {
		if q.Items[idx].ID == itemID {
			prev := q.Items[idx].UnitPrice
			q.Items[idx].UnitPrice = unitPrice
			if err := q.Items[idx].recompute(); err != nil {
				q.Items[idx].UnitPrice = prev
				return err
			}
			q.recalculateTotals()
			q.Touch()
			return nil
		}
	}

	return shared.NewNotFoundError("ITEM_NOT_FOUND", "Quotation item not found")
}

// SetItemDiscount sets the line discount of an existing item. Only allowed
// in DRAFT status.
func (q *Quotation) SetItemDiscount(itemID uuid.UUID, discountAmount decimal.Decimal, discountRate valueobject.Percent) error {
	if q.Status != QuotationStatusDraft {
		return shared.NewConflictError("QUOTATION_INVALID_STATE", "Cannot update items in a non-draft quotation")
	}

	for idx := range q.Items {
		if q.Items[idx].ID == itemID {
			prevAmount, prevRate := q.Items[idx].DiscountAmount, q.Items[idx].DiscountRate
			q.Items[idx].DiscountAmount = discountAmount
			q.Items[idx].DiscountRate = discountRate.Value()
			if err := q.Items[idx].recompute(); err != nil {
				q.Items[idx].DiscountAmount, q.Items[idx].DiscountRate = prevAmount, prevRate
				return err
			}
			q.recalculateTotals()
			q.Touch()
			return nil
		}
	}

	return shared.NewNotFoundError("ITEM_NOT_FOUND", "Quotation item not found")
}

// RemoveItem removes an item. Only allowed in DRAFT status.
func (q *Quotation) RemoveItem(itemID uuid.UUID) error {
	if q.Status != QuotationStatusDraft {
		return shared.NewConflictError("QUOTATION_INVALID_STATE", "Cannot remove items from a non-draft quotation")
	}

	for idx, item := range q.Items {
		if item.ID == itemID {
			q.Items = append(q.Items[:idx], q.Items[idx+1:]...)
			q.recalculateTotals()
			q.Touch()
			return nil
		}
	}

	return shared.NewNotFoundError("ITEM_NOT_FOUND", "Quotation item not found")
}

// ApplyDiscount sets the document-level discount. Only allowed in DRAFT
// status.
func (q *Quotation) ApplyDiscount(discountAmount decimal.Decimal, discountRate valueobject.Percent) error {
	if q.Status != QuotationStatusDraft {
		return shared.NewConflictError("QUOTATION_INVALID_STATE", "Cannot apply discount to a non-draft quotation")
	}
	if discountAmount.IsNegative() {
		return shared.NewValidationError("INVALID_DISCOUNT", "Discount cannot be negative")
	}

	q.DiscountAmount = discountAmount
	q.DiscountRate = discountRate.Value()
	q.recalculateTotals()
	q.Touch()

	return nil
}

// SetShipping sets the shipping amount. Only allowed in DRAFT status.
func (q *Quotation) SetShipping(amount decimal.Decimal) error {
	if q.Status != QuotationStatusDraft {
		return shared.NewConflictError("QUOTATION_INVALID_STATE", "Cannot change shipping on a non-draft quotation")
	}
	if amount.IsNegative() {
		return shared.NewValidationError("INVALID_SHIPPING", "Shipping amount cannot be negative")
	}

	q.ShippingAmount = amount
	q.recalculateTotals()
	q.Touch()

	return nil
}

// SetExpirationDate sets when the quotation stops being valid
func (q *Quotation) SetExpirationDate(date time.Time) error {
	if q.Status.IsTerminal() {
		return shared.NewConflictError("QUOTATION_INVALID_STATE", "Cannot change expiration of a closed quotation")
	}
	q.ExpirationDate = &date
	q.Touch()
	return nil
}

// SetSalesPerson assigns the owning sales person
func (q *Quotation) SetSalesPerson(id uuid.UUID, name string) {
	q.SalesPersonID = &id
	q.SalesPersonName = name
	q.Touch()
}

// Submit submits the quotation for approval. Requires at least one item.
func (q *Quotation) Submit() error {
	if err := quotationTransitions.Guard(q.Status, QuotationStatusSubmitted, "QUOTATION_INVALID_STATE"); err != nil {
		return err
	}
	if len(q.Items) == 0 {
		return shared.NewValidationError("QUOTATION_NO_ITEMS", "Cannot submit quotation without items")
	}

	q.Status = QuotationStatusSubmitted
	q.Touch()

	return nil
}

// Approve approves the quotation for sending
func (q *Quotation) Approve(approverID uuid.UUID) error {
	if err := quotationTransitions.Guard(q.Status, QuotationStatusApproved, "QUOTATION_INVALID_STATE"); err != nil {
		return err
	}
	if len(q.Items) == 0 {
		return shared.NewValidationError("QUOTATION_NO_ITEMS", "Cannot approve quotation without items")
	}
	if approverID == uuid.Nil {
		return shared.NewValidationError("INVALID_APPROVER", "Approver ID cannot be empty")
	}

	now := time.Now()
	q.Status = QuotationStatusApproved
	q.ApprovedBy = &approverID
	q.ApprovedAt = &now
	q.UpdatedAt = now

	return nil
}

// Send marks the quotation as sent to the customer
func (q *Quotation) Send() error {
	if err := quotationTransitions.Guard(q.Status, QuotationStatusSent, "QUOTATION_INVALID_STATE"); err != nil {
		return err
	}

	now := time.Now()
	q.Status = QuotationStatusSent
	q.SentAt = &now
	q.UpdatedAt = now

	return nil
}

// Accept records the customer's acceptance
func (q *Quotation) Accept() error {
	if err := quotationTransitions.Guard(q.Status, QuotationStatusAccepted, "QUOTATION_INVALID_STATE"); err != nil {
		return err
	}
	if q.ExpirationDate != nil && time.Now().After(*q.ExpirationDate) {
		return shared.NewConflictError("QUOTATION_EXPIRED", "Cannot accept an expired quotation")
	}

	now := time.Now()
	q.Status = QuotationStatusAccepted
	q.AcceptedAt = &now
	q.UpdatedAt = now

	q.AddDomainEvent(NewQuotationAcceptedEvent(q))

	return nil
}

// Reject records the customer's rejection
func (q *Quotation) Reject(reason string) error {
	if err := quotationTransitions.Guard(q.Status, QuotationStatusRejected, "QUOTATION_INVALID_STATE"); err != nil {
		return err
	}
	if reason == "" {
		return shared.NewValidationError("INVALID_REASON", "Rejection reason is required")
	}

	now := time.Now()
	q.Status = QuotationStatusRejected
	q.RejectedAt = &now
	q.RejectionReason = reason
	q.UpdatedAt = now

	return nil
}

// MarkExpired marks a sent quotation as expired once its expiration date
// has passed
func (q *Quotation) MarkExpired() error {
	if err := quotationTransitions.Guard(q.Status, QuotationStatusExpired, "QUOTATION_INVALID_STATE"); err != nil {
		return err
	}
	if q.ExpirationDate == nil || time.Now().Before(*q.ExpirationDate) {
		return shared.NewConflictError("QUOTATION_NOT_EXPIRED", "Quotation expiration date has not passed")
	}

	now := time.Now()
	q.Status = QuotationStatusExpired
	q.ExpiredAt = &now
	q.UpdatedAt = now

	return nil
}

// MarkConverted links the quotation to the sales order created from it
func (q *Quotation) MarkConverted(orderID uuid.UUID) error {
	if err := quotationTransitions.Guard(q.Status, QuotationStatusConverted, "QUOTATION_INVALID_STATE"); err != nil {
		return err
	}
	if orderID == uuid.Nil {
		return shared.NewValidationError("INVALID_ORDER", "Order ID cannot be empty")
	}

	now := time.Now()
	q.Status = QuotationStatusConverted
	q.ConvertedToOrder = &orderID
	q.ConvertedAt = &now
	q.UpdatedAt = now

	q.AddDomainEvent(NewQuotationConvertedEvent(q, orderID))

	return nil
}

// Cancel cancels the quotation. Allowed in DRAFT or SUBMITTED status.
func (q *Quotation) Cancel(reason string) error {
	if err := quotationTransitions.Guard(q.Status, QuotationStatusCancelled, "QUOTATION_INVALID_STATE"); err != nil {
		return err
	}
	if reason == "" {
		return shared.NewValidationError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	q.Status = QuotationStatusCancelled
	q.CancelledAt = &now
	q.CancelReason = reason
	q.UpdatedAt = now

	return nil
}

// Revise produces a new draft quotation carrying the same customer and
// items, linked to this one and numbered as the next revision. Allowed once
// the customer has seen the quotation (sent, rejected or expired).
func (q *Quotation) Revise(newNumber string) (*Quotation, error) {
	switch q.Status {
	case QuotationStatusSent, QuotationStatusRejected, QuotationStatusExpired:
	default:
		return nil, shared.NewConflictError("QUOTATION_INVALID_STATE", fmt.Sprintf("Cannot revise quotation in %s status", q.Status))
	}

	revision, err := NewQuotation(q.TenantID, newNumber, q.CustomerID, q.CustomerName, q.Currency)
	if err != nil {
		return nil, err
	}

	revision.RevisionNumber = q.RevisionNumber + 1
	parentID := q.ID
	revision.ParentQuotationID = &parentID
	revision.SalesPersonID = q.SalesPersonID
	revision.SalesPersonName = q.SalesPersonName
	revision.PaymentTerms = q.PaymentTerms
	revision.DeliveryTerms = q.DeliveryTerms
	revision.DiscountAmount = q.DiscountAmount
	revision.DiscountRate = q.DiscountRate
	revision.ShippingAmount = q.ShippingAmount
	revision.ExchangeRate = q.ExchangeRate

	for _, item := range q.Items {
		copied := item
		copied.ID = uuid.New()
		copied.QuotationID = revision.ID
		now := time.Now()
		copied.CreatedAt = now
		copied.UpdatedAt = now
		revision.Items = append(revision.Items, copied)
	}
	revision.recalculateTotals()

	return revision, nil
}

// recalculateTotals recomputes the document totals from the current items
// and discount/shipping configuration
func (q *Quotation) recalculateTotals() {
	lines := make([]shared.LineAmounts, len(q.Items))
	for i := range q.Items {
		lines[i] = q.Items[i].lineAmounts()
	}

	rate, _ := valueobject.NewPercent(q.DiscountRate)
	totals := shared.ComputeTotals(lines, q.DiscountAmount, rate, q.ShippingAmount)

	q.SubTotal = totals.SubTotal
	q.VatAmount = totals.VatAmount
	q.TotalAmount = totals.TotalAmount
}

// DocumentDiscount returns the combined document-level discount actually
// applied to the current subtotal
func (q *Quotation) DocumentDiscount() decimal.Decimal {
	lines := make([]shared.LineAmounts, len(q.Items))
	for i := range q.Items {
		lines[i] = q.Items[i].lineAmounts()
	}
	rate, _ := valueobject.NewPercent(q.DiscountRate)
	return shared.ComputeTotals(lines, q.DiscountAmount, rate, q.ShippingAmount).DiscountAmount
}

// GetItem returns an item by its ID
func (q *Quotation) GetItem(itemID uuid.UUID) *QuotationItem {
	for idx := range q.Items {
		if q.Items[idx].ID == itemID {
			return &q.Items[idx]
		}
	}
	return nil
}

// ItemCount returns the number of items
func (q *Quotation) ItemCount() int {
	return len(q.Items)
}

// IsDraft returns true if the quotation is in draft status
func (q *Quotation) IsDraft() bool {
	return q.Status == QuotationStatusDraft
}

// IsAccepted returns true if the quotation was accepted by the customer
func (q *Quotation) IsAccepted() bool {
	return q.Status == QuotationStatusAccepted
}

// IsTerminal returns true if the quotation is in a terminal state
func (q *Quotation) IsTerminal() bool {
	return q.Status.IsTerminal()
}
