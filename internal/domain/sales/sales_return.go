package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/sales/internal/domain/shared"
	"github.com/erp/sales/internal/domain/shared/valueobject"
)

// SalesReturnStatus represents the status of a sales return
type SalesReturnStatus string

const (
	SalesReturnStatusPending   SalesReturnStatus = "PENDING"
	SalesReturnStatusSubmitted SalesReturnStatus = "SUBMITTED"
	SalesReturnStatusApproved  SalesReturnStatus = "APPROVED"
	SalesReturnStatusReceived  SalesReturnStatus = "RECEIVED"
	SalesReturnStatusRefunded  SalesReturnStatus = "REFUNDED"
	SalesReturnStatusCompleted SalesReturnStatus = "COMPLETED"
	SalesReturnStatusRejected  SalesReturnStatus = "REJECTED"
	SalesReturnStatusCancelled SalesReturnStatus = "CANCELLED"
)

var salesReturnTransitions = shared.Transitions[SalesReturnStatus]{
	SalesReturnStatusPending:   {SalesReturnStatusSubmitted, SalesReturnStatusCancelled},
	SalesReturnStatusSubmitted: {SalesReturnStatusApproved, SalesReturnStatusRejected, SalesReturnStatusCancelled},
	SalesReturnStatusApproved:  {SalesReturnStatusReceived, SalesReturnStatusCancelled},
	SalesReturnStatusReceived:  {SalesReturnStatusRefunded, SalesReturnStatusCancelled},
	SalesReturnStatusRefunded:  {SalesReturnStatusCompleted},
}

// IsValid checks if the status is a valid SalesReturnStatus
func (s SalesReturnStatus) IsValid() bool {
	switch s {
	case SalesReturnStatusPending, SalesReturnStatusSubmitted, SalesReturnStatusApproved,
		SalesReturnStatusReceived, SalesReturnStatusRefunded, SalesReturnStatusCompleted,
		SalesReturnStatusRejected, SalesReturnStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of SalesReturnStatus
func (s SalesReturnStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s SalesReturnStatus) CanTransitionTo(target SalesReturnStatus) bool {
	return salesReturnTransitions.Can(s, target)
}

// IsTerminal returns true if no further transition leaves this status
func (s SalesReturnStatus) IsTerminal() bool {
	return salesReturnTransitions.IsTerminal(s)
}

// ReturnCondition describes the state of returned goods
type ReturnCondition string

const (
	ReturnConditionNew       ReturnCondition = "NEW"
	ReturnConditionUsed      ReturnCondition = "USED"
	ReturnConditionDamaged   ReturnCondition = "DAMAGED"
	ReturnConditionDefective ReturnCondition = "DEFECTIVE"
)

// SalesReturnItem represents a returned line item
type SalesReturnItem struct {
	ID               uuid.UUID
	SalesReturnID    uuid.UUID
	SalesOrderItemID uuid.UUID
	ProductID        uuid.UUID
	ProductName      string
	Quantity         decimal.Decimal
	UnitPrice        decimal.Decimal
	VatRate          decimal.Decimal
	VatAmount        decimal.Decimal
	LineTotal        decimal.Decimal
	Condition        ReturnCondition
	Reason           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewSalesReturnItem creates a new return line item with computed amounts
func NewSalesReturnItem(returnID, orderItemID, productID uuid.UUID, productName string, quantity, unitPrice decimal.Decimal, vatRate valueobject.Percent, condition ReturnCondition, reason string) (*SalesReturnItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if reason == "" {
		return nil, shared.NewValidationError("INVALID_REASON", "Return reason is required per item")
	}

	line, err := shared.ComputeLine(quantity, unitPrice, decimal.Zero, valueobject.ZeroPercent(), vatRate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &SalesReturnItem{
		ID:               uuid.New(),
		SalesReturnID:    returnID,
		SalesOrderItemID: orderItemID,
		ProductID:        productID,
		ProductName:      productName,
		Quantity:         quantity,
		UnitPrice:        unitPrice,
		VatRate:          vatRate.Value(),
		VatAmount:        line.VatAmount,
		LineTotal:        line.LineTotal,
		Condition:        condition,
		Reason:           reason,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

func (i *SalesReturnItem) lineAmounts() shared.LineAmounts {
	vatRate, _ := valueobject.NewPercent(i.VatRate)
	line, _ := shared.ComputeLine(i.Quantity, i.UnitPrice, decimal.Zero, valueobject.ZeroPercent(), vatRate)
	return line
}

// SalesReturn represents a goods-return request aggregate root
type SalesReturn struct {
	shared.DocumentRoot
	ReturnNumber string
	ReturnDate   time.Time
	SalesOrderID uuid.UUID
	OrderNumber  string
	InvoiceID    *uuid.UUID
	CustomerID   uuid.UUID
	CustomerName string
	Items        []SalesReturnItem
	SubTotal     decimal.Decimal
	VatAmount    decimal.Decimal
	TotalAmount  decimal.Decimal
	RefundAmount decimal.Decimal
	Status       SalesReturnStatus
	Reason       string
	CreditNoteID *uuid.UUID
	SubmittedAt  *time.Time
	ApprovedBy   *uuid.UUID
	ApprovedAt   *time.Time
	ReceivedAt   *time.Time
	RefundedAt   *time.Time
	CompletedAt  *time.Time
	RejectedAt   *time.Time
	RejectReason string
	CancelledAt  *time.Time
	CancelReason string
}

// NewSalesReturn creates a new return request in pending status
func NewSalesReturn(tenantID uuid.UUID, returnNumber string, salesOrderID uuid.UUID, orderNumber string, customerID uuid.UUID, customerName, reason string, currency valueobject.Currency) (*SalesReturn, error) {
	if returnNumber == "" {
		return nil, shared.NewValidationError("INVALID_RETURN_NUMBER", "Return number cannot be empty")
	}
	if salesOrderID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_ORDER", "Sales order ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if reason == "" {
		return nil, shared.NewValidationError("INVALID_REASON", "Return reason is required")
	}

	r := &SalesReturn{
		DocumentRoot: shared.NewDocumentRoot(tenantID, currency),
		ReturnNumber: returnNumber,
		ReturnDate:   time.Now(),
		SalesOrderID: salesOrderID,
		OrderNumber:  orderNumber,
		CustomerID:   customerID,
		CustomerName: customerName,
		Items:        make([]SalesReturnItem, 0),
		SubTotal:     decimal.Zero,
		VatAmount:    decimal.Zero,
		TotalAmount:  decimal.Zero,
		RefundAmount: decimal.Zero,
		Status:       SalesReturnStatusPending,
		Reason:       reason,
	}

	r.AddDomainEvent(NewSalesReturnCreatedEvent(r))

	return r, nil
}

// LinkInvoice records the invoice the returned goods were billed on
func (r *SalesReturn) LinkInvoice(invoiceID uuid.UUID) error {
	if r.Status != SalesReturnStatusPending {
		return shared.NewConflictError("RETURN_INVALID_STATE", "Cannot link invoice on a non-pending return")
	}
	if invoiceID == uuid.Nil {
		return shared.NewValidationError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}
	r.InvoiceID = &invoiceID
	r.Touch()
	return nil
}

// AddItem adds a returned line item. Only allowed in PENDING status.
func (r *SalesReturn) AddItem(orderItemID, productID uuid.UUID, productName string, quantity, unitPrice decimal.Decimal, vatRate valueobject.Percent, condition ReturnCondition, reason string) (*SalesReturnItem, error) {
	if r.Status != SalesReturnStatusPending {
		return nil, shared.NewConflictError("RETURN_INVALID_STATE", "Cannot add items to a non-pending return")
	}

	item, err := NewSalesReturnItem(r.ID, orderItemID, productID, productName, quantity, unitPrice, vatRate, condition, reason)
	if err != nil {
		return nil, err
	}

	r.Items = append(r.Items, *item)
	r.recalculateTotals()
	r.Touch()

	return item, nil
}

// RemoveItem removes a returned line item. Only allowed in PENDING status.
func (r *SalesReturn) RemoveItem(itemID uuid.UUID) error {
	if r.Status != SalesReturnStatusPending {
		return shared.NewConflictError("RETURN_INVALID_STATE", "Cannot remove items from a non-pending return")
	}

	for idx, item := range r.Items {
		if item.ID == itemID {
			r.Items = append(r.Items[:idx], r.Items[idx+1:]...)
			r.recalculateTotals()
			r.Touch()
			return nil
		}
	}

	return shared.NewNotFoundError("ITEM_NOT_FOUND", "Return item not found")
}

// Submit submits the return for approval. Requires at least one item.
func (r *SalesReturn) Submit() error {
	if err := salesReturnTransitions.Guard(r.Status, SalesReturnStatusSubmitted, "RETURN_INVALID_STATE"); err != nil {
		return err
	}
	if len(r.Items) == 0 {
		return shared.NewValidationError("RETURN_NO_ITEMS", "Cannot submit a return without items")
	}

	now := time.Now()
	r.Status = SalesReturnStatusSubmitted
	r.SubmittedAt = &now
	r.UpdatedAt = now

	return nil
}

// Approve approves the submitted return
func (r *SalesReturn) Approve(approverID uuid.UUID) error {
	if err := salesReturnTransitions.Guard(r.Status, SalesReturnStatusApproved, "RETURN_INVALID_STATE"); err != nil {
		return err
	}
	if approverID == uuid.Nil {
		return shared.NewValidationError("INVALID_APPROVER", "Approver ID cannot be empty")
	}

	now := time.Now()
	r.Status = SalesReturnStatusApproved
	r.ApprovedBy = &approverID
	r.ApprovedAt = &now
	r.UpdatedAt = now

	r.AddDomainEvent(NewSalesReturnApprovedEvent(r))

	return nil
}

// Reject rejects the submitted return
func (r *SalesReturn) Reject(reason string) error {
	if err := salesReturnTransitions.Guard(r.Status, SalesReturnStatusRejected, "RETURN_INVALID_STATE"); err != nil {
		return err
	}
	if reason == "" {
		return shared.NewValidationError("INVALID_REASON", "Rejection reason is required")
	}

	now := time.Now()
	r.Status = SalesReturnStatusRejected
	r.RejectedAt = &now
	r.RejectReason = reason
	r.UpdatedAt = now

	return nil
}

// Receive records arrival of the returned goods
func (r *SalesReturn) Receive() error {
	if err := salesReturnTransitions.Guard(r.Status, SalesReturnStatusReceived, "RETURN_INVALID_STATE"); err != nil {
		return err
	}

	now := time.Now()
	r.Status = SalesReturnStatusReceived
	r.ReceivedAt = &now
	r.UpdatedAt = now

	r.AddDomainEvent(NewSalesReturnReceivedEvent(r))

	return nil
}

// Refund records the refund issued for the received goods. The amount may
// not exceed the return's total.
func (r *SalesReturn) Refund(amount decimal.Decimal) error {
	if err := salesReturnTransitions.Guard(r.Status, SalesReturnStatusRefunded, "RETURN_INVALID_STATE"); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return shared.NewValidationError("INVALID_AMOUNT", "Refund amount must be positive")
	}
	if amount.GreaterThan(r.TotalAmount) {
		return shared.NewValidationError("REFUND_EXCEEDS_TOTAL", "Refund amount cannot exceed the return total")
	}

	now := time.Now()
	r.Status = SalesReturnStatusRefunded
	r.RefundAmount = amount
	r.RefundedAt = &now
	r.UpdatedAt = now

	r.AddDomainEvent(NewSalesReturnRefundedEvent(r))

	return nil
}

// Complete closes the refunded return
func (r *SalesReturn) Complete() error {
	if err := salesReturnTransitions.Guard(r.Status, SalesReturnStatusCompleted, "RETURN_INVALID_STATE"); err != nil {
		return err
	}

	now := time.Now()
	r.Status = SalesReturnStatusCompleted
	r.CompletedAt = &now
	r.UpdatedAt = now

	return nil
}

// Cancel cancels the return. Allowed in any state before REFUNDED.
func (r *SalesReturn) Cancel(reason string) error {
	if err := salesReturnTransitions.Guard(r.Status, SalesReturnStatusCancelled, "RETURN_INVALID_STATE"); err != nil {
		return err
	}
	if reason == "" {
		return shared.NewValidationError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	r.Status = SalesReturnStatusCancelled
	r.CancelledAt = &now
	r.CancelReason = reason
	r.UpdatedAt = now

	return nil
}

// SetCreditNote links the credit note issued for this return
func (r *SalesReturn) SetCreditNote(creditNoteID uuid.UUID) error {
	if creditNoteID == uuid.Nil {
		return shared.NewValidationError("INVALID_CREDIT_NOTE", "Credit note ID cannot be empty")
	}
	if r.CreditNoteID != nil {
		return shared.NewConflictError("RETURN_CREDIT_NOTE_EXISTS", "A credit note is already linked to this return")
	}
	switch r.Status {
	case SalesReturnStatusApproved, SalesReturnStatusReceived, SalesReturnStatusRefunded, SalesReturnStatusCompleted:
	default:
		return shared.NewConflictError("RETURN_INVALID_STATE", "Credit note can only be linked after approval")
	}

	r.CreditNoteID = &creditNoteID
	r.Touch()

	return nil
}

func (r *SalesReturn) recalculateTotals() {
	lines := make([]shared.LineAmounts, len(r.Items))
	for i := range r.Items {
		lines[i] = r.Items[i].lineAmounts()
	}

	totals := shared.ComputeTotals(lines, decimal.Zero, valueobject.ZeroPercent(), decimal.Zero)

	r.SubTotal = totals.SubTotal
	r.VatAmount = totals.VatAmount
	r.TotalAmount = totals.TotalAmount
}

// ItemCount returns the number of items
func (r *SalesReturn) ItemCount() int {
	return len(r.Items)
}

// IsTerminal returns true if the return is in a terminal state
func (r *SalesReturn) IsTerminal() bool {
	return r.Status.IsTerminal()
}
