package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/sales/internal/domain/shared"
	"github.com/erp/sales/internal/domain/shared/valueobject"
)

// CreditNoteStatus represents the status of a credit note
type CreditNoteStatus string

const (
	CreditNoteStatusDraft            CreditNoteStatus = "DRAFT"
	CreditNoteStatusPendingApproval  CreditNoteStatus = "PENDING_APPROVAL"
	CreditNoteStatusApproved         CreditNoteStatus = "APPROVED"
	CreditNoteStatusIssued           CreditNoteStatus = "ISSUED"
	CreditNoteStatusPartiallyApplied CreditNoteStatus = "PARTIALLY_APPLIED"
	CreditNoteStatusFullyApplied     CreditNoteStatus = "FULLY_APPLIED"
	CreditNoteStatusRejected         CreditNoteStatus = "REJECTED"
	CreditNoteStatusVoided           CreditNoteStatus = "VOIDED"
)

var creditNoteTransitions = shared.Transitions[CreditNoteStatus]{
	CreditNoteStatusDraft:            {CreditNoteStatusPendingApproval, CreditNoteStatusVoided},
	CreditNoteStatusPendingApproval:  {CreditNoteStatusApproved, CreditNoteStatusRejected},
	CreditNoteStatusApproved:         {CreditNoteStatusIssued, CreditNoteStatusVoided},
	CreditNoteStatusIssued:           {CreditNoteStatusPartiallyApplied, CreditNoteStatusFullyApplied},
	CreditNoteStatusPartiallyApplied: {CreditNoteStatusFullyApplied},
}

// IsValid checks if the status is a valid CreditNoteStatus
func (s CreditNoteStatus) IsValid() bool {
	switch s {
	case CreditNoteStatusDraft, CreditNoteStatusPendingApproval, CreditNoteStatusApproved,
		CreditNoteStatusIssued, CreditNoteStatusPartiallyApplied, CreditNoteStatusFullyApplied,
		CreditNoteStatusRejected, CreditNoteStatusVoided:
		return true
	}
	return false
}

// String returns the string representation of CreditNoteStatus
func (s CreditNoteStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transition leaves this status
func (s CreditNoteStatus) IsTerminal() bool {
	return creditNoteTransitions.IsTerminal(s)
}

// CreditNoteItem represents a credited line item
type CreditNoteItem struct {
	ID           uuid.UUID
	CreditNoteID uuid.UUID
	ProductID    uuid.UUID
	ProductName  string
	Description  string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	VatRate      decimal.Decimal
	VatAmount    decimal.Decimal
	LineTotal    decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewCreditNoteItem creates a new credit note line item with computed
// amounts
func NewCreditNoteItem(creditNoteID, productID uuid.UUID, productName string, quantity, unitPrice decimal.Decimal, vatRate valueobject.Percent) (*CreditNoteItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_PRODUCT", "Product ID cannot be empty")
	}

	line, err := shared.ComputeLine(quantity, unitPrice, decimal.Zero, valueobject.ZeroPercent(), vatRate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &CreditNoteItem{
		ID:           uuid.New(),
		CreditNoteID: creditNoteID,
		ProductID:    productID,
		ProductName:  productName,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		VatRate:      vatRate.Value(),
		VatAmount:    line.VatAmount,
		LineTotal:    line.LineTotal,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (i *CreditNoteItem) lineAmounts() shared.LineAmounts {
	vatRate, _ := valueobject.NewPercent(i.VatRate)
	line, _ := shared.ComputeLine(i.Quantity, i.UnitPrice, decimal.Zero, valueobject.ZeroPercent(), vatRate)
	return line
}

// CreditNoteApplication records one application of the note against its
// invoice
type CreditNoteApplication struct {
	ID           uuid.UUID
	CreditNoteID uuid.UUID
	InvoiceID    uuid.UUID
	Reference    string
	Amount       decimal.Decimal
	AppliedAt    time.Time
}

// CreditNote represents a debt-reduction document raised against an
// invoice. Its total must be validated against the invoice's remaining
// balance before submission or issue; the validation is re-required after
// any change to the note's lines.
type CreditNote struct {
	shared.DocumentRoot
	CreditNoteNumber string
	CreditNoteDate   time.Time
	InvoiceID        uuid.UUID
	InvoiceNumber    string
	SalesReturnID    *uuid.UUID
	ReturnNumber     string
	CustomerID       uuid.UUID
	CustomerName     string
	Reason           string
	Items            []CreditNoteItem
	SubTotal         decimal.Decimal
	DiscountAmount   decimal.Decimal
	VatAmount        decimal.Decimal
	TotalAmount      decimal.Decimal
	AppliedAmount    decimal.Decimal
	Status           CreditNoteStatus
	Applications     []CreditNoteApplication
	validatedBalance *decimal.Decimal
	SubmittedAt      *time.Time
	ApprovedBy       *uuid.UUID
	ApprovedAt       *time.Time
	IssuedAt         *time.Time
	RejectedAt       *time.Time
	RejectReason     string
	VoidedAt         *time.Time
	VoidReason       string
}

// NewCreditNote creates a draft credit note against an invoice
func NewCreditNote(tenantID uuid.UUID, creditNoteNumber string, invoiceID uuid.UUID, invoiceNumber string, customerID uuid.UUID, customerName, reason string, currency valueobject.Currency) (*CreditNote, error) {
	if creditNoteNumber == "" {
		return nil, shared.NewValidationError("INVALID_CREDIT_NOTE_NUMBER", "Credit note number cannot be empty")
	}
	if invoiceID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if reason == "" {
		return nil, shared.NewValidationError("INVALID_REASON", "Credit reason is required")
	}

	cn := &CreditNote{
		DocumentRoot:     shared.NewDocumentRoot(tenantID, currency),
		CreditNoteNumber: creditNoteNumber,
		CreditNoteDate:   time.Now(),
		InvoiceID:        invoiceID,
		InvoiceNumber:    invoiceNumber,
		CustomerID:       customerID,
		CustomerName:     customerName,
		Reason:           reason,
		Items:            make([]CreditNoteItem, 0),
		SubTotal:         decimal.Zero,
		DiscountAmount:   decimal.Zero,
		VatAmount:        decimal.Zero,
		TotalAmount:      decimal.Zero,
		AppliedAmount:    decimal.Zero,
		Status:           CreditNoteStatusDraft,
		Applications:     make([]CreditNoteApplication, 0),
	}

	cn.AddDomainEvent(NewCreditNoteCreatedEvent(cn))

	return cn, nil
}

// CreateForReturn creates a draft credit note justified by an approved
// sales return, carrying the return's line amounts
func CreateForReturn(tenantID uuid.UUID, creditNoteNumber string, invoiceID uuid.UUID, invoiceNumber string, salesReturnID uuid.UUID, returnNumber string, customerID uuid.UUID, customerName string, currency valueobject.Currency) (*CreditNote, error) {
	if salesReturnID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_RETURN", "Sales return ID cannot be empty")
	}

	cn, err := NewCreditNote(tenantID, creditNoteNumber, invoiceID, invoiceNumber, customerID, customerName, "Goods returned under "+returnNumber, currency)
	if err != nil {
		return nil, err
	}

	returnID := salesReturnID
	cn.SalesReturnID = &returnID
	cn.ReturnNumber = returnNumber

	return cn, nil
}

// RemainingAmount returns the credit not yet applied, always derived from
// the note total
func (cn *CreditNote) RemainingAmount() decimal.Decimal {
	return cn.TotalAmount.Sub(cn.AppliedAmount)
}

// AddItem adds a credited line item. Only allowed in DRAFT status; any
// line change invalidates a prior balance validation.
func (cn *CreditNote) AddItem(productID uuid.UUID, productName string, quantity, unitPrice decimal.Decimal, vatRate valueobject.Percent) (*CreditNoteItem, error) {
	if cn.Status != CreditNoteStatusDraft {
		return nil, shared.NewConflictError("CREDIT_NOTE_INVALID_STATE", "Cannot add items to a non-draft credit note")
	}

	item, err := NewCreditNoteItem(cn.ID, productID, productName, quantity, unitPrice, vatRate)
	if err != nil {
		return nil, err
	}

	cn.Items = append(cn.Items, *item)
	cn.recalculateTotals()
	cn.validatedBalance = nil
	cn.Touch()

	return item, nil
}

// RemoveItem removes a credited line item. Only allowed in DRAFT status.
func (cn *CreditNote) RemoveItem(itemID uuid.UUID) error {
	if cn.Status != CreditNoteStatusDraft {
		return shared.NewConflictError("CREDIT_NOTE_INVALID_STATE", "Cannot remove items from a non-draft credit note")
	}

	for idx, item := range cn.Items {
		if item.ID == itemID {
			cn.Items = append(cn.Items[:idx], cn.Items[idx+1:]...)
			cn.recalculateTotals()
			cn.validatedBalance = nil
			cn.Touch()
			return nil
		}
	}

	return shared.NewNotFoundError("ITEM_NOT_FOUND", "Credit note item not found")
}

// ValidateAgainstInvoice checks the note total against the invoice's
// current remaining balance, read by the caller. Required before Submit and
// Issue.
func (cn *CreditNote) ValidateAgainstInvoice(invoiceRemainingBalance decimal.Decimal) error {
	if invoiceRemainingBalance.IsNegative() {
		return shared.NewValidationError("INVALID_BALANCE", "Invoice remaining balance cannot be negative")
	}
	if cn.TotalAmount.GreaterThan(invoiceRemainingBalance) {
		return shared.NewValidationError("CREDIT_NOTE_EXCEEDS_BALANCE", "Credit note total cannot exceed the invoice remaining balance")
	}

	balance := invoiceRemainingBalance
	cn.validatedBalance = &balance

	return nil
}

// Submit sends the draft note for approval. Requires items and a prior
// balance validation.
func (cn *CreditNote) Submit() error {
	if err := creditNoteTransitions.Guard(cn.Status, CreditNoteStatusPendingApproval, "CREDIT_NOTE_INVALID_STATE"); err != nil {
		return err
	}
	if len(cn.Items) == 0 {
		return shared.NewValidationError("CREDIT_NOTE_NO_ITEMS", "Cannot submit a credit note without items")
	}
	if cn.validatedBalance == nil {
		return shared.NewConflictError("CREDIT_NOTE_NOT_VALIDATED", "Credit note must be validated against the invoice balance before submission")
	}

	now := time.Now()
	cn.Status = CreditNoteStatusPendingApproval
	cn.SubmittedAt = &now
	cn.UpdatedAt = now

	return nil
}

// Approve approves the pending note
func (cn *CreditNote) Approve(approverID uuid.UUID) error {
	if err := creditNoteTransitions.Guard(cn.Status, CreditNoteStatusApproved, "CREDIT_NOTE_INVALID_STATE"); err != nil {
		return err
	}
	if approverID == uuid.Nil {
		return shared.NewValidationError("INVALID_APPROVER", "Approver ID cannot be empty")
	}

	now := time.Now()
	cn.Status = CreditNoteStatusApproved
	cn.ApprovedBy = &approverID
	cn.ApprovedAt = &now
	cn.UpdatedAt = now

	return nil
}

// Reject rejects the pending note
func (cn *CreditNote) Reject(reason string) error {
	if err := creditNoteTransitions.Guard(cn.Status, CreditNoteStatusRejected, "CREDIT_NOTE_INVALID_STATE"); err != nil {
		return err
	}
	if reason == "" {
		return shared.NewValidationError("INVALID_REASON", "Rejection reason is required")
	}

	now := time.Now()
	cn.Status = CreditNoteStatusRejected
	cn.RejectedAt = &now
	cn.RejectReason = reason
	cn.UpdatedAt = now

	return nil
}

// Issue makes the approved note applicable. Requires a prior balance
// validation.
func (cn *CreditNote) Issue() error {
	if err := creditNoteTransitions.Guard(cn.Status, CreditNoteStatusIssued, "CREDIT_NOTE_INVALID_STATE"); err != nil {
		return err
	}
	if cn.validatedBalance == nil {
		return shared.NewConflictError("CREDIT_NOTE_NOT_VALIDATED", "Credit note must be validated against the invoice balance before issue")
	}

	now := time.Now()
	cn.Status = CreditNoteStatusIssued
	cn.IssuedAt = &now
	cn.UpdatedAt = now

	cn.AddDomainEvent(NewCreditNoteIssuedEvent(cn))

	return nil
}

// Apply consumes part of the note's remaining credit against its invoice.
// The caller pairs this with the invoice-side mutation in one transaction.
func (cn *CreditNote) Apply(amount decimal.Decimal, targetInvoiceID uuid.UUID, reference string) error {
	switch cn.Status {
	case CreditNoteStatusIssued, CreditNoteStatusPartiallyApplied:
	default:
		return shared.NewConflictError("CREDIT_NOTE_INVALID_STATE", "Only an issued credit note can be applied")
	}
	if targetInvoiceID == uuid.Nil {
		return shared.NewValidationError("INVALID_INVOICE", "Target invoice ID cannot be empty")
	}
	if !amount.IsPositive() {
		return shared.NewValidationError("INVALID_AMOUNT", "Application amount must be positive")
	}
	if amount.GreaterThan(cn.RemainingAmount()) {
		return shared.NewValidationError("CREDIT_NOTE_EXCEEDS_BALANCE", "Application amount cannot exceed the remaining credit")
	}

	cn.AppliedAmount = cn.AppliedAmount.Add(amount)
	cn.Applications = append(cn.Applications, CreditNoteApplication{
		ID:           uuid.New(),
		CreditNoteID: cn.ID,
		InvoiceID:    targetInvoiceID,
		Reference:    reference,
		Amount:       amount,
		AppliedAt:    time.Now(),
	})
	if cn.RemainingAmount().IsZero() {
		cn.Status = CreditNoteStatusFullyApplied
	} else {
		cn.Status = CreditNoteStatusPartiallyApplied
	}
	cn.Touch()

	cn.AddDomainEvent(NewCreditNoteAppliedEvent(cn, targetInvoiceID, amount))

	return nil
}

// Void cancels a note that has never been applied. Allowed in DRAFT or
// APPROVED status.
func (cn *CreditNote) Void(reason string) error {
	if err := creditNoteTransitions.Guard(cn.Status, CreditNoteStatusVoided, "CREDIT_NOTE_INVALID_STATE"); err != nil {
		return err
	}
	if cn.AppliedAmount.IsPositive() {
		return shared.NewConflictError("CREDIT_NOTE_HAS_APPLICATIONS", "Cannot void a credit note with applied amounts")
	}
	if reason == "" {
		return shared.NewValidationError("INVALID_REASON", "Void reason is required")
	}

	now := time.Now()
	cn.Status = CreditNoteStatusVoided
	cn.VoidedAt = &now
	cn.VoidReason = reason
	cn.UpdatedAt = now

	return nil
}

func (cn *CreditNote) recalculateTotals() {
	lines := make([]shared.LineAmounts, len(cn.Items))
	for i := range cn.Items {
		lines[i] = cn.Items[i].lineAmounts()
	}

	totals := shared.ComputeTotals(lines, cn.DiscountAmount, valueobject.ZeroPercent(), decimal.Zero)

	cn.SubTotal = totals.SubTotal
	cn.VatAmount = totals.VatAmount
	cn.TotalAmount = totals.TotalAmount
}

// IsValidated returns true if the note has been validated against the
// invoice balance since its last line change
func (cn *CreditNote) IsValidated() bool {
	return cn.validatedBalance != nil
}

// ItemCount returns the number of items
func (cn *CreditNote) ItemCount() int {
	return len(cn.Items)
}
