package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/sales/internal/domain/shared"
	"github.com/erp/sales/internal/domain/shared/valueobject"
)

// AdvancePaymentStatus represents the status of an advance payment
type AdvancePaymentStatus string

const (
	AdvancePaymentStatusPending          AdvancePaymentStatus = "PENDING"
	AdvancePaymentStatusCaptured         AdvancePaymentStatus = "CAPTURED"
	AdvancePaymentStatusPartiallyApplied AdvancePaymentStatus = "PARTIALLY_APPLIED"
	AdvancePaymentStatusFullyApplied     AdvancePaymentStatus = "FULLY_APPLIED"
	AdvancePaymentStatusRefunded         AdvancePaymentStatus = "REFUNDED"
	AdvancePaymentStatusCancelled        AdvancePaymentStatus = "CANCELLED"
)

var advancePaymentTransitions = shared.Transitions[AdvancePaymentStatus]{
	AdvancePaymentStatusPending:          {AdvancePaymentStatusCaptured, AdvancePaymentStatusCancelled},
	AdvancePaymentStatusCaptured:         {AdvancePaymentStatusPartiallyApplied, AdvancePaymentStatusFullyApplied, AdvancePaymentStatusRefunded, AdvancePaymentStatusCancelled},
	AdvancePaymentStatusPartiallyApplied: {AdvancePaymentStatusFullyApplied, AdvancePaymentStatusCaptured},
	AdvancePaymentStatusFullyApplied:     {AdvancePaymentStatusPartiallyApplied},
}

// IsValid checks if the status is a valid AdvancePaymentStatus
func (s AdvancePaymentStatus) IsValid() bool {
	switch s {
	case AdvancePaymentStatusPending, AdvancePaymentStatusCaptured,
		AdvancePaymentStatusPartiallyApplied, AdvancePaymentStatusFullyApplied,
		AdvancePaymentStatusRefunded, AdvancePaymentStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of AdvancePaymentStatus
func (s AdvancePaymentStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transition leaves this status
func (s AdvancePaymentStatus) IsTerminal() bool {
	return advancePaymentTransitions.IsTerminal(s)
}

// AdvancePaymentApplication records one application of the advance against
// an invoice
type AdvancePaymentApplication struct {
	ID               uuid.UUID
	AdvancePaymentID uuid.UUID
	InvoiceID        uuid.UUID
	InvoiceNumber    string
	Amount           decimal.Decimal
	AppliedAt        time.Time
}

// AdvancePayment represents a customer deposit received before invoicing.
// Portions of it are applied to invoices over time; the balance invariant
// Amount - AppliedAmount - RefundedAmount >= 0 holds after every mutation.
type AdvancePayment struct {
	shared.DocumentRoot
	AdvanceNumber  string
	CustomerID     uuid.UUID
	CustomerName   string
	SalesOrderID   *uuid.UUID
	OrderNumber    string
	Amount         decimal.Decimal
	AppliedAmount  decimal.Decimal
	RefundedAmount decimal.Decimal
	Method         PaymentMethod
	Status         AdvancePaymentStatus
	ReceivedAt     time.Time
	Applications   []AdvancePaymentApplication
	CapturedAt     *time.Time
	RefundedAt     *time.Time
	CancelledAt    *time.Time
	CancelReason   string
}

// NewAdvancePayment creates a pending advance payment
func NewAdvancePayment(tenantID uuid.UUID, advanceNumber string, customerID uuid.UUID, customerName string, amount decimal.Decimal, method PaymentMethod, currency valueobject.Currency) (*AdvancePayment, error) {
	if advanceNumber == "" {
		return nil, shared.NewValidationError("INVALID_ADVANCE_NUMBER", "Advance payment number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("INVALID_AMOUNT", "Advance payment amount must be positive")
	}
	if method == "" {
		return nil, shared.NewValidationError("INVALID_METHOD", "Payment method is required")
	}

	a := &AdvancePayment{
		DocumentRoot:   shared.NewDocumentRoot(tenantID, currency),
		AdvanceNumber:  advanceNumber,
		CustomerID:     customerID,
		CustomerName:   customerName,
		Amount:         amount,
		AppliedAmount:  decimal.Zero,
		RefundedAmount: decimal.Zero,
		Method:         method,
		Status:         AdvancePaymentStatusPending,
		ReceivedAt:     time.Now(),
		Applications:   make([]AdvancePaymentApplication, 0),
	}

	a.AddDomainEvent(NewAdvancePaymentReceivedEvent(a))

	return a, nil
}

// LinkSalesOrder records the order the deposit was taken for
func (a *AdvancePayment) LinkSalesOrder(orderID uuid.UUID, orderNumber string) error {
	if a.Status != AdvancePaymentStatusPending && a.Status != AdvancePaymentStatusCaptured {
		return shared.NewConflictError("ADVANCE_PAYMENT_INVALID_STATE", "Cannot link an order once the advance has been applied")
	}
	if orderID == uuid.Nil {
		return shared.NewValidationError("INVALID_ORDER", "Order ID cannot be empty")
	}
	a.SalesOrderID = &orderID
	a.OrderNumber = orderNumber
	a.Touch()
	return nil
}

// RemainingAmount returns the balance still available for application,
// always derived from the face amount
func (a *AdvancePayment) RemainingAmount() decimal.Decimal {
	return a.Amount.Sub(a.AppliedAmount).Sub(a.RefundedAmount)
}

// Capture confirms receipt of the funds
func (a *AdvancePayment) Capture() error {
	if err := advancePaymentTransitions.Guard(a.Status, AdvancePaymentStatusCaptured, "ADVANCE_PAYMENT_INVALID_STATE"); err != nil {
		return err
	}

	now := time.Now()
	a.Status = AdvancePaymentStatusCaptured
	a.CapturedAt = &now
	a.UpdatedAt = now

	return nil
}

// ApplyToInvoice consumes part of the remaining balance against an invoice.
// The caller pairs this with Invoice.RecordPayment inside one transaction.
func (a *AdvancePayment) ApplyToInvoice(invoiceID uuid.UUID, invoiceNumber string, amount decimal.Decimal) error {
	// A fully applied advance passes the state gate so the attempt fails
	// on the remaining-balance check instead
	switch a.Status {
	case AdvancePaymentStatusCaptured, AdvancePaymentStatusPartiallyApplied, AdvancePaymentStatusFullyApplied:
	default:
		return shared.NewConflictError("ADVANCE_PAYMENT_INVALID_STATE", "Only a captured advance payment can be applied")
	}
	if invoiceID == uuid.Nil {
		return shared.NewValidationError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}
	if !amount.IsPositive() {
		return shared.NewValidationError("INVALID_AMOUNT", "Application amount must be positive")
	}
	if amount.GreaterThan(a.RemainingAmount()) {
		return shared.NewValidationError("ADVANCE_PAYMENT_EXCEEDS_REMAINING", "Application amount cannot exceed the remaining balance")
	}

	a.AppliedAmount = a.AppliedAmount.Add(amount)
	a.Applications = append(a.Applications, AdvancePaymentApplication{
		ID:               uuid.New(),
		AdvancePaymentID: a.ID,
		InvoiceID:        invoiceID,
		InvoiceNumber:    invoiceNumber,
		Amount:           amount,
		AppliedAt:        time.Now(),
	})
	a.deriveStatusFromBalance()
	a.Touch()

	a.AddDomainEvent(NewAdvancePaymentAppliedEvent(a, invoiceID, invoiceNumber, amount))

	return nil
}

// ReverseApplication compensates an erroneous application. It does not
// touch the invoice; the caller makes the compensating call on the other
// side.
func (a *AdvancePayment) ReverseApplication(invoiceID uuid.UUID, amount decimal.Decimal) error {
	switch a.Status {
	case AdvancePaymentStatusPartiallyApplied, AdvancePaymentStatusFullyApplied:
	default:
		return shared.NewConflictError("ADVANCE_PAYMENT_INVALID_STATE", "No applications to reverse")
	}
	if !amount.IsPositive() {
		return shared.NewValidationError("INVALID_AMOUNT", "Reversal amount must be positive")
	}

	applied := decimal.Zero
	for _, app := range a.Applications {
		if app.InvoiceID == invoiceID {
			applied = applied.Add(app.Amount)
		}
	}
	if amount.GreaterThan(applied) {
		return shared.NewValidationError("REVERSAL_EXCEEDS_APPLIED", "Reversal amount cannot exceed the amount applied to this invoice")
	}

	a.AppliedAmount = a.AppliedAmount.Sub(amount)
	a.Applications = append(a.Applications, AdvancePaymentApplication{
		ID:               uuid.New(),
		AdvancePaymentID: a.ID,
		InvoiceID:        invoiceID,
		Amount:           amount.Neg(),
		AppliedAt:        time.Now(),
	})
	a.deriveStatusFromBalance()
	a.Touch()

	return nil
}

// Refund returns the full unapplied balance to the customer. Requires zero
// applied amount; partially applied advances are corrected via
// ReverseApplication first.
func (a *AdvancePayment) Refund() error {
	if err := advancePaymentTransitions.Guard(a.Status, AdvancePaymentStatusRefunded, "ADVANCE_PAYMENT_INVALID_STATE"); err != nil {
		return err
	}
	if a.AppliedAmount.IsPositive() {
		return shared.NewConflictError("ADVANCE_PAYMENT_HAS_APPLICATIONS", "Cannot refund an advance payment with applied amounts")
	}

	now := time.Now()
	a.RefundedAmount = a.RefundedAmount.Add(a.RemainingAmount())
	a.Status = AdvancePaymentStatusRefunded
	a.RefundedAt = &now
	a.UpdatedAt = now

	a.AddDomainEvent(NewAdvancePaymentRefundedEvent(a))

	return nil
}

// PartialRefund returns part of the remaining balance. The advance closes
// as Refunded only when the remaining balance hits zero with nothing
// applied.
func (a *AdvancePayment) PartialRefund(amount decimal.Decimal) error {
	switch a.Status {
	case AdvancePaymentStatusCaptured, AdvancePaymentStatusPartiallyApplied:
	default:
		return shared.NewConflictError("ADVANCE_PAYMENT_INVALID_STATE", "Only a captured advance payment can be refunded")
	}
	if !amount.IsPositive() {
		return shared.NewValidationError("INVALID_AMOUNT", "Refund amount must be positive")
	}
	if amount.GreaterThan(a.RemainingAmount()) {
		return shared.NewValidationError("REFUND_EXCEEDS_REMAINING", "Refund amount cannot exceed the remaining balance")
	}

	a.RefundedAmount = a.RefundedAmount.Add(amount)
	a.deriveStatusFromBalance()
	if a.Status == AdvancePaymentStatusRefunded {
		now := time.Now()
		a.RefundedAt = &now
	}
	a.Touch()

	return nil
}

// Cancel cancels an advance that was never applied
func (a *AdvancePayment) Cancel(reason string) error {
	if err := advancePaymentTransitions.Guard(a.Status, AdvancePaymentStatusCancelled, "ADVANCE_PAYMENT_INVALID_STATE"); err != nil {
		return err
	}
	if reason == "" {
		return shared.NewValidationError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	a.Status = AdvancePaymentStatusCancelled
	a.CancelledAt = &now
	a.CancelReason = reason
	a.UpdatedAt = now

	return nil
}

// deriveStatusFromBalance recomputes the applied status after a balance
// mutation. A fully reversed advance falls back to Captured.
func (a *AdvancePayment) deriveStatusFromBalance() {
	switch {
	case a.RemainingAmount().IsZero() && a.AppliedAmount.IsZero():
		a.Status = AdvancePaymentStatusRefunded
	case a.RemainingAmount().IsZero():
		a.Status = AdvancePaymentStatusFullyApplied
	case a.AppliedAmount.IsPositive():
		a.Status = AdvancePaymentStatusPartiallyApplied
	default:
		a.Status = AdvancePaymentStatusCaptured
	}
}

// ApplicationCount returns the number of application records, reversals
// included
func (a *AdvancePayment) ApplicationCount() int {
	return len(a.Applications)
}
