package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/sales/internal/domain/shared"
	"github.com/erp/sales/internal/domain/shared/valueobject"
)

// PaymentStatus represents the status of a payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusReversed  PaymentStatus = "REVERSED"
)

var paymentTransitions = shared.Transitions[PaymentStatus]{
	PaymentStatusPending:   {PaymentStatusCompleted, PaymentStatusFailed},
	PaymentStatusCompleted: {PaymentStatusReversed},
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transition leaves this status
func (s PaymentStatus) IsTerminal() bool {
	return paymentTransitions.IsTerminal(s)
}

// PaymentMethod is how the customer paid
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCreditCard   PaymentMethod = "CREDIT_CARD"
	PaymentMethodCheck        PaymentMethod = "CHECK"
)

// Payment represents a receipt recorded against a single invoice. Completing
// a payment is paired with Invoice.RecordPayment by the orchestrating
// service; reversing it is paired with Invoice.ReversePayment.
type Payment struct {
	shared.DocumentRoot
	PaymentNumber string
	InvoiceID     uuid.UUID
	InvoiceNumber string
	CustomerID    uuid.UUID
	CustomerName  string
	Amount        decimal.Decimal
	Method        PaymentMethod
	Reference     string
	Status        PaymentStatus
	PaymentDate   time.Time
	CompletedAt   *time.Time
	FailedAt      *time.Time
	FailReason    string
	ReversedAt    *time.Time
	ReverseReason string
}

// NewPayment creates a pending payment against an invoice
func NewPayment(tenantID uuid.UUID, paymentNumber string, invoiceID uuid.UUID, invoiceNumber string, customerID uuid.UUID, customerName string, amount decimal.Decimal, method PaymentMethod, currency valueobject.Currency) (*Payment, error) {
	if paymentNumber == "" {
		return nil, shared.NewValidationError("INVALID_PAYMENT_NUMBER", "Payment number cannot be empty")
	}
	if invoiceID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if method == "" {
		return nil, shared.NewValidationError("INVALID_METHOD", "Payment method is required")
	}

	return &Payment{
		DocumentRoot:  shared.NewDocumentRoot(tenantID, currency),
		PaymentNumber: paymentNumber,
		InvoiceID:     invoiceID,
		InvoiceNumber: invoiceNumber,
		CustomerID:    customerID,
		CustomerName:  customerName,
		Amount:        amount,
		Method:        method,
		Status:        PaymentStatusPending,
		PaymentDate:   time.Now(),
	}, nil
}

// SetReference records an external reference (bank slip, transaction ID)
func (p *Payment) SetReference(reference string) {
	p.Reference = reference
	p.Touch()
}

// Complete marks the payment as received
func (p *Payment) Complete() error {
	if err := paymentTransitions.Guard(p.Status, PaymentStatusCompleted, "PAYMENT_INVALID_STATE"); err != nil {
		return err
	}

	now := time.Now()
	p.Status = PaymentStatusCompleted
	p.CompletedAt = &now
	p.UpdatedAt = now

	return nil
}

// Fail marks the pending payment as failed
func (p *Payment) Fail(reason string) error {
	if err := paymentTransitions.Guard(p.Status, PaymentStatusFailed, "PAYMENT_INVALID_STATE"); err != nil {
		return err
	}
	if reason == "" {
		return shared.NewValidationError("INVALID_REASON", "Failure reason is required")
	}

	now := time.Now()
	p.Status = PaymentStatusFailed
	p.FailedAt = &now
	p.FailReason = reason
	p.UpdatedAt = now

	return nil
}

// Reverse backs out a completed payment
func (p *Payment) Reverse(reason string) error {
	if err := paymentTransitions.Guard(p.Status, PaymentStatusReversed, "PAYMENT_INVALID_STATE"); err != nil {
		return err
	}
	if reason == "" {
		return shared.NewValidationError("INVALID_REASON", "Reversal reason is required")
	}

	now := time.Now()
	p.Status = PaymentStatusReversed
	p.ReversedAt = &now
	p.ReverseReason = reason
	p.UpdatedAt = now

	return nil
}
