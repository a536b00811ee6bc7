package billing

import (
	"context"

	"github.com/google/uuid"

	"github.com/erp/sales/internal/domain/shared"
)

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByIDForTenant finds an invoice by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)

	// FindByNumber finds an invoice by its number for a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*Invoice, error)

	// FindAllForTenant finds all invoices for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Invoice, error)

	// FindByCustomer finds invoices for a customer
	FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]Invoice, error)

	// FindByStatus finds invoices by status for a tenant
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status InvoiceStatus, filter shared.Filter) ([]Invoice, error)

	// FindOverdue finds unpaid invoices past their due date
	FindOverdue(ctx context.Context, tenantID uuid.UUID) ([]Invoice, error)

	// Save creates or updates an invoice
	Save(ctx context.Context, invoice *Invoice) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, invoice *Invoice) error

	// CountForTenant counts invoices for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// GenerateInvoiceNumber generates the next sequential invoice number
	GenerateInvoiceNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// FindByIDForTenant finds a payment by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Payment, error)

	// FindByInvoice finds payments recorded against an invoice
	FindByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]Payment, error)

	// FindAllForTenant finds all payments for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Payment, error)

	// Save creates or updates a payment
	Save(ctx context.Context, payment *Payment) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, payment *Payment) error

	// GeneratePaymentNumber generates the next sequential payment number
	GeneratePaymentNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// AdvancePaymentRepository defines the interface for advance payment
// persistence
type AdvancePaymentRepository interface {
	// FindByIDForTenant finds an advance payment by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*AdvancePayment, error)

	// FindByCustomer finds advance payments for a customer
	FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]AdvancePayment, error)

	// FindWithRemainingBalance finds advances a customer can still apply
	FindWithRemainingBalance(ctx context.Context, tenantID, customerID uuid.UUID) ([]AdvancePayment, error)

	// Save creates or updates an advance payment
	Save(ctx context.Context, advance *AdvancePayment) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, advance *AdvancePayment) error

	// GenerateAdvanceNumber generates the next sequential advance number
	GenerateAdvanceNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// CreditNoteRepository defines the interface for credit note persistence
type CreditNoteRepository interface {
	// FindByIDForTenant finds a credit note by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*CreditNote, error)

	// FindByInvoice finds credit notes raised against an invoice
	FindByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]CreditNote, error)

	// FindByReturn finds the credit notes justified by a sales return
	FindByReturn(ctx context.Context, tenantID, salesReturnID uuid.UUID) ([]CreditNote, error)

	// FindAllForTenant finds all credit notes for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]CreditNote, error)

	// Save creates or updates a credit note
	Save(ctx context.Context, creditNote *CreditNote) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, creditNote *CreditNote) error

	// GenerateCreditNoteNumber generates the next sequential credit note
	// number
	GenerateCreditNoteNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
