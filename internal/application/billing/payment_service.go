package billing

import (
	"context"

	"github.com/google/uuid"

	"github.com/erp/sales/internal/domain/billing"
	"github.com/erp/sales/internal/domain/shared"
)

// PaymentService records payments against invoices. Every completed
// payment is mirrored into the invoice's paid ledger so the invoice status
// always derives from the amounts actually collected.
type PaymentService struct {
	paymentRepo    billing.PaymentRepository
	invoiceRepo    billing.InvoiceRepository
	eventPublisher shared.EventPublisher
	txManager      shared.TransactionManager
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo billing.PaymentRepository,
	invoiceRepo billing.InvoiceRepository,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *PaymentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetTransactionManager sets the transaction scope for paired saves
func (s *PaymentService) SetTransactionManager(tm shared.TransactionManager) {
	s.txManager = tm
}

func (s *PaymentService) transact(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.txManager == nil {
		return fn(ctx)
	}
	return s.txManager.Transaction(ctx, fn)
}

// Record records a completed payment against an invoice. The payment and
// the invoice ledger update succeed or fail together.
func (s *PaymentService) Record(ctx context.Context, tenantID uuid.UUID, req RecordPaymentRequest) (*PaymentResponse, error) {
	var payment *billing.Payment
	var inv *billing.Invoice
	err := s.transact(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.invoiceRepo.FindByIDForTenant(ctx, tenantID, req.InvoiceID)
		if err != nil {
			return err
		}

		number, err := s.paymentRepo.GeneratePaymentNumber(ctx, tenantID)
		if err != nil {
			return err
		}

		payment, err = billing.NewPayment(tenantID, number, inv.ID, inv.InvoiceNumber, inv.CustomerID, inv.CustomerName, req.Amount, billing.PaymentMethod(req.Method), inv.Currency)
		if err != nil {
			return err
		}
		if req.Reference != "" {
			payment.SetReference(req.Reference)
		}
		if req.CreatedBy != nil {
			payment.SetCreatedBy(*req.CreatedBy)
		}

		// The invoice guards the amount against its remaining balance
		if err := inv.RecordPayment(req.Amount); err != nil {
			return err
		}
		if err := payment.Complete(); err != nil {
			return err
		}

		if err := s.paymentRepo.Save(ctx, payment); err != nil {
			return err
		}
		return s.invoiceRepo.SaveWithLock(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, payment)
	s.publishEvents(ctx, inv)

	response := ToPaymentResponse(payment)
	return &response, nil
}

// GetByID retrieves a payment by ID
func (s *PaymentService) GetByID(ctx context.Context, tenantID, paymentID uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByIDForTenant(ctx, tenantID, paymentID)
	if err != nil {
		return nil, err
	}
	response := ToPaymentResponse(payment)
	return &response, nil
}

// ListForInvoice retrieves the payments recorded against an invoice
func (s *PaymentService) ListForInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]PaymentResponse, error) {
	payments, err := s.paymentRepo.FindByInvoice(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i])
	}
	return responses, nil
}

// Reverse reverses a completed payment and restores the invoice balance
func (s *PaymentService) Reverse(ctx context.Context, tenantID, paymentID uuid.UUID, req ReversePaymentRequest) (*PaymentResponse, error) {
	var payment *billing.Payment
	var inv *billing.Invoice
	err := s.transact(ctx, func(ctx context.Context) error {
		var err error
		payment, err = s.paymentRepo.FindByIDForTenant(ctx, tenantID, paymentID)
		if err != nil {
			return err
		}
		inv, err = s.invoiceRepo.FindByIDForTenant(ctx, tenantID, payment.InvoiceID)
		if err != nil {
			return err
		}

		if err := payment.Reverse(req.Reason); err != nil {
			return err
		}
		if err := inv.ReversePayment(payment.Amount); err != nil {
			return err
		}

		if err := s.paymentRepo.SaveWithLock(ctx, payment); err != nil {
			return err
		}
		return s.invoiceRepo.SaveWithLock(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, inv)

	response := ToPaymentResponse(payment)
	return &response, nil
}

func (s *PaymentService) publishEvents(ctx context.Context, agg shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	events := agg.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	// Event delivery failures do not fail the business operation
	_ = s.eventPublisher.Publish(ctx, events...)
	agg.ClearDomainEvents()
}
