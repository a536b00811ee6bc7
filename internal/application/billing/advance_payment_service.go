package billing

import (
	"context"

	"github.com/google/uuid"

	"github.com/erp/sales/internal/domain/billing"
	"github.com/erp/sales/internal/domain/shared"
	"github.com/erp/sales/internal/domain/shared/valueobject"
)

// AdvancePaymentService handles customer deposits and their application to
// invoices. Applying an advance debits the advance balance and credits the
// invoice's paid ledger in one operation.
type AdvancePaymentService struct {
	advanceRepo    billing.AdvancePaymentRepository
	invoiceRepo    billing.InvoiceRepository
	eventPublisher shared.EventPublisher
	txManager      shared.TransactionManager
}

// NewAdvancePaymentService creates a new AdvancePaymentService
func NewAdvancePaymentService(
	advanceRepo billing.AdvancePaymentRepository,
	invoiceRepo billing.InvoiceRepository,
) *AdvancePaymentService {
	return &AdvancePaymentService{
		advanceRepo: advanceRepo,
		invoiceRepo: invoiceRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *AdvancePaymentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetTransactionManager sets the transaction scope for paired saves
func (s *AdvancePaymentService) SetTransactionManager(tm shared.TransactionManager) {
	s.txManager = tm
}

func (s *AdvancePaymentService) transact(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.txManager == nil {
		return fn(ctx)
	}
	return s.txManager.Transaction(ctx, fn)
}

// Create records a pending advance payment from a customer
func (s *AdvancePaymentService) Create(ctx context.Context, tenantID uuid.UUID, req CreateAdvancePaymentRequest) (*AdvancePaymentResponse, error) {
	number, err := s.advanceRepo.GenerateAdvanceNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	advance, err := billing.NewAdvancePayment(tenantID, number, req.CustomerID, req.CustomerName, req.Amount, billing.PaymentMethod(req.Method), valueobject.Currency(req.Currency))
	if err != nil {
		return nil, err
	}

	if req.SalesOrderID != nil {
		if err := advance.LinkSalesOrder(*req.SalesOrderID, req.OrderNumber); err != nil {
			return nil, err
		}
	}
	advance.Notes = req.Notes
	if req.CreatedBy != nil {
		advance.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.advanceRepo.Save(ctx, advance); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, advance)

	response := ToAdvancePaymentResponse(advance)
	return &response, nil
}

// GetByID retrieves an advance payment by ID
func (s *AdvancePaymentService) GetByID(ctx context.Context, tenantID, advanceID uuid.UUID) (*AdvancePaymentResponse, error) {
	advance, err := s.advanceRepo.FindByIDForTenant(ctx, tenantID, advanceID)
	if err != nil {
		return nil, err
	}
	response := ToAdvancePaymentResponse(advance)
	return &response, nil
}

// ListWithBalance retrieves a customer's advances that still carry an
// unapplied balance
func (s *AdvancePaymentService) ListWithBalance(ctx context.Context, tenantID, customerID uuid.UUID) ([]AdvancePaymentResponse, error) {
	advances, err := s.advanceRepo.FindWithRemainingBalance(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	responses := make([]AdvancePaymentResponse, len(advances))
	for i := range advances {
		responses[i] = ToAdvancePaymentResponse(&advances[i])
	}
	return responses, nil
}

// Capture confirms receipt of the funds
func (s *AdvancePaymentService) Capture(ctx context.Context, tenantID, advanceID uuid.UUID) (*AdvancePaymentResponse, error) {
	return s.mutate(ctx, tenantID, advanceID, func(a *billing.AdvancePayment) error {
		return a.Capture()
	})
}

// ApplyToInvoice applies part of the advance balance to an invoice. The
// advance is debited and the invoice's paid amount credited together.
func (s *AdvancePaymentService) ApplyToInvoice(ctx context.Context, tenantID, advanceID uuid.UUID, req ApplyAdvanceRequest) (*AdvancePaymentResponse, error) {
	var advance *billing.AdvancePayment
	var inv *billing.Invoice
	err := s.transact(ctx, func(ctx context.Context) error {
		var err error
		advance, err = s.advanceRepo.FindByIDForTenant(ctx, tenantID, advanceID)
		if err != nil {
			return err
		}
		inv, err = s.invoiceRepo.FindByIDForTenant(ctx, tenantID, req.InvoiceID)
		if err != nil {
			return err
		}

		if err := advance.ApplyToInvoice(inv.ID, inv.InvoiceNumber, req.Amount); err != nil {
			return err
		}
		if err := inv.RecordPayment(req.Amount); err != nil {
			return err
		}

		if err := s.advanceRepo.SaveWithLock(ctx, advance); err != nil {
			return err
		}
		return s.invoiceRepo.SaveWithLock(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, advance)
	s.publishEvents(ctx, inv)

	response := ToAdvancePaymentResponse(advance)
	return &response, nil
}

// ReverseApplication reverses a prior application, restoring the advance
// balance and reducing the invoice's paid amount
func (s *AdvancePaymentService) ReverseApplication(ctx context.Context, tenantID, advanceID uuid.UUID, req ReverseAdvanceApplicationRequest) (*AdvancePaymentResponse, error) {
	var advance *billing.AdvancePayment
	var inv *billing.Invoice
	err := s.transact(ctx, func(ctx context.Context) error {
		var err error
		advance, err = s.advanceRepo.FindByIDForTenant(ctx, tenantID, advanceID)
		if err != nil {
			return err
		}
		inv, err = s.invoiceRepo.FindByIDForTenant(ctx, tenantID, req.InvoiceID)
		if err != nil {
			return err
		}

		if err := advance.ReverseApplication(inv.ID, req.Amount); err != nil {
			return err
		}
		if err := inv.ReversePayment(req.Amount); err != nil {
			return err
		}

		if err := s.advanceRepo.SaveWithLock(ctx, advance); err != nil {
			return err
		}
		return s.invoiceRepo.SaveWithLock(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, advance)
	s.publishEvents(ctx, inv)

	response := ToAdvancePaymentResponse(advance)
	return &response, nil
}

// Refund refunds the advance. With no amount given the whole unapplied
// balance is refunded, which requires that nothing was applied.
func (s *AdvancePaymentService) Refund(ctx context.Context, tenantID, advanceID uuid.UUID, req RefundAdvanceRequest) (*AdvancePaymentResponse, error) {
	return s.mutate(ctx, tenantID, advanceID, func(a *billing.AdvancePayment) error {
		if req.Amount == nil {
			return a.Refund()
		}
		return a.PartialRefund(*req.Amount)
	})
}

// Cancel cancels an advance before any application
func (s *AdvancePaymentService) Cancel(ctx context.Context, tenantID, advanceID uuid.UUID, req CancelRequest) (*AdvancePaymentResponse, error) {
	return s.mutate(ctx, tenantID, advanceID, func(a *billing.AdvancePayment) error {
		return a.Cancel(req.Reason)
	})
}

// mutate loads an advance, applies fn and saves with optimistic locking
func (s *AdvancePaymentService) mutate(ctx context.Context, tenantID, advanceID uuid.UUID, fn func(*billing.AdvancePayment) error) (*AdvancePaymentResponse, error) {
	advance, err := s.advanceRepo.FindByIDForTenant(ctx, tenantID, advanceID)
	if err != nil {
		return nil, err
	}
	if err := fn(advance); err != nil {
		return nil, err
	}
	if err := s.advanceRepo.SaveWithLock(ctx, advance); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, advance)

	response := ToAdvancePaymentResponse(advance)
	return &response, nil
}

func (s *AdvancePaymentService) publishEvents(ctx context.Context, agg shared.AggregateRoot) {
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
