package billing

import (
	"context"

	"github.com/google/uuid"

	"github.com/erp/sales/internal/domain/billing"
	"github.com/erp/sales/internal/domain/shared"
	"github.com/erp/sales/internal/domain/shared/valueobject"
)

// CreditNoteService handles credit note business operations. A note's
// total is validated against its invoice's remaining balance before it can
// move past draft, and applying an issued note reduces the target
// invoice's outstanding amount.
type CreditNoteService struct {
	creditNoteRepo billing.CreditNoteRepository
	invoiceRepo    billing.InvoiceRepository
	eventPublisher shared.EventPublisher
	txManager      shared.TransactionManager
}

// NewCreditNoteService creates a new CreditNoteService
func NewCreditNoteService(
	creditNoteRepo billing.CreditNoteRepository,
	invoiceRepo billing.InvoiceRepository,
) *CreditNoteService {
	return &CreditNoteService{
		creditNoteRepo: creditNoteRepo,
		invoiceRepo:    invoiceRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *CreditNoteService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetTransactionManager sets the transaction scope for paired saves
func (s *CreditNoteService) SetTransactionManager(tm shared.TransactionManager) {
	s.txManager = tm
}

func (s *CreditNoteService) transact(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.txManager == nil {
		return fn(ctx)
	}
	return s.txManager.Transaction(ctx, fn)
}

// Create creates a draft credit note against an invoice and validates its
// total against the invoice's remaining balance
func (s *CreditNoteService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCreditNoteRequest) (*CreditNoteResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, req.InvoiceID)
	if err != nil {
		return nil, err
	}

	number, err := s.creditNoteRepo.GenerateCreditNoteNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	cn, err := billing.NewCreditNote(tenantID, number, inv.ID, inv.InvoiceNumber, inv.CustomerID, inv.CustomerName, req.Reason, inv.Currency)
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		vatRate, err := valueobject.NewPercent(item.VatRate)
		if err != nil {
			return nil, err
		}
		if _, err := cn.AddItem(item.ProductID, item.ProductName, item.Quantity, item.UnitPrice, vatRate); err != nil {
			return nil, err
		}
	}

	if err := cn.ValidateAgainstInvoice(inv.RemainingAmount()); err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		cn.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.creditNoteRepo.Save(ctx, cn); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, cn)

	response := ToCreditNoteResponse(cn)
	return &response, nil
}

// GetByID retrieves a credit note by ID
func (s *CreditNoteService) GetByID(ctx context.Context, tenantID, creditNoteID uuid.UUID) (*CreditNoteResponse, error) {
	cn, err := s.creditNoteRepo.FindByIDForTenant(ctx, tenantID, creditNoteID)
	if err != nil {
		return nil, err
	}
	response := ToCreditNoteResponse(cn)
	return &response, nil
}

// ListForInvoice retrieves the credit notes raised against an invoice
func (s *CreditNoteService) ListForInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]CreditNoteResponse, error) {
	notes, err := s.creditNoteRepo.FindByInvoice(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	responses := make([]CreditNoteResponse, len(notes))
	for i := range notes {
		responses[i] = ToCreditNoteResponse(&notes[i])
	}
	return responses, nil
}

// Submit revalidates the note against its invoice and submits it for
// approval
func (s *CreditNoteService) Submit(ctx context.Context, tenantID, creditNoteID uuid.UUID) (*CreditNoteResponse, error) {
	cn, err := s.creditNoteRepo.FindByIDForTenant(ctx, tenantID, creditNoteID)
	if err != nil {
		return nil, err
	}
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, cn.InvoiceID)
	if err != nil {
		return nil, err
	}

	if err := cn.ValidateAgainstInvoice(inv.RemainingAmount()); err != nil {
		return nil, err
	}
	if err := cn.Submit(); err != nil {
		return nil, err
	}

	if err := s.creditNoteRepo.SaveWithLock(ctx, cn); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, cn)

	response := ToCreditNoteResponse(cn)
	return &response, nil
}

// Approve approves a submitted credit note
func (s *CreditNoteService) Approve(ctx context.Context, tenantID, creditNoteID, approverID uuid.UUID) (*CreditNoteResponse, error) {
	return s.mutate(ctx, tenantID, creditNoteID, func(cn *billing.CreditNote) error {
		return cn.Approve(approverID)
	})
}

// Reject rejects a submitted credit note
func (s *CreditNoteService) Reject(ctx context.Context, tenantID, creditNoteID uuid.UUID, req RejectCreditNoteRequest) (*CreditNoteResponse, error) {
	return s.mutate(ctx, tenantID, creditNoteID, func(cn *billing.CreditNote) error {
		return cn.Reject(req.Reason)
	})
}

// Issue issues an approved credit note after a final balance check
func (s *CreditNoteService) Issue(ctx context.Context, tenantID, creditNoteID uuid.UUID) (*CreditNoteResponse, error) {
	cn, err := s.creditNoteRepo.FindByIDForTenant(ctx, tenantID, creditNoteID)
	if err != nil {
		return nil, err
	}
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, cn.InvoiceID)
	if err != nil {
		return nil, err
	}

	if err := cn.ValidateAgainstInvoice(inv.RemainingAmount()); err != nil {
		return nil, err
	}
	if err := cn.Issue(); err != nil {
		return nil, err
	}

	if err := s.creditNoteRepo.SaveWithLock(ctx, cn); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, cn)

	response := ToCreditNoteResponse(cn)
	return &response, nil
}

// Apply applies part of an issued credit note to an invoice, reducing
// that invoice's outstanding balance
func (s *CreditNoteService) Apply(ctx context.Context, tenantID, creditNoteID uuid.UUID, req ApplyCreditNoteRequest) (*CreditNoteResponse, error) {
	var cn *billing.CreditNote
	var inv *billing.Invoice
	err := s.transact(ctx, func(ctx context.Context) error {
		var err error
		cn, err = s.creditNoteRepo.FindByIDForTenant(ctx, tenantID, creditNoteID)
		if err != nil {
			return err
		}
		inv, err = s.invoiceRepo.FindByIDForTenant(ctx, tenantID, req.InvoiceID)
		if err != nil {
			return err
		}

		if err := cn.Apply(req.Amount, inv.ID, req.Reference); err != nil {
			return err
		}
		if err := inv.RecordPayment(req.Amount); err != nil {
			return err
		}

		if err := s.creditNoteRepo.SaveWithLock(ctx, cn); err != nil {
			return err
		}
		return s.invoiceRepo.SaveWithLock(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, cn)
	s.publishEvents(ctx, inv)

	response := ToCreditNoteResponse(cn)
	return &response, nil
}

// Void voids a credit note that has not been applied
func (s *CreditNoteService) Void(ctx context.Context, tenantID, creditNoteID uuid.UUID, req VoidCreditNoteRequest) (*CreditNoteResponse, error) {
	return s.mutate(ctx, tenantID, creditNoteID, func(cn *billing.CreditNote) error {
		return cn.Void(req.Reason)
	})
}

// mutate loads a credit note, applies fn and saves with optimistic locking
func (s *CreditNoteService) mutate(ctx context.Context, tenantID, creditNoteID uuid.UUID, fn func(*billing.CreditNote) error) (*CreditNoteResponse, error) {
	cn, err := s.creditNoteRepo.FindByIDForTenant(ctx, tenantID, creditNoteID)
	if err != nil {
		return nil, err
	}
	if err := fn(cn); err != nil {
		return nil, err
	}
	if err := s.creditNoteRepo.SaveWithLock(ctx, cn); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, cn)

	response := ToCreditNoteResponse(cn)
	return &response, nil
}

func (s *CreditNoteService) publishEvents(ctx context.Context, agg shared.AggregateRoot) {
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
