package billing

import (
	"context"

	"github.com/google/uuid"

	"github.com/erp/sales/internal/domain/billing"
	"github.com/erp/sales/internal/domain/shared"
	"github.com/erp/sales/internal/domain/shared/valueobject"
)

// InvoiceService handles invoice business operations
type InvoiceService struct {
	invoiceRepo    billing.InvoiceRepository
	eventPublisher shared.EventPublisher
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoiceRepo billing.InvoiceRepository) *InvoiceService {
	return &InvoiceService{invoiceRepo: invoiceRepo}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new draft invoice, optionally linked to a sales order
func (s *InvoiceService) Create(ctx context.Context, tenantID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	number, err := s.invoiceRepo.GenerateInvoiceNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	inv, err := billing.NewInvoice(tenantID, number, req.CustomerID, req.CustomerName, valueobject.Currency(req.Currency))
	if err != nil {
		return nil, err
	}

	if req.SalesOrderID != nil {
		if err := inv.LinkSalesOrder(*req.SalesOrderID, req.OrderNumber); err != nil {
			return nil, err
		}
	}

	for _, item := range req.Items {
		vatRate, err := valueobject.NewPercent(item.VatRate)
		if err != nil {
			return nil, err
		}
		if _, err := inv.AddItem(item.ProductID, item.ProductName, item.ProductCode, item.Unit, item.Quantity, item.UnitPrice, vatRate); err != nil {
			return nil, err
		}
	}

	if req.DueDate != nil {
		if err := inv.SetDueDate(*req.DueDate); err != nil {
			return nil, err
		}
	}
	inv.Notes = req.Notes
	if req.CreatedBy != nil {
		inv.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, inv)

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(inv)
	return &response, nil
}

// List retrieves invoices for a tenant with pagination
func (s *InvoiceService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[InvoiceResponse], error) {
	invoices, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.invoiceRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListOverdue retrieves issued invoices past their due date
func (s *InvoiceService) ListOverdue(ctx context.Context, tenantID uuid.UUID) ([]InvoiceResponse, error) {
	invoices, err := s.invoiceRepo.FindOverdue(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses, nil
}

// AddItem adds a line to a draft invoice
func (s *InvoiceService) AddItem(ctx context.Context, tenantID, invoiceID uuid.UUID, req AddInvoiceItemRequest) (*InvoiceResponse, error) {
	return s.mutate(ctx, tenantID, invoiceID, func(inv *billing.Invoice) error {
		vatRate, err := valueobject.NewPercent(req.VatRate)
		if err != nil {
			return err
		}
		_, err = inv.AddItem(req.ProductID, req.ProductName, req.ProductCode, req.Unit, req.Quantity, req.UnitPrice, vatRate)
		return err
	})
}

// RemoveItem removes a line from a draft invoice
func (s *InvoiceService) RemoveItem(ctx context.Context, tenantID, invoiceID, itemID uuid.UUID) (*InvoiceResponse, error) {
	return s.mutate(ctx, tenantID, invoiceID, func(inv *billing.Invoice) error {
		return inv.RemoveItem(itemID)
	})
}

// ApplyDiscount applies a document level discount to a draft invoice
func (s *InvoiceService) ApplyDiscount(ctx context.Context, tenantID, invoiceID uuid.UUID, req ApplyDiscountRequest) (*InvoiceResponse, error) {
	return s.mutate(ctx, tenantID, invoiceID, func(inv *billing.Invoice) error {
		rate := valueobject.ZeroPercent()
		if req.DiscountRate != nil {
			var err error
			if rate, err = valueobject.NewPercent(*req.DiscountRate); err != nil {
				return err
			}
		}
		return inv.ApplyDiscount(decimalOrZero(req.DiscountAmount), rate)
	})
}

// Issue issues a draft invoice, freezing its lines
func (s *InvoiceService) Issue(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	return s.mutate(ctx, tenantID, invoiceID, func(inv *billing.Invoice) error {
		return inv.Issue()
	})
}

// Send marks an issued invoice as sent to the customer
func (s *InvoiceService) Send(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	return s.mutate(ctx, tenantID, invoiceID, func(inv *billing.Invoice) error {
		return inv.Send()
	})
}

// Cancel cancels an invoice with no payments recorded against it
func (s *InvoiceService) Cancel(ctx context.Context, tenantID, invoiceID uuid.UUID, req CancelRequest) (*InvoiceResponse, error) {
	return s.mutate(ctx, tenantID, invoiceID, func(inv *billing.Invoice) error {
		return inv.Cancel(req.Reason)
	})
}

// mutate loads an invoice, applies fn and saves with optimistic locking
func (s *InvoiceService) mutate(ctx context.Context, tenantID, invoiceID uuid.UUID, fn func(*billing.Invoice) error) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := fn(inv); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, inv)

	response := ToInvoiceResponse(inv)
	return &response, nil
}

func (s *InvoiceService) publishEvents(ctx context.Context, agg shared.AggregateRoot) {
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
