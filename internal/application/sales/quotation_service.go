package sales

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/erp/sales/internal/domain/sales"
	"github.com/erp/sales/internal/domain/shared"
	"github.com/erp/sales/internal/domain/shared/valueobject"
)

// QuotationService handles quotation business operations
type QuotationService struct {
	quotationRepo  sales.QuotationRepository
	orderRepo      sales.SalesOrderRepository
	eventPublisher shared.EventPublisher
}

// NewQuotationService creates a new QuotationService
func NewQuotationService(
	quotationRepo sales.QuotationRepository,
	orderRepo sales.SalesOrderRepository,
) *QuotationService {
	return &QuotationService{
		quotationRepo: quotationRepo,
		orderRepo:     orderRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *QuotationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new draft quotation
func (s *QuotationService) Create(ctx context.Context, tenantID uuid.UUID, req CreateQuotationRequest) (*QuotationResponse, error) {
	number, err := s.quotationRepo.GenerateQuotationNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	q, err := sales.NewQuotation(tenantID, number, req.CustomerID, req.CustomerName, valueobject.Currency(req.Currency))
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		vatRate, err := valueobject.NewPercent(item.VatRate)
		if err != nil {
			return nil, err
		}
		added, err := q.AddItem(item.ProductID, item.ProductName, item.ProductCode, item.Unit, item.Quantity, item.UnitPrice, vatRate)
		if err != nil {
			return nil, err
		}
		if item.DiscountRate != nil || item.DiscountAmount != nil {
			rate := valueobject.ZeroPercent()
			if item.DiscountRate != nil {
				if rate, err = valueobject.NewPercent(*item.DiscountRate); err != nil {
					return nil, err
				}
			}
			amount := decimalOrZero(item.DiscountAmount)
			if err := q.SetItemDiscount(added.ID, amount, rate); err != nil {
				return nil, err
			}
		}
	}

	if req.ExpirationDate != nil {
		if err := q.SetExpirationDate(*req.ExpirationDate); err != nil {
			return nil, err
		}
	}
	if req.SalesPersonID != nil {
		q.SetSalesPerson(*req.SalesPersonID, req.SalesPersonName)
	}
	q.PaymentTerms = req.PaymentTerms
	q.DeliveryTerms = req.DeliveryTerms
	q.Notes = req.Notes
	if req.CreatedBy != nil {
		q.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.quotationRepo.Save(ctx, q); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, q)

	response := ToQuotationResponse(q)
	return &response, nil
}

// GetByID retrieves a quotation by ID
func (s *QuotationService) GetByID(ctx context.Context, tenantID, quotationID uuid.UUID) (*QuotationResponse, error) {
	q, err := s.quotationRepo.FindByIDForTenant(ctx, tenantID, quotationID)
	if err != nil {
		return nil, err
	}
	response := ToQuotationResponse(q)
	return &response, nil
}

// List retrieves quotations for a tenant with pagination
func (s *QuotationService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[QuotationResponse], error) {
	quotations, err := s.quotationRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.quotationRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]QuotationResponse, len(quotations))
	for i := range quotations {
		responses[i] = ToQuotationResponse(&quotations[i])
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// AddItem adds a line item to a draft quotation
func (s *QuotationService) AddItem(ctx context.Context, tenantID, quotationID uuid.UUID, req AddQuotationItemRequest) (*QuotationResponse, error) {
	return s.mutate(ctx, tenantID, quotationID, func(q *sales.Quotation) error {
		vatRate, err := valueobject.NewPercent(req.VatRate)
		if err != nil {
			return err
		}
		_, err = q.AddItem(req.ProductID, req.ProductName, req.ProductCode, req.Unit, req.Quantity, req.UnitPrice, vatRate)
		return err
	})
}

// UpdateItem updates a line item on a draft quotation
func (s *QuotationService) UpdateItem(ctx context.Context, tenantID, quotationID, itemID uuid.UUID, req UpdateQuotationItemRequest) (*QuotationResponse, error) {
	return s.mutate(ctx, tenantID, quotationID, func(q *sales.Quotation) error {
		if req.Quantity != nil {
			if err := q.UpdateItemQuantity(itemID, *req.Quantity); err != nil {
				return err
			}
		}
		if req.UnitPrice != nil {
			if err := q.UpdateItemPrice(itemID, *req.UnitPrice); err != nil {
				return err
			}
		}
		return nil
	})
}

// RemoveItem removes a line item from a draft quotation
func (s *QuotationService) RemoveItem(ctx context.Context, tenantID, quotationID, itemID uuid.UUID) (*QuotationResponse, error) {
	return s.mutate(ctx, tenantID, quotationID, func(q *sales.Quotation) error {
		return q.RemoveItem(itemID)
	})
}

// ApplyDiscount applies a document level discount to a draft quotation
func (s *QuotationService) ApplyDiscount(ctx context.Context, tenantID, quotationID uuid.UUID, req ApplyDiscountRequest) (*QuotationResponse, error) {
	return s.mutate(ctx, tenantID, quotationID, func(q *sales.Quotation) error {
		rate := valueobject.ZeroPercent()
		if req.DiscountRate != nil {
			var err error
			if rate, err = valueobject.NewPercent(*req.DiscountRate); err != nil {
				return err
			}
		}
		return q.ApplyDiscount(decimalOrZero(req.DiscountAmount), rate)
	})
}

// SetShipping sets the shipping amount on a draft quotation
func (s *QuotationService) SetShipping(ctx context.Context, tenantID, quotationID uuid.UUID, req SetShippingRequest) (*QuotationResponse, error) {
	return s.mutate(ctx, tenantID, quotationID, func(q *sales.Quotation) error {
		return q.SetShipping(req.Amount)
	})
}

// Submit submits a draft quotation for approval
func (s *QuotationService) Submit(ctx context.Context, tenantID, quotationID uuid.UUID) (*QuotationResponse, error) {
	return s.mutate(ctx, tenantID, quotationID, func(q *sales.Quotation) error {
		return q.Submit()
	})
}

// Approve approves a submitted quotation
func (s *QuotationService) Approve(ctx context.Context, tenantID, quotationID, approverID uuid.UUID) (*QuotationResponse, error) {
	return s.mutate(ctx, tenantID, quotationID, func(q *sales.Quotation) error {
		return q.Approve(approverID)
	})
}

// Send marks an approved quotation as sent to the customer
func (s *QuotationService) Send(ctx context.Context, tenantID, quotationID uuid.UUID) (*QuotationResponse, error) {
	return s.mutate(ctx, tenantID, quotationID, func(q *sales.Quotation) error {
		return q.Send()
	})
}

// Accept records the customer's acceptance of a sent quotation
func (s *QuotationService) Accept(ctx context.Context, tenantID, quotationID uuid.UUID) (*QuotationResponse, error) {
	return s.mutate(ctx, tenantID, quotationID, func(q *sales.Quotation) error {
		return q.Accept()
	})
}

// Reject records the customer's rejection of a sent quotation
func (s *QuotationService) Reject(ctx context.Context, tenantID, quotationID uuid.UUID, req RejectQuotationRequest) (*QuotationResponse, error) {
	return s.mutate(ctx, tenantID, quotationID, func(q *sales.Quotation) error {
		return q.Reject(req.Reason)
	})
}

// Cancel cancels a quotation that has not been sent yet
func (s *QuotationService) Cancel(ctx context.Context, tenantID, quotationID uuid.UUID, req CancelRequest) (*QuotationResponse, error) {
	return s.mutate(ctx, tenantID, quotationID, func(q *sales.Quotation) error {
		return q.Cancel(req.Reason)
	})
}

// Revise creates a new draft revision of a sent, rejected or expired
// quotation
func (s *QuotationService) Revise(ctx context.Context, tenantID, quotationID uuid.UUID) (*QuotationResponse, error) {
	q, err := s.quotationRepo.FindByIDForTenant(ctx, tenantID, quotationID)
	if err != nil {
		return nil, err
	}

	number, err := s.quotationRepo.GenerateQuotationNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	revision, err := q.Revise(number)
	if err != nil {
		return nil, err
	}

	if err := s.quotationRepo.Save(ctx, revision); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, revision)

	response := ToQuotationResponse(revision)
	return &response, nil
}

// ConvertToOrder converts an accepted quotation into a sales order. The
// quotation is marked converted and the new order references it back.
func (s *QuotationService) ConvertToOrder(ctx context.Context, tenantID, quotationID uuid.UUID) (*SalesOrderResponse, error) {
	q, err := s.quotationRepo.FindByIDForTenant(ctx, tenantID, quotationID)
	if err != nil {
		return nil, err
	}

	orderNumber, err := s.orderRepo.GenerateOrderNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	order, err := sales.NewSalesOrderFromQuotation(q, orderNumber)
	if err != nil {
		return nil, err
	}
	if err := q.MarkConverted(order.ID); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.SaveWithLock(ctx, q); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)
	s.publishEvents(ctx, q)

	response := ToSalesOrderResponse(order)
	return &response, nil
}

// ExpireDue marks all sent quotations whose expiration date has passed as
// expired. Returns the number of quotations transitioned.
func (s *QuotationService) ExpireDue(ctx context.Context, tenantID uuid.UUID) (int, error) {
	quotations, err := s.quotationRepo.FindExpirable(ctx, tenantID)
	if err != nil {
		return 0, err
	}

	expired := 0
	now := time.Now()
	for i := range quotations {
		q := &quotations[i]
		if q.ExpirationDate == nil || q.ExpirationDate.After(now) {
			continue
		}
		if err := q.MarkExpired(); err != nil {
			continue
		}
		if err := s.quotationRepo.SaveWithLock(ctx, q); err != nil {
			return expired, err
		}
		s.publishEvents(ctx, q)
		expired++
	}
	return expired, nil
}

// mutate loads a quotation, applies fn and saves with optimistic locking
func (s *QuotationService) mutate(ctx context.Context, tenantID, quotationID uuid.UUID, fn func(*sales.Quotation) error) (*QuotationResponse, error) {
	q, err := s.quotationRepo.FindByIDForTenant(ctx, tenantID, quotationID)
	if err != nil {
		return nil, err
	}
	if err := fn(q); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.SaveWithLock(ctx, q); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, q)

	response := ToQuotationResponse(q)
	return &response, nil
}

func (s *QuotationService) publishEvents(ctx context.Context, agg shared.AggregateRoot) {
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
