package sales

import (
	"context"

	"github.com/google/uuid"

	"github.com/erp/sales/internal/domain/sales"
	"github.com/erp/sales/internal/domain/shared"
	"github.com/erp/sales/internal/domain/shared/valueobject"
)

// SalesReturnService handles sales return business operations
type SalesReturnService struct {
	returnRepo     sales.SalesReturnRepository
	orderRepo      sales.SalesOrderRepository
	eventPublisher shared.EventPublisher
}

// NewSalesReturnService creates a new SalesReturnService
func NewSalesReturnService(
	returnRepo sales.SalesReturnRepository,
	orderRepo sales.SalesOrderRepository,
) *SalesReturnService {
	return &SalesReturnService{
		returnRepo: returnRepo,
		orderRepo:  orderRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *SalesReturnService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new return request against a sales order. Each returned
// line must reference a line of the order and cannot exceed its delivered
// quantity.
func (s *SalesReturnService) Create(ctx context.Context, tenantID uuid.UUID, req CreateSalesReturnRequest) (*SalesReturnResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, req.SalesOrderID)
	if err != nil {
		return nil, err
	}

	number, err := s.returnRepo.GenerateReturnNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	ret, err := sales.NewSalesReturn(tenantID, number, order.ID, order.OrderNumber, order.CustomerID, order.CustomerName, req.Reason, order.Currency)
	if err != nil {
		return nil, err
	}

	for _, input := range req.Items {
		orderItem := order.GetItem(input.SalesOrderItemID)
		if orderItem == nil {
			return nil, shared.NewNotFoundError("ORDER_ITEM_NOT_FOUND", "Sales order item not found: "+input.SalesOrderItemID.String())
		}
		if input.Quantity.GreaterThan(orderItem.DeliveredQuantity) {
			return nil, shared.NewValidationError("RETURN_EXCEEDS_DELIVERED", "Return quantity cannot exceed the delivered quantity")
		}
		vatRate, err := valueobject.NewPercent(orderItem.VatRate)
		if err != nil {
			return nil, err
		}
		_, err = ret.AddItem(
			orderItem.ID, orderItem.ProductID, orderItem.ProductName,
			input.Quantity, orderItem.UnitPrice, vatRate,
			sales.ReturnCondition(input.Condition), input.Reason,
		)
		if err != nil {
			return nil, err
		}
	}

	if req.InvoiceID != nil {
		if err := ret.LinkInvoice(*req.InvoiceID); err != nil {
			return nil, err
		}
	}
	if req.CreatedBy != nil {
		ret.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.returnRepo.Save(ctx, ret); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, ret)

	response := ToSalesReturnResponse(ret)
	return &response, nil
}

// GetByID retrieves a sales return by ID
func (s *SalesReturnService) GetByID(ctx context.Context, tenantID, returnID uuid.UUID) (*SalesReturnResponse, error) {
	ret, err := s.returnRepo.FindByIDForTenant(ctx, tenantID, returnID)
	if err != nil {
		return nil, err
	}
	response := ToSalesReturnResponse(ret)
	return &response, nil
}

// List retrieves sales returns for a tenant with pagination
func (s *SalesReturnService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[SalesReturnResponse], error) {
	returns, err := s.returnRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.returnRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]SalesReturnResponse, len(returns))
	for i := range returns {
		responses[i] = ToSalesReturnResponse(&returns[i])
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Submit submits a pending return for approval
func (s *SalesReturnService) Submit(ctx context.Context, tenantID, returnID uuid.UUID) (*SalesReturnResponse, error) {
	return s.mutate(ctx, tenantID, returnID, func(r *sales.SalesReturn) error {
		return r.Submit()
	})
}

// Approve approves a submitted return
func (s *SalesReturnService) Approve(ctx context.Context, tenantID, returnID, approverID uuid.UUID) (*SalesReturnResponse, error) {
	return s.mutate(ctx, tenantID, returnID, func(r *sales.SalesReturn) error {
		return r.Approve(approverID)
	})
}

// Reject rejects a submitted return
func (s *SalesReturnService) Reject(ctx context.Context, tenantID, returnID uuid.UUID, reason string) (*SalesReturnResponse, error) {
	return s.mutate(ctx, tenantID, returnID, func(r *sales.SalesReturn) error {
		return r.Reject(reason)
	})
}

// Receive records arrival of the returned goods
func (s *SalesReturnService) Receive(ctx context.Context, tenantID, returnID uuid.UUID) (*SalesReturnResponse, error) {
	return s.mutate(ctx, tenantID, returnID, func(r *sales.SalesReturn) error {
		return r.Receive()
	})
}

// Refund issues the refund for a received return
func (s *SalesReturnService) Refund(ctx context.Context, tenantID, returnID uuid.UUID, req RefundSalesReturnRequest) (*SalesReturnResponse, error) {
	return s.mutate(ctx, tenantID, returnID, func(r *sales.SalesReturn) error {
		return r.Refund(req.Amount)
	})
}

// Complete closes out a refunded return
func (s *SalesReturnService) Complete(ctx context.Context, tenantID, returnID uuid.UUID) (*SalesReturnResponse, error) {
	return s.mutate(ctx, tenantID, returnID, func(r *sales.SalesReturn) error {
		return r.Complete()
	})
}

// Cancel cancels a return before it is refunded
func (s *SalesReturnService) Cancel(ctx context.Context, tenantID, returnID uuid.UUID, req CancelRequest) (*SalesReturnResponse, error) {
	return s.mutate(ctx, tenantID, returnID, func(r *sales.SalesReturn) error {
		return r.Cancel(req.Reason)
	})
}

// mutate loads a return, applies fn and saves with optimistic locking
func (s *SalesReturnService) mutate(ctx context.Context, tenantID, returnID uuid.UUID, fn func(*sales.SalesReturn) error) (*SalesReturnResponse, error) {
	ret, err := s.returnRepo.FindByIDForTenant(ctx, tenantID, returnID)
	if err != nil {
		return nil, err
	}
	if err := fn(ret); err != nil {
		return nil, err
	}
	if err := s.returnRepo.SaveWithLock(ctx, ret); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, ret)

	response := ToSalesReturnResponse(ret)
	return &response, nil
}

func (s *SalesReturnService) publishEvents(ctx context.Context, agg shared.AggregateRoot) {
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
