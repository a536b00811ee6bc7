package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/sales/internal/domain/sales"
	"github.com/erp/sales/internal/domain/shared"
	"github.com/erp/sales/internal/domain/shared/valueobject"
)

// SalesOrderService handles sales order business operations
type SalesOrderService struct {
	orderRepo      sales.SalesOrderRepository
	backOrderRepo  sales.BackOrderRepository
	eventPublisher shared.EventPublisher
}

// NewSalesOrderService creates a new SalesOrderService
func NewSalesOrderService(
	orderRepo sales.SalesOrderRepository,
	backOrderRepo sales.BackOrderRepository,
) *SalesOrderService {
	return &SalesOrderService{
		orderRepo:     orderRepo,
		backOrderRepo: backOrderRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *SalesOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new draft sales order without a quotation
func (s *SalesOrderService) Create(ctx context.Context, tenantID uuid.UUID, req CreateSalesOrderRequest) (*SalesOrderResponse, error) {
	number, err := s.orderRepo.GenerateOrderNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	order, err := sales.NewSalesOrder(tenantID, number, req.CustomerID, req.CustomerName, valueobject.Currency(req.Currency))
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		vatRate, err := valueobject.NewPercent(item.VatRate)
		if err != nil {
			return nil, err
		}
		if _, err := order.AddItem(item.ProductID, item.ProductName, item.ProductCode, item.Unit, item.Quantity, item.UnitPrice, vatRate); err != nil {
			return nil, err
		}
	}

	if req.DeliveryAddress != "" {
		if err := order.SetDeliveryAddress(req.DeliveryAddress); err != nil {
			return nil, err
		}
	}
	if req.SalesPersonID != nil {
		order.SetSalesPerson(*req.SalesPersonID, req.SalesPersonName)
	}
	order.PaymentTerms = req.PaymentTerms
	order.Notes = req.Notes
	if req.CreatedBy != nil {
		order.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)

	response := ToSalesOrderResponse(order)
	return &response, nil
}

// GetByID retrieves a sales order by ID
func (s *SalesOrderService) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*SalesOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToSalesOrderResponse(order)
	return &response, nil
}

// List retrieves sales orders for a tenant with pagination
func (s *SalesOrderService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[SalesOrderResponse], error) {
	orders, err := s.orderRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]SalesOrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToSalesOrderResponse(&orders[i])
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Approve approves a draft sales order
func (s *SalesOrderService) Approve(ctx context.Context, tenantID, orderID, approverID uuid.UUID) (*SalesOrderResponse, error) {
	return s.mutate(ctx, tenantID, orderID, func(o *sales.SalesOrder) error {
		return o.Approve(approverID)
	})
}

// Confirm confirms an approved sales order for fulfillment
func (s *SalesOrderService) Confirm(ctx context.Context, tenantID, orderID uuid.UUID) (*SalesOrderResponse, error) {
	return s.mutate(ctx, tenantID, orderID, func(o *sales.SalesOrder) error {
		return o.Confirm()
	})
}

// Ship records a full or partial shipment against a confirmed order. When
// requested, back orders are raised for quantities still pending after the
// shipment.
func (s *SalesOrderService) Ship(ctx context.Context, tenantID, orderID uuid.UUID, req ShipSalesOrderRequest) (*SalesOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	var quantities map[uuid.UUID]decimal.Decimal
	if len(req.Items) > 0 {
		quantities = make(map[uuid.UUID]decimal.Decimal, len(req.Items))
		for _, item := range req.Items {
			quantities[item.ItemID] = item.Quantity
		}
	}

	if err := order.Ship(quantities); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	if req.CreateBackOrders {
		if err := s.raiseBackOrders(ctx, order); err != nil {
			return nil, err
		}
	}
	s.publishEvents(ctx, order)

	response := ToSalesOrderResponse(order)
	return &response, nil
}

// raiseBackOrders creates one back order per line still pending shipment
func (s *SalesOrderService) raiseBackOrders(ctx context.Context, order *sales.SalesOrder) error {
	for i := range order.Items {
		item := &order.Items[i]
		pending := item.PendingQuantity()
		if !pending.IsPositive() {
			continue
		}
		number := sales.GenerateDocumentNumber("BO")
		backOrder, err := sales.NewBackOrder(
			order.TenantID, number, order.ID, item.ID,
			item.ProductID, item.ProductName,
			item.Quantity, item.ShippedQuantity,
		)
		if err != nil {
			return err
		}
		if err := s.backOrderRepo.Save(ctx, backOrder); err != nil {
			return err
		}
	}
	return nil
}

// Deliver marks a shipped order as delivered
func (s *SalesOrderService) Deliver(ctx context.Context, tenantID, orderID uuid.UUID) (*SalesOrderResponse, error) {
	return s.mutate(ctx, tenantID, orderID, func(o *sales.SalesOrder) error {
		return o.Deliver()
	})
}

// Complete closes out a delivered order
func (s *SalesOrderService) Complete(ctx context.Context, tenantID, orderID uuid.UUID) (*SalesOrderResponse, error) {
	return s.mutate(ctx, tenantID, orderID, func(o *sales.SalesOrder) error {
		return o.Complete()
	})
}

// Cancel cancels an order that has not completed
func (s *SalesOrderService) Cancel(ctx context.Context, tenantID, orderID uuid.UUID, req CancelRequest) (*SalesOrderResponse, error) {
	return s.mutate(ctx, tenantID, orderID, func(o *sales.SalesOrder) error {
		return o.Cancel(req.Reason)
	})
}

// mutate loads an order, applies fn and saves with optimistic locking
func (s *SalesOrderService) mutate(ctx context.Context, tenantID, orderID uuid.UUID, fn func(*sales.SalesOrder) error) (*SalesOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err := fn(order); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)

	response := ToSalesOrderResponse(order)
	return &response, nil
}

func (s *SalesOrderService) publishEvents(ctx context.Context, agg shared.AggregateRoot) {
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
