package sales

import (
	"context"

	"github.com/google/uuid"

	"github.com/erp/sales/internal/domain/sales"
)

// FulfillmentService handles back order and stock reservation operations
type FulfillmentService struct {
	backOrderRepo   sales.BackOrderRepository
	reservationRepo sales.InventoryReservationRepository
}

// NewFulfillmentService creates a new FulfillmentService
func NewFulfillmentService(
	backOrderRepo sales.BackOrderRepository,
	reservationRepo sales.InventoryReservationRepository,
) *FulfillmentService {
	return &FulfillmentService{
		backOrderRepo:   backOrderRepo,
		reservationRepo: reservationRepo,
	}
}

// GetBackOrder retrieves a back order by ID
func (s *FulfillmentService) GetBackOrder(ctx context.Context, tenantID, backOrderID uuid.UUID) (*BackOrderResponse, error) {
	backOrder, err := s.backOrderRepo.FindByIDForTenant(ctx, tenantID, backOrderID)
	if err != nil {
		return nil, err
	}
	response := ToBackOrderResponse(backOrder)
	return &response, nil
}

// ListBackOrdersForOrder retrieves the back orders raised for a sales order
func (s *FulfillmentService) ListBackOrdersForOrder(ctx context.Context, tenantID, salesOrderID uuid.UUID) ([]BackOrderResponse, error) {
	backOrders, err := s.backOrderRepo.FindBySalesOrder(ctx, tenantID, salesOrderID)
	if err != nil {
		return nil, err
	}
	responses := make([]BackOrderResponse, len(backOrders))
	for i := range backOrders {
		responses[i] = ToBackOrderResponse(&backOrders[i])
	}
	return responses, nil
}

// RecordFulfillment records received stock against a back order
func (s *FulfillmentService) RecordFulfillment(ctx context.Context, tenantID, backOrderID uuid.UUID, req RecordFulfillmentRequest) (*BackOrderResponse, error) {
	backOrder, err := s.backOrderRepo.FindByIDForTenant(ctx, tenantID, backOrderID)
	if err != nil {
		return nil, err
	}
	if err := backOrder.RecordFulfillment(req.Quantity); err != nil {
		return nil, err
	}
	if err := s.backOrderRepo.SaveWithLock(ctx, backOrder); err != nil {
		return nil, err
	}
	response := ToBackOrderResponse(backOrder)
	return &response, nil
}

// CancelBackOrder cancels an open back order
func (s *FulfillmentService) CancelBackOrder(ctx context.Context, tenantID, backOrderID uuid.UUID, req CancelRequest) (*BackOrderResponse, error) {
	backOrder, err := s.backOrderRepo.FindByIDForTenant(ctx, tenantID, backOrderID)
	if err != nil {
		return nil, err
	}
	if err := backOrder.Cancel(req.Reason); err != nil {
		return nil, err
	}
	if err := s.backOrderRepo.SaveWithLock(ctx, backOrder); err != nil {
		return nil, err
	}
	response := ToBackOrderResponse(backOrder)
	return &response, nil
}

// Reserve creates an active stock reservation for a sales order line
func (s *FulfillmentService) Reserve(ctx context.Context, tenantID uuid.UUID, req CreateReservationRequest) (*ReservationResponse, error) {
	reservation, err := sales.NewInventoryReservation(
		tenantID, req.SalesOrderID, req.SalesOrderItemID,
		req.ProductID, req.WarehouseID, req.Quantity, req.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	if err := s.reservationRepo.Save(ctx, reservation); err != nil {
		return nil, err
	}
	response := ToReservationResponse(reservation)
	return &response, nil
}

// ListReservationsForOrder retrieves the reservations held for a sales order
func (s *FulfillmentService) ListReservationsForOrder(ctx context.Context, tenantID, salesOrderID uuid.UUID) ([]ReservationResponse, error) {
	reservations, err := s.reservationRepo.FindBySalesOrder(ctx, tenantID, salesOrderID)
	if err != nil {
		return nil, err
	}
	responses := make([]ReservationResponse, len(reservations))
	for i := range reservations {
		responses[i] = ToReservationResponse(&reservations[i])
	}
	return responses, nil
}

// Consume consumes part of an active reservation at shipment time
func (s *FulfillmentService) Consume(ctx context.Context, tenantID, reservationID uuid.UUID, req ConsumeReservationRequest) (*ReservationResponse, error) {
	reservation, err := s.reservationRepo.FindByIDForTenant(ctx, tenantID, reservationID)
	if err != nil {
		return nil, err
	}
	if err := reservation.Consume(req.Quantity); err != nil {
		return nil, err
	}
	if err := s.reservationRepo.SaveWithLock(ctx, reservation); err != nil {
		return nil, err
	}
	response := ToReservationResponse(reservation)
	return &response, nil
}

// Release releases an active reservation back to free stock
func (s *FulfillmentService) Release(ctx context.Context, tenantID, reservationID uuid.UUID) (*ReservationResponse, error) {
	reservation, err := s.reservationRepo.FindByIDForTenant(ctx, tenantID, reservationID)
	if err != nil {
		return nil, err
	}
	if err := reservation.Release(); err != nil {
		return nil, err
	}
	if err := s.reservationRepo.SaveWithLock(ctx, reservation); err != nil {
		return nil, err
	}
	response := ToReservationResponse(reservation)
	return &response, nil
}

// ExpireDue marks all reservations whose expiry has passed as expired.
// Returns the number of reservations transitioned.
func (s *FulfillmentService) ExpireDue(ctx context.Context, tenantID uuid.UUID) (int, error) {
	reservations, err := s.reservationRepo.FindActiveExpired(ctx, tenantID)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range reservations {
		reservation := &reservations[i]
		if err := reservation.MarkExpired(); err != nil {
			continue
		}
		if err := s.reservationRepo.SaveWithLock(ctx, reservation); err != nil {
			return expired, err
		}
		expired++
	}
	return expired, nil
}
