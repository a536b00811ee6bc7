package commission

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/erp/sales/internal/domain/commission"
	"github.com/erp/sales/internal/domain/sales"
	"github.com/erp/sales/internal/domain/shared"
	"github.com/erp/sales/internal/domain/shared/valueobject"
)

// SalesOrderCompletedHandler computes a sales commission when an order
// closes. Orders without a sales person earn nothing and are skipped, as
// are orders no active plan covers.
type SalesOrderCompletedHandler struct {
	commissionRepo commission.SalesCommissionRepository
	planRepo       commission.CommissionPlanRepository
	logger         *zap.Logger
}

// NewSalesOrderCompletedHandler creates a new handler for sales order
// completed events
func NewSalesOrderCompletedHandler(
	commissionRepo commission.SalesCommissionRepository,
	planRepo commission.CommissionPlanRepository,
	logger *zap.Logger,
) *SalesOrderCompletedHandler {
	return &SalesOrderCompletedHandler{
		commissionRepo: commissionRepo,
		planRepo:       planRepo,
		logger:         logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *SalesOrderCompletedHandler) EventTypes() []string {
	return []string{sales.EventTypeSalesOrderCompleted}
}

// Handle processes a SalesOrderCompletedEvent by recording the commission
// the active plan yields for the order
func (h *SalesOrderCompletedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	completedEvent, ok := event.(*sales.SalesOrderCompletedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", sales.EventTypeSalesOrderCompleted),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			sales.EventTypeSalesOrderCompleted, event.EventType())
	}

	if completedEvent.SalesPersonID == nil {
		h.logger.Info("order has no sales person, skipping commission",
			zap.String("order_number", completedEvent.OrderNumber),
		)
		return nil
	}

	tenantID := completedEvent.TenantID()
	orderID := completedEvent.AggregateID()
	salesPersonID := *completedEvent.SalesPersonID

	existing, err := h.commissionRepo.FindBySalesOrder(ctx, tenantID, orderID)
	if err != nil {
		return fmt.Errorf("load commissions for order: %w", err)
	}
	for i := range existing {
		if existing[i].SalesPersonID == salesPersonID && existing[i].Status != commission.CommissionStatusCancelled {
			// Already computed, the event was redelivered
			return nil
		}
	}

	plans, err := h.planRepo.FindActiveForTenant(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("load active plans: %w", err)
	}

	now := time.Now()
	var plan *commission.CommissionPlan
	for i := range plans {
		if plans[i].IsEffectiveAt(now) {
			plan = &plans[i]
			break
		}
	}
	if plan == nil {
		h.logger.Info("no effective commission plan, skipping",
			zap.String("order_number", completedEvent.OrderNumber),
		)
		return nil
	}

	amount, err := plan.Calculate(completedEvent.TotalAmount, now)
	if err != nil {
		return fmt.Errorf("calculate commission: %w", err)
	}

	c, err := commission.NewSalesCommission(tenantID, salesPersonID, orderID,
		completedEvent.OrderNumber, plan, completedEvent.TotalAmount, amount,
		valueobject.Currency(completedEvent.Currency))
	if err != nil {
		return err
	}
	if err := h.commissionRepo.Save(ctx, c); err != nil {
		return fmt.Errorf("save commission: %w", err)
	}

	h.logger.Info("commission calculated",
		zap.String("order_number", completedEvent.OrderNumber),
		zap.String("plan", plan.Name),
		zap.String("amount", amount.String()),
	)
	return nil
}
