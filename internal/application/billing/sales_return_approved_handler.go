package billing

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/erp/sales/internal/domain/billing"
	"github.com/erp/sales/internal/domain/sales"
	"github.com/erp/sales/internal/domain/shared"
	"github.com/erp/sales/internal/domain/shared/valueobject"
)

// SalesReturnApprovedHandler creates a credit note when a sales return is
// approved. The note carries the return's lines, is validated against the
// linked invoice's remaining balance and is linked back to the return.
// Returns without an invoice reference are skipped; those are refunded in
// cash through the return's own refund step.
type SalesReturnApprovedHandler struct {
	creditNoteRepo billing.CreditNoteRepository
	invoiceRepo    billing.InvoiceRepository
	returnRepo     sales.SalesReturnRepository
	logger         *zap.Logger
}

// NewSalesReturnApprovedHandler creates a new handler for sales return
// approved events
func NewSalesReturnApprovedHandler(
	creditNoteRepo billing.CreditNoteRepository,
	invoiceRepo billing.InvoiceRepository,
	returnRepo sales.SalesReturnRepository,
	logger *zap.Logger,
) *SalesReturnApprovedHandler {
	return &SalesReturnApprovedHandler{
		creditNoteRepo: creditNoteRepo,
		invoiceRepo:    invoiceRepo,
		returnRepo:     returnRepo,
		logger:         logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *SalesReturnApprovedHandler) EventTypes() []string {
	return []string{sales.EventTypeSalesReturnApproved}
}

// Handle processes a SalesReturnApprovedEvent by raising a credit note
// against the return's invoice
func (h *SalesReturnApprovedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	approvedEvent, ok := event.(*sales.SalesReturnApprovedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", sales.EventTypeSalesReturnApproved),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			sales.EventTypeSalesReturnApproved, event.EventType())
	}

	if approvedEvent.InvoiceID == nil {
		h.logger.Info("sales return has no invoice, skipping credit note",
			zap.String("return_number", approvedEvent.ReturnNumber),
		)
		return nil
	}

	tenantID := approvedEvent.TenantID()
	ret, err := h.returnRepo.FindByIDForTenant(ctx, tenantID, approvedEvent.AggregateID())
	if err != nil {
		return fmt.Errorf("load sales return: %w", err)
	}
	if ret.CreditNoteID != nil {
		// Already handled, the event was redelivered
		return nil
	}

	inv, err := h.invoiceRepo.FindByIDForTenant(ctx, tenantID, *approvedEvent.InvoiceID)
	if err != nil {
		return fmt.Errorf("load invoice: %w", err)
	}

	number, err := h.creditNoteRepo.GenerateCreditNoteNumber(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("generate credit note number: %w", err)
	}

	cn, err := billing.CreateForReturn(tenantID, number, inv.ID, inv.InvoiceNumber,
		ret.ID, ret.ReturnNumber, ret.CustomerID, ret.CustomerName, ret.Currency)
	if err != nil {
		return err
	}

	for i := range ret.Items {
		item := &ret.Items[i]
		vatRate, err := valueobject.NewPercent(item.VatRate)
		if err != nil {
			return err
		}
		if _, err := cn.AddItem(item.ProductID, item.ProductName, item.Quantity, item.UnitPrice, vatRate); err != nil {
			return err
		}
	}

	if err := cn.ValidateAgainstInvoice(inv.RemainingAmount()); err != nil {
		h.logger.Warn("credit note exceeds invoice balance, leaving return without note",
			zap.String("return_number", ret.ReturnNumber),
			zap.String("invoice_number", inv.InvoiceNumber),
			zap.Error(err),
		)
		return err
	}

	if err := h.creditNoteRepo.Save(ctx, cn); err != nil {
		return fmt.Errorf("save credit note: %w", err)
	}

	if err := ret.SetCreditNote(cn.ID); err != nil {
		return err
	}
	if err := h.returnRepo.SaveWithLock(ctx, ret); err != nil {
		return fmt.Errorf("link credit note to return: %w", err)
	}

	h.logger.Info("credit note created for approved return",
		zap.String("return_number", ret.ReturnNumber),
		zap.String("credit_note_number", cn.CreditNoteNumber),
		zap.String("total", cn.TotalAmount.String()),
	)
	return nil
}
