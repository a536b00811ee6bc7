package commission

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/sales/internal/domain/shared"
	"github.com/erp/sales/internal/domain/shared/valueobject"
)

// CommissionStatus represents the status of a calculated commission
type CommissionStatus string

const (
	CommissionStatusCalculated CommissionStatus = "CALCULATED"
	CommissionStatusApproved   CommissionStatus = "APPROVED"
	CommissionStatusPaid       CommissionStatus = "PAID"
	CommissionStatusCancelled  CommissionStatus = "CANCELLED"
)

var commissionTransitions = shared.Transitions[CommissionStatus]{
	CommissionStatusCalculated: {CommissionStatusApproved, CommissionStatusCancelled},
	CommissionStatusApproved:   {CommissionStatusPaid, CommissionStatusCancelled},
}

// String returns the string representation of CommissionStatus
func (s CommissionStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transition leaves this status
func (s CommissionStatus) IsTerminal() bool {
	return commissionTransitions.IsTerminal(s)
}

// SalesCommission is the payable amount computed by a plan for one closed
// sale
type SalesCommission struct {
	shared.DocumentRoot
	SalesPersonID    uuid.UUID
	SalesPersonName  string
	SalesOrderID     uuid.UUID
	OrderNumber      string
	PlanID           uuid.UUID
	PlanName         string
	BaseAmount       decimal.Decimal
	CommissionAmount decimal.Decimal
	Status           CommissionStatus
	CalculatedAt     time.Time
	ApprovedBy       *uuid.UUID
	ApprovedAt       *time.Time
	PaidAt           *time.Time
	PaymentReference string
	CancelledAt      *time.Time
	CancelReason     string
}

// NewSalesCommission records the result of a plan calculation for a sale
func NewSalesCommission(tenantID, salesPersonID, salesOrderID uuid.UUID, orderNumber string, plan *CommissionPlan, baseAmount, commissionAmount decimal.Decimal, currency valueobject.Currency) (*SalesCommission, error) {
	if salesPersonID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_SALES_PERSON", "Sales person ID cannot be empty")
	}
	if salesOrderID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_ORDER", "Sales order ID cannot be empty")
	}
	if plan == nil {
		return nil, shared.NewValidationError("INVALID_PLAN", "Commission plan is required")
	}
	if baseAmount.IsNegative() || commissionAmount.IsNegative() {
		return nil, shared.NewValidationError("INVALID_AMOUNT", "Amounts cannot be negative")
	}

	return &SalesCommission{
		DocumentRoot:     shared.NewDocumentRoot(tenantID, currency),
		SalesPersonID:    salesPersonID,
		SalesOrderID:     salesOrderID,
		OrderNumber:      orderNumber,
		PlanID:           plan.ID,
		PlanName:         plan.Name,
		BaseAmount:       baseAmount,
		CommissionAmount: commissionAmount,
		Status:           CommissionStatusCalculated,
		CalculatedAt:     time.Now(),
	}, nil
}

// Approve approves the calculated commission for payout
func (c *SalesCommission) Approve(approverID uuid.UUID) error {
	if err := commissionTransitions.Guard(c.Status, CommissionStatusApproved, "COMMISSION_INVALID_STATE"); err != nil {
		return err
	}
	if approverID == uuid.Nil {
		return shared.NewValidationError("INVALID_APPROVER", "Approver ID cannot be empty")
	}

	now := time.Now()
	c.Status = CommissionStatusApproved
	c.ApprovedBy = &approverID
	c.ApprovedAt = &now
	c.UpdatedAt = now

	return nil
}

// MarkPaid records the payout of the approved commission
func (c *SalesCommission) MarkPaid(paymentReference string) error {
	if err := commissionTransitions.Guard(c.Status, CommissionStatusPaid, "COMMISSION_INVALID_STATE"); err != nil {
		return err
	}

	now := time.Now()
	c.Status = CommissionStatusPaid
	c.PaidAt = &now
	c.PaymentReference = paymentReference
	c.UpdatedAt = now

	return nil
}

// Cancel cancels a commission that has not been paid
func (c *SalesCommission) Cancel(reason string) error {
	if err := commissionTransitions.Guard(c.Status, CommissionStatusCancelled, "COMMISSION_INVALID_STATE"); err != nil {
		return err
	}
	if reason == "" {
		return shared.NewValidationError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	c.Status = CommissionStatusCancelled
	c.CancelledAt = &now
	c.CancelReason = reason
	c.UpdatedAt = now

	return nil
}
