package commission

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/sales/internal/domain/commission"
)

// ==================== Commission Plan DTOs ====================

// CreatePlanRequest represents the request to create a commission plan
type CreatePlanRequest struct {
	Name              string            `json:"name" binding:"required,min=1,max=200"`
	Description       string            `json:"description" binding:"max=1000"`
	Type              string            `json:"type" binding:"required,oneof=TIERED FLAT_RATE FIXED_AMOUNT"`
	BaseRate          *decimal.Decimal  `json:"base_rate"`
	BaseAmount        *decimal.Decimal  `json:"base_amount"`
	MinimumSaleAmount *decimal.Decimal  `json:"minimum_sale_amount"`
	MaximumCommission *decimal.Decimal  `json:"maximum_commission"`
	StartDate         *time.Time        `json:"start_date"`
	EndDate           *time.Time        `json:"end_date"`
	Tiers             []CreateTierInput `json:"tiers"`
	CreatedBy         *uuid.UUID        `json:"-"`
}

// CreateTierInput represents a tier in the create request
type CreateTierInput struct {
	FromAmount  decimal.Decimal  `json:"from_amount"`
	ToAmount    *decimal.Decimal `json:"to_amount"`
	Rate        decimal.Decimal  `json:"rate"`
	FixedAmount *decimal.Decimal `json:"fixed_amount"`
}

// AddTierRequest adds a tier to an existing plan
type AddTierRequest struct {
	FromAmount  decimal.Decimal  `json:"from_amount"`
	ToAmount    *decimal.Decimal `json:"to_amount"`
	Rate        decimal.Decimal  `json:"rate"`
	FixedAmount *decimal.Decimal `json:"fixed_amount"`
}

// SetPlanValidityRequest bounds the period a plan is effective
type SetPlanValidityRequest struct {
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// CalculatePreviewRequest previews a plan against a hypothetical sale
type CalculatePreviewRequest struct {
	BaseAmount decimal.Decimal `json:"base_amount" binding:"required"`
	At         *time.Time      `json:"at"`
}

// CalculatePreviewResponse is the previewed commission
type CalculatePreviewResponse struct {
	PlanID           uuid.UUID       `json:"plan_id"`
	PlanName         string          `json:"plan_name"`
	BaseAmount       decimal.Decimal `json:"base_amount"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
}

// TierResponse represents a commission tier in API responses
type TierResponse struct {
	ID          uuid.UUID        `json:"id"`
	FromAmount  decimal.Decimal  `json:"from_amount"`
	ToAmount    *decimal.Decimal `json:"to_amount,omitempty"`
	Rate        decimal.Decimal  `json:"rate"`
	FixedAmount *decimal.Decimal `json:"fixed_amount,omitempty"`
}

// PlanResponse represents a commission plan in API responses
type PlanResponse struct {
	ID                uuid.UUID        `json:"id"`
	TenantID          uuid.UUID        `json:"tenant_id"`
	Name              string           `json:"name"`
	Description       string           `json:"description,omitempty"`
	Type              string           `json:"type"`
	BaseRate          decimal.Decimal  `json:"base_rate"`
	BaseAmount        decimal.Decimal  `json:"base_amount"`
	MinimumSaleAmount *decimal.Decimal `json:"minimum_sale_amount,omitempty"`
	MaximumCommission *decimal.Decimal `json:"maximum_commission,omitempty"`
	StartDate         *time.Time       `json:"start_date,omitempty"`
	EndDate           *time.Time       `json:"end_date,omitempty"`
	IsActive          bool             `json:"is_active"`
	Tiers             []TierResponse   `json:"tiers"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
	Version           int              `json:"version"`
}

// ToPlanResponse converts a domain plan to a response DTO
func ToPlanResponse(p *commission.CommissionPlan) PlanResponse {
	tiers := make([]TierResponse, len(p.Tiers))
	for i := range p.Tiers {
		tier := &p.Tiers[i]
		tiers[i] = TierResponse{
			ID:          tier.ID,
			FromAmount:  tier.FromAmount,
			ToAmount:    tier.ToAmount,
			Rate:        tier.Rate,
			FixedAmount: tier.FixedAmount,
		}
	}

	return PlanResponse{
		ID:                p.ID,
		TenantID:          p.TenantID,
		Name:              p.Name,
		Description:       p.Description,
		Type:              string(p.Type),
		BaseRate:          p.BaseRate,
		BaseAmount:        p.BaseAmount,
		MinimumSaleAmount: p.MinimumSaleAmount,
		MaximumCommission: p.MaximumCommission,
		StartDate:         p.StartDate,
		EndDate:           p.EndDate,
		IsActive:          p.IsActive,
		Tiers:             tiers,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
		Version:           p.Version,
	}
}

// ==================== Sales Commission DTOs ====================

// ApproveCommissionRequest approves a calculated commission
type ApproveCommissionRequest struct {
	ApproverID uuid.UUID `json:"approver_id" binding:"required"`
}

// MarkCommissionPaidRequest records the payout of an approved commission
type MarkCommissionPaidRequest struct {
	PaymentReference string `json:"payment_reference" binding:"required,min=1,max=100"`
}

// CancelCommissionRequest cancels a commission that will not be paid
type CancelCommissionRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// CommissionResponse represents a sales commission in API responses
type CommissionResponse struct {
	ID               uuid.UUID       `json:"id"`
	TenantID         uuid.UUID       `json:"tenant_id"`
	SalesPersonID    uuid.UUID       `json:"sales_person_id"`
	SalesPersonName  string          `json:"sales_person_name,omitempty"`
	SalesOrderID     uuid.UUID       `json:"sales_order_id"`
	OrderNumber      string          `json:"order_number"`
	PlanID           uuid.UUID       `json:"plan_id"`
	PlanName         string          `json:"plan_name"`
	Currency         string          `json:"currency"`
	BaseAmount       decimal.Decimal `json:"base_amount"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	Status           string          `json:"status"`
	CalculatedAt     time.Time       `json:"calculated_at"`
	ApprovedBy       *uuid.UUID      `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time      `json:"approved_at,omitempty"`
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
	PaymentReference string          `json:"payment_reference,omitempty"`
	CancelledAt      *time.Time      `json:"cancelled_at,omitempty"`
	CancelReason     string          `json:"cancel_reason,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	Version          int             `json:"version"`
}

// ToCommissionResponse converts a domain commission to a response DTO
func ToCommissionResponse(c *commission.SalesCommission) CommissionResponse {
	return CommissionResponse{
		ID:               c.ID,
		TenantID:         c.TenantID,
		SalesPersonID:    c.SalesPersonID,
		SalesPersonName:  c.SalesPersonName,
		SalesOrderID:     c.SalesOrderID,
		OrderNumber:      c.OrderNumber,
		PlanID:           c.PlanID,
		PlanName:         c.PlanName,
		Currency:         string(c.Currency),
		BaseAmount:       c.BaseAmount,
		CommissionAmount: c.CommissionAmount,
		Status:           string(c.Status),
		CalculatedAt:     c.CalculatedAt,
		ApprovedBy:       c.ApprovedBy,
		ApprovedAt:       c.ApprovedAt,
		PaidAt:           c.PaidAt,
		PaymentReference: c.PaymentReference,
		CancelledAt:      c.CancelledAt,
		CancelReason:     c.CancelReason,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
		Version:          c.Version,
	}
}

// ==================== Discount DTOs ====================

// CreateDiscountRequest represents the request to create a discount
type CreateDiscountRequest struct {
	Name               string           `json:"name" binding:"required,min=1,max=200"`
	Code               string           `json:"code" binding:"required,min=1,max=50"`
	Type               string           `json:"type" binding:"required,oneof=PERCENTAGE FIXED_AMOUNT"`
	Value              decimal.Decimal  `json:"value" binding:"required"`
	MinimumOrderAmount *decimal.Decimal `json:"minimum_order_amount"`
	MaximumDiscount    *decimal.Decimal `json:"maximum_discount"`
	StartDate          *time.Time       `json:"start_date"`
	EndDate            *time.Time       `json:"end_date"`
	UsageLimit         *int             `json:"usage_limit"`
	CreatedBy          *uuid.UUID       `json:"-"`
}

// ComputeDiscountRequest evaluates a discount code against an order amount
type ComputeDiscountRequest struct {
	Code        string          `json:"code" binding:"required"`
	OrderAmount decimal.Decimal `json:"order_amount" binding:"required"`
}

// ComputeDiscountResponse is the evaluated discount
type ComputeDiscountResponse struct {
	DiscountID     uuid.UUID       `json:"discount_id"`
	Code           string          `json:"code"`
	OrderAmount    decimal.Decimal `json:"order_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

// DiscountResponse represents a discount in API responses
type DiscountResponse struct {
	ID                 uuid.UUID        `json:"id"`
	TenantID           uuid.UUID        `json:"tenant_id"`
	Name               string           `json:"name"`
	Code               string           `json:"code"`
	Type               string           `json:"type"`
	Value              decimal.Decimal  `json:"value"`
	MinimumOrderAmount *decimal.Decimal `json:"minimum_order_amount,omitempty"`
	MaximumDiscount    *decimal.Decimal `json:"maximum_discount,omitempty"`
	StartDate          *time.Time       `json:"start_date,omitempty"`
	EndDate            *time.Time       `json:"end_date,omitempty"`
	UsageLimit         *int             `json:"usage_limit,omitempty"`
	UsageCount         int              `json:"usage_count"`
	IsActive           bool             `json:"is_active"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
	Version            int              `json:"version"`
}

// ToDiscountResponse converts a domain discount to a response DTO
func ToDiscountResponse(d *commission.Discount) DiscountResponse {
	return DiscountResponse{
		ID:                 d.ID,
		TenantID:           d.TenantID,
		Name:               d.Name,
		Code:               d.Code,
		Type:               string(d.Type),
		Value:              d.Value,
		MinimumOrderAmount: d.MinimumOrderAmount,
		MaximumDiscount:    d.MaximumDiscount,
		StartDate:          d.StartDate,
		EndDate:            d.EndDate,
		UsageLimit:         d.UsageLimit,
		UsageCount:         d.UsageCount,
		IsActive:           d.IsActive,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
		Version:            d.Version,
	}
}
