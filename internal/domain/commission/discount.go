package commission

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/sales/internal/domain/shared"
	"github.com/erp/sales/internal/domain/shared/valueobject"
)

// DiscountType selects how a discount computes its value
type DiscountType string

const (
	DiscountTypePercentage  DiscountType = "PERCENTAGE"
	DiscountTypeFixedAmount DiscountType = "FIXED_AMOUNT"
)

// Discount is a configured reduction applied to order amounts. It shares
// the fail-closed active/date semantics of commission plans and tracks a
// usage budget.
type Discount struct {
	shared.TenantAggregateRoot
	Name               string
	Code               string
	Description        string
	Type               DiscountType
	Value              decimal.Decimal // 0-100 for PERCENTAGE, an amount otherwise
	MinimumOrderAmount *decimal.Decimal
	MaximumDiscount    *decimal.Decimal
	StartDate          *time.Time
	EndDate            *time.Time
	UsageLimit         *int
	UsageCount         int
	IsActive           bool
}

// NewDiscount creates an active discount configuration
func NewDiscount(tenantID uuid.UUID, name, code string, discountType DiscountType, value decimal.Decimal) (*Discount, error) {
	if name == "" {
		return nil, shared.NewValidationError("INVALID_DISCOUNT_NAME", "Discount name cannot be empty")
	}
	if code == "" {
		return nil, shared.NewValidationError("INVALID_DISCOUNT_CODE", "Discount code cannot be empty")
	}
	switch discountType {
	case DiscountTypePercentage:
		if _, err := valueobject.NewPercent(value); err != nil {
			return nil, shared.NewValidationError("INVALID_DISCOUNT_VALUE", "Percentage discount must be between 0 and 100")
		}
	case DiscountTypeFixedAmount:
		if value.IsNegative() {
			return nil, shared.NewValidationError("INVALID_DISCOUNT_VALUE", "Fixed discount cannot be negative")
		}
	default:
		return nil, shared.NewValidationError("INVALID_DISCOUNT_TYPE", "Unknown discount type")
	}

	return &Discount{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Code:                code,
		Type:                discountType,
		Value:               value,
		IsActive:            true,
	}, nil
}

// SetMinimumOrderAmount sets the order amount required to qualify
func (d *Discount) SetMinimumOrderAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewValidationError("INVALID_AMOUNT", "Minimum order amount cannot be negative")
	}
	d.MinimumOrderAmount = &amount
	d.Touch()
	return nil
}

// SetMaximumDiscount caps the computed discount
func (d *Discount) SetMaximumDiscount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewValidationError("INVALID_AMOUNT", "Maximum discount must be positive")
	}
	d.MaximumDiscount = &amount
	d.Touch()
	return nil
}

// SetValidity sets the discount's date range
func (d *Discount) SetValidity(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return shared.NewValidationError("INVALID_VALIDITY", "End date cannot be before start date")
	}
	d.StartDate = start
	d.EndDate = end
	d.Touch()
	return nil
}

// SetUsageLimit budgets how many times the discount may be used
func (d *Discount) SetUsageLimit(limit int) error {
	if limit <= 0 {
		return shared.NewValidationError("INVALID_LIMIT", "Usage limit must be positive")
	}
	d.UsageLimit = &limit
	d.Touch()
	return nil
}

// Activate enables the discount
func (d *Discount) Activate() {
	d.IsActive = true
	d.Touch()
}

// Deactivate disables the discount. Computations against it fail closed.
func (d *Discount) Deactivate() {
	d.IsActive = false
	d.Touch()
}

// IsEffectiveAt reports whether the discount is active, inside its date
// range and under its usage budget at the given instant
func (d *Discount) IsEffectiveAt(at time.Time) bool {
	if !d.IsActive {
		return false
	}
	if d.StartDate != nil && at.Before(*d.StartDate) {
		return false
	}
	if d.EndDate != nil && at.After(*d.EndDate) {
		return false
	}
	if d.UsageLimit != nil && d.UsageCount >= *d.UsageLimit {
		return false
	}
	return true
}

// ComputeValue computes the discount on an order amount. An ineffective
// discount fails closed with a conflict; an order below the minimum
// computes to zero.
func (d *Discount) ComputeValue(orderAmount decimal.Decimal, at time.Time) (decimal.Decimal, error) {
	if orderAmount.IsNegative() {
		return decimal.Zero, shared.NewValidationError("INVALID_AMOUNT", "Order amount cannot be negative")
	}
	if !d.IsEffectiveAt(at) {
		return decimal.Zero, shared.NewConflictError("DISCOUNT_INACTIVE", "Discount is inactive, outside its validity period or over its usage limit")
	}
	if d.MinimumOrderAmount != nil && orderAmount.LessThan(*d.MinimumOrderAmount) {
		return decimal.Zero, nil
	}

	var value decimal.Decimal
	switch d.Type {
	case DiscountTypePercentage:
		rate, err := valueobject.NewPercent(d.Value)
		if err != nil {
			return decimal.Zero, shared.NewValidationError("INVALID_DISCOUNT_VALUE", "Percentage discount must be between 0 and 100")
		}
		value = rate.Of(orderAmount).Round(2)
	case DiscountTypeFixedAmount:
		value = d.Value
		if value.GreaterThan(orderAmount) {
			value = orderAmount
		}
	}

	if d.MaximumDiscount != nil && value.GreaterThan(*d.MaximumDiscount) {
		value = *d.MaximumDiscount
	}

	return value, nil
}

// RecordUsage consumes one use of the discount's budget
func (d *Discount) RecordUsage() error {
	if !d.IsActive {
		return shared.NewConflictError("DISCOUNT_INACTIVE", "Discount is inactive")
	}
	if d.UsageLimit != nil && d.UsageCount >= *d.UsageLimit {
		return shared.NewConflictError("DISCOUNT_LIMIT_REACHED", "Discount usage limit has been reached")
	}

	d.UsageCount++
	d.Touch()

	return nil
}
