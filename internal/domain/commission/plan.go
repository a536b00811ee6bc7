package commission

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/sales/internal/domain/shared"
	"github.com/erp/sales/internal/domain/shared/valueobject"
)

// PlanType selects how a commission plan computes its payable amount
type PlanType string

const (
	PlanTypeTiered      PlanType = "TIERED"
	PlanTypeFlatRate    PlanType = "FLAT_RATE"
	PlanTypeFixedAmount PlanType = "FIXED_AMOUNT"
)

// CommissionTier is one amount band of a tiered plan. A nil ToAmount means
// the band is open-ended. A tier pays either a percentage of the band
// amount or a fixed amount for reaching the band.
type CommissionTier struct {
	ID          uuid.UUID
	PlanID      uuid.UUID
	FromAmount  decimal.Decimal
	ToAmount    *decimal.Decimal
	Rate        decimal.Decimal // 0-100, percentage of the band amount
	FixedAmount *decimal.Decimal
	SortOrder   int
}

// NewCommissionTier creates a tier band for a plan
func NewCommissionTier(planID uuid.UUID, fromAmount decimal.Decimal, toAmount *decimal.Decimal, rate decimal.Decimal, fixedAmount *decimal.Decimal) (*CommissionTier, error) {
	if fromAmount.IsNegative() {
		return nil, shared.NewValidationError("INVALID_TIER", "Tier lower bound cannot be negative")
	}
	if toAmount != nil && toAmount.LessThanOrEqual(fromAmount) {
		return nil, shared.NewValidationError("INVALID_TIER", "Tier upper bound must exceed its lower bound")
	}
	if _, err := valueobject.NewPercent(rate); err != nil {
		return nil, shared.NewValidationError("INVALID_TIER_RATE", "Tier rate must be between 0 and 100")
	}
	if fixedAmount != nil && fixedAmount.IsNegative() {
		return nil, shared.NewValidationError("INVALID_TIER", "Tier fixed amount cannot be negative")
	}

	return &CommissionTier{
		ID:          uuid.New(),
		PlanID:      planID,
		FromAmount:  fromAmount,
		ToAmount:    toAmount,
		Rate:        rate,
		FixedAmount: fixedAmount,
	}, nil
}

// CommissionPlan is a rate-band configuration that computes the commission
// payable on a finalized sale amount
type CommissionPlan struct {
	shared.TenantAggregateRoot
	Name              string
	Description       string
	Type              PlanType
	BaseRate          decimal.Decimal // 0-100, used by FLAT_RATE
	BaseAmount        decimal.Decimal // used by FIXED_AMOUNT
	MinimumSaleAmount *decimal.Decimal
	MaximumCommission *decimal.Decimal
	StartDate         *time.Time
	EndDate           *time.Time
	IsActive          bool
	Tiers             []CommissionTier `gorm:"foreignKey:PlanID"`
}

// NewCommissionPlan creates an active commission plan
func NewCommissionPlan(tenantID uuid.UUID, name string, planType PlanType) (*CommissionPlan, error) {
	if name == "" {
		return nil, shared.NewValidationError("INVALID_PLAN_NAME", "Plan name cannot be empty")
	}
	switch planType {
	case PlanTypeTiered, PlanTypeFlatRate, PlanTypeFixedAmount:
	default:
		return nil, shared.NewValidationError("INVALID_PLAN_TYPE", "Unknown plan type")
	}

	return &CommissionPlan{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Type:                planType,
		BaseRate:            decimal.Zero,
		BaseAmount:          decimal.Zero,
		IsActive:            true,
		Tiers:               make([]CommissionTier, 0),
	}, nil
}

// SetFlatRate configures the rate used in FLAT_RATE mode
func (p *CommissionPlan) SetFlatRate(rate valueobject.Percent) {
	p.BaseRate = rate.Value()
	p.Touch()
}

// SetFixedAmount configures the amount used in FIXED_AMOUNT mode
func (p *CommissionPlan) SetFixedAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewValidationError("INVALID_AMOUNT", "Fixed amount cannot be negative")
	}
	p.BaseAmount = amount
	p.Touch()
	return nil
}

// SetMinimumSaleAmount sets the threshold below which no commission is paid
func (p *CommissionPlan) SetMinimumSaleAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewValidationError("INVALID_AMOUNT", "Minimum sale amount cannot be negative")
	}
	p.MinimumSaleAmount = &amount
	p.Touch()
	return nil
}

// SetMaximumCommission caps the computed commission regardless of mode
func (p *CommissionPlan) SetMaximumCommission(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewValidationError("INVALID_AMOUNT", "Maximum commission must be positive")
	}
	p.MaximumCommission = &amount
	p.Touch()
	return nil
}

// SetValidity sets the plan's date range
func (p *CommissionPlan) SetValidity(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return shared.NewValidationError("INVALID_VALIDITY", "End date cannot be before start date")
	}
	p.StartDate = start
	p.EndDate = end
	p.Touch()
	return nil
}

// Activate enables the plan
func (p *CommissionPlan) Activate() {
	p.IsActive = true
	p.Touch()
}

// Deactivate disables the plan. Calculations against it fail closed.
func (p *CommissionPlan) Deactivate() {
	p.IsActive = false
	p.Touch()
}

// AddTier adds a band to a tiered plan. Overlapping bands are rejected.
func (p *CommissionPlan) AddTier(fromAmount decimal.Decimal, toAmount *decimal.Decimal, rate decimal.Decimal, fixedAmount *decimal.Decimal) (*CommissionTier, error) {
	if p.Type != PlanTypeTiered {
		return nil, shared.NewConflictError("PLAN_NOT_TIERED", "Tiers can only be added to a tiered plan")
	}

	tier, err := NewCommissionTier(p.ID, fromAmount, toAmount, rate, fixedAmount)
	if err != nil {
		return nil, err
	}

	for idx := range p.Tiers {
		existing := &p.Tiers[idx]
		if overlaps(tier, existing) {
			return nil, shared.NewValidationError("TIER_OVERLAP", "Tier bands cannot overlap")
		}
	}

	tier.SortOrder = len(p.Tiers)
	p.Tiers = append(p.Tiers, *tier)
	p.sortTiers()
	p.Touch()

	return tier, nil
}

// RemoveTier removes a band from a tiered plan
func (p *CommissionPlan) RemoveTier(tierID uuid.UUID) error {
	for idx, tier := range p.Tiers {
		if tier.ID == tierID {
			p.Tiers = append(p.Tiers[:idx], p.Tiers[idx+1:]...)
			p.Touch()
			return nil
		}
	}
	return shared.NewNotFoundError("TIER_NOT_FOUND", "Commission tier not found")
}

func overlaps(a, b *CommissionTier) bool {
	aOpen := a.ToAmount == nil
	bOpen := b.ToAmount == nil
	switch {
	case aOpen && bOpen:
		return true
	case aOpen:
		return b.ToAmount.GreaterThan(a.FromAmount)
	case bOpen:
		return a.ToAmount.GreaterThan(b.FromAmount)
	default:
		return a.FromAmount.LessThan(*b.ToAmount) && b.FromAmount.LessThan(*a.ToAmount)
	}
}

func (p *CommissionPlan) sortTiers() {
	sort.SliceStable(p.Tiers, func(i, j int) bool {
		return p.Tiers[i].FromAmount.LessThan(p.Tiers[j].FromAmount)
	})
	for idx := range p.Tiers {
		p.Tiers[idx].SortOrder = idx
	}
}

// IsEffectiveAt reports whether the plan is active and inside its date
// range at the given instant
func (p *CommissionPlan) IsEffectiveAt(at time.Time) bool {
	if !p.IsActive {
		return false
	}
	if p.StartDate != nil && at.Before(*p.StartDate) {
		return false
	}
	if p.EndDate != nil && at.After(*p.EndDate) {
		return false
	}
	return true
}

// Calculate computes the commission payable on a finalized base amount.
// An inactive or out-of-date plan fails closed with a conflict so callers
// can tell "not applicable" from "computed as zero". A minimum sale amount,
// if unmet, short-circuits to zero. A configured maximum caps the result.
func (p *CommissionPlan) Calculate(baseAmount decimal.Decimal, at time.Time) (decimal.Decimal, error) {
	if baseAmount.IsNegative() {
		return decimal.Zero, shared.NewValidationError("INVALID_AMOUNT", "Base amount cannot be negative")
	}
	if !p.IsEffectiveAt(at) {
		return decimal.Zero, shared.NewConflictError("COMMISSION_PLAN_INACTIVE", "Commission plan is inactive or outside its validity period")
	}
	if p.MinimumSaleAmount != nil && baseAmount.LessThan(*p.MinimumSaleAmount) {
		return decimal.Zero, nil
	}

	var total decimal.Decimal
	switch p.Type {
	case PlanTypeFlatRate:
		rate, err := valueobject.NewPercent(p.BaseRate)
		if err != nil {
			return decimal.Zero, shared.NewValidationError("INVALID_PLAN_RATE", "Plan base rate must be between 0 and 100")
		}
		total = rate.Of(baseAmount).Round(2)
	case PlanTypeFixedAmount:
		total = p.BaseAmount
	case PlanTypeTiered:
		total = p.walkTiers(baseAmount)
	}

	if p.MaximumCommission != nil && total.GreaterThan(*p.MaximumCommission) {
		total = *p.MaximumCommission
	}

	return total, nil
}

// walkTiers runs the tier walk: bands ordered by ascending lower bound,
// each consuming its share of the base. A base landing exactly on a band's
// lower bound belongs to that band.
func (p *CommissionPlan) walkTiers(baseAmount decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	remaining := baseAmount

	for idx := range p.Tiers {
		tier := &p.Tiers[idx]
		if !remaining.IsPositive() {
			break
		}
		if baseAmount.LessThan(tier.FromAmount) {
			continue
		}

		band := remaining
		if tier.ToAmount != nil {
			width := tier.ToAmount.Sub(tier.FromAmount)
			if width.LessThan(band) {
				band = width
			}
		}

		if tier.FixedAmount != nil {
			total = total.Add(*tier.FixedAmount)
		} else {
			rate, err := valueobject.NewPercent(tier.Rate)
			if err == nil {
				total = total.Add(rate.Of(band).Round(2))
			}
		}

		remaining = remaining.Sub(band)
	}

	return total
}
