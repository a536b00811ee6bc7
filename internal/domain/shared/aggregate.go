package shared

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/sales/internal/domain/shared/valueobject"
)

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version      int           `gorm:"not null;default:1"`
	domainEvents []DomainEvent `gorm:"-"`
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// AddDomainEvent adds a domain event to be published
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntity(),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}

// TenantAggregateRoot extends BaseAggregateRoot with multi-tenant support.
// The tenant identifier is supplied by the caller; this layer does not
// authenticate or resolve tenancy.
type TenantAggregateRoot struct {
	BaseAggregateRoot
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid;index"`
}

// NewTenantAggregateRoot creates a new tenant-scoped aggregate root
func NewTenantAggregateRoot(tenantID uuid.UUID) TenantAggregateRoot {
	return TenantAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		TenantID:          tenantID,
	}
}

// SetCreatedBy sets the creator user ID
func (t *TenantAggregateRoot) SetCreatedBy(userID uuid.UUID) {
	t.CreatedBy = &userID
}

// DocumentRoot extends TenantAggregateRoot with the attributes every
// business document carries: a currency code, an exchange rate against the
// tenant's base currency (default 1) and free-text notes. Monetary fields on
// a document are denominated in Currency; conversion is a single multiply by
// ExchangeRate and nothing more.
type DocumentRoot struct {
	TenantAggregateRoot
	Currency     valueobject.Currency `gorm:"type:varchar(3);not null;default:TRY"`
	ExchangeRate decimal.Decimal      `gorm:"type:decimal(18,6);not null;default:1"`
	Notes        string               `gorm:"type:varchar(2000)"`
}

// NewDocumentRoot creates a new document root in the given currency with an
// exchange rate of 1
func NewDocumentRoot(tenantID uuid.UUID, currency valueobject.Currency) DocumentRoot {
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	return DocumentRoot{
		TenantAggregateRoot: NewTenantAggregateRoot(tenantID),
		Currency:            currency,
		ExchangeRate:        decimal.NewFromInt(1),
	}
}

// SetExchangeRate sets the exchange rate against the base currency
func (d *DocumentRoot) SetExchangeRate(rate decimal.Decimal) error {
	if rate.LessThanOrEqual(decimal.Zero) {
		return NewValidationError("INVALID_EXCHANGE_RATE", "Exchange rate must be positive")
	}
	d.ExchangeRate = rate
	d.Touch()
	return nil
}

// SetNotes sets the free-text notes
func (d *DocumentRoot) SetNotes(notes string) {
	d.Notes = notes
	d.Touch()
}
