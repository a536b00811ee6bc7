package sales

import (
	"context"

	"github.com/google/uuid"

	"github.com/erp/sales/internal/domain/shared"
)

// QuotationRepository defines the interface for quotation persistence
type QuotationRepository interface {
	// FindByIDForTenant finds a quotation by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Quotation, error)

	// FindByNumber finds a quotation by its number for a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*Quotation, error)

	// FindAllForTenant finds all quotations for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Quotation, error)

	// FindByCustomer finds quotations for a customer
	FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]Quotation, error)

	// FindByStatus finds quotations by status for a tenant
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status QuotationStatus, filter shared.Filter) ([]Quotation, error)

	// FindExpirable finds sent quotations whose expiration date has passed
	FindExpirable(ctx context.Context, tenantID uuid.UUID) ([]Quotation, error)

	// Save creates or updates a quotation
	Save(ctx context.Context, quotation *Quotation) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, quotation *Quotation) error

	// CountForTenant counts quotations for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// GenerateQuotationNumber generates the next sequential quotation number
	GenerateQuotationNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// SalesOrderRepository defines the interface for sales order persistence
type SalesOrderRepository interface {
	// FindByIDForTenant finds a sales order by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*SalesOrder, error)

	// FindByNumber finds a sales order by its number for a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*SalesOrder, error)

	// FindAllForTenant finds all sales orders for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]SalesOrder, error)

	// FindByCustomer finds sales orders for a customer
	FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]SalesOrder, error)

	// FindByStatus finds sales orders by status for a tenant
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status SalesOrderStatus, filter shared.Filter) ([]SalesOrder, error)

	// Save creates or updates a sales order
	Save(ctx context.Context, order *SalesOrder) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, order *SalesOrder) error

	// CountForTenant counts sales orders for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// GenerateOrderNumber generates the next sequential order number
	GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// SalesReturnRepository defines the interface for sales return persistence
type SalesReturnRepository interface {
	// FindByIDForTenant finds a return by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*SalesReturn, error)

	// FindByNumber finds a return by its number for a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*SalesReturn, error)

	// FindAllForTenant finds all returns for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]SalesReturn, error)

	// FindBySalesOrder finds returns raised against a sales order
	FindBySalesOrder(ctx context.Context, tenantID, salesOrderID uuid.UUID) ([]SalesReturn, error)

	// FindByStatus finds returns by status for a tenant
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status SalesReturnStatus, filter shared.Filter) ([]SalesReturn, error)

	// Save creates or updates a return
	Save(ctx context.Context, ret *SalesReturn) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, ret *SalesReturn) error

	// CountForTenant counts returns for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// GenerateReturnNumber generates the next sequential return number
	GenerateReturnNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// BackOrderRepository defines the interface for back order persistence
type BackOrderRepository interface {
	// FindByIDForTenant finds a back order by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*BackOrder, error)

	// FindBySalesOrder finds back orders for a sales order
	FindBySalesOrder(ctx context.Context, tenantID, salesOrderID uuid.UUID) ([]BackOrder, error)

	// FindOpenByProduct finds non-terminal back orders for a product
	FindOpenByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]BackOrder, error)

	// Save creates or updates a back order
	Save(ctx context.Context, backOrder *BackOrder) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, backOrder *BackOrder) error
}

// InventoryReservationRepository defines the interface for reservation
// persistence
type InventoryReservationRepository interface {
	// FindByIDForTenant finds a reservation by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*InventoryReservation, error)

	// FindBySalesOrder finds reservations for a sales order
	FindBySalesOrder(ctx context.Context, tenantID, salesOrderID uuid.UUID) ([]InventoryReservation, error)

	// FindActiveExpired finds active reservations whose expiry has passed
	FindActiveExpired(ctx context.Context, tenantID uuid.UUID) ([]InventoryReservation, error)

	// Save creates or updates a reservation
	Save(ctx context.Context, reservation *InventoryReservation) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, reservation *InventoryReservation) error
}
