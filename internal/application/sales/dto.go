package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/sales/internal/domain/sales"
)

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// ==================== Quotation DTOs ====================

// CreateQuotationRequest represents a request to create a quotation
type CreateQuotationRequest struct {
	CustomerID      uuid.UUID                  `json:"customer_id" binding:"required"`
	CustomerName    string                     `json:"customer_name" binding:"required,min=1,max=200"`
	Currency        string                     `json:"currency" binding:"omitempty,len=3"`
	Items           []CreateQuotationItemInput `json:"items"`
	ExpirationDate  *time.Time                 `json:"expiration_date"`
	SalesPersonID   *uuid.UUID                 `json:"sales_person_id"`
	SalesPersonName string                     `json:"sales_person_name"`
	PaymentTerms    string                     `json:"payment_terms"`
	DeliveryTerms   string                     `json:"delivery_terms"`
	Notes           string                     `json:"notes"`
	CreatedBy       *uuid.UUID                 `json:"-"`
}

// CreateQuotationItemInput represents a line item in the create request
type CreateQuotationItemInput struct {
	ProductID      uuid.UUID        `json:"product_id" binding:"required"`
	ProductName    string           `json:"product_name" binding:"required,min=1,max=200"`
	ProductCode    string           `json:"product_code" binding:"required,min=1,max=50"`
	Unit           string           `json:"unit" binding:"required,min=1,max=20"`
	Quantity       decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice      decimal.Decimal  `json:"unit_price" binding:"required"`
	VatRate        decimal.Decimal  `json:"vat_rate"`
	DiscountRate   *decimal.Decimal `json:"discount_rate"`
	DiscountAmount *decimal.Decimal `json:"discount_amount"`
}

// AddQuotationItemRequest represents a request to add an item to a quotation
type AddQuotationItemRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	ProductName string          `json:"product_name" binding:"required,min=1,max=200"`
	ProductCode string          `json:"product_code" binding:"required,min=1,max=50"`
	Unit        string          `json:"unit" binding:"required,min=1,max=20"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	VatRate     decimal.Decimal `json:"vat_rate"`
}

// UpdateQuotationItemRequest represents a request to update a quotation item
type UpdateQuotationItemRequest struct {
	Quantity  *decimal.Decimal `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// ApplyDiscountRequest represents a document level discount
type ApplyDiscountRequest struct {
	DiscountAmount *decimal.Decimal `json:"discount_amount"`
	DiscountRate   *decimal.Decimal `json:"discount_rate"`
}

// SetShippingRequest sets the shipping amount on a document
type SetShippingRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// RejectQuotationRequest carries the customer's rejection reason
type RejectQuotationRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// CancelRequest carries a cancellation reason
type CancelRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// QuotationItemResponse represents a quotation line item in responses
type QuotationItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	ProductName    string          `json:"product_name"`
	ProductCode    string          `json:"product_code"`
	Unit           string          `json:"unit"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountRate   decimal.Decimal `json:"discount_rate"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	VatRate        decimal.Decimal `json:"vat_rate"`
	VatAmount      decimal.Decimal `json:"vat_amount"`
	LineTotal      decimal.Decimal `json:"line_total"`
}

// QuotationResponse represents a quotation in API responses
type QuotationResponse struct {
	ID                uuid.UUID               `json:"id"`
	TenantID          uuid.UUID               `json:"tenant_id"`
	QuotationNumber   string                  `json:"quotation_number"`
	QuotationDate     time.Time               `json:"quotation_date"`
	ExpirationDate    *time.Time              `json:"expiration_date,omitempty"`
	CustomerID        uuid.UUID               `json:"customer_id"`
	CustomerName      string                  `json:"customer_name"`
	SalesPersonID     *uuid.UUID              `json:"sales_person_id,omitempty"`
	SalesPersonName   string                  `json:"sales_person_name,omitempty"`
	Currency          string                  `json:"currency"`
	Items             []QuotationItemResponse `json:"items"`
	ItemCount         int                     `json:"item_count"`
	SubTotal          decimal.Decimal         `json:"sub_total"`
	DiscountAmount    decimal.Decimal         `json:"discount_amount"`
	DiscountRate      decimal.Decimal         `json:"discount_rate"`
	VatAmount         decimal.Decimal         `json:"vat_amount"`
	ShippingAmount    decimal.Decimal         `json:"shipping_amount"`
	TotalAmount       decimal.Decimal         `json:"total_amount"`
	Status            string                  `json:"status"`
	RevisionNumber    int                     `json:"revision_number"`
	ParentQuotationID *uuid.UUID              `json:"parent_quotation_id,omitempty"`
	ConvertedToOrder  *uuid.UUID              `json:"converted_to_order,omitempty"`
	RejectionReason   string                  `json:"rejection_reason,omitempty"`
	SentAt            *time.Time              `json:"sent_at,omitempty"`
	AcceptedAt        *time.Time              `json:"accepted_at,omitempty"`
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
	Version           int                     `json:"version"`
}

// ToQuotationItemResponse converts a domain quotation item to a response DTO
func ToQuotationItemResponse(item *sales.QuotationItem) QuotationItemResponse {
	return QuotationItemResponse{
		ID:             item.ID,
		ProductID:      item.ProductID,
		ProductName:    item.ProductName,
		ProductCode:    item.ProductCode,
		Unit:           item.Unit,
		Quantity:       item.Quantity,
		UnitPrice:      item.UnitPrice,
		DiscountRate:   item.DiscountRate,
		DiscountAmount: item.DiscountAmount,
		VatRate:        item.VatRate,
		VatAmount:      item.VatAmount,
		LineTotal:      item.LineTotal,
	}
}

// ToQuotationResponse converts a domain quotation to a response DTO
func ToQuotationResponse(q *sales.Quotation) QuotationResponse {
	items := make([]QuotationItemResponse, len(q.Items))
	for i := range q.Items {
		items[i] = ToQuotationItemResponse(&q.Items[i])
	}

	return QuotationResponse{
		ID:                q.ID,
		TenantID:          q.TenantID,
		QuotationNumber:   q.QuotationNumber,
		QuotationDate:     q.QuotationDate,
		ExpirationDate:    q.ExpirationDate,
		CustomerID:        q.CustomerID,
		CustomerName:      q.CustomerName,
		SalesPersonID:     q.SalesPersonID,
		SalesPersonName:   q.SalesPersonName,
		Currency:          string(q.Currency),
		Items:             items,
		ItemCount:         q.ItemCount(),
		SubTotal:          q.SubTotal,
		DiscountAmount:    q.DocumentDiscount(),
		DiscountRate:      q.DiscountRate,
		VatAmount:         q.VatAmount,
		ShippingAmount:    q.ShippingAmount,
		TotalAmount:       q.TotalAmount,
		Status:            string(q.Status),
		RevisionNumber:    q.RevisionNumber,
		ParentQuotationID: q.ParentQuotationID,
		ConvertedToOrder:  q.ConvertedToOrder,
		RejectionReason:   q.RejectionReason,
		SentAt:            q.SentAt,
		AcceptedAt:        q.AcceptedAt,
		CreatedAt:         q.CreatedAt,
		UpdatedAt:         q.UpdatedAt,
		Version:           q.Version,
	}
}

// ==================== Sales Order DTOs ====================

// CreateSalesOrderRequest represents a request to create a sales order
// directly, without a quotation
type CreateSalesOrderRequest struct {
	CustomerID      uuid.UUID                   `json:"customer_id" binding:"required"`
	CustomerName    string                      `json:"customer_name" binding:"required,min=1,max=200"`
	Currency        string                      `json:"currency" binding:"omitempty,len=3"`
	Items           []CreateSalesOrderItemInput `json:"items"`
	DeliveryAddress string                      `json:"delivery_address"`
	PaymentTerms    string                      `json:"payment_terms"`
	SalesPersonID   *uuid.UUID                  `json:"sales_person_id"`
	SalesPersonName string                      `json:"sales_person_name"`
	Notes           string                      `json:"notes"`
	CreatedBy       *uuid.UUID                  `json:"-"`
}

// CreateSalesOrderItemInput represents an order line in the create request
type CreateSalesOrderItemInput struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	ProductName string          `json:"product_name" binding:"required,min=1,max=200"`
	ProductCode string          `json:"product_code" binding:"required,min=1,max=50"`
	Unit        string          `json:"unit" binding:"required,min=1,max=20"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	VatRate     decimal.Decimal `json:"vat_rate"`
}

// ShipItemInput represents a quantity shipped for a single order line
type ShipItemInput struct {
	ItemID   uuid.UUID       `json:"item_id" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// ShipSalesOrderRequest represents a full or partial shipment. When Items
// is empty the whole order ships. CreateBackOrders raises back orders for
// any quantities left pending after the shipment.
type ShipSalesOrderRequest struct {
	Items            []ShipItemInput `json:"items"`
	CreateBackOrders bool            `json:"create_back_orders"`
}

// SalesOrderItemResponse represents an order line in responses
type SalesOrderItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name"`
	ProductCode       string          `json:"product_code"`
	Unit              string          `json:"unit"`
	Quantity          decimal.Decimal `json:"quantity"`
	ShippedQuantity   decimal.Decimal `json:"shipped_quantity"`
	DeliveredQuantity decimal.Decimal `json:"delivered_quantity"`
	PendingQuantity   decimal.Decimal `json:"pending_quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	DiscountRate      decimal.Decimal `json:"discount_rate"`
	DiscountAmount    decimal.Decimal `json:"discount_amount"`
	VatRate           decimal.Decimal `json:"vat_rate"`
	VatAmount         decimal.Decimal `json:"vat_amount"`
	LineTotal         decimal.Decimal `json:"line_total"`
}

// SalesOrderResponse represents a sales order in API responses
type SalesOrderResponse struct {
	ID              uuid.UUID                `json:"id"`
	TenantID        uuid.UUID                `json:"tenant_id"`
	OrderNumber     string                   `json:"order_number"`
	OrderDate       time.Time                `json:"order_date"`
	CustomerID      uuid.UUID                `json:"customer_id"`
	CustomerName    string                   `json:"customer_name"`
	SalesPersonID   *uuid.UUID               `json:"sales_person_id,omitempty"`
	SalesPersonName string                   `json:"sales_person_name,omitempty"`
	QuotationID     *uuid.UUID               `json:"quotation_id,omitempty"`
	Currency        string                   `json:"currency"`
	Items           []SalesOrderItemResponse `json:"items"`
	ItemCount       int                      `json:"item_count"`
	SubTotal        decimal.Decimal          `json:"sub_total"`
	DiscountAmount  decimal.Decimal          `json:"discount_amount"`
	DiscountRate    decimal.Decimal          `json:"discount_rate"`
	VatAmount       decimal.Decimal          `json:"vat_amount"`
	ShippingAmount  decimal.Decimal          `json:"shipping_amount"`
	TotalAmount     decimal.Decimal          `json:"total_amount"`
	Status          string                   `json:"status"`
	DeliveryAddress string                   `json:"delivery_address,omitempty"`
	PaymentTerms    string                   `json:"payment_terms,omitempty"`
	ConfirmedAt     *time.Time               `json:"confirmed_at,omitempty"`
	ShippedAt       *time.Time               `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time               `json:"delivered_at,omitempty"`
	CompletedAt     *time.Time               `json:"completed_at,omitempty"`
	CancelledAt     *time.Time               `json:"cancelled_at,omitempty"`
	CancelReason    string                   `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
	Version         int                      `json:"version"`
}

// ToSalesOrderItemResponse converts a domain order item to a response DTO
func ToSalesOrderItemResponse(item *sales.SalesOrderItem) SalesOrderItemResponse {
	return SalesOrderItemResponse{
		ID:                item.ID,
		ProductID:         item.ProductID,
		ProductName:       item.ProductName,
		ProductCode:       item.ProductCode,
		Unit:              item.Unit,
		Quantity:          item.Quantity,
		ShippedQuantity:   item.ShippedQuantity,
		DeliveredQuantity: item.DeliveredQuantity,
		PendingQuantity:   item.PendingQuantity(),
		UnitPrice:         item.UnitPrice,
		DiscountRate:      item.DiscountRate,
		DiscountAmount:    item.DiscountAmount,
		VatRate:           item.VatRate,
		VatAmount:         item.VatAmount,
		LineTotal:         item.LineTotal,
	}
}

// ToSalesOrderResponse converts a domain sales order to a response DTO
func ToSalesOrderResponse(o *sales.SalesOrder) SalesOrderResponse {
	items := make([]SalesOrderItemResponse, len(o.Items))
	for i := range o.Items {
		items[i] = ToSalesOrderItemResponse(&o.Items[i])
	}

	return SalesOrderResponse{
		ID:              o.ID,
		TenantID:        o.TenantID,
		OrderNumber:     o.OrderNumber,
		OrderDate:       o.OrderDate,
		CustomerID:      o.CustomerID,
		CustomerName:    o.CustomerName,
		SalesPersonID:   o.SalesPersonID,
		SalesPersonName: o.SalesPersonName,
		QuotationID:     o.QuotationID,
		Currency:        string(o.Currency),
		Items:           items,
		ItemCount:       o.ItemCount(),
		SubTotal:        o.SubTotal,
		DiscountAmount:  o.DiscountAmount,
		DiscountRate:    o.DiscountRate,
		VatAmount:       o.VatAmount,
		ShippingAmount:  o.ShippingAmount,
		TotalAmount:     o.TotalAmount,
		Status:          string(o.Status),
		DeliveryAddress: o.DeliveryAddress,
		PaymentTerms:    o.PaymentTerms,
		ConfirmedAt:     o.ConfirmedAt,
		ShippedAt:       o.ShippedAt,
		DeliveredAt:     o.DeliveredAt,
		CompletedAt:     o.CompletedAt,
		CancelledAt:     o.CancelledAt,
		CancelReason:    o.CancelReason,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Version:         o.Version,
	}
}

// ==================== Sales Return DTOs ====================

// CreateSalesReturnRequest represents a request to create a return against
// a sales order
type CreateSalesReturnRequest struct {
	SalesOrderID uuid.UUID                    `json:"sales_order_id" binding:"required"`
	InvoiceID    *uuid.UUID                   `json:"invoice_id"`
	Reason       string                       `json:"reason" binding:"required,min=1,max=500"`
	Items        []CreateSalesReturnItemInput `json:"items" binding:"required,min=1"`
	CreatedBy    *uuid.UUID                   `json:"-"`
}

// CreateSalesReturnItemInput represents a returned line
type CreateSalesReturnItemInput struct {
	SalesOrderItemID uuid.UUID       `json:"sales_order_item_id" binding:"required"`
	Quantity         decimal.Decimal `json:"quantity" binding:"required"`
	Condition        string          `json:"condition" binding:"required"`
	Reason           string          `json:"reason" binding:"required,min=1,max=500"`
}

// RefundSalesReturnRequest carries the refund amount for a received return
type RefundSalesReturnRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// SalesReturnItemResponse represents a return line in responses
type SalesReturnItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	SalesOrderItemID uuid.UUID       `json:"sales_order_item_id"`
	ProductID        uuid.UUID       `json:"product_id"`
	ProductName      string          `json:"product_name"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	VatRate          decimal.Decimal `json:"vat_rate"`
	VatAmount        decimal.Decimal `json:"vat_amount"`
	LineTotal        decimal.Decimal `json:"line_total"`
	Condition        string          `json:"condition"`
	Reason           string          `json:"reason"`
}

// SalesReturnResponse represents a sales return in API responses
type SalesReturnResponse struct {
	ID           uuid.UUID                 `json:"id"`
	TenantID     uuid.UUID                 `json:"tenant_id"`
	ReturnNumber string                    `json:"return_number"`
	ReturnDate   time.Time                 `json:"return_date"`
	SalesOrderID uuid.UUID                 `json:"sales_order_id"`
	OrderNumber  string                    `json:"order_number"`
	InvoiceID    *uuid.UUID                `json:"invoice_id,omitempty"`
	CustomerID   uuid.UUID                 `json:"customer_id"`
	CustomerName string                    `json:"customer_name"`
	Currency     string                    `json:"currency"`
	Items        []SalesReturnItemResponse `json:"items"`
	ItemCount    int                       `json:"item_count"`
	SubTotal     decimal.Decimal           `json:"sub_total"`
	VatAmount    decimal.Decimal           `json:"vat_amount"`
	TotalAmount  decimal.Decimal           `json:"total_amount"`
	RefundAmount decimal.Decimal           `json:"refund_amount"`
	Status       string                    `json:"status"`
	Reason       string                    `json:"reason"`
	CreditNoteID *uuid.UUID                `json:"credit_note_id,omitempty"`
	ReceivedAt   *time.Time                `json:"received_at,omitempty"`
	RefundedAt   *time.Time                `json:"refunded_at,omitempty"`
	RejectReason string                    `json:"reject_reason,omitempty"`
	CreatedAt    time.Time                 `json:"created_at"`
	UpdatedAt    time.Time                 `json:"updated_at"`
	Version      int                       `json:"version"`
}

// ToSalesReturnResponse converts a domain sales return to a response DTO
func ToSalesReturnResponse(r *sales.SalesReturn) SalesReturnResponse {
	items := make([]SalesReturnItemResponse, len(r.Items))
	for i := range r.Items {
		item := &r.Items[i]
		items[i] = SalesReturnItemResponse{
			ID:               item.ID,
			SalesOrderItemID: item.SalesOrderItemID,
			ProductID:        item.ProductID,
			ProductName:      item.ProductName,
			Quantity:         item.Quantity,
			UnitPrice:        item.UnitPrice,
			VatRate:          item.VatRate,
			VatAmount:        item.VatAmount,
			LineTotal:        item.LineTotal,
			Condition:        string(item.Condition),
			Reason:           item.Reason,
		}
	}

	return SalesReturnResponse{
		ID:           r.ID,
		TenantID:     r.TenantID,
		ReturnNumber: r.ReturnNumber,
		ReturnDate:   r.ReturnDate,
		SalesOrderID: r.SalesOrderID,
		OrderNumber:  r.OrderNumber,
		InvoiceID:    r.InvoiceID,
		CustomerID:   r.CustomerID,
		CustomerName: r.CustomerName,
		Currency:     string(r.Currency),
		Items:        items,
		ItemCount:    r.ItemCount(),
		SubTotal:     r.SubTotal,
		VatAmount:    r.VatAmount,
		TotalAmount:  r.TotalAmount,
		RefundAmount: r.RefundAmount,
		Status:       string(r.Status),
		Reason:       r.Reason,
		CreditNoteID: r.CreditNoteID,
		ReceivedAt:   r.ReceivedAt,
		RefundedAt:   r.RefundedAt,
		RejectReason: r.RejectReason,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		Version:      r.Version,
	}
}

// ==================== Back Order and Reservation DTOs ====================

// RecordFulfillmentRequest records received stock against a back order
type RecordFulfillmentRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// BackOrderResponse represents a back order in API responses
type BackOrderResponse struct {
	ID                uuid.UUID       `json:"id"`
	TenantID          uuid.UUID       `json:"tenant_id"`
	BackOrderNumber   string          `json:"back_order_number"`
	SalesOrderID      uuid.UUID       `json:"sales_order_id"`
	SalesOrderItemID  uuid.UUID       `json:"sales_order_item_id"`
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name"`
	OrderedQuantity   decimal.Decimal `json:"ordered_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	BackOrderedQty    decimal.Decimal `json:"back_ordered_quantity"`
	FulfilledQty      decimal.Decimal `json:"fulfilled_quantity"`
	RemainingQty      decimal.Decimal `json:"remaining_quantity"`
	Status            string          `json:"status"`
	ExpectedAt        *time.Time      `json:"expected_at,omitempty"`
	FulfilledAt       *time.Time      `json:"fulfilled_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	Version           int             `json:"version"`
}

// ToBackOrderResponse converts a domain back order to a response DTO
func ToBackOrderResponse(b *sales.BackOrder) BackOrderResponse {
	return BackOrderResponse{
		ID:                b.ID,
		TenantID:          b.TenantID,
		BackOrderNumber:   b.BackOrderNumber,
		SalesOrderID:      b.SalesOrderID,
		SalesOrderItemID:  b.SalesOrderItemID,
		ProductID:         b.ProductID,
		ProductName:       b.ProductName,
		OrderedQuantity:   b.OrderedQuantity,
		AvailableQuantity: b.AvailableQuantity,
		BackOrderedQty:    b.BackOrderedQty,
		FulfilledQty:      b.FulfilledQty,
		RemainingQty:      b.RemainingQuantity(),
		Status:            string(b.Status),
		ExpectedAt:        b.ExpectedAt,
		FulfilledAt:       b.FulfilledAt,
		CreatedAt:         b.CreatedAt,
		Version:           b.Version,
	}
}

// CreateReservationRequest reserves stock for a sales order line
type CreateReservationRequest struct {
	SalesOrderID     uuid.UUID       `json:"sales_order_id" binding:"required"`
	SalesOrderItemID uuid.UUID       `json:"sales_order_item_id" binding:"required"`
	ProductID        uuid.UUID       `json:"product_id" binding:"required"`
	WarehouseID      uuid.UUID       `json:"warehouse_id" binding:"required"`
	Quantity         decimal.Decimal `json:"quantity" binding:"required"`
	ExpiresAt        *time.Time      `json:"expires_at"`
}

// ConsumeReservationRequest consumes part of an active reservation
type ConsumeReservationRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// ReservationResponse represents an inventory reservation in responses
type ReservationResponse struct {
	ID               uuid.UUID       `json:"id"`
	TenantID         uuid.UUID       `json:"tenant_id"`
	SalesOrderID     uuid.UUID       `json:"sales_order_id"`
	SalesOrderItemID uuid.UUID       `json:"sales_order_item_id"`
	ProductID        uuid.UUID       `json:"product_id"`
	WarehouseID      uuid.UUID       `json:"warehouse_id"`
	ReservedQuantity decimal.Decimal `json:"reserved_quantity"`
	ConsumedQuantity decimal.Decimal `json:"consumed_quantity"`
	RemainingQty     decimal.Decimal `json:"remaining_quantity"`
	Status           string          `json:"status"`
	ExpiresAt        *time.Time      `json:"expires_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	Version          int             `json:"version"`
}

// ToReservationResponse converts a domain reservation to a response DTO
func ToReservationResponse(r *sales.InventoryReservation) ReservationResponse {
	return ReservationResponse{
		ID:               r.ID,
		TenantID:         r.TenantID,
		SalesOrderID:     r.SalesOrderID,
		SalesOrderItemID: r.SalesOrderItemID,
		ProductID:        r.ProductID,
		WarehouseID:      r.WarehouseID,
		ReservedQuantity: r.ReservedQuantity,
		ConsumedQuantity: r.ConsumedQuantity,
		RemainingQty:     r.RemainingQuantity(),
		Status:           string(r.Status),
		ExpiresAt:        r.ExpiresAt,
		CreatedAt:        r.CreatedAt,
		Version:          r.Version,
	}
}
