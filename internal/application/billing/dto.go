package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/sales/internal/domain/billing"
)

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// ==================== Invoice DTOs ====================

// CreateInvoiceRequest represents a request to create an invoice
type CreateInvoiceRequest struct {
	CustomerID   uuid.UUID                `json:"customer_id" binding:"required"`
	CustomerName string                   `json:"customer_name" binding:"required,min=1,max=200"`
	Currency     string                   `json:"currency" binding:"omitempty,len=3"`
	SalesOrderID *uuid.UUID               `json:"sales_order_id"`
	OrderNumber  string                   `json:"order_number"`
	Items        []CreateInvoiceItemInput `json:"items"`
	DueDate      *time.Time               `json:"due_date"`
	Notes        string                   `json:"notes"`
	CreatedBy    *uuid.UUID               `json:"-"`
}

// CreateInvoiceItemInput represents an invoice line in the create request
type CreateInvoiceItemInput struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	ProductName string          `json:"product_name" binding:"required,min=1,max=200"`
	ProductCode string          `json:"product_code" binding:"required,min=1,max=50"`
	Unit        string          `json:"unit" binding:"required,min=1,max=20"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	VatRate     decimal.Decimal `json:"vat_rate"`
}

// AddInvoiceItemRequest represents a request to add an item to a draft
// invoice
type AddInvoiceItemRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	ProductName string          `json:"product_name" binding:"required,min=1,max=200"`
	ProductCode string          `json:"product_code" binding:"required,min=1,max=50"`
	Unit        string          `json:"unit" binding:"required,min=1,max=20"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	VatRate     decimal.Decimal `json:"vat_rate"`
}

// ApplyDiscountRequest represents a document level discount
type ApplyDiscountRequest struct {
	DiscountAmount *decimal.Decimal `json:"discount_amount"`
	DiscountRate   *decimal.Decimal `json:"discount_rate"`
}

// CancelRequest carries a cancellation reason
type CancelRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// InvoiceItemResponse represents an invoice line in responses
type InvoiceItemResponse struct {
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

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID              uuid.UUID             `json:"id"`
	TenantID        uuid.UUID             `json:"tenant_id"`
	InvoiceNumber   string                `json:"invoice_number"`
	InvoiceDate     time.Time             `json:"invoice_date"`
	DueDate         *time.Time            `json:"due_date,omitempty"`
	CustomerID      uuid.UUID             `json:"customer_id"`
	CustomerName    string                `json:"customer_name"`
	SalesOrderID    *uuid.UUID            `json:"sales_order_id,omitempty"`
	OrderNumber     string                `json:"order_number,omitempty"`
	Currency        string                `json:"currency"`
	Items           []InvoiceItemResponse `json:"items"`
	ItemCount       int                   `json:"item_count"`
	SubTotal        decimal.Decimal       `json:"sub_total"`
	DiscountAmount  decimal.Decimal       `json:"discount_amount"`
	DiscountRate    decimal.Decimal       `json:"discount_rate"`
	VatAmount       decimal.Decimal       `json:"vat_amount"`
	ShippingAmount  decimal.Decimal       `json:"shipping_amount"`
	TotalAmount     decimal.Decimal       `json:"total_amount"`
	PaidAmount      decimal.Decimal       `json:"paid_amount"`
	RemainingAmount decimal.Decimal       `json:"remaining_amount"`
	Status          string                `json:"status"`
	Overdue         bool                  `json:"overdue"`
	IssuedAt        *time.Time            `json:"issued_at,omitempty"`
	SentAt          *time.Time            `json:"sent_at,omitempty"`
	PaidAt          *time.Time            `json:"paid_at,omitempty"`
	CancelledAt     *time.Time            `json:"cancelled_at,omitempty"`
	CancelReason    string                `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	Version         int                   `json:"version"`
}

// ToInvoiceResponse converts a domain invoice to a response DTO
func ToInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, len(inv.Items))
	for i := range inv.Items {
		item := &inv.Items[i]
		items[i] = InvoiceItemResponse{
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

	return InvoiceResponse{
		ID:              inv.ID,
		TenantID:        inv.TenantID,
		InvoiceNumber:   inv.InvoiceNumber,
		InvoiceDate:     inv.InvoiceDate,
		DueDate:         inv.DueDate,
		CustomerID:      inv.CustomerID,
		CustomerName:    inv.CustomerName,
		SalesOrderID:    inv.SalesOrderID,
		OrderNumber:     inv.OrderNumber,
		Currency:        string(inv.Currency),
		Items:           items,
		ItemCount:       inv.ItemCount(),
		SubTotal:        inv.SubTotal,
		DiscountAmount:  inv.DiscountAmount,
		DiscountRate:    inv.DiscountRate,
		VatAmount:       inv.VatAmount,
		ShippingAmount:  inv.ShippingAmount,
		TotalAmount:     inv.TotalAmount,
		PaidAmount:      inv.PaidAmount,
		RemainingAmount: inv.RemainingAmount(),
		Status:          string(inv.Status),
		Overdue:         inv.IsOverdue(),
		IssuedAt:        inv.IssuedAt,
		SentAt:          inv.SentAt,
		PaidAt:          inv.PaidAt,
		CancelledAt:     inv.CancelledAt,
		CancelReason:    inv.CancelReason,
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
		Version:         inv.Version,
	}
}

// ==================== Payment DTOs ====================

// RecordPaymentRequest records a payment received against an invoice
type RecordPaymentRequest struct {
	InvoiceID uuid.UUID       `json:"invoice_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Method    string          `json:"method" binding:"required"`
	Reference string          `json:"reference"`
	CreatedBy *uuid.UUID      `json:"-"`
}

// ReversePaymentRequest reverses a completed payment
type ReversePaymentRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID            uuid.UUID       `json:"id"`
	TenantID      uuid.UUID       `json:"tenant_id"`
	PaymentNumber string          `json:"payment_number"`
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	Currency      string          `json:"currency"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	Reference     string          `json:"reference,omitempty"`
	Status        string          `json:"status"`
	PaymentDate   time.Time       `json:"payment_date"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	FailedAt      *time.Time      `json:"failed_at,omitempty"`
	FailReason    string          `json:"fail_reason,omitempty"`
	ReversedAt    *time.Time      `json:"reversed_at,omitempty"`
	ReverseReason string          `json:"reverse_reason,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	Version       int             `json:"version"`
}

// ToPaymentResponse converts a domain payment to a response DTO
func ToPaymentResponse(p *billing.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		TenantID:      p.TenantID,
		PaymentNumber: p.PaymentNumber,
		InvoiceID:     p.InvoiceID,
		InvoiceNumber: p.InvoiceNumber,
		CustomerID:    p.CustomerID,
		CustomerName:  p.CustomerName,
		Currency:      string(p.Currency),
		Amount:        p.Amount,
		Method:        string(p.Method),
		Reference:     p.Reference,
		Status:        string(p.Status),
		PaymentDate:   p.PaymentDate,
		CompletedAt:   p.CompletedAt,
		FailedAt:      p.FailedAt,
		FailReason:    p.FailReason,
		ReversedAt:    p.ReversedAt,
		ReverseReason: p.ReverseReason,
		CreatedAt:     p.CreatedAt,
		Version:       p.Version,
	}
}

// ==================== Advance Payment DTOs ====================

// CreateAdvancePaymentRequest records a deposit received from a customer
type CreateAdvancePaymentRequest struct {
	CustomerID   uuid.UUID       `json:"customer_id" binding:"required"`
	CustomerName string          `json:"customer_name" binding:"required,min=1,max=200"`
	Currency     string          `json:"currency" binding:"omitempty,len=3"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Method       string          `json:"method" binding:"required"`
	SalesOrderID *uuid.UUID      `json:"sales_order_id"`
	OrderNumber  string          `json:"order_number"`
	Notes        string          `json:"notes"`
	CreatedBy    *uuid.UUID      `json:"-"`
}

// ApplyAdvanceRequest applies part of an advance balance to an invoice
type ApplyAdvanceRequest struct {
	InvoiceID uuid.UUID       `json:"invoice_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
}

// ReverseAdvanceApplicationRequest reverses a prior application
type ReverseAdvanceApplicationRequest struct {
	InvoiceID uuid.UUID       `json:"invoice_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
}

// RefundAdvanceRequest refunds part of an unapplied advance balance
type RefundAdvanceRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

// AdvanceApplicationResponse represents a single application record
type AdvanceApplicationResponse struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Amount        decimal.Decimal `json:"amount"`
	AppliedAt     time.Time       `json:"applied_at"`
}

// AdvancePaymentResponse represents an advance payment in API responses
type AdvancePaymentResponse struct {
	ID             uuid.UUID                    `json:"id"`
	TenantID       uuid.UUID                    `json:"tenant_id"`
	AdvanceNumber  string                       `json:"advance_number"`
	CustomerID     uuid.UUID                    `json:"customer_id"`
	CustomerName   string                       `json:"customer_name"`
	SalesOrderID   *uuid.UUID                   `json:"sales_order_id,omitempty"`
	OrderNumber    string                       `json:"order_number,omitempty"`
	Currency       string                       `json:"currency"`
	Amount         decimal.Decimal              `json:"amount"`
	AppliedAmount  decimal.Decimal              `json:"applied_amount"`
	RefundedAmount decimal.Decimal              `json:"refunded_amount"`
	RemainingAmt   decimal.Decimal              `json:"remaining_amount"`
	Method         string                       `json:"method"`
	Status         string                       `json:"status"`
	ReceivedAt     time.Time                    `json:"received_at"`
	Applications   []AdvanceApplicationResponse `json:"applications"`
	CapturedAt     *time.Time                   `json:"captured_at,omitempty"`
	RefundedAt     *time.Time                   `json:"refunded_at,omitempty"`
	CancelledAt    *time.Time                   `json:"cancelled_at,omitempty"`
	CancelReason   string                       `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time                    `json:"created_at"`
	UpdatedAt      time.Time                    `json:"updated_at"`
	Version        int                          `json:"version"`
}

// ToAdvancePaymentResponse converts a domain advance payment to a response
// DTO
func ToAdvancePaymentResponse(a *billing.AdvancePayment) AdvancePaymentResponse {
	applications := make([]AdvanceApplicationResponse, len(a.Applications))
	for i := range a.Applications {
		app := &a.Applications[i]
		applications[i] = AdvanceApplicationResponse{
			ID:            app.ID,
			InvoiceID:     app.InvoiceID,
			InvoiceNumber: app.InvoiceNumber,
			Amount:        app.Amount,
			AppliedAt:     app.AppliedAt,
		}
	}

	return AdvancePaymentResponse{
		ID:             a.ID,
		TenantID:       a.TenantID,
		AdvanceNumber:  a.AdvanceNumber,
		CustomerID:     a.CustomerID,
		CustomerName:   a.CustomerName,
		SalesOrderID:   a.SalesOrderID,
		OrderNumber:    a.OrderNumber,
		Currency:       string(a.Currency),
		Amount:         a.Amount,
		AppliedAmount:  a.AppliedAmount,
		RefundedAmount: a.RefundedAmount,
		RemainingAmt:   a.RemainingAmount(),
		Method:         string(a.Method),
		Status:         string(a.Status),
		ReceivedAt:     a.ReceivedAt,
		Applications:   applications,
		CapturedAt:     a.CapturedAt,
		RefundedAt:     a.RefundedAt,
		CancelledAt:    a.CancelledAt,
		CancelReason:   a.CancelReason,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
		Version:        a.Version,
	}
}

// ==================== Credit Note DTOs ====================

// CreateCreditNoteRequest creates a draft credit note against an invoice
type CreateCreditNoteRequest struct {
	InvoiceID uuid.UUID                   `json:"invoice_id" binding:"required"`
	Reason    string                      `json:"reason" binding:"required,min=1,max=500"`
	Items     []CreateCreditNoteItemInput `json:"items" binding:"required,min=1"`
	CreatedBy *uuid.UUID                  `json:"-"`
}

// CreateCreditNoteItemInput represents a credited line
type CreateCreditNoteItemInput struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	ProductName string          `json:"product_name" binding:"required,min=1,max=200"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	VatRate     decimal.Decimal `json:"vat_rate"`
}

// ApplyCreditNoteRequest applies part of an issued credit note to an
// invoice
type ApplyCreditNoteRequest struct {
	InvoiceID uuid.UUID       `json:"invoice_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Reference string          `json:"reference"`
}

// RejectCreditNoteRequest carries the rejection reason
type RejectCreditNoteRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// VoidCreditNoteRequest carries the void reason
type VoidCreditNoteRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// CreditNoteApplicationResponse represents a single application record
type CreditNoteApplicationResponse struct {
	ID        uuid.UUID       `json:"id"`
	InvoiceID uuid.UUID       `json:"invoice_id"`
	Reference string          `json:"reference,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	AppliedAt time.Time       `json:"applied_at"`
}

// CreditNoteItemResponse represents a credited line in responses
type CreditNoteItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	VatRate     decimal.Decimal `json:"vat_rate"`
	VatAmount   decimal.Decimal `json:"vat_amount"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// CreditNoteResponse represents a credit note in API responses
type CreditNoteResponse struct {
	ID               uuid.UUID                       `json:"id"`
	TenantID         uuid.UUID                       `json:"tenant_id"`
	CreditNoteNumber string                          `json:"credit_note_number"`
	CreditNoteDate   time.Time                       `json:"credit_note_date"`
	InvoiceID        uuid.UUID                       `json:"invoice_id"`
	InvoiceNumber    string                          `json:"invoice_number"`
	SalesReturnID    *uuid.UUID                      `json:"sales_return_id,omitempty"`
	ReturnNumber     string                          `json:"return_number,omitempty"`
	CustomerID       uuid.UUID                       `json:"customer_id"`
	CustomerName     string                          `json:"customer_name"`
	Currency         string                          `json:"currency"`
	Reason           string                          `json:"reason"`
	Items            []CreditNoteItemResponse        `json:"items"`
	ItemCount        int                             `json:"item_count"`
	SubTotal         decimal.Decimal                 `json:"sub_total"`
	VatAmount        decimal.Decimal                 `json:"vat_amount"`
	TotalAmount      decimal.Decimal                 `json:"total_amount"`
	AppliedAmount    decimal.Decimal                 `json:"applied_amount"`
	RemainingAmt     decimal.Decimal                 `json:"remaining_amount"`
	Status           string                          `json:"status"`
	Applications     []CreditNoteApplicationResponse `json:"applications"`
	IssuedAt         *time.Time                      `json:"issued_at,omitempty"`
	RejectReason     string                          `json:"reject_reason,omitempty"`
	VoidReason       string                          `json:"void_reason,omitempty"`
	CreatedAt        time.Time                       `json:"created_at"`
	UpdatedAt        time.Time                       `json:"updated_at"`
	Version          int                             `json:"version"`
}

// ToCreditNoteResponse converts a domain credit note to a response DTO
func ToCreditNoteResponse(cn *billing.CreditNote) CreditNoteResponse {
	items := make([]CreditNoteItemResponse, len(cn.Items))
	for i := range cn.Items {
		item := &cn.Items[i]
		items[i] = CreditNoteItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			VatRate:     item.VatRate,
			VatAmount:   item.VatAmount,
			LineTotal:   item.LineTotal,
		}
	}

	applications := make([]CreditNoteApplicationResponse, len(cn.Applications))
	for i := range cn.Applications {
		app := &cn.Applications[i]
		applications[i] = CreditNoteApplicationResponse{
			ID:        app.ID,
			InvoiceID: app.InvoiceID,
			Reference: app.Reference,
			Amount:    app.Amount,
			AppliedAt: app.AppliedAt,
		}
	}

	return CreditNoteResponse{
		ID:               cn.ID,
		TenantID:         cn.TenantID,
		CreditNoteNumber: cn.CreditNoteNumber,
		CreditNoteDate:   cn.CreditNoteDate,
		InvoiceID:        cn.InvoiceID,
		InvoiceNumber:    cn.InvoiceNumber,
		SalesReturnID:    cn.SalesReturnID,
		ReturnNumber:     cn.ReturnNumber,
		CustomerID:       cn.CustomerID,
		CustomerName:     cn.CustomerName,
		Currency:         string(cn.Currency),
		Reason:           cn.Reason,
		Items:            items,
		ItemCount:        cn.ItemCount(),
		SubTotal:         cn.SubTotal,
		VatAmount:        cn.VatAmount,
		TotalAmount:      cn.TotalAmount,
		AppliedAmount:    cn.AppliedAmount,
		RemainingAmt:     cn.RemainingAmount(),
		Status:           string(cn.Status),
		Applications:     applications,
		IssuedAt:         cn.IssuedAt,
		RejectReason:     cn.RejectReason,
		VoidReason:       cn.VoidReason,
		CreatedAt:        cn.CreatedAt,
		UpdatedAt:        cn.UpdatedAt,
		Version:          cn.Version,
	}
}
