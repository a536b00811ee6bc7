package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	billingapp "github.com/erp/sales/internal/application/billing"
	salesapp "github.com/erp/sales/internal/application/sales"
	"github.com/erp/sales/internal/infrastructure/persistence"
	"github.com/erp/sales/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testServer wires the handlers against an in-memory database so requests
// exercise the full stack below the HTTP layer.
func testServer(t *testing.T) *gin.Engine {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, persistence.AutoMigrate(db))

	quotationRepo := persistence.NewGormQuotationRepository(db)
	orderRepo := persistence.NewGormSalesOrderRepository(db)
	backOrderRepo := persistence.NewGormBackOrderRepository(db)
	invoiceRepo := persistence.NewGormInvoiceRepository(db)
	paymentRepo := persistence.NewGormPaymentRepository(db)

	quotationHandler := NewQuotationHandler(salesapp.NewQuotationService(quotationRepo, orderRepo))
	orderHandler := NewSalesOrderHandler(salesapp.NewSalesOrderService(orderRepo, backOrderRepo))
	invoiceHandler := NewInvoiceHandler(billingapp.NewInvoiceService(invoiceRepo))
	paymentService := billingapp.NewPaymentService(paymentRepo, invoiceRepo)
	paymentService.SetTransactionManager(persistence.NewGormTransactionManager(db))
	paymentHandler := NewPaymentHandler(paymentService)

	middleware.SetupValidator()
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tenant(middleware.DefaultTenantConfig()))

	api := engine.Group("/api/v1")
	quotationHandler.RegisterRoutes(api)
	orderHandler.RegisterRoutes(api)
	invoiceHandler.RegisterRoutes(api)
	paymentHandler.RegisterRoutes(api)

	return engine
}

type apiEnvelope struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data"`
	Error   *struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
		Details   []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	} `json:"error"`
	Meta *struct {
		Total    int64 `json:"total"`
		Page     int   `json:"page"`
		PageSize int   `json:"page_size"`
	} `json:"meta"`
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any, headers map[string]string) (*httptest.ResponseRecorder, apiEnvelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var envelope apiEnvelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	}
	return w, envelope
}

// assertDecimal compares decimal JSON values without caring about scale
func assertDecimal(t *testing.T, want string, got any) {
	t.Helper()
	raw, ok := got.(string)
	require.True(t, ok, "expected decimal string, got %T", got)
	assert.True(t, decimal.RequireFromString(want).Equal(decimal.RequireFromString(raw)),
		"expected %s, got %s", want, raw)
}

func TestQuotationLifecycleOverHTTP(t *testing.T) {
	engine := testServer(t)
	approver := map[string]string{"X-User-ID": uuid.New().String()}

	createBody := map[string]any{
		"customer_id":   uuid.New().String(),
		"customer_name": "Acme Corp",
		"items": []map[string]any{
			{
				"product_id":   uuid.New().String(),
				"product_name": "Widget",
				"product_code": "WID-1",
				"unit":         "pcs",
				"quantity":     "2",
				"unit_price":   "100",
				"vat_rate":     "20",
			},
		},
	}

	w, envelope := doJSON(t, engine, http.MethodPost, "/api/v1/quotations", createBody, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.True(t, envelope.Success)
	quotationID := envelope.Data["id"].(string)
	assert.Equal(t, "DRAFT", envelope.Data["status"])
	assertDecimal(t, "240", envelope.Data["total_amount"])

	for _, step := range []struct {
		path    string
		headers map[string]string
		status  string
	}{
		{"/submit", nil, "SUBMITTED"},
		{"/approve", approver, "APPROVED"},
		{"/send", nil, "SENT"},
		{"/accept", nil, "ACCEPTED"},
	} {
		w, envelope = doJSON(t, engine, http.MethodPost, "/api/v1/quotations/"+quotationID+step.path, nil, step.headers)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, step.status, envelope.Data["status"])
	}

	w, envelope = doJSON(t, engine, http.MethodPost, "/api/v1/quotations/"+quotationID+"/convert", nil, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	orderNumber := envelope.Data["order_number"].(string)
	assert.Contains(t, orderNumber, "SO-")

	w, envelope = doJSON(t, engine, http.MethodGet, "/api/v1/sales-orders?search="+orderNumber, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, envelope.Meta)
	assert.Equal(t, int64(1), envelope.Meta.Total)
}

func TestQuotationApproveRequiresUser(t *testing.T) {
	engine := testServer(t)

	w, envelope := doJSON(t, engine, http.MethodPost, "/api/v1/quotations/"+uuid.New().String()+"/approve", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "BAD_REQUEST", envelope.Error.Code)
}

func TestErrorMapping(t *testing.T) {
	engine := testServer(t)

	t.Run("unknown quotation maps to 404", func(t *testing.T) {
		w, envelope := doJSON(t, engine, http.MethodGet, "/api/v1/quotations/"+uuid.New().String(), nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "NOT_FOUND", envelope.Error.Code)
		assert.NotEmpty(t, envelope.Error.RequestID)
	})

	t.Run("malformed ID maps to 400", func(t *testing.T) {
		w, _ := doJSON(t, engine, http.MethodGet, "/api/v1/quotations/not-a-uuid", nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing required fields map to 400 with field details", func(t *testing.T) {
		w, envelope := doJSON(t, engine, http.MethodPost, "/api/v1/quotations", map[string]any{}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
		fields := make([]string, 0, len(envelope.Error.Details))
		for _, d := range envelope.Error.Details {
			fields = append(fields, d.Field)
		}
		assert.Contains(t, fields, "customer_id")
		assert.Contains(t, fields, "customer_name")
	})

	t.Run("invalid state transition maps to 409", func(t *testing.T) {
		createBody := map[string]any{
			"customer_id":   uuid.New().String(),
			"customer_name": "Globex",
		}
		w, envelope := doJSON(t, engine, http.MethodPost, "/api/v1/quotations", createBody, nil)
		require.Equal(t, http.StatusCreated, w.Code)
		quotationID := envelope.Data["id"].(string)

		// A draft cannot be accepted before it is sent
		w, envelope = doJSON(t, engine, http.MethodPost, "/api/v1/quotations/"+quotationID+"/accept", nil, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
		require.NotNil(t, envelope.Error)
	})
}

func TestInvoicePaymentFlowOverHTTP(t *testing.T) {
	engine := testServer(t)

	createBody := map[string]any{
		"customer_id":   uuid.New().String(),
		"customer_name": "Initech",
		"items": []map[string]any{
			{
				"product_id":   uuid.New().String(),
				"product_name": "Service",
				"product_code": "SVC-1",
				"unit":         "hr",
				"quantity":     "1",
				"unit_price":   "500",
				"vat_rate":     "0",
			},
		},
	}

	w, envelope := doJSON(t, engine, http.MethodPost, "/api/v1/invoices", createBody, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	invoiceID := envelope.Data["id"].(string)

	w, envelope = doJSON(t, engine, http.MethodPost, "/api/v1/invoices/"+invoiceID+"/issue", nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "ISSUED", envelope.Data["status"])

	paymentBody := map[string]any{
		"invoice_id": invoiceID,
		"amount":     "200",
		"method":     "BANK_TRANSFER",
	}
	w, envelope = doJSON(t, engine, http.MethodPost, "/api/v1/payments", paymentBody, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	paymentID := envelope.Data["id"].(string)

	w, envelope = doJSON(t, engine, http.MethodGet, "/api/v1/invoices/"+invoiceID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PARTIALLY_PAID", envelope.Data["status"])
	assertDecimal(t, "200", envelope.Data["paid_amount"])

	w, envelope = doJSON(t, engine, http.MethodGet, fmt.Sprintf("/api/v1/invoices/%s/payments", invoiceID), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, envelope = doJSON(t, engine, http.MethodPost, "/api/v1/payments/"+paymentID+"/reverse", map[string]any{"reason": "bounced"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "REVERSED", envelope.Data["status"])

	w, envelope = doJSON(t, engine, http.MethodGet, "/api/v1/invoices/"+invoiceID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ISSUED", envelope.Data["status"])
}

func TestTenantIsolationOverHTTP(t *testing.T) {
	engine := testServer(t)
	tenantA := map[string]string{"X-Tenant-ID": uuid.New().String()}
	tenantB := map[string]string{"X-Tenant-ID": uuid.New().String()}

	createBody := map[string]any{
		"customer_id":   uuid.New().String(),
		"customer_name": "Acme Corp",
	}
	w, envelope := doJSON(t, engine, http.MethodPost, "/api/v1/quotations", createBody, tenantA)
	require.Equal(t, http.StatusCreated, w.Code)
	quotationID := envelope.Data["id"].(string)

	w, _ = doJSON(t, engine, http.MethodGet, "/api/v1/quotations/"+quotationID, nil, tenantB)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, engine, http.MethodGet, "/api/v1/quotations/"+quotationID, nil, tenantA)
	assert.Equal(t, http.StatusOK, w.Code)
}
