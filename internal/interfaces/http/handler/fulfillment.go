package handler

import (
	"github.com/gin-gonic/gin"

	salesapp "github.com/erp/sales/internal/application/sales"
)

// FulfillmentHandler handles back order and reservation API endpoints
type FulfillmentHandler struct {
	BaseHandler
	fulfillmentService *salesapp.FulfillmentService
}

// NewFulfillmentHandler creates a new FulfillmentHandler
func NewFulfillmentHandler(fulfillmentService *salesapp.FulfillmentService) *FulfillmentHandler {
	return &FulfillmentHandler{fulfillmentService: fulfillmentService}
}

// GetBackOrder retrieves a back order by ID
func (h *FulfillmentHandler) GetBackOrder(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	backOrderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid back order ID format")
		return
	}

	backOrder, err := h.fulfillmentService.GetBackOrder(c.Request.Context(), tenantID, backOrderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, backOrder)
}

// ListBackOrdersForOrder lists the back orders raised for a sales order
func (h *FulfillmentHandler) ListBackOrdersForOrder(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid order ID format")
		return
	}

	backOrders, err := h.fulfillmentService.ListBackOrdersForOrder(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, backOrders)
}

// RecordFulfillment records restocked quantity against an open back order
func (h *FulfillmentHandler) RecordFulfillment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	backOrderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid back order ID format")
		return
	}

	var req salesapp.RecordFulfillmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	backOrder, err := h.fulfillmentService.RecordFulfillment(c.Request.Context(), tenantID, backOrderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, backOrder)
}

// CancelBackOrder cancels an open back order
func (h *FulfillmentHandler) CancelBackOrder(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	backOrderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid back order ID format")
		return
	}

	var req salesapp.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	backOrder, err := h.fulfillmentService.CancelBackOrder(c.Request.Context(), tenantID, backOrderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, backOrder)
}

// Reserve places an inventory reservation for an order line
func (h *FulfillmentHandler) Reserve(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}

	var req salesapp.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	reservation, err := h.fulfillmentService.Reserve(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, reservation)
}

// ListReservationsForOrder lists the reservations held for a sales order
func (h *FulfillmentHandler) ListReservationsForOrder(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid order ID format")
		return
	}

	reservations, err := h.fulfillmentService.ListReservationsForOrder(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reservations)
}

// Consume consumes part of an active reservation at shipment
func (h *FulfillmentHandler) Consume(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	reservationID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid reservation ID format")
		return
	}

	var req salesapp.ConsumeReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	reservation, err := h.fulfillmentService.Consume(c.Request.Context(), tenantID, reservationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reservation)
}

// Release releases an active reservation back to free stock
func (h *FulfillmentHandler) Release(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}
	reservationID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid reservation ID format")
		return
	}

	reservation, err := h.fulfillmentService.Release(c.Request.Context(), tenantID, reservationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reservation)
}

// ExpireReservations releases all reservations past their expiry
func (h *FulfillmentHandler) ExpireReservations(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}

	count, err := h.fulfillmentService.ExpireDue(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"expired": count})
}
