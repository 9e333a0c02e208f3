package delivery

import (
	"net/http"
	"strconv"

	orderdto "optiledger-backend/internal/order/dto"
	"optiledger-backend/internal/order/usecase"

	"github.com/gin-gonic/gin"
)

// OrderHandler handles order ledger HTTP requests
type OrderHandler struct {
	orderUsecase usecase.OrderUsecase
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderUsecase usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{
		orderUsecase: orderUsecase,
	}
}

// GetOrders returns the account's orders, newest first
// GET /api/orders?vendor=safilo&status=pending&limit=20&offset=0
func (h *OrderHandler) GetOrders(c *gin.Context) {
	accountID := c.GetString("accountID")

	vendorID := c.Query("vendor")
	var status *string
	if s := c.Query("status"); s != "" {
		status = &s
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	orders, total, err := h.orderUsecase.ListOrders(accountID, vendorID, status, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, orderdto.OrdersResponse{
		Orders: orders,
		Limit:  limit,
		Offset: offset,
		Total:  total,
	})
}

// GetOrderByID returns one order with its line items
// GET /api/orders/:id
func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	accountID := c.GetString("accountID")
	orderID := c.Param("id")

	order, err := h.orderUsecase.GetOrder(accountID, orderID)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// UpdateItemReceived flips one item's receiving flag and returns the
// refreshed order with its recomputed status
// PATCH /api/orders/items/:id/received
func (h *OrderHandler) UpdateItemReceived(c *gin.Context) {
	accountID := c.GetString("accountID")
	itemID := c.Param("id")

	var req orderdto.UpdateReceivedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orderUsecase.SetItemReceived(accountID, itemID, req.Received, req.ReceivedDate)
	if err != nil {
		if err.Error() == "invalid received state" {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func respondOrderError(c *gin.Context, err error) {
	switch err.Error() {
	case "order not found", "line item not found":
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case "unauthorized":
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
