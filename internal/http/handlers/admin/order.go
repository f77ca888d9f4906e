package admin

import (
	"strconv"
	"strings"

	"github.com/freshcart-shop/freshcart/internal/http/response"
	"github.com/freshcart-shop/freshcart/internal/models"
	"github.com/freshcart-shop/freshcart/internal/repository"

	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest moves an order along the fulfillment flow.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// RefundRequest triggers a gateway refund. Amount is a decimal string;
// empty means refund the full remaining balance.
type RefundRequest struct {
	Amount string `json:"amount"`
}

// ListOrders pages through all orders for the back office.
func (h *Handler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	filter := repository.OrderListFilter{
		Page:          page,
		PageSize:      pageSize,
		Status:        strings.TrimSpace(c.Query("status")),
		PaymentStatus: strings.TrimSpace(c.Query("payment_status")),
		OrderNo:       strings.TrimSpace(c.Query("order_no")),
	}
	if raw := c.Query("user_id"); raw != "" {
		if userID, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.UserID = uint(userID)
		}
	}

	orders, total, err := h.OrderService.ListOrders(filter)
	if err != nil {
		respondWithMappedError(c, err, orderHandlerErrors)
		return
	}

	response.SuccessWithPage(c, orders, response.NewPagination(filter.Page, filter.PageSize, total))
}

// UpdateOrderStatus advances an order through the fulfillment flow.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Status is required")
		return
	}

	order, err := h.OrderService.UpdateStatus(orderID, strings.TrimSpace(req.Status))
	if err != nil {
		respondWithMappedError(c, err, orderHandlerErrors)
		return
	}

	response.Success(c, order)
}

// RefundPayment refunds part or all of a completed payment.
func (h *Handler) RefundPayment(c *gin.Context) {
	paymentID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	var amount *models.Money
	if strings.TrimSpace(req.Amount) != "" {
		parsed, err := models.NewMoneyFromString(req.Amount)
		if err != nil {
			response.BadRequest(c, "Invalid amount format")
			return
		}
		amount = &parsed
	}

	payment, err := h.PaymentService.ProcessRefund(c.Request.Context(), paymentID, amount)
	if err != nil {
		respondWithMappedError(c, err, paymentHandlerErrors)
		return
	}

	response.Success(c, payment)
}
