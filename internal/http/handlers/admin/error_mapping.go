package admin

import (
	"errors"
	"net/http"
	"strings"

	"github.com/freshcart-shop/freshcart/internal/http/response"
	"github.com/freshcart-shop/freshcart/internal/logger"
	"github.com/freshcart-shop/freshcart/internal/service"

	"github.com/gin-gonic/gin"
)

// verbatim entries surface the service error's own message, minus the
// sentinel prefix, for errors that carry case-specific detail.
type mappedHandlerError struct {
	target   error
	status   int
	msg      string
	verbatim bool
}

var couponHandlerErrors = []mappedHandlerError{
	{target: service.ErrCouponNotFound, status: http.StatusNotFound, msg: "Coupon not found"},
	{target: service.ErrCouponCodeTaken, status: http.StatusBadRequest, msg: "Coupon code already exists"},
	{target: service.ErrCouponInvalid, status: http.StatusBadRequest, msg: "Coupon definition is invalid"},
}

var orderHandlerErrors = []mappedHandlerError{
	{target: service.ErrOrderNotFound, status: http.StatusNotFound, msg: "Order not found"},
	{target: service.ErrOrderInvalidTransition, status: http.StatusBadRequest, msg: "Invalid status transition", verbatim: true},
}

var paymentHandlerErrors = []mappedHandlerError{
	{target: service.ErrPaymentNotFound, status: http.StatusNotFound, msg: "Payment not found"},
	{target: service.ErrPaymentNotCompleted, status: http.StatusBadRequest, msg: "Payment is not completed"},
	{target: service.ErrRefundAmountInvalid, status: http.StatusBadRequest, msg: "Refund amount is invalid"},
	{target: service.ErrRefundExceedsRemaining, status: http.StatusBadRequest, msg: "Refund amount exceeds the refundable balance"},
	{target: service.ErrGatewayUnavailable, status: http.StatusServiceUnavailable, msg: "Payment gateway is unavailable"},
}

func respondWithMappedError(c *gin.Context, err error, mappings []mappedHandlerError) {
	for _, mapping := range mappings {
		if errors.Is(err, mapping.target) {
			response.Error(c, mapping.status, mappedMessage(err, mapping))
			return
		}
	}
	logger.Errorw("admin_handler_unexpected_error",
		"path", c.Request.URL.Path,
		"error", err,
	)
	response.Internal(c, "Internal server error")
}

func mappedMessage(err error, mapping mappedHandlerError) string {
	if !mapping.verbatim || err.Error() == mapping.target.Error() {
		return mapping.msg
	}
	return strings.TrimPrefix(err.Error(), mapping.target.Error()+": ")
}
