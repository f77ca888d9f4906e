package public

import (
	"errors"
	"net/http"
	"strings"

	"github.com/freshcart-shop/freshcart/internal/http/response"
	"github.com/freshcart-shop/freshcart/internal/logger"
	"github.com/freshcart-shop/freshcart/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError pairs a service sentinel with the HTTP status and
// message the API surfaces for it. verbatim entries pass the service
// error's own message through instead, minus the sentinel prefix, for
// errors that carry case-specific detail.
type mappedHandlerError struct {
	target   error
	status   int
	msg      string
	verbatim bool
}

var orderHandlerErrors = []mappedHandlerError{
	{target: service.ErrOrderNotFound, status: http.StatusNotFound, msg: "Order not found"},
	{target: service.ErrOrderAccessDenied, status: http.StatusForbidden, msg: "You do not have access to this order"},
	{target: service.ErrOrderInvalidTransition, status: http.StatusBadRequest, msg: "Invalid status transition", verbatim: true},
	{target: service.ErrOrderCancelReasonTooShort, status: http.StatusBadRequest, msg: "Cancellation reason must be at least 10 characters"},
	{target: service.ErrCartEmpty, status: http.StatusNotFound, msg: "Cart is empty"},
	{target: service.ErrAddressNotFound, status: http.StatusNotFound, msg: "Address not found"},
	{target: service.ErrProductUnavailable, status: http.StatusBadRequest, msg: "One or more products are unavailable"},
	{target: service.ErrOrderNoGenerateFailed, status: http.StatusInternalServerError, msg: "Failed to generate order number"},
}

var paymentHandlerErrors = []mappedHandlerError{
	{target: service.ErrPaymentNotFound, status: http.StatusNotFound, msg: "Payment not found"},
	{target: service.ErrOrderNotFound, status: http.StatusNotFound, msg: "Order not found"},
	{target: service.ErrPaymentAlreadyCompleted, status: http.StatusBadRequest, msg: "Payment has already been completed"},
	{target: service.ErrPaymentNotCompleted, status: http.StatusBadRequest, msg: "Payment is not completed"},
	{target: service.ErrRefundAmountInvalid, status: http.StatusBadRequest, msg: "Refund amount is invalid"},
	{target: service.ErrRefundExceedsRemaining, status: http.StatusBadRequest, msg: "Refund amount exceeds the refundable balance"},
	{target: service.ErrGatewayUnavailable, status: http.StatusServiceUnavailable, msg: "Payment gateway is unavailable"},
}

var cartHandlerErrors = []mappedHandlerError{
	{target: service.ErrProductUnavailable, status: http.StatusBadRequest, msg: "Product is unavailable"},
}

var couponHandlerErrors = []mappedHandlerError{
	{target: service.ErrCartEmpty, status: http.StatusBadRequest, msg: "Cart is empty"},
}

// respondWithMappedError maps a service error onto the API response.
// A CouponRejectionError carries its own shopper-facing message.
// Unmapped errors are logged and surfaced as 500.
func respondWithMappedError(c *gin.Context, err error, mappings []mappedHandlerError) {
	var rejection *service.CouponRejectionError
	if errors.As(err, &rejection) {
		response.BadRequest(c, rejection.Message)
		return
	}
	for _, mapping := range mappings {
		if errors.Is(err, mapping.target) {
			response.Error(c, mapping.status, mappedMessage(err, mapping))
			return
		}
	}
	logger.Errorw("handler_unexpected_error",
		"path", c.Request.URL.Path,
		"error", err,
	)
	response.Internal(c, "Internal server error")
}

// mappedMessage picks the response message for a matched mapping. A
// verbatim mapping reuses the service error text, with the sentinel's
// own prefix stripped, and falls back to the table message when the
// error carries nothing beyond the sentinel.
func mappedMessage(err error, mapping mappedHandlerError) string {
	if !mapping.verbatim {
		return mapping.msg
	}
	if err.Error() == mapping.target.Error() {
		return mapping.msg
	}
	return strings.TrimPrefix(err.Error(), mapping.target.Error()+": ")
}
