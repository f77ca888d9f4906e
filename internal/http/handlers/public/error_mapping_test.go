package public

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/freshcart-shop/freshcart/internal/http/response"
	"github.com/freshcart-shop/freshcart/internal/service"

	"github.com/gin-gonic/gin"
)

func runMappedError(t *testing.T, err error, mappings []mappedHandlerError) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil)

	respondWithMappedError(c, err, mappings)

	var body response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	return w, body
}

func TestMappedErrorEmptyCartIsNotFound(t *testing.T) {
	w, body := runMappedError(t, service.ErrCartEmpty, orderHandlerErrors)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for empty cart, got %d", w.Code)
	}
	if body.Msg != "Cart is empty" {
		t.Fatalf("unexpected message: %s", body.Msg)
	}
}

func TestMappedErrorTransitionNamesBothStates(t *testing.T) {
	err := fmt.Errorf("%w: Invalid status transition from PENDING to OUT_FOR_DELIVERY", service.ErrOrderInvalidTransition)
	w, body := runMappedError(t, err, orderHandlerErrors)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(body.Msg, "from PENDING to OUT_FOR_DELIVERY") {
		t.Fatalf("expected both states in the message, got: %s", body.Msg)
	}
}

func TestMappedErrorBareTransitionKeepsTableMessage(t *testing.T) {
	_, body := runMappedError(t, service.ErrOrderInvalidTransition, orderHandlerErrors)
	if body.Msg != "Invalid status transition" {
		t.Fatalf("unexpected message: %s", body.Msg)
	}
}

func TestMappedErrorCouponRejectionMessagePassedThrough(t *testing.T) {
	err := &service.CouponRejectionError{Message: "Coupon has expired"}
	w, body := runMappedError(t, err, orderHandlerErrors)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if body.Msg != "Coupon has expired" {
		t.Fatalf("unexpected message: %s", body.Msg)
	}
}
