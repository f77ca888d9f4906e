package public

import (
	"strconv"

	"github.com/freshcart-shop/freshcart/internal/http/response"

	"github.com/gin-gonic/gin"
)

// UpsertCartItemRequest adds a product (optionally a variant) to the cart.
type UpsertCartItemRequest struct {
	ProductID uint  `json:"product_id" binding:"required"`
	VariantID *uint `json:"variant_id"`
	Quantity  int   `json:"quantity" binding:"required"`
}

// GetCart returns the shopper's cart with a computed subtotal.
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	cart, err := h.CartService.GetCart(uid)
	if err != nil {
		respondWithMappedError(c, err, cartHandlerErrors)
		return
	}

	response.Success(c, cart)
}

// UpsertCartItem adds a product to the cart or replaces its quantity.
func (h *Handler) UpsertCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req UpsertCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	if err := h.CartService.AddItem(uid, req.ProductID, req.VariantID, req.Quantity); err != nil {
		respondWithMappedError(c, err, cartHandlerErrors)
		return
	}

	cart, err := h.CartService.GetCart(uid)
	if err != nil {
		respondWithMappedError(c, err, cartHandlerErrors)
		return
	}
	response.Success(c, cart)
}

// DeleteCartItem removes one product (and optional variant) from the cart.
func (h *Handler) DeleteCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil || productID == 0 {
		response.BadRequest(c, "Invalid product id")
		return
	}

	var variantID *uint
	if raw := c.Query("variant_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || parsed == 0 {
			response.BadRequest(c, "Invalid variant id")
			return
		}
		value := uint(parsed)
		variantID = &value
	}

	if err := h.CartService.RemoveItem(uid, uint(productID), variantID); err != nil {
		respondWithMappedError(c, err, cartHandlerErrors)
		return
	}

	response.Success(c, nil)
}

// ClearCart empties the shopper's cart.
func (h *Handler) ClearCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	if err := h.CartService.Clear(uid); err != nil {
		respondWithMappedError(c, err, cartHandlerErrors)
		return
	}

	response.Success(c, nil)
}
