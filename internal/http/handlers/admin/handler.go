package admin

import "github.com/freshcart-shop/freshcart/internal/provider"

// Handler serves the back-office API (coupon catalog, order operations).
type Handler struct {
	*provider.Container
}

// New creates the back-office handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
