package public

import "github.com/freshcart-shop/freshcart/internal/provider"

// Handler serves the storefront API (authenticated shoppers).
type Handler struct {
	*provider.Container
}

// New creates the storefront handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
