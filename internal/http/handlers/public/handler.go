package public

import "github.com/ava-bijoux/ava-next/internal/provider"

// Handler storefront API entry point. Public routes only: catalog,
// checkout, payment callbacks.
type Handler struct {
	*provider.Container
}

// New creates the storefront handler
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
