package salon

import "github.com/ava-bijoux/ava-next/internal/provider"

// Handler partner portal API entry point
type Handler struct {
	*provider.Container
}

// New creates the partner portal handler
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
