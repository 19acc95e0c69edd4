package admin

import "github.com/ava-bijoux/ava-next/internal/provider"

// Handler back-office API entry point
type Handler struct {
	*provider.Container
}

// New creates the back-office handler
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
