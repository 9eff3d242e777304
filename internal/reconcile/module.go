package reconcile

import (
	apphttp "github.com/slangop28/local-electrician-sub001/internal/http"
)

// Module exposes reconciliation to operators.
type Module struct {
	handler *Handler
}

// NewModule wraps an already built service.
func NewModule(svc *Service) *Module {
	return &Module{handler: NewHandler(svc)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "reconcile"
}

// RegisterRoutes mounts /admin/sync.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Admin)
}

var _ apphttp.Module = (*Module)(nil)
