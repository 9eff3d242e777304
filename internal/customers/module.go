// Package customers provides the customer identity bounded context module.
package customers

import (
	"github.com/slangop28/local-electrician-sub001/internal/customers/handler"
	"github.com/slangop28/local-electrician-sub001/internal/customers/service"
	apphttp "github.com/slangop28/local-electrician-sub001/internal/http"
	"github.com/slangop28/local-electrician-sub001/platform/idgen"
	"github.com/slangop28/local-electrician-sub001/platform/logger"
	"github.com/slangop28/local-electrician-sub001/platform/validator"
)

// Module is the customers bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the customer service and handler.
func NewModule(st service.Store, ids idgen.Generator, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(st, ids, log)
	return &Module{handler: handler.New(svc, val), service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "customers"
}

// Service returns the resolver for the request dispatcher.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts /customers routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Public.Group("/customers"))
}

var _ apphttp.Module = (*Module)(nil)
