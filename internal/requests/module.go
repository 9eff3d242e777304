// Package requests provides the service request bounded context module.
package requests

import (
	"github.com/slangop28/local-electrician-sub001/internal/events"
	apphttp "github.com/slangop28/local-electrician-sub001/internal/http"
	"github.com/slangop28/local-electrician-sub001/internal/requests/handler"
	"github.com/slangop28/local-electrician-sub001/internal/requests/service"
	"github.com/slangop28/local-electrician-sub001/platform/idgen"
	"github.com/slangop28/local-electrician-sub001/platform/logger"
	"github.com/slangop28/local-electrician-sub001/platform/validator"
)

// Module is the requests bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule wires the requests service and handler.
func NewModule(
	st service.Store,
	customers service.CustomerResolver,
	ids idgen.Generator,
	bus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	return &Module{handler: handler.New(service.New(st, customers, ids, bus, log), val)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "requests"
}

// RegisterRoutes mounts /requests and /workers routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRequestRoutes(ctx.Public.Group("/requests"))
	m.handler.RegisterWorkerRoutes(ctx.Public.Group("/workers"))
}

var _ apphttp.Module = (*Module)(nil)
