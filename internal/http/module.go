package http

import (
	"github.com/gin-gonic/gin"
)

// Module is a bounded context that mounts its own routes.
type Module interface {
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext is what a module can mount routes on.
type RouterContext struct {
	Engine *gin.Engine
	// Public carries rate limiting and the common middleware.
	Public *gin.RouterGroup
	// Admin is /admin behind the shared sync secret.
	Admin *gin.RouterGroup
}
