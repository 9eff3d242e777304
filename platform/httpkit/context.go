package httpkit

import (
	"context"

	"github.com/slangop28/local-electrician-sub001/platform/logger"

	"github.com/gin-gonic/gin"
)

func contextWithRequestID(c *gin.Context, id string) context.Context {
	return context.WithValue(c.Request.Context(), logger.RequestIDKey, id)
}
