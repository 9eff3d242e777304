// Package handler exposes the customer views over HTTP.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/slangop28/local-electrician-sub001/internal/customers/service"
	"github.com/slangop28/local-electrician-sub001/internal/customers/transport"
	"github.com/slangop28/local-electrician-sub001/platform/httpkit"
	"github.com/slangop28/local-electrician-sub001/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler serves /customers routes.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates the handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the customer routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/active-request", h.ActiveRequest)
	rg.GET("/history", h.History)
}

// ActiveRequest returns the customer's in-flight request or null.
func (h *Handler) ActiveRequest(c *gin.Context) {
	var q transport.ActiveRequestQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	active, err := h.svc.ActiveRequest(c.Request.Context(), q.CustomerID)
	if httpkit.HandleError(c, err) {
		return
	}

	if active == nil {
		httpkit.Success(c, gin.H{"activeRequest": nil})
		return
	}
	httpkit.Success(c, gin.H{"activeRequest": transport.NewRequestSummary(*active)})
}

// History lists the requests of the customer identified by phone or email.
func (h *Handler) History(c *gin.Context) {
	var q transport.HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	requests, err := h.svc.History(c.Request.Context(), q.Phone, q.Email)
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.RequestSummary, 0, len(requests))
	for _, r := range requests {
		out = append(out, transport.NewRequestSummary(r))
	}
	httpkit.Success(c, gin.H{"serviceRequests": out})
}
