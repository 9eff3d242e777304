// Package handler exposes dispatch, lifecycle and matching over HTTP.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/slangop28/local-electrician-sub001/internal/domain"
	"github.com/slangop28/local-electrician-sub001/internal/requests/service"
	"github.com/slangop28/local-electrician-sub001/internal/requests/transport"
	"github.com/slangop28/local-electrician-sub001/platform/httpkit"
	"github.com/slangop28/local-electrician-sub001/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler serves the request and worker routes.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates the handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRequestRoutes mounts /requests routes.
func (h *Handler) RegisterRequestRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.CreateDirect)
	rg.POST("/broadcast", h.CreateBroadcast)
	rg.GET("/:id", h.Detail)
	rg.POST("/:id/transition", h.Transition)
}

// RegisterWorkerRoutes mounts /workers routes.
func (h *Handler) RegisterWorkerRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/available-requests", h.Available)
}

// CreateDirect creates a request targeted at one worker.
func (h *Handler) CreateDirect(c *gin.Context) {
	h.create(c, false)
}

// CreateBroadcast creates a request open to every worker in the customer's city.
func (h *Handler) CreateBroadcast(c *gin.Context) {
	h.create(c, true)
}

func (h *Handler) create(c *gin.Context, broadcast bool) {
	var req transport.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Create(c.Request.Context(), service.CreateInput{
		Broadcast:     broadcast,
		WorkerID:      req.WorkerID,
		ServiceType:   req.ServiceType,
		Urgency:       req.Urgency,
		PreferredDate: req.PreferredDate,
		PreferredSlot: req.PreferredSlot,
		Description:   req.IssueDetail,
		Customer: domain.CustomerProfile{
			Name:    req.CustomerName,
			Phone:   req.CustomerPhone,
			Email:   req.CustomerEmail,
			City:    req.City,
			Pincode: req.Pincode,
			Address: req.Address,
		},
		Latitude:  req.Lat,
		Longitude: req.Lng,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Success(c, gin.H{"requestId": result.RequestID, "customerId": result.CustomerID})
}

// Transition applies a lifecycle action.
func (h *Handler) Transition(c *gin.Context) {
	id := c.Param("id")

	var req transport.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	if req.RequestID != "" && req.RequestID != id {
		httpkit.Error(c, http.StatusBadRequest, "requestId does not match the path", nil)
		return
	}

	updated, err := h.svc.Transition(c.Request.Context(), service.TransitionInput{
		RequestID:  id,
		ActorID:    req.ActorID,
		Action:     req.Action,
		ActorName:  req.ActorName,
		ActorPhone: req.ActorPhone,
		ActorCity:  req.ActorCity,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Success(c, gin.H{"newStatus": string(updated.Status)})
}

// Detail returns the request with its customer, worker and timeline.
func (h *Handler) Detail(c *gin.Context) {
	d, err := h.svc.Detail(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}

	resp := transport.NewDetailResponse(d.Request, d.Customer, d.Worker, d.Timeline)
	httpkit.Success(c, gin.H{
		"request":  resp.Request,
		"customer": resp.Customer,
		"worker":   resp.Worker,
		"timeline": resp.Timeline,
	})
}

// Available lists the requests a worker can claim. The workerId query
// parameter, when present, takes precedence over the path id.
func (h *Handler) Available(c *gin.Context) {
	var q transport.AvailableQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	workerID := q.WorkerID
	if workerID == "" {
		workerID = c.Param("id")
	}

	requests, err := h.svc.Available(c.Request.Context(), q.City, workerID)
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.RequestView, 0, len(requests))
	for _, r := range requests {
		out = append(out, transport.NewRequestView(r))
	}
	httpkit.Success(c, gin.H{"requests": out})
}
