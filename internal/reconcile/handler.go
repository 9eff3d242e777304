package reconcile

import (
	"github.com/gin-gonic/gin"

	"github.com/slangop28/local-electrician-sub001/platform/httpkit"
)

// UserCounts is the users block of the sync response.
type UserCounts struct {
	Processed int `json:"processed"`
	Synced    int `json:"synced"`
	Errors    int `json:"errors"`
}

// WorkerCounts is the workers block of the sync response.
type WorkerCounts struct {
	Processed      int `json:"processed"`
	Synced         int `json:"synced"`
	VerifiedSynced int `json:"verified_synced"`
	Errors         int `json:"errors"`
}

// ResultsView is the JSON shape of a run's results.
type ResultsView struct {
	Users   UserCounts   `json:"users"`
	Workers WorkerCounts `json:"workers"`
}

// NewResultsView renders results.
func NewResultsView(r Results) ResultsView {
	return ResultsView{
		Users: UserCounts{Processed: r.Users.Processed, Synced: r.Users.Synced, Errors: r.Users.Errors},
		Workers: WorkerCounts{
			Processed:      r.Workers.Processed,
			Synced:         r.Workers.Synced,
			VerifiedSynced: r.Workers.VerifiedSynced,
			Errors:         r.Workers.Errors,
		},
	}
}

// Handler serves POST /admin/sync.
type Handler struct {
	svc *Service
}

// NewHandler creates the handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the sync route on the admin group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sync", h.Sync)
}

// Sync runs reconciliation synchronously and returns the counts.
func (h *Handler) Sync(c *gin.Context) {
	res, err := h.svc.Run(c.Request.Context(), "http")
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Success(c, gin.H{"results": NewResultsView(res)})
}
