package handler

import (
	"net/http"

	"github.com/edvin/backupdash/internal/api/response"
	"github.com/edvin/backupdash/internal/core"
)

type Stats struct {
	svc *core.StatsService
}

func NewStats(svc *core.StatsService) *Stats {
	return &Stats{svc: svc}
}

// Get godoc
//
//	@Summary		Get dashboard statistics
//	@Tags			Dashboard
//	@Security		BearerAuth
//	@Success		200	{object}	model.DashboardStats
//	@Failure		502	{object}	response.ErrorResponse
//	@Router			/stats [get]
func (h *Stats) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Compute(r.Context())
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, stats)
}
