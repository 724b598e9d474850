package handler

import (
	"net/http"

	"github.com/edvin/backupdash/internal/api/request"
	"github.com/edvin/backupdash/internal/api/response"
	"github.com/edvin/backupdash/internal/core"
)

type Dashboard struct {
	svc *core.DashboardService
}

func NewDashboard(svc *core.DashboardService) *Dashboard {
	return &Dashboard{svc: svc}
}

// Overview godoc
//
//	@Summary		Get the full dashboard
//	@Description	Stats, recent logs, unresolved alerts, machines and activity in one call. Sections that failed to load are reported under errors.
//	@Tags			Dashboard
//	@Security		BearerAuth
//	@Param			limit	query		int	false	"Number of recent logs"	default(50)
//	@Success		200		{object}	core.Overview
//	@Failure		400		{object}	response.ErrorResponse
//	@Router			/dashboard [get]
func (h *Dashboard) Overview(w http.ResponseWriter, r *http.Request) {
	limit, err := request.ParseLimit(r)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ov, err := h.svc.Overview(r.Context(), limit)
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, ov)
}
