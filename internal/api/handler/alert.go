package handler

import (
	"net/http"

	"github.com/edvin/backupdash/internal/api/response"
	"github.com/edvin/backupdash/internal/core"
)

type Alert struct {
	svc *core.AlertService
}

func NewAlert(svc *core.AlertService) *Alert {
	return &Alert{svc: svc}
}

// ListUnresolved godoc
//
//	@Summary	List unresolved alerts
//	@Tags		Alerts
//	@Security	BearerAuth
//	@Success	200	{array}		model.Alert
//	@Failure	502	{object}	response.ErrorResponse
//	@Router		/alerts [get]
func (h *Alert) ListUnresolved(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.svc.ListUnresolved(r.Context())
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, alerts)
}
