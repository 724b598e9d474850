package handler

import (
	"net/http"

	"github.com/edvin/backupdash/internal/api/request"
	"github.com/edvin/backupdash/internal/api/response"
	"github.com/edvin/backupdash/internal/backend"
	"github.com/edvin/backupdash/internal/core"
)

type Activity struct {
	svc         *core.ActivityService
	granularity backend.Granularity
	days        int
}

// NewActivity creates an Activity handler. granularity and days apply when
// the request does not set them.
func NewActivity(svc *core.ActivityService, granularity backend.Granularity, days int) *Activity {
	return &Activity{svc: svc, granularity: granularity, days: days}
}

// Series godoc
//
//	@Summary		Backup activity over time
//	@Description	Runs per outcome in contiguous time buckets, oldest first.
//	@Tags			Dashboard
//	@Security		BearerAuth
//	@Param			granularity	query		string	false	"Bucket width"	Enums(hour, day)
//	@Param			days		query		int		false	"Window length in days"
//	@Success		200			{array}		model.ActivityBucket
//	@Failure		400			{object}	response.ErrorResponse
//	@Router			/activity [get]
func (h *Activity) Series(w http.ResponseWriter, r *http.Request) {
	g := h.granularity
	if s := r.URL.Query().Get("granularity"); s != "" {
		g = backend.Granularity(s)
	}
	days, err := request.QueryInt(r, "days", h.days)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	buckets, err := h.svc.Series(r.Context(), g, days)
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, buckets)
}
