package handler

import (
	"net/http"

	"github.com/edvin/backupdash/internal/api/response"
	"github.com/edvin/backupdash/internal/core"
)

type BackupJob struct {
	svc *core.BackupJobService
}

func NewBackupJob(svc *core.BackupJobService) *BackupJob {
	return &BackupJob{svc: svc}
}

// List godoc
//
//	@Summary	List backup jobs
//	@Tags		Backup Jobs
//	@Security	BearerAuth
//	@Success	200	{array}		model.BackupJob
//	@Failure	502	{object}	response.ErrorResponse
//	@Router		/jobs [get]
func (h *BackupJob) List(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.svc.List(r.Context())
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, jobs)
}
