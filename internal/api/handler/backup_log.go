package handler

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/edvin/backupdash/internal/api/request"
	"github.com/edvin/backupdash/internal/api/response"
	"github.com/edvin/backupdash/internal/core"
	"github.com/edvin/backupdash/internal/export"
)

type BackupLog struct {
	svc *core.BackupLogService
	now func() time.Time
}

func NewBackupLog(svc *core.BackupLogService) *BackupLog {
	return &BackupLog{svc: svc, now: time.Now}
}

// List godoc
//
//	@Summary		List recent backup logs
//	@Description	Newest first, with machine and job names resolved.
//	@Tags			Backup Logs
//	@Security		BearerAuth
//	@Param			limit	query		int	false	"Maximum number of logs (capped at 200)"	default(50)
//	@Success		200		{array}		model.BackupLog
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		502		{object}	response.ErrorResponse
//	@Router			/logs [get]
func (h *BackupLog) List(w http.ResponseWriter, r *http.Request) {
	limit, err := request.ParseLimit(r)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	logs, err := h.svc.ListRecent(r.Context(), limit)
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, logs)
}

// ExportCSV godoc
//
//	@Summary	Export recent backup logs as CSV
//	@Tags		Backup Logs
//	@Security	BearerAuth
//	@Produce	text/csv
//	@Param		limit	query		int	false	"Maximum number of logs (capped at 200)"	default(50)
//	@Success	200		{string}	string
//	@Failure	400		{object}	response.ErrorResponse
//	@Router		/logs/export.csv [get]
func (h *BackupLog) ExportCSV(w http.ResponseWriter, r *http.Request) {
	limit, err := request.ParseLimit(r)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	logs, err := h.svc.ListRecent(r.Context(), limit)
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteLogsCSV(&buf, logs); err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.LogsFilename(h.now())+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
