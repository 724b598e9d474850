// Package export renders backup logs as CSV reports and ships them to
// object storage.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/edvin/backupdash/internal/model"
)

// LogsHeader is the first row of every logs report.
var LogsHeader = []string{"id", "created_at", "machine", "job", "status", "size_mb", "duration_seconds", "message"}

// WriteLogsCSV writes logs, in the order given, as a CSV report.
func WriteLogsCSV(w io.Writer, logs []model.BackupLog) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(LogsHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, l := range logs {
		record := []string{
			l.ID,
			l.CreatedAt.UTC().Format(time.RFC3339),
			l.MachineName,
			l.JobName,
			l.Status,
			strconv.FormatInt(l.SizeMB, 10),
			strconv.Itoa(l.DurationSeconds),
			l.Message,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %s: %w", l.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// LogsFilename names a logs report generated at t.
func LogsFilename(t time.Time) string {
	return "backup-logs-" + t.UTC().Format("20060102-150405") + ".csv"
}
