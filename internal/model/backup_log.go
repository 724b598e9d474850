package model

import "time"

// Placeholder names used when a log's machine or job reference cannot be
// resolved.
const (
	UnknownMachineName = "Dispositivo Desconocido"
	ManualJobName      = "Manual"
)

// BackupLog is one recorded backup run. MachineName and JobName are
// denormalized from the referenced rows.
type BackupLog struct {
	ID              string    `json:"id"`
	JobID           *string   `json:"job_id"`
	MachineID       *string   `json:"machine_id"`
	MachineName     string    `json:"machine_name"`
	JobName         string    `json:"job_name"`
	Status          string    `json:"status"`
	SizeMB          int64     `json:"size_mb"`
	DurationSeconds int       `json:"duration_seconds"`
	Message         string    `json:"message"`
	CreatedAt       time.Time `json:"created_at"`
}
