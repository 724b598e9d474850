package model

type BackupJob struct {
	ID                string   `json:"id"`
	MachineID         string   `json:"machine_id"`
	Name              string   `json:"name"`
	ScheduleCron      string   `json:"schedule_cron"`
	TargetDirectories []string `json:"target_directories"`
	RetentionDays     int      `json:"retention_days"`
	IsActive          bool     `json:"is_active"`
}
