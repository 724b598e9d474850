package model

import "time"

// DashboardStats holds the aggregate figures shown on the dashboard header.
type DashboardStats struct {
	TotalBackups         int    `json:"total_backups"`
	SuccessRate          int    `json:"success_rate"`
	TotalDataProtected   string `json:"total_data_protected"`
	TotalDataProtectedMB int64  `json:"total_data_protected_mb"`
	ActiveAlerts         int    `json:"active_alerts"`
}

// ActivityBucket counts backup runs per outcome within one time bucket.
type ActivityBucket struct {
	Start   time.Time `json:"start"`
	Success int       `json:"success"`
	Failed  int       `json:"failed"`
	Warning int       `json:"warning"`
}

// Total returns the number of runs in the bucket.
func (b ActivityBucket) Total() int {
	return b.Success + b.Failed + b.Warning
}
