package model

// Machine status constants.
const (
	MachineStatusOnline           = "online"
	MachineStatusOffline          = "offline"
	MachineStatusWarning          = "warning"
	MachineStatusBackupInProgress = "backup_in_progress"
)

// Backup log outcome constants.
const (
	LogStatusSuccess = "success"
	LogStatusFailed  = "failed"
	LogStatusWarning = "warning"
)

// Alert severity constants.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)
