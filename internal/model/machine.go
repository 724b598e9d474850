package model

import (
	"time"

	"github.com/dustin/go-humanize"
)

// Machine is a protected host reported by a backup agent. Storage figures
// are byte counts.
type Machine struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	IPAddress    string     `json:"ip_address"`
	OS           string     `json:"os"`
	Status       string     `json:"status"`
	TotalStorage int64      `json:"total_storage"`
	UsedStorage  int64      `json:"used_storage"`
	LastSeen     *time.Time `json:"last_seen"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}

// StorageUsedPercent returns used storage as a whole percentage of capacity,
// clamped to 0..100. Unknown capacity reports 0.
func (m Machine) StorageUsedPercent() int {
	if m.TotalStorage <= 0 || m.UsedStorage <= 0 {
		return 0
	}
	if m.UsedStorage >= m.TotalStorage {
		return 100
	}
	return int(m.UsedStorage * 100 / m.TotalStorage)
}

// StorageSummary renders usage as "used / total" in IEC units, e.g.
// "1.5 TiB / 4.0 TiB".
func (m Machine) StorageSummary() string {
	if m.TotalStorage <= 0 {
		return humanize.IBytes(uint64(max(m.UsedStorage, 0))) + " / ?"
	}
	return humanize.IBytes(uint64(max(m.UsedStorage, 0))) + " / " + humanize.IBytes(uint64(m.TotalStorage))
}
