package model

import "time"

type Alert struct {
	ID          string    `json:"id"`
	MachineID   *string   `json:"machine_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
	IsResolved  bool      `json:"is_resolved"`
	CreatedAt   time.Time `json:"created_at"`
}
