package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMachineStorageUsedPercent(t *testing.T) {
	tests := []struct {
		name  string
		used  int64
		total int64
		want  int
	}{
		{"unknown capacity", 100, 0, 0},
		{"empty", 0, 1000, 0},
		{"half", 500, 1000, 50},
		{"rounds down", 999, 1000, 99},
		{"full", 1000, 1000, 100},
		{"over capacity clamps", 1500, 1000, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Machine{UsedStorage: tt.used, TotalStorage: tt.total}
			assert.Equal(t, tt.want, m.StorageUsedPercent())
		})
	}
}

func TestMachineStorageSummary(t *testing.T) {
	m := Machine{UsedStorage: 1 << 30, TotalStorage: 4 << 30}
	assert.Equal(t, "1.0 GiB / 4.0 GiB", m.StorageSummary())

	unknown := Machine{UsedStorage: 1 << 20}
	assert.Equal(t, "1.0 MiB / ?", unknown.StorageSummary())
}

func TestActivityBucketTotal(t *testing.T) {
	b := ActivityBucket{Success: 3, Failed: 1, Warning: 2}
	assert.Equal(t, 6, b.Total())
}
