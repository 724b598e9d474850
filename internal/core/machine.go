package core

import (
	"context"
	"fmt"

	"github.com/edvin/backupdash/internal/backend"
	"github.com/edvin/backupdash/internal/model"
)

type MachineService struct {
	client *backend.Client
}

// NewMachineService creates a new MachineService.
func NewMachineService(client *backend.Client) *MachineService {
	return &MachineService{client: client}
}

// List returns every machine ordered by name.
func (s *MachineService) List(ctx context.Context) ([]model.Machine, error) {
	if !s.client.Configured() {
		return []model.Machine{}, nil
	}

	var machines []model.Machine
	err := s.client.Store.Select(ctx, backend.Query{
		Table: backend.TableMachines,
		Order: []backend.Order{backend.Asc("name")},
	}, &machines)
	if err != nil {
		return nil, fmt.Errorf("list machines: %w", err)
	}
	if machines == nil {
		machines = []model.Machine{}
	}
	return machines, nil
}
