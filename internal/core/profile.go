package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/edvin/backupdash/internal/backend"
	"github.com/edvin/backupdash/internal/model"
)

type ProfileService struct {
	client *backend.Client
}

// NewProfileService creates a new ProfileService.
func NewProfileService(client *backend.Client) *ProfileService {
	return &ProfileService{client: client}
}

// Get returns the profile with the given id, or nil when there is none.
func (s *ProfileService) Get(ctx context.Context, id string) (*model.UserProfile, error) {
	if id == "" {
		return nil, invalidInput("profile id is required")
	}
	if !s.client.Configured() {
		return nil, nil
	}

	var p model.UserProfile
	err := s.client.Store.SelectOne(ctx, backend.Query{
		Table:   backend.TableProfiles,
		Filters: []backend.Filter{backend.Eq("id", id)},
	}, &p)
	if errors.Is(err, backend.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", id, err)
	}
	return &p, nil
}
