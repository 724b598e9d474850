package cli

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	errNotLoggedIn    = errors.New("not logged in: pass a profile id or run backupdash login")
	errSessionExpired = errors.New("session expired: run backupdash login")
)

func newProfileCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profile [id]",
		Short: "Show a user profile",
		Long:  "Show a user profile. Without an id, the profile of the logged in user is shown.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id string
			if len(args) == 1 {
				id = args[0]
			} else {
				s, err := LoadSession()
				if err != nil {
					return err
				}
				if s == nil {
					return errNotLoggedIn
				}
				if s.Expired(a.now()) {
					return errSessionExpired
				}
				id = s.UserID
			}

			if _, err := uuid.Parse(id); err != nil {
				return fmt.Errorf("invalid profile id %q", id)
			}

			e, err := a.environment(cmd.Context())
			if err != nil {
				return err
			}

			p, err := e.services.Profile.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("profile %s not found", id)
			}

			if a.jsonOutput() {
				return a.printJSON(p)
			}
			renderProfile(a.out, p)
			return nil
		},
	}
}
