package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/edvin/backupdash/internal/api/response"
	"github.com/edvin/backupdash/internal/core"
)

type Profile struct {
	svc *core.ProfileService
}

func NewProfile(svc *core.ProfileService) *Profile {
	return &Profile{svc: svc}
}

// Get godoc
//
//	@Summary	Get a user profile
//	@Tags		Profiles
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Profile ID (UUID)"
//	@Success	200	{object}	model.UserProfile
//	@Failure	400	{object}	response.ErrorResponse
//	@Failure	404	{object}	response.ErrorResponse
//	@Router		/profiles/{id} [get]
func (h *Profile) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, "invalid profile id")
		return
	}

	profile, err := h.svc.Get(r.Context(), id.String())
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}
	if profile == nil {
		response.WriteError(w, http.StatusNotFound, "profile not found")
		return
	}

	response.WriteJSON(w, http.StatusOK, profile)
}
