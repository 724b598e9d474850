package handler

import (
	"net/http"

	mw "github.com/edvin/backupdash/internal/api/middleware"
	"github.com/edvin/backupdash/internal/api/request"
	"github.com/edvin/backupdash/internal/api/response"
	"github.com/edvin/backupdash/internal/core"
	"github.com/edvin/backupdash/internal/model"
)

type Auth struct {
	svc      *core.AuthService
	profiles *core.ProfileService
}

func NewAuth(svc *core.AuthService, profiles *core.ProfileService) *Auth {
	return &Auth{svc: svc, profiles: profiles}
}

type meResponse struct {
	Identity *model.Identity    `json:"identity"`
	Profile  *model.UserProfile `json:"profile"`
}

// Login authenticates a user and returns a session.
//
//	@Summary		Authenticate user
//	@Description	Authenticate with email and password to receive a bearer token
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			body	body		request.Login	true	"Login credentials"
//	@Success		200		{object}	model.Identity
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		401		{object}	response.ErrorResponse
//	@Failure		503		{object}	response.ErrorResponse
//	@Router			/auth/login [post]
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req request.Login
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	identity, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, identity)
}

// PasswordReset sends a password reset link. The reply does not reveal
// whether the address has an account.
//
//	@Summary	Request a password reset
//	@Tags		Authentication
//	@Accept		json
//	@Param		body	body	request.PasswordReset	true	"Account email"
//	@Success	202
//	@Failure	400	{object}	response.ErrorResponse
//	@Failure	503	{object}	response.ErrorResponse
//	@Router		/auth/password-reset [post]
func (h *Auth) PasswordReset(w http.ResponseWriter, r *http.Request) {
	var req request.PasswordReset
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.RequestPasswordReset(r.Context(), req.Email); err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

// Me godoc
//
//	@Summary	Get the authenticated user
//	@Tags		Authentication
//	@Security	BearerAuth
//	@Success	200	{object}	meResponse
//	@Failure	401	{object}	response.ErrorResponse
//	@Router		/me [get]
func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	identity := mw.GetIdentity(r.Context())
	if identity == nil {
		response.WriteError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	profile, err := h.profiles.Get(r.Context(), identity.UserID)
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	// The token is what the caller sent; don't echo it back.
	id := *identity
	id.AccessToken = ""
	response.WriteJSON(w, http.StatusOK, meResponse{Identity: &id, Profile: profile})
}
