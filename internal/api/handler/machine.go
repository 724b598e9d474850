package handler

import (
	"net/http"

	"github.com/edvin/backupdash/internal/api/response"
	"github.com/edvin/backupdash/internal/core"
)

type Machine struct {
	svc *core.MachineService
}

func NewMachine(svc *core.MachineService) *Machine {
	return &Machine{svc: svc}
}

// List godoc
//
//	@Summary		List machines
//	@Description	All protected machines ordered by name.
//	@Tags			Machines
//	@Security		BearerAuth
//	@Success		200	{array}		model.Machine
//	@Failure		502	{object}	response.ErrorResponse
//	@Router			/machines [get]
func (h *Machine) List(w http.ResponseWriter, r *http.Request) {
	machines, err := h.svc.List(r.Context())
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, machines)
}
