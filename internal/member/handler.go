package member

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/chamahub/chama-management/internal/auth"
	"github.com/chamahub/chama-management/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Register(dto RegisterMemberDTO) (*Member, error)
	GetMember(id int64) (*Member, error)
	ListMembers(limit, offset int) ([]*Member, error)
	Approve(actor *auth.Actor, memberID int64) (*Member, error)
	Unapprove(actor *auth.Actor, memberID int64) (*Member, error)
	Delete(actor *auth.Actor, memberID int64) error
	UpdateRole(actor *auth.Actor, memberID int64, dto UpdateRoleDTO) (*Member, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(nil),
		Service:     service,
	}
}

// Register is the only unauthenticated mutation: anyone may sign up,
// but the account stays pending until both approvals land.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterMemberDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.Service.Register(dto)
	if err != nil {
		h.Logger.Error("Register: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, m)
}

func (h *Handler) GetMember(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid member id")
		return
	}

	m, err := h.Service.GetMember(id)
	if err != nil {
		switch err {
		case ErrMemberNotFound:
			h.WriteError(w, http.StatusNotFound, "member not found")
		default:
			h.HandleServiceError(w, err)
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	limit, offset := transport.Pagination(r, 50)

	members, err := h.Service.ListMembers(limit, offset)
	if err != nil {
		h.Logger.Error("ListMembers: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"members": members,
		"limit":   limit,
		"offset":  offset,
	})
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid member id")
		return
	}

	m, err := h.Service.Approve(actor, id)
	if err != nil {
		switch err {
		case ErrMemberNotFound:
			h.WriteError(w, http.StatusNotFound, "member not found")
		default:
			h.Logger.Error("Approve: service error", "error", err, "member_id", id, "actor_id", actor.ID)
			h.HandleServiceError(w, err)
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) Unapprove(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid member id")
		return
	}

	m, err := h.Service.Unapprove(actor, id)
	if err != nil {
		switch err {
		case ErrMemberNotFound:
			h.WriteError(w, http.StatusNotFound, "member not found")
		default:
			h.Logger.Error("Unapprove: service error", "error", err, "member_id", id, "actor_id", actor.ID)
			h.HandleServiceError(w, err)
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid member id")
		return
	}

	if err := h.Service.Delete(actor, id); err != nil {
		switch err {
		case ErrMemberNotFound:
			h.WriteError(w, http.StatusNotFound, "member not found")
		case ErrMemberActive:
			h.WriteError(w, http.StatusConflict, "active members cannot be deleted")
		default:
			h.Logger.Error("DeleteMember: service error", "error", err, "member_id", id, "actor_id", actor.ID)
			h.HandleServiceError(w, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid member id")
		return
	}

	var dto UpdateRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.Service.UpdateRole(actor, id, dto)
	if err != nil {
		switch err {
		case ErrMemberNotFound:
			h.WriteError(w, http.StatusNotFound, "member not found")
		case ErrMemberNotActive:
			h.WriteError(w, http.StatusConflict, "member must be active to hold a role")
		default:
			h.Logger.Error("UpdateRole: service error", "error", err, "member_id", id, "actor_id", actor.ID)
			h.HandleServiceError(w, err)
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, m)
}
