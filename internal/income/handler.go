package income

import (
	"encoding/json"
	"net/http"

	"github.com/chamahub/chama-management/internal/auth"
	"github.com/chamahub/chama-management/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	RecordIncome(actor *auth.Actor, dto CreateIncomeDTO) (*MiscIncome, error)
	GetIncome(id string) (*MiscIncome, error)
	ListIncomes(limit, offset int) ([]*MiscIncome, error)
	UpdateIncome(actor *auth.Actor, id string, dto UpdateIncomeDTO) (*MiscIncome, error)
	DeleteIncome(actor *auth.Actor, id string) error
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

func (h *Handler) CreateIncome(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateIncomeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.Service.RecordIncome(actor, dto)
	if err != nil {
		h.Logger.Error("CreateIncome: service error", "error", err, "actor_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, rec)
}

func (h *Handler) GetIncome(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.Service.GetIncome(id)
	if err != nil {
		switch err {
		case ErrIncomeNotFound:
			h.WriteError(w, http.StatusNotFound, "income record not found")
		default:
			h.HandleServiceError(w, err)
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) ListIncomes(w http.ResponseWriter, r *http.Request) {
	limit, offset := transport.Pagination(r, 50)

	records, err := h.Service.ListIncomes(limit, offset)
	if err != nil {
		h.Logger.Error("ListIncomes: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"incomes": records,
		"limit":   limit,
		"offset":  offset,
	})
}

func (h *Handler) UpdateIncome(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")

	var dto UpdateIncomeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.Service.UpdateIncome(actor, id, dto)
	if err != nil {
		switch err {
		case ErrIncomeNotFound:
			h.WriteError(w, http.StatusNotFound, "income record not found")
		default:
			h.HandleServiceError(w, err)
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) DeleteIncome(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.Service.DeleteIncome(actor, id); err != nil {
		switch err {
		case ErrIncomeNotFound:
			h.WriteError(w, http.StatusNotFound, "income record not found")
		default:
			h.HandleServiceError(w, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
