package expenditure

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/chamahub/chama-management/internal/auth"
	"github.com/chamahub/chama-management/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	RecordExpenditure(actor *auth.Actor, dto CreateExpenditureDTO) (*Expenditure, error)
	GetExpenditure(id int64) (*Expenditure, error)
	ListExpenditures(limit, offset int) ([]*Expenditure, error)
	UpdateExpenditure(actor *auth.Actor, id int64, dto UpdateExpenditureDTO) (*Expenditure, error)
	DeleteExpenditure(actor *auth.Actor, id int64) error
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

func (h *Handler) CreateExpenditure(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateExpenditureDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.Service.RecordExpenditure(actor, dto)
	if err != nil {
		h.Logger.Error("CreateExpenditure: service error", "error", err, "actor_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) GetExpenditure(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid expenditure id")
		return
	}

	e, err := h.Service.GetExpenditure(id)
	if err != nil {
		switch err {
		case ErrExpenditureNotFound:
			h.WriteError(w, http.StatusNotFound, "expenditure not found")
		default:
			h.HandleServiceError(w, err)
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) ListExpenditures(w http.ResponseWriter, r *http.Request) {
	limit, offset := transport.Pagination(r, 50)

	records, err := h.Service.ListExpenditures(limit, offset)
	if err != nil {
		h.Logger.Error("ListExpenditures: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"expenditures": records,
		"limit":        limit,
		"offset":       offset,
	})
}

func (h *Handler) UpdateExpenditure(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid expenditure id")
		return
	}

	var dto UpdateExpenditureDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.Service.UpdateExpenditure(actor, id, dto)
	if err != nil {
		switch err {
		case ErrExpenditureNotFound:
			h.WriteError(w, http.StatusNotFound, "expenditure not found")
		default:
			h.HandleServiceError(w, err)
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) DeleteExpenditure(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid expenditure id")
		return
	}

	if err := h.Service.DeleteExpenditure(actor, id); err != nil {
		switch err {
		case ErrExpenditureNotFound:
			h.WriteError(w, http.StatusNotFound, "expenditure not found")
		default:
			h.HandleServiceError(w, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
