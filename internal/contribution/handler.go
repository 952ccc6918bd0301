package contribution

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/chamahub/chama-management/internal/auth"
	"github.com/chamahub/chama-management/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	RecordRegular(actor *auth.Actor, dto UpsertRegularDTO) (*RegularContribution, error)
	RecordRegularBatch(actor *auth.Actor, dto BatchRegularDTO) error
	MemberRegularYear(memberID int64, year int) ([]*RegularContribution, error)
	RecordSpecial(actor *auth.Actor, dto RecordSpecialDTO) (*SpecialContribution, error)
	GetSpecial(id string) (*SpecialContribution, error)
	MemberSpecials(memberID int64) ([]*SpecialContribution, error)
	EditSpecial(actor *auth.Actor, id string, dto EditSpecialDTO) (*SpecialContribution, error)
	DeleteSpecial(actor *auth.Actor, id string) error
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

func (h *Handler) UpsertRegular(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto UpsertRegularDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.Service.RecordRegular(actor, dto)
	if err != nil {
		h.Logger.Error("UpsertRegular: service error", "error", err, "actor_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) UpsertRegularBatch(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto BatchRegularDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.RecordRegularBatch(actor, dto); err != nil {
		h.Logger.Error("UpsertRegularBatch: service error", "error", err, "actor_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"year":  dto.Year,
		"cells": len(dto.Entries),
	})
}

func (h *Handler) ListMemberRegular(w http.ResponseWriter, r *http.Request) {
	memberID, err := strconv.ParseInt(chi.URLParam(r, "memberID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid member id")
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "year query param is required")
		return
	}

	records, err := h.Service.MemberRegularYear(memberID, year)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"member_id":     memberID,
		"year":          year,
		"contributions": records,
	})
}

func (h *Handler) CreateSpecial(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto RecordSpecialDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.Service.RecordSpecial(actor, dto)
	if err != nil {
		h.Logger.Error("CreateSpecial: service error", "error", err, "actor_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, rec)
}

func (h *Handler) GetSpecial(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.Service.GetSpecial(id)
	if err != nil {
		switch err {
		case ErrContributionNotFound:
			h.WriteError(w, http.StatusNotFound, "special contribution not found")
		default:
			h.HandleServiceError(w, err)
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) ListMemberSpecials(w http.ResponseWriter, r *http.Request) {
	memberID, err := strconv.ParseInt(chi.URLParam(r, "memberID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid member id")
		return
	}

	records, err := h.Service.MemberSpecials(memberID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"member_id":     memberID,
		"contributions": records,
	})
}

func (h *Handler) UpdateSpecial(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")

	var dto EditSpecialDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.Service.EditSpecial(actor, id, dto)
	if err != nil {
		switch err {
		case ErrContributionNotFound:
			h.WriteError(w, http.StatusNotFound, "special contribution not found")
		default:
			h.HandleServiceError(w, err)
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) DeleteSpecial(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.Service.DeleteSpecial(actor, id); err != nil {
		switch err {
		case ErrContributionNotFound:
			h.WriteError(w, http.StatusNotFound, "special contribution not found")
		default:
			h.HandleServiceError(w, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
