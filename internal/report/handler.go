package report

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/chamahub/chama-management/internal"
	"github.com/chamahub/chama-management/internal/member"
	"github.com/chamahub/chama-management/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	MemberYearSummary(ctx context.Context, memberID int64, year int) (*YearSummary, error)
	MemberAllTimeDebt(ctx context.Context, memberID int64) (*DebtReport, error)
	GroupShareSnapshot(ctx context.Context) (*ShareSnapshot, error)
	ComputeNetFunds(ctx context.Context) (*NetFunds, error)
}

// reportTimeout bounds the aggregation queries behind each report endpoint.
const reportTimeout = 15 * time.Second

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

func (h *Handler) MemberYearSummary(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := internal.WithTimeout(r.Context(), reportTimeout)
	defer cancel()

	summary, err := h.Service.MemberYearSummary(ctx, memberID, year)
	if err != nil {
		switch err {
		case member.ErrMemberNotFound:
			h.WriteError(w, http.StatusNotFound, "member not found")
		default:
			h.Logger.Error("MemberYearSummary: service error", "error", err, "member_id", memberID)
			h.HandleServiceError(w, err)
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) MemberDebt(w http.ResponseWriter, r *http.Request) {
	memberID, err := strconv.ParseInt(chi.URLParam(r, "memberID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid member id")
		return
	}

	ctx, cancel := internal.WithTimeout(r.Context(), reportTimeout)
	defer cancel()

	debt, err := h.Service.MemberAllTimeDebt(ctx, memberID)
	if err != nil {
		switch err {
		case member.ErrMemberNotFound:
			h.WriteError(w, http.StatusNotFound, "member not found")
		default:
			h.Logger.Error("MemberDebt: service error", "error", err, "member_id", memberID)
			h.HandleServiceError(w, err)
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, debt)
}

func (h *Handler) ShareSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := internal.WithTimeout(r.Context(), reportTimeout)
	defer cancel()

	snapshot, err := h.Service.GroupShareSnapshot(ctx)
	if err != nil {
		h.Logger.Error("ShareSnapshot: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) NetFunds(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := internal.WithTimeout(r.Context(), reportTimeout)
	defer cancel()

	funds, err := h.Service.ComputeNetFunds(ctx)
	if err != nil {
		h.Logger.Error("NetFunds: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, funds)
}
