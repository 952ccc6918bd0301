package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/chamahub/chama-management/internal/auth"
	"github.com/chamahub/chama-management/internal/contribution"
	"github.com/chamahub/chama-management/internal/expenditure"
	"github.com/chamahub/chama-management/internal/income"
	"github.com/chamahub/chama-management/internal/member"
	"github.com/chamahub/chama-management/internal/report"
	"github.com/chamahub/chama-management/internal/transport/middleware"
	"github.com/chamahub/chama-management/internal/transport/swagger"
	"github.com/go-chi/chi"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth         *auth.Handler
	Member       *member.Handler
	Contribution *contribution.Handler
	Income       *income.Handler
	Expenditure  *expenditure.Handler
	Report       *report.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, rbac *auth.RBACAuthorization, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		// Registration is open; the account stays pending until approved.
		r.Post("/members", h.Member.Register)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/auth/me", h.Auth.Me)

			pr.Route("/members", func(mr chi.Router) {
				mr.Get("/", h.Member.ListMembers)
				mr.Get("/{id}", h.Member.GetMember)

				mr.Group(func(ar chi.Router) {
					ar.Use(rbac.RequireMemberApprover())
					ar.Patch("/{id}/approve", h.Member.Approve)
					ar.Patch("/{id}/unapprove", h.Member.Unapprove)
				})

				mr.Group(func(ar chi.Router) {
					ar.Use(rbac.RequireAdmin())
					ar.Delete("/{id}", h.Member.DeleteMember)
					ar.Patch("/{id}/role", h.Member.UpdateRole)
				})
			})

			pr.Route("/contributions", func(cr chi.Router) {
				cr.Get("/regular/{memberID}", h.Contribution.ListMemberRegular)
				cr.Get("/special/{id}", h.Contribution.GetSpecial)
				cr.Get("/special/member/{memberID}", h.Contribution.ListMemberSpecials)

				cr.Group(func(tr chi.Router) {
					tr.Use(rbac.RequireFinanceManager())
					tr.Put("/regular", h.Contribution.UpsertRegular)
					tr.Put("/regular/batch", h.Contribution.UpsertRegularBatch)
					tr.Post("/special", h.Contribution.CreateSpecial)
					tr.Patch("/special/{id}", h.Contribution.UpdateSpecial)
					tr.Delete("/special/{id}", h.Contribution.DeleteSpecial)
				})
			})

			pr.Route("/incomes", func(ir chi.Router) {
				ir.Get("/", h.Income.ListIncomes)
				ir.Get("/{id}", h.Income.GetIncome)

				ir.Group(func(tr chi.Router) {
					tr.Use(rbac.RequireFinanceManager())
					tr.Post("/", h.Income.CreateIncome)
					tr.Patch("/{id}", h.Income.UpdateIncome)
					tr.Delete("/{id}", h.Income.DeleteIncome)
				})
			})

			pr.Route("/expenditures", func(er chi.Router) {
				er.Get("/", h.Expenditure.ListExpenditures)
				er.Get("/{id}", h.Expenditure.GetExpenditure)

				er.Group(func(tr chi.Router) {
					tr.Use(rbac.RequireFinanceManager())
					tr.Post("/", h.Expenditure.CreateExpenditure)
					tr.Patch("/{id}", h.Expenditure.UpdateExpenditure)
					tr.Delete("/{id}", h.Expenditure.DeleteExpenditure)
				})
			})

			pr.Route("/reports", func(rr chi.Router) {
				rr.Get("/members/{memberID}/year", h.Report.MemberYearSummary)
				rr.Get("/members/{memberID}/debt", h.Report.MemberDebt)
				rr.Get("/shares", h.Report.ShareSnapshot)
				rr.Get("/net-funds", h.Report.NetFunds)
			})
		})
	})
}
