package auth

import (
	"log/slog"
	"net/http"
)

// RBACAuthorization gates routes on role capabilities. Roles are a
// closed enumeration checked through predicates, not string comparisons
// scattered across handlers.
type RBACAuthorization struct {
	logger *slog.Logger
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{logger: logger}
}

func (ra *RBACAuthorization) require(check func(*Actor) bool, capability string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok || actor == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !check(actor) {
				ra.logger.WarnContext(r.Context(), "access denied: insufficient role",
					"member_id", actor.ID,
					"role", actor.Role,
					"capability", capability)
				http.Error(w, "Forbidden: insufficient role", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (ra *RBACAuthorization) RequireMemberApprover() func(http.Handler) http.Handler {
	return ra.require((*Actor).CanApproveMembers, "approve_members")
}

func (ra *RBACAuthorization) RequireFinanceManager() func(http.Handler) http.Handler {
	return ra.require((*Actor).CanManageFinances, "manage_finances")
}

func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.require((*Actor).IsAdmin, "admin")
}
