package postgres

import (
	"database/sql"
	"fmt"

	"github.com/chamahub/chama-management/internal/auth"
	"github.com/chamahub/chama-management/internal/core"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetCredentials(email string) (string, int64, error) {
	var passwordHash string
	var memberID int64
	query := `SELECT id, password_hash FROM members WHERE email = ?`

	row := r.db.Raw(query, email).Row()
	if err := row.Scan(&memberID, &passwordHash); err != nil {
		if err == sql.ErrNoRows {
			return "", 0, fmt.Errorf("member not found")
		}
		return "", 0, err
	}
	return passwordHash, memberID, nil
}

// GetActor returns the member's identity with their effective role:
// a member still in the pending state acts as Pending no matter what
// role value the row carries.
func (r *Repository) GetActor(memberID int64) (*auth.Actor, error) {
	var actor auth.Actor
	var role, status string

	query := `SELECT id, email, role, status FROM members WHERE id = ?`

	row := r.db.Raw(query, memberID).Row()
	if err := row.Scan(&actor.ID, &actor.Email, &role, &status); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("member not found")
		}
		return nil, err
	}

	if status == "pending" {
		actor.Role = core.RolePending
		return &actor, nil
	}

	parsed, err := core.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("member %d has corrupt role: %w", memberID, err)
	}
	actor.Role = parsed

	return &actor, nil
}
