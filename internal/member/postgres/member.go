package postgres

import (
	"fmt"
	"time"

	"github.com/chamahub/chama-management/internal"
	"github.com/chamahub/chama-management/internal/core"
	"github.com/chamahub/chama-management/internal/income"
	"github.com/chamahub/chama-management/internal/member"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// approveRetries bounds the automatic re-runs of the approval
// transaction when the store reports a serialization conflict.
const approveRetries = 3

// MemberRepository implements the member.Repository interface using GORM
type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) Create(m *member.Member) error {
	return r.db.Create(m).Error
}

func (r *MemberRepository) GetByID(id int64) (*member.Member, error) {
	var m member.Member
	err := r.db.Where("id = ?", id).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, member.ErrMemberNotFound
		}
		return nil, internal.ClassifyStorageError("members", err)
	}
	return &m, nil
}

func (r *MemberRepository) List(limit, offset int) ([]*member.Member, error) {
	var members []*member.Member
	err := r.db.Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&members).Error
	if err != nil {
		return nil, internal.ClassifyStorageError("members", err)
	}
	return members, nil
}

func (r *MemberRepository) ListActive() ([]*member.Member, error) {
	var members []*member.Member
	err := r.db.Where("status = ?", member.StatusActive).
		Order("id ASC").
		Find(&members).Error
	if err != nil {
		return nil, internal.ClassifyStorageError("members", err)
	}
	return members, nil
}

func (r *MemberRepository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&member.Member{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, internal.ClassifyStorageError("members", err)
	}
	return count > 0, nil
}

// Approve runs the whole read-modify-write as one transaction: lock the
// member row, apply the approver's flag, and when the update completes
// the pair, flip status/role and insert the registration-fee income row
// before committing. A concurrent second approval blocks on the row
// lock and re-reads the committed flags, so the fee fires exactly once.
// Approving an already-active member commits nothing and returns the
// member unchanged.
func (r *MemberRepository) Approve(memberID int64, approver core.Role, actorID int64, registrationFee float64) (*member.Member, bool, error) {
	var m member.Member
	var activated bool

	var err error
	for attempt := 0; attempt < approveRetries; attempt++ {
		activated = false
		err = r.db.Transaction(func(tx *gorm.DB) error {
			if lockErr := r.lockRow(tx).Where("id = ?", memberID).First(&m).Error; lockErr != nil {
				if lockErr == gorm.ErrRecordNotFound {
					return member.ErrMemberNotFound
				}
				return lockErr
			}

			// Idempotent on already-active members.
			if m.IsActive() {
				return nil
			}

			activated = m.ApplyApproval(approver)
			m.UpdatedAt = time.Now()

			if saveErr := tx.Save(&m).Error; saveErr != nil {
				return saveErr
			}

			if activated {
				fee := &income.MiscIncome{
					ID:          uuid.NewString(),
					Type:        income.TypeRegistrationFee,
					Description: fmt.Sprintf("Registration fee for %s %s", m.FirstName, m.LastName),
					Amount:      registrationFee,
					Date:        time.Now(),
					MemberID:    &m.ID,
					RecordedBy:  actorID,
				}
				if feeErr := tx.Create(fee).Error; feeErr != nil {
					return feeErr
				}
			}

			return nil
		})

		if err == nil || !internal.IsRetriableStorageError(err) {
			break
		}
	}

	if err != nil {
		if err == member.ErrMemberNotFound {
			return nil, false, err
		}
		if internal.IsRetriableStorageError(err) {
			return nil, false, internal.NewConflictError(
				"member approval conflicted with a concurrent update",
				internal.ErrCodeConflictRetrySpent).WithCause(err)
		}
		return nil, false, internal.ClassifyStorageError("members", err)
	}

	return &m, activated, nil
}

// Unapprove resets the approver's flag and demotes the member to
// pending under the same row lock as Approve.
func (r *MemberRepository) Unapprove(memberID int64, approver core.Role) (*member.Member, error) {
	var m member.Member

	var err error
	for attempt := 0; attempt < approveRetries; attempt++ {
		err = r.db.Transaction(func(tx *gorm.DB) error {
			if lockErr := r.lockRow(tx).Where("id = ?", memberID).First(&m).Error; lockErr != nil {
				if lockErr == gorm.ErrRecordNotFound {
					return member.ErrMemberNotFound
				}
				return lockErr
			}

			m.ApplyUnapproval(approver)
			m.UpdatedAt = time.Now()

			return tx.Save(&m).Error
		})

		if err == nil || !internal.IsRetriableStorageError(err) {
			break
		}
	}

	if err != nil {
		if err == member.ErrMemberNotFound {
			return nil, err
		}
		return nil, internal.ClassifyStorageError("members", err)
	}

	return &m, nil
}

func (r *MemberRepository) Delete(id int64) error {
	res := r.db.Where("id = ? AND status = ?", id, member.StatusPending).Delete(&member.Member{})
	if res.Error != nil {
		return internal.ClassifyStorageError("members", res.Error)
	}
	if res.RowsAffected == 0 {
		return member.ErrMemberNotFound
	}
	return nil
}

func (r *MemberRepository) UpdateRole(id int64, role core.Role) error {
	return r.db.Model(&member.Member{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"role":       string(role),
			"updated_at": time.Now(),
		}).Error
}

// lockRow applies SELECT ... FOR UPDATE where the dialect supports it.
// sqlite (used by the test suite) has no row locks; its transactions
// already serialize writers.
func (r *MemberRepository) lockRow(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
