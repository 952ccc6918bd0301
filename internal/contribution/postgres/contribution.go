package postgres

import (
	"github.com/chamahub/chama-management/internal"
	"github.com/chamahub/chama-management/internal/contribution"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContributionRepository implements the contribution.Repository interface
// using GORM.
type ContributionRepository struct {
	db *gorm.DB
}

func NewContributionRepository(db *gorm.DB) *ContributionRepository {
	return &ContributionRepository{db: db}
}

var regularConflictTarget = []clause.Column{
	{Name: "member_id"},
	{Name: "year"},
	{Name: "month"},
}

// UpsertRegular writes one cell of the dues grid. A second write for the
// same (member, year, month) replaces the amount; it never inserts a
// second row and never sums.
func (r *ContributionRepository) UpsertRegular(c *contribution.RegularContribution) (*contribution.RegularContribution, error) {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   regularConflictTarget,
		DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
	}).Create(c).Error
	if err != nil {
		return nil, internal.ClassifyStorageError("regular contributions", err)
	}

	// The conflict path leaves c.ID zero, so read the row back.
	var out contribution.RegularContribution
	err = r.db.Where("member_id = ? AND year = ? AND month = ?", c.MemberID, c.Year, c.Month).
		First(&out).Error
	if err != nil {
		return nil, internal.ClassifyStorageError("regular contributions", err)
	}
	return &out, nil
}

// UpsertRegularBatch commits every cell or none of them.
func (r *ContributionRepository) UpsertRegularBatch(batch []*contribution.RegularContribution) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, c := range batch {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   regularConflictTarget,
				DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
			}).Create(c).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return internal.ClassifyStorageError("regular contributions", err)
	}
	return nil
}

func (r *ContributionRepository) RegularByMemberYear(memberID int64, year int) ([]*contribution.RegularContribution, error) {
	var records []*contribution.RegularContribution
	err := r.db.Where("member_id = ? AND year = ?", memberID, year).
		Order("month ASC").
		Find(&records).Error
	if err != nil {
		return nil, internal.ClassifyStorageError("regular contributions", err)
	}
	return records, nil
}

// RegularByMember returns every dues row a member has ever paid.
func (r *ContributionRepository) RegularByMember(memberID int64) ([]*contribution.RegularContribution, error) {
	var records []*contribution.RegularContribution
	err := r.db.Where("member_id = ?", memberID).
		Order("year ASC, month ASC").
		Find(&records).Error
	if err != nil {
		return nil, internal.ClassifyStorageError("regular contributions", err)
	}
	return records, nil
}

// AllRegular feeds the aggregation engine: every dues row across all
// members and years.
func (r *ContributionRepository) AllRegular() ([]*contribution.RegularContribution, error) {
	var records []*contribution.RegularContribution
	err := r.db.Order("year ASC, month ASC").Find(&records).Error
	if err != nil {
		return nil, internal.ClassifyStorageError("regular contributions", err)
	}
	return records, nil
}

// EarliestRegularYear returns the first year a member paid dues, or 0
// when the member has never contributed.
func (r *ContributionRepository) EarliestRegularYear(memberID int64) (int, error) {
	var year *int
	err := r.db.Model(&contribution.RegularContribution{}).
		Where("member_id = ?", memberID).
		Select("MIN(year)").
		Scan(&year).Error
	if err != nil {
		return 0, internal.ClassifyStorageError("regular contributions", err)
	}
	if year == nil {
		return 0, nil
	}
	return *year, nil
}

func (r *ContributionRepository) CreateSpecial(c *contribution.SpecialContribution) error {
	if err := r.db.Create(c).Error; err != nil {
		return internal.ClassifyStorageError("special contributions", err)
	}
	return nil
}

func (r *ContributionRepository) GetSpecial(id string) (*contribution.SpecialContribution, error) {
	var rec contribution.SpecialContribution
	err := r.db.Where("id = ?", id).First(&rec).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, contribution.ErrContributionNotFound
		}
		return nil, internal.ClassifyStorageError("special contributions", err)
	}
	return &rec, nil
}

func (r *ContributionRepository) SpecialsByMember(memberID int64) ([]*contribution.SpecialContribution, error) {
	var records []*contribution.SpecialContribution
	err := r.db.Where("member_id = ?", memberID).
		Order("date DESC").
		Find(&records).Error
	if err != nil {
		return nil, internal.ClassifyStorageError("special contributions", err)
	}
	return records, nil
}

// AllSpecial feeds the aggregation engine: every miniharambee row.
func (r *ContributionRepository) AllSpecial() ([]*contribution.SpecialContribution, error) {
	var records []*contribution.SpecialContribution
	err := r.db.Order("date ASC").Find(&records).Error
	if err != nil {
		return nil, internal.ClassifyStorageError("special contributions", err)
	}
	return records, nil
}

func (r *ContributionRepository) UpdateSpecial(c *contribution.SpecialContribution) error {
	result := r.db.Model(&contribution.SpecialContribution{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"amount":      c.Amount,
			"description": c.Description,
			"updated_at":  c.UpdatedAt,
		})
	if result.Error != nil {
		return internal.ClassifyStorageError("special contributions", result.Error)
	}
	if result.RowsAffected == 0 {
		return contribution.ErrContributionNotFound
	}
	return nil
}

func (r *ContributionRepository) DeleteSpecial(id string) error {
	result := r.db.Where("id = ?", id).Delete(&contribution.SpecialContribution{})
	if result.Error != nil {
		return internal.ClassifyStorageError("special contributions", result.Error)
	}
	if result.RowsAffected == 0 {
		return contribution.ErrContributionNotFound
	}
	return nil
}
