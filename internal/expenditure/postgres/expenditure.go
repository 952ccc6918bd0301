package postgres

import (
	"github.com/chamahub/chama-management/internal"
	"github.com/chamahub/chama-management/internal/expenditure"
	"gorm.io/gorm"
)

// ExpenditureRepository implements the expenditure.Repository interface
// using GORM.
type ExpenditureRepository struct {
	db *gorm.DB
}

func NewExpenditureRepository(db *gorm.DB) *ExpenditureRepository {
	return &ExpenditureRepository{db: db}
}

func (r *ExpenditureRepository) Create(e *expenditure.Expenditure) error {
	if err := r.db.Create(e).Error; err != nil {
		return internal.ClassifyStorageError("expenditures", err)
	}
	return nil
}

func (r *ExpenditureRepository) GetByID(id int64) (*expenditure.Expenditure, error) {
	var e expenditure.Expenditure
	err := r.db.Where("id = ?", id).First(&e).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, expenditure.ErrExpenditureNotFound
		}
		return nil, internal.ClassifyStorageError("expenditures", err)
	}
	return &e, nil
}

func (r *ExpenditureRepository) List(limit, offset int) ([]*expenditure.Expenditure, error) {
	var records []*expenditure.Expenditure
	q := r.db.Order("date DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, internal.ClassifyStorageError("expenditures", err)
	}
	return records, nil
}

// TotalSpent feeds the net-funds calculation.
func (r *ExpenditureRepository) TotalSpent() (float64, error) {
	var total *float64
	err := r.db.Model(&expenditure.Expenditure{}).
		Select("SUM(amount)").
		Scan(&total).Error
	if err != nil {
		return 0, internal.ClassifyStorageError("expenditures", err)
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (r *ExpenditureRepository) Update(e *expenditure.Expenditure) error {
	result := r.db.Model(&expenditure.Expenditure{}).
		Where("id = ?", e.ID).
		Updates(map[string]interface{}{
			"title":       e.Title,
			"description": e.Description,
			"amount":      e.Amount,
			"updated_at":  e.UpdatedAt,
		})
	if result.Error != nil {
		return internal.ClassifyStorageError("expenditures", result.Error)
	}
	if result.RowsAffected == 0 {
		return expenditure.ErrExpenditureNotFound
	}
	return nil
}

func (r *ExpenditureRepository) Delete(id int64) error {
	result := r.db.Where("id = ?", id).Delete(&expenditure.Expenditure{})
	if result.Error != nil {
		return internal.ClassifyStorageError("expenditures", result.Error)
	}
	if result.RowsAffected == 0 {
		return expenditure.ErrExpenditureNotFound
	}
	return nil
}
