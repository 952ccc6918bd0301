package postgres

import (
	"time"

	"github.com/chamahub/chama-management/internal"
	"github.com/chamahub/chama-management/internal/income"
	"gorm.io/gorm"
)

// IncomeRepository implements the income.Repository interface using GORM
type IncomeRepository struct {
	db *gorm.DB
}

func NewIncomeRepository(db *gorm.DB) *IncomeRepository {
	return &IncomeRepository{db: db}
}

func (r *IncomeRepository) Create(rec *income.MiscIncome) error {
	if err := r.db.Create(rec).Error; err != nil {
		return internal.ClassifyStorageError("misc incomes", err)
	}
	return nil
}

func (r *IncomeRepository) GetByID(id string) (*income.MiscIncome, error) {
	var rec income.MiscIncome
	err := r.db.Where("id = ?", id).First(&rec).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, income.ErrIncomeNotFound
		}
		return nil, internal.ClassifyStorageError("misc incomes", err)
	}
	return &rec, nil
}

func (r *IncomeRepository) List(limit, offset int) ([]*income.MiscIncome, error) {
	var records []*income.MiscIncome
	q := r.db.Order("date DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, internal.ClassifyStorageError("misc incomes", err)
	}
	return records, nil
}

// ListAll feeds the aggregation engine: every income record, oldest
// first.
func (r *IncomeRepository) ListAll() ([]*income.MiscIncome, error) {
	var records []*income.MiscIncome
	if err := r.db.Order("date ASC").Find(&records).Error; err != nil {
		return nil, internal.ClassifyStorageError("misc incomes", err)
	}
	return records, nil
}

func (r *IncomeRepository) Update(rec *income.MiscIncome) error {
	rec.UpdatedAt = time.Now()
	if err := r.db.Save(rec).Error; err != nil {
		return internal.ClassifyStorageError("misc incomes", err)
	}
	return nil
}

func (r *IncomeRepository) Delete(id string) error {
	res := r.db.Where("id = ?", id).Delete(&income.MiscIncome{})
	if res.Error != nil {
		return internal.ClassifyStorageError("misc incomes", res.Error)
	}
	if res.RowsAffected == 0 {
		return income.ErrIncomeNotFound
	}
	return nil
}
