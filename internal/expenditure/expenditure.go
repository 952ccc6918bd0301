package expenditure

import (
	"errors"
	"time"
)

var ErrExpenditureNotFound = errors.New("expenditure not found")

// Expenditure is a group-level spend record. Expenditures only ever
// subtract from net funds; they never affect any member's share.
type Expenditure struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount" gorm:"not null"`
	Date        time.Time `json:"date" gorm:"not null"`
	RecordedBy  int64     `json:"recorded_by" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Expenditure) TableName() string {
	return "expenditures"
}
