package income

import (
	"errors"
	"time"
)

// IncomeType enumerates group-level income sources. Registration fees
// are written automatically when a member activates; fines and loan
// interest are recorded manually by a finance manager.
const (
	TypeRegistrationFee = "registration_fee"
	TypeFine            = "fine"
	TypeLoanInterest    = "loan_interest"
)

func ValidType(t string) bool {
	return t == TypeRegistrationFee || t == TypeFine || t == TypeLoanInterest
}

// MiscIncome is a group-level income record, optionally attributed to a
// member (the fee payer, the fined member).
type MiscIncome struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Type        string    `json:"type" gorm:"column:type;not null"`
	Description string    `json:"description" gorm:"not null"`
	Amount      float64   `json:"amount" gorm:"not null"`
	Date        time.Time `json:"date" gorm:"column:date;not null"`
	MemberID    *int64    `json:"member_id,omitempty" gorm:"column:member_id"`
	RecordedBy  int64     `json:"recorded_by" gorm:"column:recorded_by;not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (MiscIncome) TableName() string {
	return "misc_incomes"
}

var ErrIncomeNotFound = errors.New("income record not found")
