package contribution

import (
	"errors"
	"time"
)

var (
	ErrContributionNotFound = errors.New("contribution not found")
)

// RegularContribution is one member's payment toward the fixed monthly due.
// At most one row exists per (member, year, month); later writes for the
// same triple replace the amount instead of appending.
type RegularContribution struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	MemberID  int64     `json:"member_id" gorm:"not null;uniqueIndex:idx_regular_member_period,priority:1"`
	Year      int       `json:"year" gorm:"not null;uniqueIndex:idx_regular_member_period,priority:2"`
	Month     int       `json:"month" gorm:"not null;uniqueIndex:idx_regular_member_period,priority:3;check:chk_regular_month,month >= 0 AND month <= 11"`
	Amount    float64   `json:"amount" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (RegularContribution) TableName() string {
	return "regular_contributions"
}

// SpecialContribution is a discrete one-off (miniharambee) contribution.
// Records are independent: several may exist for the same member and month,
// and edits never change identity or period.
type SpecialContribution struct {
	ID              string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	MemberID        int64     `json:"member_id" gorm:"not null;index"`
	Amount          float64   `json:"amount" gorm:"not null"`
	Description     string    `json:"description"`
	Date            time.Time `json:"date" gorm:"not null"`
	Month           int       `json:"month" gorm:"not null"`
	Year            int       `json:"year" gorm:"not null"`
	FinancialYearID string    `json:"financial_year_id" gorm:"type:varchar(36)"`
	RecordedBy      int64     `json:"recorded_by" gorm:"not null"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (SpecialContribution) TableName() string {
	return "special_contributions"
}
