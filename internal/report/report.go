package report

import "time"

// MonthStatus classifies one month of a member's dues against the
// monthly target.
type MonthStatus string

const (
	MonthUnpaid  MonthStatus = "unpaid"
	MonthPartial MonthStatus = "partial"
	MonthPaid    MonthStatus = "paid"
)

// MonthEntry is one month of a member's year summary. Months with no
// dues row report a zero amount, not an absent entry.
type MonthEntry struct {
	Month    int            `json:"month"`
	Amount   float64        `json:"amount"`
	Status   MonthStatus    `json:"status"`
	Specials []SpecialEntry `json:"specials,omitempty"`
}

type SpecialEntry struct {
	ID          string    `json:"id"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}

// YearSummary covers all twelve months of one member's year.
type YearSummary struct {
	MemberID      int64        `json:"member_id"`
	Year          int          `json:"year"`
	MonthlyTarget float64      `json:"monthly_target"`
	Months        []MonthEntry `json:"months"`
	RegularTotal  float64      `json:"regular_total"`
	SpecialTotal  float64      `json:"special_total"`
}

// DebtReport is a member's accumulated shortfall against the annual
// target, summed from their first contribution-or-join year to now.
type DebtReport struct {
	MemberID     int64   `json:"member_id"`
	FromYear     int     `json:"from_year"`
	ToYear       int     `json:"to_year"`
	AnnualTarget float64 `json:"annual_target"`
	TotalDebt    float64 `json:"total_debt"`
}

// MemberShare is one row of the group snapshot.
type MemberShare struct {
	MemberID              int64   `json:"member_id"`
	FirstName             string  `json:"first_name"`
	LastName              string  `json:"last_name"`
	PersonalContribution  float64 `json:"personal_contribution"`
	EffectiveContribution float64 `json:"effective_contribution"`
	SharePercentage       float64 `json:"share_percentage"`
}

// ShareSnapshot is the derived group-wide ownership view. It is
// recomputed on every request and never persisted.
type ShareSnapshot struct {
	GeneratedAt   time.Time     `json:"generated_at"`
	ActiveMembers int           `json:"active_members"`
	MonthlyTotal  float64       `json:"monthly_total"`
	SpecialTotal  float64       `json:"special_total"`
	MiscTotal     float64       `json:"misc_total"`
	GrandTotal    float64       `json:"grand_total"`
	EqualShare    float64       `json:"equal_share_from_misc"`
	Shares        []MemberShare `json:"shares"`
}

type NetFunds struct {
	GrandTotal float64 `json:"grand_total"`
	TotalSpent float64 `json:"total_spent"`
	NetFunds   float64 `json:"net_funds"`
}
