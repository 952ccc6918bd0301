package report

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/chamahub/chama-management/internal/contribution"
	"github.com/chamahub/chama-management/internal/income"
	"github.com/chamahub/chama-management/internal/member"
	"golang.org/x/sync/errgroup"
)

// MemberReader is the slice of the member store the engine needs.
type MemberReader interface {
	GetByID(id int64) (*member.Member, error)
	ListActive() ([]*member.Member, error)
}

// ContributionReader covers both dues ledgers.
type ContributionReader interface {
	RegularByMemberYear(memberID int64, year int) ([]*contribution.RegularContribution, error)
	RegularByMember(memberID int64) ([]*contribution.RegularContribution, error)
	EarliestRegularYear(memberID int64) (int, error)
	AllRegular() ([]*contribution.RegularContribution, error)
	SpecialsByMember(memberID int64) ([]*contribution.SpecialContribution, error)
	AllSpecial() ([]*contribution.SpecialContribution, error)
}

type IncomeReader interface {
	ListAll() ([]*income.MiscIncome, error)
}

type ExpenditureReader interface {
	TotalSpent() (float64, error)
}

// Service is the aggregation and share engine. Every report is derived
// from the ledgers on demand; nothing here writes state.
type Service struct {
	members       MemberReader
	contributions ContributionReader
	incomes       IncomeReader
	expenditures  ExpenditureReader
	monthlyTarget float64
	logger        *slog.Logger
	now           func() time.Time
}

func NewService(
	members MemberReader,
	contributions ContributionReader,
	incomes IncomeReader,
	expenditures ExpenditureReader,
	monthlyTarget float64,
	logger *slog.Logger,
) *Service {
	return &Service{
		members:       members,
		contributions: contributions,
		incomes:       incomes,
		expenditures:  expenditures,
		monthlyTarget: monthlyTarget,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *Service) AnnualTarget() float64 {
	return s.monthlyTarget * 12
}

// MemberYearSummary walks all twelve months of a member's year. A month
// with no dues row is unpaid at amount 0; partial means paid below the
// monthly target.
func (s *Service) MemberYearSummary(ctx context.Context, memberID int64, year int) (*YearSummary, error) {
	if _, err := s.members.GetByID(memberID); err != nil {
		return nil, err
	}

	var (
		regulars []*contribution.RegularContribution
		specials []*contribution.SpecialContribution
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		regulars, err = s.contributions.RegularByMemberYear(memberID, year)
		return err
	})
	g.Go(func() error {
		var err error
		specials, err = s.contributions.SpecialsByMember(memberID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("year summary fetch failed", "error", err, "member_id", memberID, "year", year)
		return nil, err
	}

	byMonth := make(map[int]float64, len(regulars))
	for _, c := range regulars {
		byMonth[c.Month] = c.Amount
	}

	specialsByMonth := make(map[int][]SpecialEntry)
	for _, sc := range specials {
		if sc.Year != year {
			continue
		}
		specialsByMonth[sc.Month] = append(specialsByMonth[sc.Month], SpecialEntry{
			ID:          sc.ID,
			Amount:      sc.Amount,
			Description: sc.Description,
			Date:        sc.Date,
		})
	}

	summary := &YearSummary{
		MemberID:      memberID,
		Year:          year,
		MonthlyTarget: s.monthlyTarget,
		Months:        make([]MonthEntry, 0, 12),
	}

	for m := 0; m < 12; m++ {
		amount := byMonth[m]
		summary.Months = append(summary.Months, MonthEntry{
			Month:    m,
			Amount:   amount,
			Status:   s.classify(amount),
			Specials: specialsByMonth[m],
		})
		summary.RegularTotal += amount
		for _, sp := range specialsByMonth[m] {
			summary.SpecialTotal += sp.Amount
		}
	}

	return summary, nil
}

func (s *Service) classify(amount float64) MonthStatus {
	switch {
	case amount == 0:
		return MonthUnpaid
	case amount < s.monthlyTarget:
		return MonthPartial
	default:
		return MonthPaid
	}
}

// MemberAllTimeDebt sums each year's shortfall against the annual
// target, from the member's earliest contribution-or-join year through
// the current year. Overpaid years offset underpaid ones; only the
// final total is floored at zero.
func (s *Service) MemberAllTimeDebt(ctx context.Context, memberID int64) (*DebtReport, error) {
	m, err := s.members.GetByID(memberID)
	if err != nil {
		return nil, err
	}

	var (
		earliest int
		regulars []*contribution.RegularContribution
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		earliest, err = s.contributions.EarliestRegularYear(memberID)
		return err
	})
	g.Go(func() error {
		var err error
		regulars, err = s.contributions.RegularByMember(memberID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("debt fetch failed", "error", err, "member_id", memberID)
		return nil, err
	}

	currentYear := s.now().Year()
	fromYear := m.JoinedAt.Year()
	if earliest != 0 && earliest < fromYear {
		fromYear = earliest
	}
	if fromYear > currentYear {
		fromYear = currentYear
	}

	paidByYear := make(map[int]float64)
	for _, c := range regulars {
		paidByYear[c.Year] += c.Amount
	}

	annualTarget := s.AnnualTarget()
	var debt float64
	for year := fromYear; year <= currentYear; year++ {
		debt += annualTarget - paidByYear[year]
	}
	if debt < 0 {
		debt = 0
	}

	return &DebtReport{
		MemberID:     memberID,
		FromYear:     fromYear,
		ToYear:       currentYear,
		AnnualTarget: annualTarget,
		TotalDebt:    debt,
	}, nil
}

// GroupShareSnapshot recomputes the full ownership view from scratch.
// Misc income is split equally among active members before percentages
// are taken, so the snapshot always conserves the grand total.
func (s *Service) GroupShareSnapshot(ctx context.Context) (*ShareSnapshot, error) {
	var (
		activeMembers []*member.Member
		regulars      []*contribution.RegularContribution
		specials      []*contribution.SpecialContribution
		incomes       []*income.MiscIncome
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		activeMembers, err = s.members.ListActive()
		return err
	})
	g.Go(func() error {
		var err error
		regulars, err = s.contributions.AllRegular()
		return err
	})
	g.Go(func() error {
		var err error
		specials, err = s.contributions.AllSpecial()
		return err
	})
	g.Go(func() error {
		var err error
		incomes, err = s.incomes.ListAll()
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("share snapshot fetch failed", "error", err)
		return nil, err
	}

	snapshot := &ShareSnapshot{
		GeneratedAt:   s.now(),
		ActiveMembers: len(activeMembers),
	}

	regularByMember := make(map[int64]float64)
	for _, c := range regulars {
		regularByMember[c.MemberID] += c.Amount
		snapshot.MonthlyTotal += c.Amount
	}
	specialByMember := make(map[int64]float64)
	for _, c := range specials {
		specialByMember[c.MemberID] += c.Amount
		snapshot.SpecialTotal += c.Amount
	}
	for _, rec := range incomes {
		snapshot.MiscTotal += rec.Amount
	}
	snapshot.GrandTotal = snapshot.MonthlyTotal + snapshot.SpecialTotal + snapshot.MiscTotal

	// Divisor is floored at 1 so the scalar stays defined for an empty
	// group; with no members there are no share rows to apply it to.
	divisor := len(activeMembers)
	if divisor == 0 {
		divisor = 1
	}
	snapshot.EqualShare = snapshot.MiscTotal / float64(divisor)

	snapshot.Shares = make([]MemberShare, 0, len(activeMembers))
	for _, m := range activeMembers {
		personal := regularByMember[m.ID] + specialByMember[m.ID]
		effective := personal + snapshot.EqualShare

		var percentage float64
		if snapshot.GrandTotal > 0 {
			percentage = 100 * effective / snapshot.GrandTotal
		}

		snapshot.Shares = append(snapshot.Shares, MemberShare{
			MemberID:              m.ID,
			FirstName:             m.FirstName,
			LastName:              m.LastName,
			PersonalContribution:  personal,
			EffectiveContribution: effective,
			SharePercentage:       percentage,
		})
	}

	// Descending by share, ties broken by ascending member id so the
	// ordering is stable across recomputations.
	sort.SliceStable(snapshot.Shares, func(i, j int) bool {
		if snapshot.Shares[i].SharePercentage != snapshot.Shares[j].SharePercentage {
			return snapshot.Shares[i].SharePercentage > snapshot.Shares[j].SharePercentage
		}
		return snapshot.Shares[i].MemberID < snapshot.Shares[j].MemberID
	})

	return snapshot, nil
}

// ComputeNetFunds reports what remains after expenditures are taken out
// of everything ever collected.
func (s *Service) ComputeNetFunds(ctx context.Context) (*NetFunds, error) {
	var (
		snapshot *ShareSnapshot
		spent    float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snapshot, err = s.GroupShareSnapshot(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		spent, err = s.expenditures.TotalSpent()
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("net funds fetch failed", "error", err)
		return nil, err
	}

	return &NetFunds{
		GrandTotal: snapshot.GrandTotal,
		TotalSpent: spent,
		NetFunds:   snapshot.GrandTotal - spent,
	}, nil
}
