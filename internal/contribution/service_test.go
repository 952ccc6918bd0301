package contribution_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/chamahub/chama-management/internal"
	"github.com/chamahub/chama-management/internal/auth"
	"github.com/chamahub/chama-management/internal/contribution"
	"github.com/chamahub/chama-management/internal/core"
	"github.com/chamahub/chama-management/internal/core/events"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestContributionService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Contribution Service Suite")
}

type regularKey struct {
	memberID int64
	year     int
	month    int
}

// MockRepository implements contribution.Repository with upsert-by-key
// semantics for the regular ledger.
type MockRepository struct {
	regulars   map[regularKey]*contribution.RegularContribution
	specials   map[string]*contribution.SpecialContribution
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		regulars: make(map[regularKey]*contribution.RegularContribution),
		specials: make(map[string]*contribution.SpecialContribution),
	}
}

func (m *MockRepository) UpsertRegular(c *contribution.RegularContribution) (*contribution.RegularContribution, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	key := regularKey{c.MemberID, c.Year, c.Month}
	if existing, ok := m.regulars[key]; ok {
		existing.Amount = c.Amount
		return existing, nil
	}
	m.regulars[key] = c
	return c, nil
}

func (m *MockRepository) UpsertRegularBatch(batch []*contribution.RegularContribution) error {
	if m.shouldFail {
		return m.failError
	}
	for _, c := range batch {
		if _, err := m.UpsertRegular(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockRepository) RegularByMemberYear(memberID int64, year int) ([]*contribution.RegularContribution, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var out []*contribution.RegularContribution
	for key, c := range m.regulars {
		if key.memberID == memberID && key.year == year {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MockRepository) CreateSpecial(c *contribution.SpecialContribution) error {
	if m.shouldFail {
		return m.failError
	}
	m.specials[c.ID] = c
	return nil
}

func (m *MockRepository) GetSpecial(id string) (*contribution.SpecialContribution, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	c, ok := m.specials[id]
	if !ok {
		return nil, contribution.ErrContributionNotFound
	}
	return c, nil
}

func (m *MockRepository) SpecialsByMember(memberID int64) ([]*contribution.SpecialContribution, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var out []*contribution.SpecialContribution
	for _, c := range m.specials {
		if c.MemberID == memberID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MockRepository) UpdateSpecial(c *contribution.SpecialContribution) error {
	if m.shouldFail {
		return m.failError
	}
	m.specials[c.ID] = c
	return nil
}

func (m *MockRepository) DeleteSpecial(id string) error {
	if m.shouldFail {
		return m.failError
	}
	delete(m.specials, id)
	return nil
}

var _ = Describe("Contribution Service", func() {
	var (
		repo      *MockRepository
		service   *contribution.Service
		treasurer *auth.Actor
		regular   *auth.Actor
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		repo = NewMockRepository()
		service = contribution.NewService(repo, events.NewEventBus(logger), logger)

		treasurer = &auth.Actor{ID: 1, Email: "treasurer@example.com", Role: core.RoleTreasurer}
		regular = &auth.Actor{ID: 2, Email: "member@example.com", Role: core.RoleMember}
	})

	Describe("RecordRegular", func() {
		It("should record dues for a valid month", func() {
			rec, err := service.RecordRegular(treasurer, contribution.UpsertRegularDTO{
				MemberID: 10, Year: 2025, Month: 0, Amount: 500,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Amount).To(Equal(500.0))
		})

		It("should converge to the latest amount for the same key", func() {
			_, err := service.RecordRegular(treasurer, contribution.UpsertRegularDTO{
				MemberID: 10, Year: 2025, Month: 0, Amount: 500,
			})
			Expect(err).NotTo(HaveOccurred())

			rec, err := service.RecordRegular(treasurer, contribution.UpsertRegularDTO{
				MemberID: 10, Year: 2025, Month: 0, Amount: 300,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Amount).To(Equal(300.0))
			Expect(repo.regulars).To(HaveLen(1))
		})

		It("should accept a zero amount", func() {
			_, err := service.RecordRegular(treasurer, contribution.UpsertRegularDTO{
				MemberID: 10, Year: 2025, Month: 0, Amount: 0,
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should reject month 12", func() {
			_, err := service.RecordRegular(treasurer, contribution.UpsertRegularDTO{
				MemberID: 10, Year: 2025, Month: 12, Amount: 500,
			})
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should reject a negative month", func() {
			_, err := service.RecordRegular(treasurer, contribution.UpsertRegularDTO{
				MemberID: 10, Year: 2025, Month: -1, Amount: 500,
			})
			Expect(err).To(HaveOccurred())
		})

		It("should reject a negative amount", func() {
			_, err := service.RecordRegular(treasurer, contribution.UpsertRegularDTO{
				MemberID: 10, Year: 2025, Month: 0, Amount: -1,
			})
			Expect(err).To(HaveOccurred())
		})

		It("should deny a non-treasurer", func() {
			_, err := service.RecordRegular(regular, contribution.UpsertRegularDTO{
				MemberID: 10, Year: 2025, Month: 0, Amount: 500,
			})
			Expect(err).To(Equal(internal.ErrInsufficientRole))
			Expect(repo.regulars).To(BeEmpty())
		})
	})

	Describe("RecordRegularBatch", func() {
		It("should apply a full grid", func() {
			err := service.RecordRegularBatch(treasurer, contribution.BatchRegularDTO{
				Year: 2025,
				Entries: []contribution.BatchRegularEntry{
					{MemberID: 10, Month: 0, Amount: 200},
					{MemberID: 10, Month: 1, Amount: 200},
					{MemberID: 11, Month: 0, Amount: 150},
				},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.regulars).To(HaveLen(3))
		})

		It("should reject the whole batch when a cell is invalid", func() {
			err := service.RecordRegularBatch(treasurer, contribution.BatchRegularDTO{
				Year: 2025,
				Entries: []contribution.BatchRegularEntry{
					{MemberID: 10, Month: 0, Amount: 200},
					{MemberID: 10, Month: 13, Amount: 200},
				},
			})
			Expect(err).To(HaveOccurred())
			Expect(repo.regulars).To(BeEmpty())
		})

		It("should reject an empty batch", func() {
			err := service.RecordRegularBatch(treasurer, contribution.BatchRegularDTO{Year: 2025})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("RecordSpecial", func() {
		It("should derive month, year and financial year from the date", func() {
			rec, err := service.RecordSpecial(treasurer, contribution.RecordSpecialDTO{
				MemberID:    10,
				Amount:      750,
				Description: "school fundraiser",
				Date:        time.Date(2025, time.March, 8, 0, 0, 0, 0, time.UTC),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.ID).NotTo(BeEmpty())
			Expect(rec.Month).To(Equal(2))
			Expect(rec.Year).To(Equal(2025))
			Expect(rec.FinancialYearID).To(Equal("2025"))
			Expect(rec.RecordedBy).To(Equal(treasurer.ID))
		})

		It("should append rather than merge repeated contributions", func() {
			dto := contribution.RecordSpecialDTO{
				MemberID:    10,
				Amount:      100,
				Description: "harambee",
				Date:        time.Date(2025, time.March, 8, 0, 0, 0, 0, time.UTC),
			}
			_, err := service.RecordSpecial(treasurer, dto)
			Expect(err).NotTo(HaveOccurred())
			_, err = service.RecordSpecial(treasurer, dto)
			Expect(err).NotTo(HaveOccurred())

			Expect(repo.specials).To(HaveLen(2))
		})

		It("should reject a zero amount", func() {
			_, err := service.RecordSpecial(treasurer, contribution.RecordSpecialDTO{
				MemberID:    10,
				Amount:      0,
				Description: "harambee",
				Date:        time.Now(),
			})
			Expect(err).To(HaveOccurred())
		})

		It("should deny a non-treasurer", func() {
			_, err := service.RecordSpecial(regular, contribution.RecordSpecialDTO{
				MemberID:    10,
				Amount:      100,
				Description: "harambee",
				Date:        time.Now(),
			})
			Expect(err).To(Equal(internal.ErrInsufficientRole))
		})
	})

	Describe("EditSpecial", func() {
		It("should change amount and description but never identity or period", func() {
			rec, err := service.RecordSpecial(treasurer, contribution.RecordSpecialDTO{
				MemberID:    10,
				Amount:      100,
				Description: "original",
				Date:        time.Date(2025, time.March, 8, 0, 0, 0, 0, time.UTC),
			})
			Expect(err).NotTo(HaveOccurred())

			updated, err := service.EditSpecial(treasurer, rec.ID, contribution.EditSpecialDTO{
				Amount:      250,
				Description: "revised",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.ID).To(Equal(rec.ID))
			Expect(updated.Amount).To(Equal(250.0))
			Expect(updated.Description).To(Equal("revised"))
			Expect(updated.Month).To(Equal(2))
			Expect(updated.Year).To(Equal(2025))
		})

		It("should return not found for a missing record", func() {
			_, err := service.EditSpecial(treasurer, "missing", contribution.EditSpecialDTO{
				Amount:      1,
				Description: "x",
			})
			Expect(err).To(Equal(contribution.ErrContributionNotFound))
		})
	})

	Describe("DeleteSpecial", func() {
		It("should delete an existing record", func() {
			rec, err := service.RecordSpecial(treasurer, contribution.RecordSpecialDTO{
				MemberID:    10,
				Amount:      100,
				Description: "harambee",
				Date:        time.Now(),
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.DeleteSpecial(treasurer, rec.ID)).To(Succeed())
			Expect(repo.specials).To(BeEmpty())
		})

		It("should deny a non-treasurer", func() {
			err := service.DeleteSpecial(regular, "any")
			Expect(err).To(Equal(internal.ErrInsufficientRole))
		})
	})
})
