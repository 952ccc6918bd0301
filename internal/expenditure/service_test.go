package expenditure_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/chamahub/chama-management/internal"
	"github.com/chamahub/chama-management/internal/auth"
	"github.com/chamahub/chama-management/internal/core"
	"github.com/chamahub/chama-management/internal/core/events"
	"github.com/chamahub/chama-management/internal/expenditure"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestExpenditureService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Expenditure Service Suite")
}

// MockRepository implements expenditure.Repository for testing
type MockRepository struct {
	records    map[int64]*expenditure.Expenditure
	nextID     int64
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		records: make(map[int64]*expenditure.Expenditure),
		nextID:  1,
	}
}

func (m *MockRepository) Create(e *expenditure.Expenditure) error {
	if m.shouldFail {
		return m.failError
	}
	e.ID = m.nextID
	m.nextID++
	m.records[e.ID] = e
	return nil
}

func (m *MockRepository) GetByID(id int64) (*expenditure.Expenditure, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	e, ok := m.records[id]
	if !ok {
		return nil, expenditure.ErrExpenditureNotFound
	}
	return e, nil
}

func (m *MockRepository) List(limit, offset int) ([]*expenditure.Expenditure, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var out []*expenditure.Expenditure
	for _, e := range m.records {
		out = append(out, e)
	}
	return out, nil
}

func (m *MockRepository) Update(e *expenditure.Expenditure) error {
	if m.shouldFail {
		return m.failError
	}
	m.records[e.ID] = e
	return nil
}

func (m *MockRepository) Delete(id int64) error {
	if m.shouldFail {
		return m.failError
	}
	delete(m.records, id)
	return nil
}

var _ = Describe("Expenditure Service", func() {
	var (
		repo      *MockRepository
		service   *expenditure.Service
		treasurer *auth.Actor
		regular   *auth.Actor
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		repo = NewMockRepository()
		service = expenditure.NewService(repo, events.NewEventBus(logger), logger)

		treasurer = &auth.Actor{ID: 1, Email: "treasurer@example.com", Role: core.RoleTreasurer}
		regular = &auth.Actor{ID: 2, Email: "member@example.com", Role: core.RoleMember}
	})

	validDTO := func() expenditure.CreateExpenditureDTO {
		return expenditure.CreateExpenditureDTO{
			Title:       "venue hire",
			Description: "hall for the annual meeting",
			Amount:      3500,
			Date:        time.Now(),
		}
	}

	Describe("RecordExpenditure", func() {
		It("should record a spend with the acting treasurer", func() {
			e, err := service.RecordExpenditure(treasurer, validDTO())
			Expect(err).NotTo(HaveOccurred())
			Expect(e.ID).NotTo(BeZero())
			Expect(e.RecordedBy).To(Equal(treasurer.ID))
		})

		It("should reject a missing title", func() {
			dto := validDTO()
			dto.Title = "  "
			_, err := service.RecordExpenditure(treasurer, dto)
			Expect(err).To(HaveOccurred())
		})

		It("should reject a non-positive amount", func() {
			dto := validDTO()
			dto.Amount = -5
			_, err := service.RecordExpenditure(treasurer, dto)
			Expect(err).To(HaveOccurred())
		})

		It("should deny a non-treasurer", func() {
			_, err := service.RecordExpenditure(regular, validDTO())
			Expect(err).To(Equal(internal.ErrInsufficientRole))
			Expect(repo.records).To(BeEmpty())
		})
	})

	Describe("UpdateExpenditure", func() {
		It("should update fields in place", func() {
			e, err := service.RecordExpenditure(treasurer, validDTO())
			Expect(err).NotTo(HaveOccurred())

			updated, err := service.UpdateExpenditure(treasurer, e.ID, expenditure.UpdateExpenditureDTO{
				Title:       "venue hire (corrected)",
				Description: "hall plus chairs",
				Amount:      4000,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Amount).To(Equal(4000.0))
			Expect(updated.Title).To(Equal("venue hire (corrected)"))
		})

		It("should return not found for a missing record", func() {
			_, err := service.UpdateExpenditure(treasurer, 99, expenditure.UpdateExpenditureDTO{
				Title:  "x",
				Amount: 1,
			})
			Expect(err).To(Equal(expenditure.ErrExpenditureNotFound))
		})
	})

	Describe("DeleteExpenditure", func() {
		It("should delete an existing record", func() {
			e, err := service.RecordExpenditure(treasurer, validDTO())
			Expect(err).NotTo(HaveOccurred())

			Expect(service.DeleteExpenditure(treasurer, e.ID)).To(Succeed())
			Expect(repo.records).To(BeEmpty())
		})

		It("should deny a non-treasurer", func() {
			err := service.DeleteExpenditure(regular, 1)
			Expect(err).To(Equal(internal.ErrInsufficientRole))
		})
	})
})
