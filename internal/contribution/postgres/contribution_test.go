package postgres_test

import (
	"testing"
	"time"

	"github.com/chamahub/chama-management/internal/contribution"
	contributionPostgres "github.com/chamahub/chama-management/internal/contribution/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestContributionPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Contribution Postgres Suite")
}

var _ = Describe("Contribution PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo *contributionPostgres.ContributionRepository
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&contribution.RegularContribution{}, &contribution.SpecialContribution{})
		Expect(err).NotTo(HaveOccurred())

		repo = contributionPostgres.NewContributionRepository(db)
	})

	Describe("UpsertRegular", func() {
		It("should insert a new dues row", func() {
			rec, err := repo.UpsertRegular(&contribution.RegularContribution{
				MemberID: 1, Year: 2025, Month: 3, Amount: 500,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Amount).To(Equal(500.0))
		})

		It("should leave exactly one row valued at the latest amount after repeated writes", func() {
			_, err := repo.UpsertRegular(&contribution.RegularContribution{
				MemberID: 1, Year: 2025, Month: 3, Amount: 500,
			})
			Expect(err).NotTo(HaveOccurred())

			rec, err := repo.UpsertRegular(&contribution.RegularContribution{
				MemberID: 1, Year: 2025, Month: 3, Amount: 300,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Amount).To(Equal(300.0))

			var count int64
			Expect(db.Model(&contribution.RegularContribution{}).Count(&count).Error).To(Succeed())
			Expect(count).To(Equal(int64(1)))

			rows, err := repo.RegularByMemberYear(1, 2025)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].Amount).To(Equal(300.0))
		})

		It("should allow overwriting with zero to mark a month unpaid", func() {
			_, err := repo.UpsertRegular(&contribution.RegularContribution{
				MemberID: 1, Year: 2025, Month: 5, Amount: 800,
			})
			Expect(err).NotTo(HaveOccurred())

			rec, err := repo.UpsertRegular(&contribution.RegularContribution{
				MemberID: 1, Year: 2025, Month: 5, Amount: 0,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Amount).To(Equal(0.0))
		})

		It("should keep rows for different months independent", func() {
			for m := 0; m < 3; m++ {
				_, err := repo.UpsertRegular(&contribution.RegularContribution{
					MemberID: 1, Year: 2025, Month: m, Amount: 200,
				})
				Expect(err).NotTo(HaveOccurred())
			}

			rows, err := repo.RegularByMemberYear(1, 2025)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(3))
		})
	})

	Describe("UpsertRegularBatch", func() {
		It("should apply every cell of the grid", func() {
			batch := []*contribution.RegularContribution{
				{MemberID: 1, Year: 2025, Month: 0, Amount: 200},
				{MemberID: 1, Year: 2025, Month: 1, Amount: 200},
				{MemberID: 2, Year: 2025, Month: 0, Amount: 150},
			}
			Expect(repo.UpsertRegularBatch(batch)).To(Succeed())

			all, err := repo.AllRegular()
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(3))
		})

		It("should merge batch cells over existing rows", func() {
			_, err := repo.UpsertRegular(&contribution.RegularContribution{
				MemberID: 1, Year: 2025, Month: 0, Amount: 999,
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(repo.UpsertRegularBatch([]*contribution.RegularContribution{
				{MemberID: 1, Year: 2025, Month: 0, Amount: 200},
			})).To(Succeed())

			rows, err := repo.RegularByMemberYear(1, 2025)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].Amount).To(Equal(200.0))
		})

		It("should roll back already-written cells when a later cell fails", func() {
			// Month 13 violates the table's month range constraint.
			err := repo.UpsertRegularBatch([]*contribution.RegularContribution{
				{MemberID: 1, Year: 2025, Month: 0, Amount: 200},
				{MemberID: 1, Year: 2025, Month: 1, Amount: 200},
				{MemberID: 1, Year: 2025, Month: 13, Amount: 200},
			})
			Expect(err).To(HaveOccurred())

			all, listErr := repo.AllRegular()
			Expect(listErr).NotTo(HaveOccurred())
			Expect(all).To(BeEmpty())
		})
	})

	Describe("EarliestRegularYear", func() {
		It("should return the first year with a dues row", func() {
			Expect(repo.UpsertRegularBatch([]*contribution.RegularContribution{
				{MemberID: 1, Year: 2024, Month: 0, Amount: 200},
				{MemberID: 1, Year: 2022, Month: 5, Amount: 200},
				{MemberID: 1, Year: 2025, Month: 1, Amount: 200},
			})).To(Succeed())

			year, err := repo.EarliestRegularYear(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(year).To(Equal(2022))
		})

		It("should return zero for a member with no contributions", func() {
			year, err := repo.EarliestRegularYear(42)
			Expect(err).NotTo(HaveOccurred())
			Expect(year).To(Equal(0))
		})
	})

	Describe("Special contributions", func() {
		newSpecial := func(id string, memberID int64, amount float64) *contribution.SpecialContribution {
			rec := &contribution.SpecialContribution{
				ID:          id,
				MemberID:    memberID,
				Amount:      amount,
				Description: "harambee",
				Date:        time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC),
				Month:       5,
				Year:        2025,
				RecordedBy:  1,
			}
			Expect(repo.CreateSpecial(rec)).To(Succeed())
			return rec
		}

		It("should append independent records for the same member and month", func() {
			newSpecial("a-1", 1, 100)
			newSpecial("a-2", 1, 250)

			records, err := repo.SpecialsByMember(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(2))
		})

		It("should update amount and description in place", func() {
			rec := newSpecial("b-1", 1, 100)

			rec.Amount = 175
			rec.Description = "updated"
			rec.UpdatedAt = time.Now()
			Expect(repo.UpdateSpecial(rec)).To(Succeed())

			got, err := repo.GetSpecial("b-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Amount).To(Equal(175.0))
			Expect(got.Description).To(Equal("updated"))
			Expect(got.Year).To(Equal(2025))
			Expect(got.Month).To(Equal(5))
		})

		It("should hard delete one record without touching its siblings", func() {
			newSpecial("c-1", 1, 100)
			newSpecial("c-2", 1, 200)

			Expect(repo.DeleteSpecial("c-1")).To(Succeed())

			_, err := repo.GetSpecial("c-1")
			Expect(err).To(Equal(contribution.ErrContributionNotFound))

			records, err := repo.SpecialsByMember(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
		})

		It("should return not found when updating a missing record", func() {
			err := repo.UpdateSpecial(&contribution.SpecialContribution{ID: "missing", Amount: 10})
			Expect(err).To(Equal(contribution.ErrContributionNotFound))
		})
	})
})
