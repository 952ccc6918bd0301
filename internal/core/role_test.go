package core_test

import (
	"testing"

	"github.com/chamahub/chama-management/internal/core"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCoreRole(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Core Role Suite")
}

var _ = Describe("Role", func() {
	Describe("ParseRole", func() {
		It("should accept every known role", func() {
			for _, name := range []string{
				"admin", "chairperson", "vice_chairperson", "treasurer",
				"coordinator", "secretary", "investment_lead", "member", "pending",
			} {
				r, err := core.ParseRole(name)
				Expect(err).NotTo(HaveOccurred())
				Expect(r.Valid()).To(BeTrue())
				Expect(r.String()).To(Equal(name))
			}
		})

		It("should reject unknown role names", func() {
			_, err := core.ParseRole("superuser")
			Expect(err).To(HaveOccurred())
		})

		It("should be case sensitive", func() {
			_, err := core.ParseRole("Admin")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("CanApproveMembers", func() {
		It("should allow treasurer, chairperson and admin", func() {
			Expect(core.RoleTreasurer.CanApproveMembers()).To(BeTrue())
			Expect(core.RoleChairperson.CanApproveMembers()).To(BeTrue())
			Expect(core.RoleAdmin.CanApproveMembers()).To(BeTrue())
		})

		It("should deny every other role", func() {
			Expect(core.RoleViceChairperson.CanApproveMembers()).To(BeFalse())
			Expect(core.RoleSecretary.CanApproveMembers()).To(BeFalse())
			Expect(core.RoleMember.CanApproveMembers()).To(BeFalse())
			Expect(core.RolePending.CanApproveMembers()).To(BeFalse())
		})
	})

	Describe("CanManageFinances", func() {
		It("should allow only treasurer and admin", func() {
			Expect(core.RoleTreasurer.CanManageFinances()).To(BeTrue())
			Expect(core.RoleAdmin.CanManageFinances()).To(BeTrue())
			Expect(core.RoleChairperson.CanManageFinances()).To(BeFalse())
			Expect(core.RoleMember.CanManageFinances()).To(BeFalse())
		})
	})

	Describe("CanManageMembers", func() {
		It("should allow only admin", func() {
			Expect(core.RoleAdmin.CanManageMembers()).To(BeTrue())
			Expect(core.RoleTreasurer.CanManageMembers()).To(BeFalse())
			Expect(core.RoleChairperson.CanManageMembers()).To(BeFalse())
		})
	})
})
