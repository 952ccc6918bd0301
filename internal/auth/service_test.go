package auth_test

import (
	"testing"
	"time"

	"github.com/chamahub/chama-management/internal/auth"
	"github.com/chamahub/chama-management/internal/core"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Service Suite")
}

// MockRepository implements auth.RepositoryAPI for testing
type MockRepository struct {
	credentials map[string]struct {
		hash     string
		memberID int64
	}
	actors map[int64]*auth.Actor
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		credentials: make(map[string]struct {
			hash     string
			memberID int64
		}),
		actors: make(map[int64]*auth.Actor),
	}
}

func (m *MockRepository) AddMember(email, password string, memberID int64, role core.Role) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	m.credentials[email] = struct {
		hash     string
		memberID int64
	}{string(hash), memberID}
	m.actors[memberID] = &auth.Actor{ID: memberID, Email: email, Role: role}
}

func (m *MockRepository) GetCredentials(email string) (string, int64, error) {
	cred, ok := m.credentials[email]
	if !ok {
		return "", 0, auth.ErrInvalidCredentials
	}
	return cred.hash, cred.memberID, nil
}

func (m *MockRepository) GetActor(memberID int64) (*auth.Actor, error) {
	actor, ok := m.actors[memberID]
	if !ok {
		return nil, auth.ErrInvalidCredentials
	}
	return actor, nil
}

var _ = Describe("Auth Service", func() {
	var (
		repo    *MockRepository
		service *auth.Service
	)

	BeforeEach(func() {
		repo = NewMockRepository()
		tokenGen := auth.NewJWTTokenGenerator(
			"test-access-secret-at-least-32-chars!",
			"test-refresh-secret-at-least-32-chars",
			15*time.Minute,
			7*24*time.Hour,
		)
		service = auth.NewService(repo, tokenGen, bcrypt.MinCost)

		repo.AddMember("treasurer@example.com", "correct-password", 1, core.RoleTreasurer)
	})

	Describe("Authenticate", func() {
		It("should issue a token pair for valid credentials", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "treasurer@example.com",
				Password: "correct-password",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(tokens.AccessToken).NotTo(BeEmpty())
			Expect(tokens.RefreshToken).NotTo(BeEmpty())
		})

		It("should reject a wrong password", func() {
			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "treasurer@example.com",
				Password: "wrong-password",
			})
			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})

		It("should reject an unknown email", func() {
			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "nobody@example.com",
				Password: "whatever-password",
			})
			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})

		It("should reject a malformed login payload", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: "", Password: ""})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Token validation", func() {
		It("should resolve the member id from a valid access token", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "treasurer@example.com",
				Password: "correct-password",
			})
			Expect(err).NotTo(HaveOccurred())

			claims, err := service.ValidateAccessToken(tokens.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.MemberID).To(Equal(int64(1)))
		})

		It("should reject garbage tokens", func() {
			_, err := service.ValidateAccessToken("not.a.token")
			Expect(err).To(Equal(auth.ErrInvalidToken))
		})
	})

	Describe("RefreshTokens", func() {
		It("should issue a fresh pair from a valid refresh token", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "treasurer@example.com",
				Password: "correct-password",
			})
			Expect(err).NotTo(HaveOccurred())

			renewed, err := service.RefreshTokens(tokens.RefreshToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(renewed.AccessToken).NotTo(BeEmpty())

			claims, err := service.ValidateAccessToken(renewed.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.MemberID).To(Equal(int64(1)))
		})

		It("should reject an invalid refresh token", func() {
			_, err := service.RefreshTokens("bogus")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("GetActor", func() {
		It("should load the actor with its role", func() {
			actor, err := service.GetActor(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(actor.Role).To(Equal(core.RoleTreasurer))
			Expect(actor.CanManageFinances()).To(BeTrue())
			Expect(actor.IsAdmin()).To(BeFalse())
		})
	})

	Describe("HashPassword", func() {
		It("should produce a verifiable bcrypt hash", func() {
			hash, err := service.HashPassword("some-password")
			Expect(err).NotTo(HaveOccurred())
			Expect(auth.VerifyPassword(hash, "some-password")).To(Succeed())
			Expect(auth.VerifyPassword(hash, "other-password")).NotTo(Succeed())
		})
	})
})
