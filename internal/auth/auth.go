package auth

import (
	"context"
	"errors"
	"time"

	"github.com/chamahub/chama-management/internal/core"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (AuthTokens, error)
	RefreshTokens(refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetActor(memberID int64) (*Actor, error)
	HashPassword(password string) (string, error)
}

type TokenGeneratorAPI interface {
	GenerateAccessToken(memberID int64) (token string, err error)
	GenerateRefreshToken(memberID int64) (token string, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Actor is the authenticated member as seen by handlers: just enough
// identity to authorize and attribute writes. While a member is still
// pending their effective role is Pending regardless of the stored
// value; the repository enforces that.
type Actor struct {
	ID    int64     `json:"id"`
	Email string    `json:"email"`
	Role  core.Role `json:"role"`
}

func (a *Actor) CanApproveMembers() bool {
	return a.Role.CanApproveMembers()
}

func (a *Actor) CanManageFinances() bool {
	return a.Role.CanManageFinances()
}

func (a *Actor) IsAdmin() bool {
	return a.Role.IsAdmin()
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Claims struct {
	MemberID int64 `json:"member_id"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
)

type ctxKey string

const ContextActorKey ctxKey = "actor"

func ActorFromContext(ctx context.Context) (*Actor, bool) {
	a, ok := ctx.Value(ContextActorKey).(*Actor)
	return a, ok
}

func ContextWithActor(ctx context.Context, a *Actor) context.Context {
	return context.WithValue(ctx, ContextActorKey, a)
}

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
