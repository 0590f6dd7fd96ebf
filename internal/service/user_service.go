package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"produce-market/internal/core/auth"
	"produce-market/internal/domain"
	"produce-market/internal/policy"
	"produce-market/pkg/utils"
)

var errBadCredentials = domain.Validation("Incorrect email or password")

type UserService struct {
	users domain.UserRepository
	jwt   *auth.JWTer
	log   *zap.Logger
}

func NewUserService(users domain.UserRepository, j *auth.JWTer, l *zap.Logger) *UserService {
	if l == nil {
		l = zap.NewNop()
	}
	return &UserService{users: users, jwt: j, log: l.Named("users")}
}

type RegisterInput struct {
	FullName    string
	Email       string
	PhoneNumber string
	Password    string
	Role        domain.Role
}

// Register creates an account. Emails are compared lower-cased.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	u := &domain.User{
		FullName:    strings.TrimSpace(in.FullName),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		Role:        domain.Role(strings.TrimSpace(string(in.Role))),
	}
	if u.FullName == "" || u.Email == "" || u.PhoneNumber == "" || in.Password == "" || u.Role == "" {
		return nil, domain.Validation("Something is missing")
	}
	if !u.Role.Valid() {
		return nil, domain.Validationf("invalid role %q", u.Role)
	}

	_, err := s.users.FindByEmail(ctx, u.Email)
	switch {
	case err == nil:
		return nil, domain.ErrEmailTaken
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	if u.PasswordHash, err = utils.HashPassword(in.Password); err != nil {
		return nil, err
	}
	// the unique index still catches a concurrent registration
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.String("user", u.ID), zap.String("role", string(u.Role)))
	return u, nil
}

type LoginResult struct {
	Token string
	User  *domain.User
}

// Login checks credentials and issues an access token. Unknown email and
// wrong password fail identically.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domain.Validation("Something is missing")
	}
	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return nil, errBadCredentials
	}
	tok, err := s.jwt.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: tok, User: u}, nil
}

// Authenticate resolves a bearer token to its user.
func (s *UserService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.Unauthorized("Unauthorized")
	}
	claims, err := s.jwt.Parse(token)
	if err != nil {
		return nil, domain.Unauthorized("Invalid token")
	}
	return s.Resolve(ctx, claims.UserID)
}

// Resolve loads the user a token refers to. A deleted user is unauthorized,
// not missing.
func (s *UserService) Resolve(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Unauthorized("User not found")
	}
	return u, err
}

func (s *UserService) Profile(_ context.Context, caller *domain.User) (*domain.User, error) {
	if caller == nil {
		return nil, domain.Unauthorized("Unauthorized")
	}
	return caller, nil
}

func (s *UserService) ListBuyers(ctx context.Context, caller *domain.User) ([]domain.User, error) {
	if err := policy.Authorize(caller, policy.ListUsers, policy.None); err != nil {
		return nil, err
	}
	return s.users.ListByRole(ctx, domain.RoleBuyer)
}
