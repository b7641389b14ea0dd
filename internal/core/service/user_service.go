package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/geonotes/notes-api/internal/core/domain"
	"github.com/geonotes/notes-api/internal/core/ports"
)

const defaultTokenTTL = time.Hour

// UserService implements registration, login and profile lookup.
type UserService struct {
	repo        ports.UserRepository
	codec       ports.CredentialCodec
	tokenTTL    time.Duration
	adminEmails map[string]struct{}
	logger      zerolog.Logger
}

// NewUserService wires the service. Accounts whose e-mail is listed in
// adminEmails are registered with the ADMIN role.
func NewUserService(
	repo ports.UserRepository,
	codec ports.CredentialCodec,
	tokenTTL time.Duration,
	adminEmails []string,
	logger zerolog.Logger,
) *UserService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e = normalizeEmail(e); e != "" {
			admins[e] = struct{}{}
		}
	}
	return &UserService{
		repo:        repo,
		codec:       codec,
		tokenTTL:    tokenTTL,
		adminEmails: admins,
		logger:      logger,
	}
}

func (s *UserService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	userName := strings.TrimSpace(in.UserName)
	if email == "" || userName == "" || in.Password == "" {
		return nil, domain.BadRequest("Invalid input")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, &domain.Error{Kind: domain.KindBadRequest, Message: "Invalid input", Detail: err}
		}
		return nil, domain.Internal("Failed to create user", err)
	}

	role := domain.RoleUser
	if _, ok := s.adminEmails[email]; ok {
		role = domain.RoleAdmin
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Email:        email,
		UserName:     userName,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.Conflict("User already exists")
		}
		return nil, domain.Internal("Database error", err)
	}

	s.logger.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user registered")
	return created, nil
}

// Login never tells an unknown e-mail apart from a wrong password.
func (s *UserService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.BadRequest("Email and password are required")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.Unauthenticated("Invalid credentials")
		}
		return nil, domain.Internal("Database error", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.Unauthenticated("Invalid credentials")
	}

	id := user.Identity()
	token, err := s.codec.Issue(id.ID, id.Role, s.tokenTTL)
	if err != nil {
		return nil, domain.Internal("Failed to issue token", err)
	}

	return &ports.LoginResult{Token: token, User: user}, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "User not found")
	}
	return user, nil
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
