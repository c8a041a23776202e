package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"gurukul/internal/model"
	"gurukul/internal/repository"
	"gurukul/internal/util"
)

const (
	minPasswordLength = 8
	// bcrypt rejects passwords longer than 72 bytes
	maxPasswordBytes = 72
)

// RegisterInput is a self-service sign-up. Admin accounts cannot be created this way.
type RegisterInput struct {
	Email          string
	Password       string
	FirstName      string
	LastName       string
	Role           string
	Grade          *string
	Specialization *string
	Bio            *string
}

// AuthResult is a signed-in session
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *model.User
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}

type authService struct {
	users      repository.UserRepository
	jwtSecret  string
	ttl        time.Duration
	now        func() time.Time
	bcryptCost int
	authLogger zerolog.Logger
}

func NewAuthService(users repository.UserRepository, jwtSecret string, ttl time.Duration, logger zerolog.Logger) AuthService {
	return &authService{
		users:      users,
		jwtSecret:  jwtSecret,
		ttl:        ttl,
		now:        time.Now,
		bcryptCost: bcrypt.DefaultCost,
		authLogger: logger.With().Str("service", "AuthService").Logger(),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	switch in.Role {
	case model.RoleStudent, model.RoleTeacher, model.RoleParent:
	default:
		return nil, ErrInvalidRole
	}
	if utf8.RuneCountInString(in.Password) < minPasswordLength {
		return nil, ErrWeakPassword
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	email := normalizeEmail(in.Email)
	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &model.User{
		Email:          email,
		PasswordHash:   string(hash),
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		Role:           in.Role,
		Grade:          in.Grade,
		Specialization: in.Specialization,
		Bio:            in.Bio,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		s.authLogger.Error().Err(err).Str("email", email).Msg("Failed to create user")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.authLogger.Info().Str("user_id", u.ID).Str("role", u.Role).Msg("User registered")
	return u, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if u == nil || !u.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := util.IssueToken(s.jwtSecret, u.ID, u.Email, u.Role, s.ttl, s.now())
	if err != nil {
		s.authLogger.Error().Err(err).Str("user_id", u.ID).Msg("Failed to issue token")
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: u}, nil
}
