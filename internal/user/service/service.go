// Package service implements registration, login and profile management.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/IsSact22/Gestion-tareas-sub001/internal/common/errors"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/logger"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/user/models"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/user/store"
)

const minPasswordLength = 6

// TokenIssuer signs bearer tokens for authenticated users.
type TokenIssuer interface {
	Generate(userID, role string) (string, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) (bool, error)
}

type Service struct {
	repo   store.Repository
	tokens TokenIssuer
	hasher PasswordHasher
	logger *logger.Logger
}

type RegisterRequest struct {
	Name     string
	Email    string
	Password string
}

type UpdateProfileRequest struct {
	Name   *string
	Avatar *string
}

func NewService(repo store.Repository, tokens TokenIssuer, hasher PasswordHasher, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		hasher: hasher,
		logger: log.WithFields(zap.String("component", "user-service")),
	}
}

// Register validates input, rejects a taken email with 400 and returns the
// new user with a signed token.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*models.User, string, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if name == "" {
		return nil, "", apperrors.ValidationError("name", "is required")
	}
	if !strings.Contains(email, "@") {
		return nil, "", apperrors.ValidationError("email", "is invalid")
	}
	if len(req.Password) < minPasswordLength {
		return nil, "", apperrors.ValidationError("password", "must be at least 6 characters")
	}

	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return nil, "", apperrors.BadRequest("email already registered")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, "", apperrors.InternalError("failed to look up email", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, "", apperrors.InternalError("failed to hash password", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleMember,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, store.ErrEmailTaken) {
			return nil, "", apperrors.BadRequest("email already registered")
		}
		return nil, "", apperrors.InternalError("failed to create user", err)
	}

	token, err := s.tokens.Generate(user.ID, string(user.Role))
	if err != nil {
		return nil, "", apperrors.InternalError("failed to issue token", err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return user, token, nil
}

// Login verifies credentials. Unknown emails and wrong passwords produce the
// same 401.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", apperrors.Unauthorized("invalid credentials")
		}
		return nil, "", apperrors.InternalError("failed to look up user", err)
	}

	ok, err := s.hasher.Compare(user.PasswordHash, password)
	if err != nil {
		return nil, "", apperrors.InternalError("failed to verify password", err)
	}
	if !ok {
		return nil, "", apperrors.Unauthorized("invalid credentials")
	}

	token, err := s.tokens.Generate(user.ID, string(user.Role))
	if err != nil {
		return nil, "", apperrors.InternalError("failed to issue token", err)
	}
	return user, token, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(err, "user not found")
	}
	return user, nil
}

// FindByEmail looks a user up by exact (case-insensitive) email.
func (s *Service) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, apperrors.ValidationError("email", "is required")
	}
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Wrap(err, "user not found")
	}
	return user, nil
}

// GetUsers returns the users among ids keyed by id.
func (s *Service) GetUsers(ctx context.Context, ids []string) (map[string]*models.User, error) {
	users, err := s.repo.GetUsers(ctx, ids)
	if err != nil {
		return nil, apperrors.InternalError("failed to load users", err)
	}
	out := make(map[string]*models.User, len(users))
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// Exists reports whether a user with id exists.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.repo.GetUser(ctx, id)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return false, nil
	}
	return false, err
}

func (s *Service) UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.ValidationError("name", "is required")
		}
		user.Name = name
	}
	if req.Avatar != nil {
		user.Avatar = strings.TrimSpace(*req.Avatar)
	}
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, apperrors.Wrap(err, "failed to update user")
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
