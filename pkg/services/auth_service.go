package services

import (
	"errors"
	"fmt"
	"time"

	"accounts/pkg/cache"
	"accounts/pkg/hasher"
	"accounts/pkg/logger"
	"accounts/pkg/models"
	"accounts/pkg/repository"
	"accounts/pkg/token"
	"accounts/pkg/validation"
)

const (
	userListCacheKey = "users:list"
	userListCacheTTL = 30 * time.Second
)

type AuthService interface {
	Register(req models.RegisterRequest) (models.User, error)
	Login(req models.LoginRequest) (string, models.User, error)
	Profile(username string) (models.User, error)
	ListUsers() ([]models.User, error)
}

type authService struct {
	repo   repository.UserRepository
	hasher *hasher.Bcrypt
	tokens *token.JWT
	cache  *cache.Redis
	log    *logger.Logger
}

func NewAuthService(repo repository.UserRepository, h *hasher.Bcrypt, tokens *token.JWT, c *cache.Redis, log *logger.Logger) AuthService {
	return &authService{
		repo:   repo,
		hasher: h,
		tokens: tokens,
		cache:  c,
		log:    log,
	}
}

// Register validates, hashes, and inserts. The store's unique constraint
// decides races between concurrent registrations of the same username.
func (s *authService) Register(req models.RegisterRequest) (models.User, error) {
	creds, err := validation.Normalize(req.Username, req.Password)
	if err != nil {
		return models.User{}, err
	}

	passwordHash, err := s.hasher.Hash(creds.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.repo.Create(creds.Username, passwordHash)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateUsername) {
			return models.User{}, models.ErrDuplicateUsername
		}
		return models.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	s.cache.Del(userListCacheKey)
	s.log.Info("user registered", "username", user.Username)
	return user, nil
}

// Login returns the same ErrInvalidCredentials whether the username is
// unknown or the password is wrong, so responses cannot be used to
// enumerate accounts.
func (s *authService) Login(req models.LoginRequest) (string, models.User, error) {
	creds, err := validation.Normalize(req.Username, req.Password)
	if err != nil {
		return "", models.User{}, err
	}

	user, passwordHash, err := s.repo.GetByUsername(creds.Username)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return "", models.User{}, models.ErrInvalidCredentials
		}
		return "", models.User{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if !s.hasher.Verify(creds.Password, passwordHash) {
		s.log.Warn("failed login attempt", "username", creds.Username)
		return "", models.User{}, models.ErrInvalidCredentials
	}

	signed, err := s.tokens.Issue(user)
	if err != nil {
		return "", models.User{}, fmt.Errorf("failed to issue token: %w", err)
	}

	s.log.Info("successful login", "username", user.Username)
	return signed, user, nil
}

func (s *authService) Profile(username string) (models.User, error) {
	user, _, err := s.repo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return models.User{}, models.ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("failed to look up user: %w", err)
	}
	return user, nil
}

// ListUsers reads through the cache; staleness is bounded by the TTL
// and the invalidation in Register.
func (s *authService) ListUsers() ([]models.User, error) {
	var users []models.User
	if s.cache.Get(userListCacheKey, &users) {
		return users, nil
	}

	users, err := s.repo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	s.cache.Set(userListCacheKey, users, userListCacheTTL)
	return users, nil
}
