package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"accounts/pkg/hasher"
	"accounts/pkg/logger"
	"accounts/pkg/models"
	"accounts/pkg/token"
)

// memoryRepo mimics the store contract: atomic create with uniqueness
// decided under one lock, ids and timestamps assigned at insert.
type memoryRepo struct {
	mu     sync.Mutex
	users  map[string]models.User
	hashes map[string]string
	nextID int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		users:  make(map[string]models.User),
		hashes: make(map[string]string),
		nextID: 1,
	}
}

func (r *memoryRepo) Create(username, passwordHash string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[username]; exists {
		return models.User{}, models.ErrDuplicateUsername
	}
	user := models.User{
		ID:        r.nextID,
		UUID:      "00000000-0000-0000-0000-000000000000",
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}
	r.nextID++
	r.users[username] = user
	r.hashes[username] = passwordHash
	return user, nil
}

func (r *memoryRepo) GetByUsername(username string) (models.User, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[username]
	if !ok {
		return models.User{}, "", models.ErrUserNotFound
	}
	return user, r.hashes[username], nil
}

func (r *memoryRepo) List() ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := []models.User{}
	for _, u := range r.users {
		users = append(users, u)
	}
	return users, nil
}

func newService(t *testing.T) (AuthService, *memoryRepo) {
	t.Helper()
	repo := newMemoryRepo()
	svc := NewAuthService(
		repo,
		hasher.New(bcrypt.MinCost),
		token.New("test-secret", time.Hour),
		nil, // cache disabled
		logger.New(8),
	)
	return svc, repo
}

func TestRegister_StoresHashNotPassword(t *testing.T) {
	svc, repo := newService(t)

	user, err := svc.Register(models.RegisterRequest{Username: "alice123", Password: "correcthorse"})
	require.NoError(t, err)
	assert.Equal(t, "alice123", user.Username)

	_, stored, err := repo.GetByUsername("alice123")
	require.NoError(t, err)
	assert.NotEmpty(t, stored)
	assert.NotEqual(t, "correcthorse", stored)
	assert.NotContains(t, stored, "correcthorse")
}

func TestRegister_TrimsUsername(t *testing.T) {
	svc, _ := newService(t)

	user, err := svc.Register(models.RegisterRequest{Username: "  alice123  ", Password: "correcthorse"})
	require.NoError(t, err)
	assert.Equal(t, "alice123", user.Username)
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Register(models.RegisterRequest{Username: "ab", Password: "short"})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestRegister_Duplicate(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Register(models.RegisterRequest{Username: "alice123", Password: "correcthorse"})
	require.NoError(t, err)

	_, err = svc.Register(models.RegisterRequest{Username: "alice123", Password: "otherpassword"})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrDuplicateUsername)
}

func TestRegister_ConcurrentSameUsername(t *testing.T) {
	svc, _ := newService(t)

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(models.RegisterRequest{Username: "alice123", Password: "correcthorse"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	successes, duplicates := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case assert.ErrorIs(t, err, models.ErrDuplicateUsername):
			duplicates++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, duplicates)
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Register(models.RegisterRequest{Username: "alice123", Password: "correcthorse"})
	require.NoError(t, err)

	signed, user, err := svc.Login(models.LoginRequest{Username: "alice123", Password: "correcthorse"})
	require.NoError(t, err)
	assert.Equal(t, "alice123", user.Username)

	claims, err := token.New("test-secret", time.Hour).Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "alice123", claims.Subject)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestLogin_UniformFailure(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Register(models.RegisterRequest{Username: "alice123", Password: "correcthorse"})
	require.NoError(t, err)

	// Unknown username and wrong password are indistinguishable to the
	// caller.
	_, _, unknownErr := svc.Login(models.LoginRequest{Username: "nobody99", Password: "correcthorse"})
	_, _, wrongPwErr := svc.Login(models.LoginRequest{Username: "alice123", Password: "wrongh0rse"})

	require.Error(t, unknownErr)
	require.Error(t, wrongPwErr)
	assert.ErrorIs(t, unknownErr, models.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPwErr, models.ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongPwErr.Error())
}

func TestProfile(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Register(models.RegisterRequest{Username: "alice123", Password: "correcthorse"})
	require.NoError(t, err)

	user, err := svc.Profile("alice123")
	require.NoError(t, err)
	assert.Equal(t, "alice123", user.Username)

	_, err = svc.Profile("nobody99")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestListUsers_NoCache(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Register(models.RegisterRequest{Username: "alice123", Password: "correcthorse"})
	require.NoError(t, err)
	_, err = svc.Register(models.RegisterRequest{Username: "bob12345", Password: "correcthorse"})
	require.NoError(t, err)

	users, err := svc.ListUsers()
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
