package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"accounts/pkg/models"
)

// uniqueViolation is the Postgres error code raised when an insert hits
// a unique constraint.
const uniqueViolation = "23505"

type UserRepository interface {
	Create(username, passwordHash string) (models.User, error)
	GetByUsername(username string) (models.User, string, error)
	List() ([]models.User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts the user and returns the row the database produced.
// Uniqueness is enforced by the users_username_key constraint, so two
// concurrent inserts of the same username yield exactly one success and
// one ErrDuplicateUsername.
func (r *userRepository) Create(username, passwordHash string) (models.User, error) {
	var user models.User
	err := r.db.QueryRow(
		`INSERT INTO users (username, password_hash) VALUES ($1, $2)
		 RETURNING id, uuid, username, created_at`,
		username, passwordHash,
	).Scan(&user.ID, &user.UUID, &user.Username, &user.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return models.User{}, models.ErrDuplicateUsername
		}
		return models.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetByUsername returns the user and its stored password hash. The hash
// never leaves this layer except through the hasher.
func (r *userRepository) GetByUsername(username string) (models.User, string, error) {
	var user models.User
	var passwordHash string
	err := r.db.QueryRow(
		`SELECT id, uuid, username, password_hash, created_at FROM users WHERE username = $1`,
		username,
	).Scan(&user.ID, &user.UUID, &user.Username, &passwordHash, &user.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, "", models.ErrUserNotFound
	}
	if err != nil {
		return models.User{}, "", fmt.Errorf("failed to query user: %w", err)
	}
	return user, passwordHash, nil
}

func (r *userRepository) List() ([]models.User, error) {
	rows, err := r.db.Query(
		`SELECT id, uuid, username, created_at FROM users ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.UUID, &u.Username, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}
