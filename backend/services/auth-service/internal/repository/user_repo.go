package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"water360/backend/services/auth-service/internal/models"
)

const uniqueViolation = "23505"

var (
	// ErrUserNotFound represents missing user rows.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when username or email is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrEmptyPatch is returned by UpdateProfile when no column would change.
	ErrEmptyPatch = errors.New("user patch is empty")
)

const userColumns = `id, firstname, lastname, username, email, password_hash, user_type, created_at`

// Updatable profile columns, rebound per driver.
const (
	setFirstname    = `firstname = ?`
	setLastname     = `lastname = ?`
	setEmail        = `email = ?`
	setPasswordHash = `password_hash = ?`
)

// UserRepository handles CRUD for users table.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository returns repository instance.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and fills ID and CreatedAt.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.Username = strings.TrimSpace(user.Username)
	const query = `
		INSERT INTO users (firstname, lastname, username, email, password_hash, user_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		user.Firstname,
		user.Lastname,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.UserType,
	).Scan(&user.ID, &user.CreatedAt)
	if isUniqueViolation(err) {
		return ErrUserExists
	}
	return err
}

// GetByUsername fetches a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username = $1 LIMIT 1`
	return r.get(ctx, query, strings.TrimSpace(username))
}

// GetByID fetches a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.get(ctx, query, id)
}

// List returns all users, newest first.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY id DESC`
	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateProfile applies patch to the user and returns the number of affected rows
// (0 for an unknown id).
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, patch models.UserPatch) (int64, error) {
	sets, args := buildProfileSet(patch)
	if len(sets) == 0 {
		return 0, ErrEmptyPatch
	}
	query := "UPDATE users SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrUserExists
		}
		return 0, err
	}
	return res.RowsAffected()
}

func buildProfileSet(p models.UserPatch) ([]string, []interface{}) {
	var (
		sets []string
		args []interface{}
	)
	if p.Firstname != nil {
		sets = append(sets, setFirstname)
		args = append(args, *p.Firstname)
	}
	if p.Lastname != nil {
		sets = append(sets, setLastname)
		args = append(args, *p.Lastname)
	}
	if p.Email != nil {
		sets = append(sets, setEmail)
		args = append(args, strings.ToLower(strings.TrimSpace(*p.Email)))
	}
	if p.PasswordHash != nil {
		sets = append(sets, setPasswordHash)
		args = append(args, *p.PasswordHash)
	}
	return sets, args
}

func (r *UserRepository) get(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
