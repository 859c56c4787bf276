package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nexium/recipe-service/internal/domain"
)

const (
	pgUniqueViolation           = "23505"
	pgInvalidTextRepresentation = "22P02"
)

// PostgresUserRepository implements UserRepository using PostgreSQL
type PostgresUserRepository struct {
	db *pgxpool.Pool
}

// NewPostgresUserRepository creates a new PostgreSQL user repository
func NewPostgresUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// FindUserByProviderID retrieves a user by their identity provider id
func (r *PostgresUserRepository) FindUserByProviderID(ctx context.Context, providerID string) (*domain.User, error) {
	query := `
		SELECT id::text, username, email, clerk_id, created_at, updated_at
		FROM users
		WHERE clerk_id = $1
	`

	user := &domain.User{}
	err := r.db.QueryRow(ctx, query, providerID).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.ProviderID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by provider id: %w", err)
	}

	return user, nil
}

// CreateUser inserts a new user row
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (username, email, clerk_id)
		VALUES ($1, $2, $3)
		RETURNING id::text, created_at, updated_at
	`

	created := *user
	err := r.db.QueryRow(ctx, query, user.Username, user.Email, user.ProviderID).
		Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if isPgCode(err, pgUniqueViolation) {
		return nil, fmt.Errorf("user %s: %w", user.ProviderID, domain.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &created, nil
}

func isPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
