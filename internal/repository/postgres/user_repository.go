package postgres

import (
	"context"
	"errors"
	"fmt"

	domainErrors "github.com/cassiomorais/storenotify/internal/domain/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository implements user.Repository against the storefront users table.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

// GetDisplayName returns the stored name, which may be empty.
func (r *UserRepository) GetDisplayName(ctx context.Context, id string) (string, error) {
	var name *string
	err := r.db(ctx).QueryRow(ctx, `SELECT name FROM users WHERE id = $1`, id).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domainErrors.ErrUserNotFound
		}
		return "", fmt.Errorf("get user %s: %w", id, err)
	}
	if name == nil {
		return "", nil
	}
	return *name, nil
}

// ListIDsByRole returns the ids of all users holding role.
func (r *UserRepository) ListIDsByRole(ctx context.Context, role string) ([]string, error) {
	rows, err := r.db(ctx).Query(ctx, `SELECT id FROM users WHERE role = $1`, role)
	if err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
