package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"meetsync/application/ports"
	"meetsync/domain/core/entities"
)

type userRepository struct {
	db *sql.DB
}

// Create relies on the UNIQUE constraint on email, so the insert-if-absent
// check happens inside the database rather than as a separate read.
func (r *userRepository) Create(ctx context.Context, user entities.User) (entities.User, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (name, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		user.Name,
		strings.ToLower(strings.TrimSpace(user.Email)),
		user.PasswordHash,
		formatTime(user.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return entities.User{}, ports.ErrEmailTaken
		}
		return entities.User{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return entities.User{}, err
	}
	user.ID = id
	return user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (entities.User, error) {
	return r.scanUser(ctx, `WHERE id = ?`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (entities.User, error) {
	return r.scanUser(ctx, `WHERE email = ?`, strings.ToLower(strings.TrimSpace(email)))
}

func (r *userRepository) scanUser(ctx context.Context, clause string, arg interface{}) (entities.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, created_at FROM users `+clause, arg)

	var (
		user    entities.User
		created string
	)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.User{}, ports.ErrNotFound
	}
	if err != nil {
		return entities.User{}, err
	}

	if user.CreatedAt, err = parseTime(created); err != nil {
		return entities.User{}, err
	}
	return user, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
