package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vr-ski/TransactionManager/internal/models"
)

type UserRepository interface {
	FindByID(ctx context.Context, userID uint64) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Exists(ctx context.Context, userID uint64) (bool, error)
}

type userRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(ctx context.Context, userID uint64) (*models.User, error) {
	query := `SELECT user_id, username, password_hash FROM users WHERE user_id = ?`

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&user.UserID, &user.Username, &user.PasswordHash)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT user_id, username, password_hash FROM users WHERE username = ?`

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(&user.UserID, &user.Username, &user.PasswordHash)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}
	return user, nil
}

func (r *userRepository) Exists(ctx context.Context, userID uint64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE user_id = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}
