package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vr-ski/TransactionManager/internal/models"
)

type ContractorRepository interface {
	FindByID(ctx context.Context, contractorID uint64) (*models.Contractor, error)
	FindByUserID(ctx context.Context, userID uint64) ([]models.Contractor, error)
	// Create returns ErrForeignKeyViolation when userID has no users row
	Create(ctx context.Context, userID uint64, name string) (*models.Contractor, error)
}

type contractorRepository struct {
	db DBTX
}

func NewContractorRepository(db DBTX) ContractorRepository {
	return &contractorRepository{db: db}
}

func (r *contractorRepository) FindByID(ctx context.Context, contractorID uint64) (*models.Contractor, error) {
	query := `SELECT contractor_id, user_id, name FROM contractors WHERE contractor_id = ?`

	c := &models.Contractor{}
	err := r.db.QueryRowContext(ctx, query, contractorID).Scan(&c.ContractorID, &c.UserID, &c.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find contractor: %w", err)
	}
	return c, nil
}

func (r *contractorRepository) FindByUserID(ctx context.Context, userID uint64) ([]models.Contractor, error) {
	query := `
		SELECT contractor_id, user_id, name
		FROM contractors
		WHERE user_id = ?
		ORDER BY contractor_id
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contractors: %w", err)
	}
	defer rows.Close()

	contractors := []models.Contractor{}
	for rows.Next() {
		var c models.Contractor
		if err := rows.Scan(&c.ContractorID, &c.UserID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan contractor: %w", err)
		}
		contractors = append(contractors, c)
	}
	return contractors, rows.Err()
}

func (r *contractorRepository) Create(ctx context.Context, userID uint64, name string) (*models.Contractor, error) {
	query := `INSERT INTO contractors (user_id, name) VALUES (?, ?)`

	result, err := r.db.ExecContext(ctx, query, userID, name)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrForeignKeyViolation
		}
		return nil, fmt.Errorf("failed to create contractor: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get contractor ID: %w", err)
	}

	return &models.Contractor{
		ContractorID: uint64(id),
		UserID:       userID,
		Name:         name,
	}, nil
}
