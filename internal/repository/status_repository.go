package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vr-ski/TransactionManager/internal/models"
)

// StatusRepository reads the transaction status catalog with its colors and translations
type StatusRepository interface {
	FindAll(ctx context.Context) ([]models.TransactionStatus, error)
	FindByID(ctx context.Context, statusID uint64) (*models.TransactionStatus, error)
	FindColor(ctx context.Context, statusID uint64) (*models.TransactionStatusColor, error)
	FindTranslation(ctx context.Context, statusID uint64, lang string) (*models.TransactionStatusTranslation, error)
	FindAllColors(ctx context.Context) ([]models.TransactionStatusColor, error)
	FindAllTranslations(ctx context.Context) ([]models.TransactionStatusTranslation, error)
}

type statusRepository struct {
	db DBTX
}

func NewStatusRepository(db DBTX) StatusRepository {
	return &statusRepository{db: db}
}

func (r *statusRepository) FindAll(ctx context.Context) ([]models.TransactionStatus, error) {
	query := `SELECT status_id, code FROM transaction_statuses ORDER BY status_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list statuses: %w", err)
	}
	defer rows.Close()

	var statuses []models.TransactionStatus
	for rows.Next() {
		var s models.TransactionStatus
		if err := rows.Scan(&s.StatusID, &s.Code); err != nil {
			return nil, fmt.Errorf("failed to scan status: %w", err)
		}
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}

func (r *statusRepository) FindByID(ctx context.Context, statusID uint64) (*models.TransactionStatus, error) {
	query := `SELECT status_id, code FROM transaction_statuses WHERE status_id = ?`

	s := &models.TransactionStatus{}
	err := r.db.QueryRowContext(ctx, query, statusID).Scan(&s.StatusID, &s.Code)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find status: %w", err)
	}
	return s, nil
}

func (r *statusRepository) FindColor(ctx context.Context, statusID uint64) (*models.TransactionStatusColor, error) {
	query := `SELECT status_id, color FROM transaction_status_colors WHERE status_id = ?`

	c := &models.TransactionStatusColor{}
	err := r.db.QueryRowContext(ctx, query, statusID).Scan(&c.StatusID, &c.Color)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find status color: %w", err)
	}
	return c, nil
}

func (r *statusRepository) FindTranslation(ctx context.Context, statusID uint64, lang string) (*models.TransactionStatusTranslation, error) {
	query := `
		SELECT status_id, language_code, display_name
		FROM transaction_status_translations
		WHERE status_id = ? AND language_code = ?
	`

	t := &models.TransactionStatusTranslation{}
	err := r.db.QueryRowContext(ctx, query, statusID, lang).Scan(&t.StatusID, &t.LanguageCode, &t.DisplayName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find status translation: %w", err)
	}
	return t, nil
}

func (r *statusRepository) FindAllColors(ctx context.Context) ([]models.TransactionStatusColor, error) {
	query := `SELECT status_id, color FROM transaction_status_colors`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list status colors: %w", err)
	}
	defer rows.Close()

	var colors []models.TransactionStatusColor
	for rows.Next() {
		var c models.TransactionStatusColor
		if err := rows.Scan(&c.StatusID, &c.Color); err != nil {
			return nil, fmt.Errorf("failed to scan status color: %w", err)
		}
		colors = append(colors, c)
	}
	return colors, rows.Err()
}

func (r *statusRepository) FindAllTranslations(ctx context.Context) ([]models.TransactionStatusTranslation, error) {
	query := `SELECT status_id, language_code, display_name FROM transaction_status_translations`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list status translations: %w", err)
	}
	defer rows.Close()

	var translations []models.TransactionStatusTranslation
	for rows.Next() {
		var t models.TransactionStatusTranslation
		if err := rows.Scan(&t.StatusID, &t.LanguageCode, &t.DisplayName); err != nil {
			return nil, fmt.Errorf("failed to scan status translation: %w", err)
		}
		translations = append(translations, t)
	}
	return translations, rows.Err()
}
