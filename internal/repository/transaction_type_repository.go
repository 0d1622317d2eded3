package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vr-ski/TransactionManager/internal/models"
)

type TransactionTypeRepository interface {
	FindAll(ctx context.Context) ([]models.TransactionType, error)
	FindByID(ctx context.Context, typeID uint64) (*models.TransactionType, error)
	FindTranslation(ctx context.Context, typeID uint64, lang string) (*models.TransactionTypeTranslation, error)
	FindAllTranslations(ctx context.Context) ([]models.TransactionTypeTranslation, error)
}

type transactionTypeRepository struct {
	db DBTX
}

func NewTransactionTypeRepository(db DBTX) TransactionTypeRepository {
	return &transactionTypeRepository{db: db}
}

func (r *transactionTypeRepository) FindAll(ctx context.Context) ([]models.TransactionType, error) {
	query := `SELECT transaction_type_id, code FROM transaction_types ORDER BY transaction_type_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list transaction types: %w", err)
	}
	defer rows.Close()

	var types []models.TransactionType
	for rows.Next() {
		var t models.TransactionType
		if err := rows.Scan(&t.TransactionTypeID, &t.Code); err != nil {
			return nil, fmt.Errorf("failed to scan transaction type: %w", err)
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func (r *transactionTypeRepository) FindByID(ctx context.Context, typeID uint64) (*models.TransactionType, error) {
	query := `SELECT transaction_type_id, code FROM transaction_types WHERE transaction_type_id = ?`

	t := &models.TransactionType{}
	err := r.db.QueryRowContext(ctx, query, typeID).Scan(&t.TransactionTypeID, &t.Code)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction type: %w", err)
	}
	return t, nil
}

func (r *transactionTypeRepository) FindTranslation(ctx context.Context, typeID uint64, lang string) (*models.TransactionTypeTranslation, error) {
	query := `
		SELECT transaction_type_id, language_code, display_name
		FROM transaction_type_translations
		WHERE transaction_type_id = ? AND language_code = ?
	`

	t := &models.TransactionTypeTranslation{}
	err := r.db.QueryRowContext(ctx, query, typeID, lang).Scan(&t.TransactionTypeID, &t.LanguageCode, &t.DisplayName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction type translation: %w", err)
	}
	return t, nil
}

func (r *transactionTypeRepository) FindAllTranslations(ctx context.Context) ([]models.TransactionTypeTranslation, error) {
	query := `SELECT transaction_type_id, language_code, display_name FROM transaction_type_translations`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list transaction type translations: %w", err)
	}
	defer rows.Close()

	var translations []models.TransactionTypeTranslation
	for rows.Next() {
		var t models.TransactionTypeTranslation
		if err := rows.Scan(&t.TransactionTypeID, &t.LanguageCode, &t.DisplayName); err != nil {
			return nil, fmt.Errorf("failed to scan transaction type translation: %w", err)
		}
		translations = append(translations, t)
	}
	return translations, rows.Err()
}
