package repository

import (
	"context"
	"fmt"

	"github.com/vr-ski/TransactionManager/internal/models"
)

type LanguageRepository interface {
	FindAll(ctx context.Context) ([]models.Language, error)
}

type languageRepository struct {
	db DBTX
}

func NewLanguageRepository(db DBTX) LanguageRepository {
	return &languageRepository{db: db}
}

func (r *languageRepository) FindAll(ctx context.Context) ([]models.Language, error) {
	query := `SELECT language_code, name FROM languages ORDER BY language_code`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list languages: %w", err)
	}
	defer rows.Close()

	var languages []models.Language
	for rows.Next() {
		var l models.Language
		if err := rows.Scan(&l.LanguageCode, &l.Name); err != nil {
			return nil, fmt.Errorf("failed to scan language: %w", err)
		}
		languages = append(languages, l)
	}
	return languages, rows.Err()
}
