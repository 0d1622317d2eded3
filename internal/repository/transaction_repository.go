package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vr-ski/TransactionManager/internal/models"
)

type TransactionRepository interface {
	FindByID(ctx context.Context, transactionID uint64) (*models.Transaction, error)
	FindRecent(ctx context.Context, userID uint64, limit int) ([]models.Transaction, error)
	FindForContractors(ctx context.Context, contractorIDs []uint64) ([]models.Transaction, error)
	Create(ctx context.Context, tx models.NewTransaction, now time.Time) (*models.Transaction, error)
	Update(ctx context.Context, transactionID uint64, update models.TransactionUpdate, now time.Time) error
}

type transactionRepository struct {
	db DBTX
}

func NewTransactionRepository(db DBTX) TransactionRepository {
	return &transactionRepository{db: db}
}

const transactionColumns = `transaction_id, user_id, contractor_from_id, contractor_to_id, amount,
		transaction_type_id, status_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	t := &models.Transaction{}
	var amount string

	err := row.Scan(
		&t.TransactionID, &t.UserID, &t.ContractorFromID, &t.ContractorToID, &amount,
		&t.TransactionTypeID, &t.StatusID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount %q: %w", amount, err)
	}
	return t, nil
}

func (r *transactionRepository) FindByID(ctx context.Context, transactionID uint64) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = ?`

	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, transactionID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	return t, nil
}

// FindRecent returns the user's newest transactions first
func (r *transactionRepository) FindRecent(ctx context.Context, userID uint64, limit int) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = ?
		ORDER BY created_at DESC, transaction_id DESC
		LIMIT ?
	`

	return r.list(ctx, query, userID, limit)
}

// FindForContractors returns transactions where any of the contractors is the
// sender or the receiver, newest first
func (r *transactionRepository) FindForContractors(ctx context.Context, contractorIDs []uint64) ([]models.Transaction, error) {
	if len(contractorIDs) == 0 {
		return []models.Transaction{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(contractorIDs)), ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM transactions
		WHERE contractor_from_id IN (%s) OR contractor_to_id IN (%s)
		ORDER BY created_at DESC, transaction_id DESC
	`, transactionColumns, placeholders, placeholders)

	args := make([]interface{}, 0, len(contractorIDs)*2)
	for i := 0; i < 2; i++ {
		for _, id := range contractorIDs {
			args = append(args, id)
		}
	}

	return r.list(ctx, query, args...)
}

func (r *transactionRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *t)
	}
	return transactions, rows.Err()
}

func (r *transactionRepository) Create(ctx context.Context, tx models.NewTransaction, now time.Time) (*models.Transaction, error) {
	query := `
		INSERT INTO transactions (user_id, contractor_from_id, contractor_to_id, amount,
			transaction_type_id, status_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		tx.UserID,
		tx.ContractorFromID,
		tx.ContractorToID,
		tx.Amount.StringFixed(2),
		tx.TransactionTypeID,
		tx.StatusID,
		now,
		now,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrForeignKeyViolation
		}
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction ID: %w", err)
	}

	return &models.Transaction{
		TransactionID:     uint64(id),
		UserID:            tx.UserID,
		ContractorFromID:  tx.ContractorFromID,
		ContractorToID:    tx.ContractorToID,
		Amount:            tx.Amount.Round(2),
		TransactionTypeID: tx.TransactionTypeID,
		StatusID:          tx.StatusID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// Update applies the non-nil fields of update and stamps updated_at. An empty
// update issues no statement.
func (r *transactionRepository) Update(ctx context.Context, transactionID uint64, update models.TransactionUpdate, now time.Time) error {
	var sets []string
	var args []interface{}

	if update.StatusID != nil {
		sets = append(sets, "status_id = ?")
		args = append(args, *update.StatusID)
	}
	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, now, transactionID)

	query := fmt.Sprintf(`UPDATE transactions SET %s WHERE transaction_id = ?`, strings.Join(sets, ", "))

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isForeignKeyViolation(err) {
			return ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return nil
}
