package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// ErrForeignKeyViolation is returned when an insert references a missing parent row
var ErrForeignKeyViolation = errors.New("foreign key constraint violation")

// mySQL error 1452: cannot add or update a child row
const mysqlErrNoReferencedRow = 1452

// DBTX is the subset of *sql.DB and *sql.Tx the repositories use
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Store hands out repositories bound to either the pool or one transaction
type Store interface {
	Users() UserRepository
	Languages() LanguageRepository
	Contractors() ContractorRepository
	Statuses() StatusRepository
	TransactionTypes() TransactionTypeRepository
	Transactions() TransactionRepository

	// WithTx runs fn inside one database transaction. The transaction is
	// committed when fn returns nil and rolled back otherwise. Nested calls
	// reuse the outer transaction.
	WithTx(ctx context.Context, fn func(Store) error) error
}

type sqlStore struct {
	db *sql.DB
	q  DBTX
	tx bool
}

func NewStore(db *sql.DB) Store {
	return &sqlStore{db: db, q: db}
}

func (s *sqlStore) Users() UserRepository { return NewUserRepository(s.q) }
func (s *sqlStore) Languages() LanguageRepository { return NewLanguageRepository(s.q) }
func (s *sqlStore) Contractors() ContractorRepository { return NewContractorRepository(s.q) }
func (s *sqlStore) Statuses() StatusRepository { return NewStatusRepository(s.q) }
func (s *sqlStore) TransactionTypes() TransactionTypeRepository { return NewTransactionTypeRepository(s.q) }
func (s *sqlStore) Transactions() TransactionRepository { return NewTransactionRepository(s.q) }

func (s *sqlStore) WithTx(ctx context.Context, fn func(Store) error) error {
	if s.tx {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&sqlStore{db: s.db, q: tx, tx: true}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func isForeignKeyViolation(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrNoReferencedRow
}
