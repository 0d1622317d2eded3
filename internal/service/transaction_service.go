package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vr-ski/TransactionManager/internal/events"
	"github.com/vr-ski/TransactionManager/internal/models"
	"github.com/vr-ski/TransactionManager/internal/repository"
	"github.com/vr-ski/TransactionManager/pkg/logger"
)

type TransactionService interface {
	Create(ctx context.Context, input CreateTransactionInput) (*models.Transaction, error)
	Update(ctx context.Context, userID, transactionID uint64, update models.TransactionUpdate) (*models.Transaction, error)
}

type CreateTransactionInput struct {
	UserID            uint64
	ContractorFromID  uint64
	ContractorToID    uint64
	Amount            decimal.Decimal
	StatusID          uint64
	TransactionTypeID uint64
}

type transactionService struct {
	store     repository.Store
	publisher events.Publisher
	log       *logger.Logger
	now       func() time.Time
}

func NewTransactionService(store repository.Store, publisher events.Publisher, log *logger.Logger) TransactionService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &transactionService{
		store:     store,
		publisher: publisher,
		log:       log,
		now:       func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
}

// Create validates both parties and the type, then inserts the row. The
// status is only checked by the foreign key.
func (s *transactionService) Create(ctx context.Context, input CreateTransactionInput) (*models.Transaction, error) {
	var created *models.Transaction

	err := s.store.WithTx(ctx, func(st repository.Store) error {
		sender, err := st.Contractors().FindByID(ctx, input.ContractorFromID)
		if err != nil {
			return err
		}
		if sender == nil || sender.UserID != input.UserID {
			return errInvalidSender
		}

		receiver, err := st.Contractors().FindByID(ctx, input.ContractorToID)
		if err != nil {
			return err
		}
		if receiver == nil {
			return errUnknownReceiver
		}
		if receiver.ContractorID == sender.ContractorID {
			return errSameParty
		}
		if receiver.UserID != input.UserID {
			return errCrossUserReceiver
		}

		txType, err := st.TransactionTypes().FindByID(ctx, input.TransactionTypeID)
		if err != nil {
			return err
		}
		if txType == nil {
			return errUnknownType
		}

		created, err = st.Transactions().Create(ctx, models.NewTransaction{
			UserID:            input.UserID,
			ContractorFromID:  input.ContractorFromID,
			ContractorToID:    input.ContractorToID,
			Amount:            input.Amount,
			StatusID:          input.StatusID,
			TransactionTypeID: input.TransactionTypeID,
		}, s.now())
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return errInvalidStatus
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := s.publisher.PublishTransactionCreated(ctx, *created); err != nil {
		s.log.WithError(err).WithField("transaction_id", created.TransactionID).Warn("Failed to publish transaction created event")
	}

	return created, nil
}

// Update applies a partial update owned by userID. An update with no fields
// returns the row untouched and leaves updated_at as it was.
func (s *transactionService) Update(ctx context.Context, userID, transactionID uint64, update models.TransactionUpdate) (*models.Transaction, error) {
	var tx *models.Transaction
	applied := false

	err := s.store.WithTx(ctx, func(st repository.Store) error {
		var err error
		tx, err = st.Transactions().FindByID(ctx, transactionID)
		if err != nil {
			return err
		}
		if tx == nil {
			return errTransactionNotFound
		}
		if tx.UserID != userID {
			return errForbidden
		}

		if update.IsEmpty() {
			return nil
		}

		if update.StatusID != nil {
			status, err := st.Statuses().FindByID(ctx, *update.StatusID)
			if err != nil {
				return err
			}
			if status == nil {
				return errInvalidStatus
			}
		}

		now := s.now()
		if err := st.Transactions().Update(ctx, transactionID, update, now); err != nil {
			if errors.Is(err, repository.ErrForeignKeyViolation) {
				return errInvalidStatus
			}
			return err
		}

		if update.StatusID != nil {
			tx.StatusID = *update.StatusID
		}
		tx.UpdatedAt = now
		applied = true
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			s.log.WithUserID(userID).WithField("transaction_id", transactionID).Warn("Rejected update of a transaction owned by another user")
		}
		return nil, err
	}

	if applied {
		if err := s.publisher.PublishTransactionUpdated(ctx, *tx); err != nil {
			s.log.WithError(err).WithField("transaction_id", tx.TransactionID).Warn("Failed to publish transaction updated event")
		}
	}

	return tx, nil
}
