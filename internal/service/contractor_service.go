package service

import (
	"context"
	"errors"

	"github.com/vr-ski/TransactionManager/internal/models"
	"github.com/vr-ski/TransactionManager/internal/repository"
)

type ContractorService interface {
	Create(ctx context.Context, userID uint64, name string) (*models.Contractor, error)
	ListForUser(ctx context.Context, userID uint64) ([]models.Contractor, error)
	Get(ctx context.Context, contractorID uint64) (*models.Contractor, error)
}

type contractorService struct {
	store repository.Store
}

func NewContractorService(store repository.Store) ContractorService {
	return &contractorService{store: store}
}

// Create inserts a contractor owned by userID. A missing user surfaces as an
// owner-not-found validation error.
func (s *contractorService) Create(ctx context.Context, userID uint64, name string) (*models.Contractor, error) {
	var created *models.Contractor

	err := s.store.WithTx(ctx, func(st repository.Store) error {
		var err error
		created, err = st.Contractors().Create(ctx, userID, name)
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return errOwnerNotFound
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ListForUser returns ErrUserNotFound when the user row is gone
func (s *contractorService) ListForUser(ctx context.Context, userID uint64) ([]models.Contractor, error) {
	var contractors []models.Contractor

	err := s.store.WithTx(ctx, func(st repository.Store) error {
		exists, err := st.Users().Exists(ctx, userID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrUserNotFound
		}

		contractors, err = st.Contractors().FindByUserID(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return contractors, nil
}

func (s *contractorService) Get(ctx context.Context, contractorID uint64) (*models.Contractor, error) {
	c, err := s.store.Contractors().FindByID(ctx, contractorID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrContractorNotFound
	}
	return c, nil
}
