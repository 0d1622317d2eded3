package service

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"time"

	"github.com/vr-ski/TransactionManager/internal/models"
	"github.com/vr-ski/TransactionManager/internal/repository"
	"github.com/vr-ski/TransactionManager/pkg/logger"
)

// memStore is an in-memory repository.Store. Every repository shares the
// same maps so writes are visible across accessors.
type memStore struct {
	users        map[uint64]*models.User
	languages    []models.Language
	contractors  map[uint64]*models.Contractor
	statuses     map[uint64]*models.TransactionStatus
	colors       map[uint64]*models.TransactionStatusColor
	statusTr     []models.TransactionStatusTranslation
	types        map[uint64]*models.TransactionType
	typeTr       []models.TransactionTypeTranslation
	transactions map[uint64]*models.Transaction

	nextContractorID  uint64
	nextTransactionID uint64

	txCalls             int
	txWrites            int
	contractorLookups   int
	statusLookups       int
	failTransactionList error
	enforceStatusFK     bool
}

func newMemStore() *memStore {
	return &memStore{
		users:        make(map[uint64]*models.User),
		contractors:  make(map[uint64]*models.Contractor),
		statuses:     make(map[uint64]*models.TransactionStatus),
		colors:       make(map[uint64]*models.TransactionStatusColor),
		types:        make(map[uint64]*models.TransactionType),
		transactions: make(map[uint64]*models.Transaction),

		nextContractorID:  100,
		nextTransactionID: 1000,
	}
}

// seededStore holds two users, three contractors for user 1, one for user 2,
// two statuses and one transaction type with en translations only
func seededStore() *memStore {
	s := newMemStore()
	s.users[1] = &models.User{UserID: 1, Username: "testuser"}
	s.users[2] = &models.User{UserID: 2, Username: "other"}

	s.contractors[1] = &models.Contractor{ContractorID: 1, UserID: 1, Name: "Sender"}
	s.contractors[2] = &models.Contractor{ContractorID: 2, UserID: 1, Name: "Receiver"}
	s.contractors[3] = &models.Contractor{ContractorID: 3, UserID: 1, Name: "Supplier"}
	s.contractors[4] = &models.Contractor{ContractorID: 4, UserID: 2, Name: "Foreign"}

	s.statuses[1] = &models.TransactionStatus{StatusID: 1, Code: "pending"}
	s.statuses[2] = &models.TransactionStatus{StatusID: 2, Code: "paid"}
	s.colors[1] = &models.TransactionStatusColor{StatusID: 1, Color: "yellow"}
	s.colors[2] = &models.TransactionStatusColor{StatusID: 2, Color: "green"}
	s.statusTr = []models.TransactionStatusTranslation{
		{StatusID: 1, LanguageCode: "en", DisplayName: "Pending"},
		{StatusID: 2, LanguageCode: "en", DisplayName: "Paid"},
	}

	s.types[1] = &models.TransactionType{TransactionTypeID: 1, Code: "transfer"}
	s.typeTr = []models.TransactionTypeTranslation{
		{TransactionTypeID: 1, LanguageCode: "en", DisplayName: "Transfer"},
	}

	s.languages = []models.Language{{LanguageCode: "en", Name: "English"}, {LanguageCode: "fa", Name: "Persian"}}
	return s
}

func (s *memStore) addTransaction(tx models.Transaction) {
	t := tx
	s.transactions[tx.TransactionID] = &t
}

func (s *memStore) Users() repository.UserRepository { return memUsers{s} }
func (s *memStore) Languages() repository.LanguageRepository { return memLanguages{s} }
func (s *memStore) Contractors() repository.ContractorRepository { return memContractors{s} }
func (s *memStore) Statuses() repository.StatusRepository { return memStatuses{s} }
func (s *memStore) TransactionTypes() repository.TransactionTypeRepository { return memTypes{s} }
func (s *memStore) Transactions() repository.TransactionRepository { return memTransactions{s} }

func (s *memStore) WithTx(_ context.Context, fn func(repository.Store) error) error {
	s.txCalls++
	return fn(s)
}

type memUsers struct{ s *memStore }

func (r memUsers) FindByID(_ context.Context, id uint64) (*models.User, error) {
	if u, ok := r.s.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (r memUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.s.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r memUsers) Exists(_ context.Context, id uint64) (bool, error) {
	_, ok := r.s.users[id]
	return ok, nil
}

type memLanguages struct{ s *memStore }

func (r memLanguages) FindAll(context.Context) ([]models.Language, error) {
	return r.s.languages, nil
}

type memContractors struct{ s *memStore }

func (r memContractors) FindByID(_ context.Context, id uint64) (*models.Contractor, error) {
	r.s.contractorLookups++
	if c, ok := r.s.contractors[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, nil
}

func (r memContractors) FindByUserID(_ context.Context, userID uint64) ([]models.Contractor, error) {
	out := []models.Contractor{}
	for _, c := range r.s.contractors {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ContractorID < out[j].ContractorID })
	return out, nil
}

func (r memContractors) Create(_ context.Context, userID uint64, name string) (*models.Contractor, error) {
	if _, ok := r.s.users[userID]; !ok {
		return nil, repository.ErrForeignKeyViolation
	}
	r.s.nextContractorID++
	c := &models.Contractor{ContractorID: r.s.nextContractorID, UserID: userID, Name: name}
	r.s.contractors[c.ContractorID] = c
	copied := *c
	return &copied, nil
}

type memStatuses struct{ s *memStore }

func (r memStatuses) FindAll(context.Context) ([]models.TransactionStatus, error) {
	var out []models.TransactionStatus
	for _, st := range r.s.statuses {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StatusID < out[j].StatusID })
	return out, nil
}

func (r memStatuses) FindByID(_ context.Context, id uint64) (*models.TransactionStatus, error) {
	r.s.statusLookups++
	if st, ok := r.s.statuses[id]; ok {
		copied := *st
		return &copied, nil
	}
	return nil, nil
}

func (r memStatuses) FindColor(_ context.Context, id uint64) (*models.TransactionStatusColor, error) {
	if c, ok := r.s.colors[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, nil
}

func (r memStatuses) FindTranslation(_ context.Context, id uint64, lang string) (*models.TransactionStatusTranslation, error) {
	for _, t := range r.s.statusTr {
		if t.StatusID == id && t.LanguageCode == lang {
			copied := t
			return &copied, nil
		}
	}
	return nil, nil
}

func (r memStatuses) FindAllColors(context.Context) ([]models.TransactionStatusColor, error) {
	var out []models.TransactionStatusColor
	for _, c := range r.s.colors {
		out = append(out, *c)
	}
	return out, nil
}

func (r memStatuses) FindAllTranslations(context.Context) ([]models.TransactionStatusTranslation, error) {
	return r.s.statusTr, nil
}

type memTypes struct{ s *memStore }

func (r memTypes) FindAll(context.Context) ([]models.TransactionType, error) {
	var out []models.TransactionType
	for _, t := range r.s.types {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TransactionTypeID < out[j].TransactionTypeID })
	return out, nil
}

func (r memTypes) FindByID(_ context.Context, id uint64) (*models.TransactionType, error) {
	if t, ok := r.s.types[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, nil
}

func (r memTypes) FindTranslation(_ context.Context, id uint64, lang string) (*models.TransactionTypeTranslation, error) {
	for _, t := range r.s.typeTr {
		if t.TransactionTypeID == id && t.LanguageCode == lang {
			copied := t
			return &copied, nil
		}
	}
	return nil, nil
}

func (r memTypes) FindAllTranslations(context.Context) ([]models.TransactionTypeTranslation, error) {
	return r.s.typeTr, nil
}

type memTransactions struct{ s *memStore }

func (r memTransactions) FindByID(_ context.Context, id uint64) (*models.Transaction, error) {
	if t, ok := r.s.transactions[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, nil
}

func (r memTransactions) sorted(keep func(models.Transaction) bool) []models.Transaction {
	out := []models.Transaction{}
	for _, t := range r.s.transactions {
		if keep(*t) {
			out = append(out, *t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].TransactionID > out[j].TransactionID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r memTransactions) FindRecent(_ context.Context, userID uint64, limit int) ([]models.Transaction, error) {
	if r.s.failTransactionList != nil {
		return nil, r.s.failTransactionList
	}
	out := r.sorted(func(t models.Transaction) bool { return t.UserID == userID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memTransactions) FindForContractors(_ context.Context, ids []uint64) ([]models.Transaction, error) {
	set := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return r.sorted(func(t models.Transaction) bool {
		return set[t.ContractorFromID] || set[t.ContractorToID]
	}), nil
}

func (r memTransactions) Create(_ context.Context, tx models.NewTransaction, now time.Time) (*models.Transaction, error) {
	if _, ok := r.s.statuses[tx.StatusID]; !ok && r.s.enforceStatusFK {
		return nil, repository.ErrForeignKeyViolation
	}
	r.s.txWrites++
	r.s.nextTransactionID++
	t := &models.Transaction{
		TransactionID:     r.s.nextTransactionID,
		UserID:            tx.UserID,
		ContractorFromID:  tx.ContractorFromID,
		ContractorToID:    tx.ContractorToID,
		Amount:            tx.Amount,
		TransactionTypeID: tx.TransactionTypeID,
		StatusID:          tx.StatusID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	r.s.transactions[t.TransactionID] = t
	copied := *t
	return &copied, nil
}

func (r memTransactions) Update(_ context.Context, id uint64, update models.TransactionUpdate, now time.Time) error {
	if update.IsEmpty() {
		return nil
	}
	t, ok := r.s.transactions[id]
	if !ok {
		return errors.New("no such row")
	}
	r.s.txWrites++
	if update.StatusID != nil {
		t.StatusID = *update.StatusID
	}
	t.UpdatedAt = now
	return nil
}

type recordingPublisher struct {
	created []models.Transaction
	updated []models.Transaction
	err     error
}

func (p *recordingPublisher) PublishTransactionCreated(_ context.Context, tx models.Transaction) error {
	p.created = append(p.created, tx)
	return p.err
}

func (p *recordingPublisher) PublishTransactionUpdated(_ context.Context, tx models.Transaction) error {
	p.updated = append(p.updated, tx)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func testLogger() (*logger.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return logger.NewLoggerWithOutput("test", "debug", buf), buf
}
