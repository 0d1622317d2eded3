package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultLanguage is used when a request carries no lang
const DefaultLanguage = "en"

type User struct {
	UserID       uint64 `json:"user_id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

type Language struct {
	LanguageCode string `json:"language_code"`
	Name         string `json:"name"`
}

type Contractor struct {
	ContractorID uint64 `json:"contractor_id"`
	UserID       uint64 `json:"user_id"`
	Name         string `json:"name"`
}

type TransactionStatus struct {
	StatusID uint64
	Code     string
}

type TransactionStatusColor struct {
	StatusID uint64
	Color    string
}

type TransactionStatusTranslation struct {
	StatusID     uint64
	LanguageCode string
	DisplayName  string
}

type TransactionType struct {
	TransactionTypeID uint64
	Code              string
}

type TransactionTypeTranslation struct {
	TransactionTypeID uint64
	LanguageCode      string
	DisplayName       string
}

// Transaction is a payment between two contractors of the same user
type Transaction struct {
	TransactionID     uint64
	UserID            uint64
	ContractorFromID  uint64
	ContractorToID    uint64
	Amount            decimal.Decimal
	TransactionTypeID uint64
	StatusID          uint64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewTransaction holds the caller-supplied fields of a transaction to create
type NewTransaction struct {
	UserID            uint64
	ContractorFromID  uint64
	ContractorToID    uint64
	Amount            decimal.Decimal
	StatusID          uint64
	TransactionTypeID uint64
}

// TransactionUpdate is a partial update. Nil fields are left untouched.
type TransactionUpdate struct {
	StatusID *uint64
}

// IsEmpty reports whether the update carries no field to apply
func (u TransactionUpdate) IsEmpty() bool {
	return u.StatusID == nil
}
