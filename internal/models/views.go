package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fallbacks used when a joined row is missing
const (
	UnknownLabel        = "Unknown"
	UnknownStatusCode   = "unknown"
	FallbackStatusColor = "gray"
	DefaultCatalogColor = "#000000"
)

// Money renders as a JSON string with exactly two decimals
type Money decimal.Decimal

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + decimal.Decimal(m).StringFixed(2) + `"`), nil
}

func (m Money) String() string {
	return decimal.Decimal(m).StringFixed(2)
}

// StatusOption is a status row joined with its color and localized label
type StatusOption struct {
	StatusID    uint64 `json:"status_id"`
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
	Color       string `json:"color"`
}

// StatusPresentation is the status block of a list item
type StatusPresentation struct {
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
	Color       string `json:"color"`
}

// TypeOption is a transaction type joined with its localized label
type TypeOption struct {
	TransactionTypeID uint64 `json:"transaction_type_id"`
	Code              string `json:"code"`
	DisplayName       string `json:"display_name"`
}

type TransactionDetail struct {
	TransactionID   uint64       `json:"transaction_id"`
	ContractorFrom  string       `json:"contractor_from"`
	ContractorTo    string       `json:"contractor_to"`
	Amount          Money        `json:"amount"`
	TransactionType TypeOption   `json:"transaction_type"`
	Status          StatusOption `json:"status"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

type TransactionListItem struct {
	TransactionID   uint64             `json:"transaction_id"`
	ContractorFrom  string             `json:"contractor_from"`
	ContractorTo    string             `json:"contractor_to"`
	Amount          Money              `json:"amount"`
	TransactionType string             `json:"transaction_type"`
	Status          StatusPresentation `json:"status"`
	CreatedAt       time.Time          `json:"created_at"`
}

type TransactionList struct {
	Items []TransactionListItem `json:"items"`
}

type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
