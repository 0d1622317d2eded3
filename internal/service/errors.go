package service

import "errors"

// Error kinds. Compare with errors.Is; the wrapping ValidationError carries
// the user-facing message.
var (
	ErrInvalidSender       = errors.New("invalid sender")
	ErrUnknownReceiver     = errors.New("unknown receiver")
	ErrSameParty           = errors.New("same party")
	ErrCrossUserReceiver   = errors.New("cross-user receiver")
	ErrUnknownType         = errors.New("unknown transaction type")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrOwnerNotFound       = errors.New("owner not found")

	ErrInvalidCredentials = errors.New("Invalid username or password")
	ErrUserNotFound       = errors.New("User not found")
	ErrContractorNotFound = errors.New("Contractor not found")
)

// ValidationError is a rejected operation with a message safe to show to the caller
type ValidationError struct {
	Kind    error
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

func newValidationError(kind error, message string) *ValidationError {
	return &ValidationError{Kind: kind, Message: message}
}

var (
	errInvalidSender       = newValidationError(ErrInvalidSender, "Invalid sender contractor for this user.")
	errUnknownReceiver     = newValidationError(ErrUnknownReceiver, "Receiver contractor does not exist.")
	errSameParty           = newValidationError(ErrSameParty, "Receiver and Sender must differ.")
	errCrossUserReceiver   = newValidationError(ErrCrossUserReceiver, "Receiver contractor must belong to the same user.")
	errUnknownType         = newValidationError(ErrUnknownType, "Invalid transaction type.")
	errTransactionNotFound = newValidationError(ErrTransactionNotFound, "Transaction not found.")
	errForbidden           = newValidationError(ErrForbidden, "You do not have permission to modify this transaction.")
	errInvalidStatus       = newValidationError(ErrInvalidStatus, "Invalid status.")
	errOwnerNotFound       = newValidationError(ErrOwnerNotFound, "User does not exist.")
)
