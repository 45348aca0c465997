package errors

import (
	stderrors "errors"

	"provchain/jsonx"
)

// ChainErrorCode represents standardized error codes for chain operations
type ChainErrorCode string

const (
	// General errors
	ErrCodeInternal ChainErrorCode = "internal_error"

	// Lookup errors
	ErrCodeBlockNotFound  ChainErrorCode = "block_not_found"
	ErrCodeRecordNotFound ChainErrorCode = "record_not_found"

	// Precondition errors
	ErrCodeBadRequest          ChainErrorCode = "bad_request"
	ErrCodeInsufficientRecords ChainErrorCode = "insufficient_records"
	ErrCodeBlockNotPending     ChainErrorCode = "block_not_pending"
	ErrCodeDuplicateVote       ChainErrorCode = "duplicate_vote"
	ErrCodeNotValidator        ChainErrorCode = "not_validator"
	ErrCodeInvalidSignature    ChainErrorCode = "invalid_signature"
	ErrCodeInvalidRecord       ChainErrorCode = "invalid_record"

	// A conditional write lost a race; the caller should re-fetch and retry
	ErrCodeConflict ChainErrorCode = "conflict"
)

// ChainError is the standardized error carried across service and RPC layers
type ChainError struct {
	Code    ChainErrorCode `json:"code"`
	Message string         `json:"message"`
}

// Error implements the error interface
func (e *ChainError) Error() string {
	err, _ := jsonx.Marshal(ChainError{
		Code:    e.Code,
		Message: e.Message,
	})
	return string(err)
}

// Error message constants - user-friendly and concise
const (
	ErrMsgBlockNotFound       = "Block could not be found"
	ErrMsgRecordNotFound      = "Record could not be found"
	ErrMsgInsufficientRecords = "Block does not hold a full record batch yet"
	ErrMsgBlockNotPending     = "Block is not open for voting"
	ErrMsgDuplicateVote       = "Validator has already voted on this block"
	ErrMsgNotValidator        = "Caller is not a registered validator"
	ErrMsgInvalidSignature    = "Vote signature is invalid"
	ErrMsgConflict            = "Block changed during the operation, please retry"
	ErrMsgInternal            = "Server error, please try again"
)

// NewError creates a new ChainError and returns it as error interface
func NewError(code ChainErrorCode, message string) error {
	return &ChainError{
		Code:    code,
		Message: message,
	}
}

// CodeOf extracts the ChainErrorCode from err, or ErrCodeInternal for foreign errors.
func CodeOf(err error) ChainErrorCode {
	var ce *ChainError
	if stderrors.As(err, &ce) {
		return ce.Code
	}
	return ErrCodeInternal
}

func Is(err error, code ChainErrorCode) bool {
	return CodeOf(err) == code
}

func IsNotFound(err error) bool {
	code := CodeOf(err)
	return code == ErrCodeBlockNotFound || code == ErrCodeRecordNotFound
}

func IsConflict(err error) bool {
	return Is(err, ErrCodeConflict)
}

func IsDuplicateVote(err error) bool {
	return Is(err, ErrCodeDuplicateVote)
}
