package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Header resolution errors
const (
	// ErrCodeColumnNotFound indicates a requested column is not in the header.
	ErrCodeColumnNotFound ErrorCode = "COLUMN_NOT_FOUND"
	// ErrCodeUnknownColumn indicates a rename source column is not in the header.
	ErrCodeUnknownColumn ErrorCode = "UNKNOWN_COLUMN"
	// ErrCodeInvalidHeader indicates the first stream element is not a label row.
	ErrCodeInvalidHeader ErrorCode = "INVALID_HEADER"
	// ErrCodeEmptyProjection indicates a selection of zero columns.
	ErrCodeEmptyProjection ErrorCode = "EMPTY_PROJECTION"
)

// Row errors
const (
	// ErrCodeRowTooLong indicates a row has more values than the header.
	ErrCodeRowTooLong ErrorCode = "ROW_TOO_LONG"
	// ErrCodeRowLength indicates an unpadded row whose length differs from the header.
	ErrCodeRowLength ErrorCode = "ROW_LENGTH_MISMATCH"
	// ErrCodeDeriveFailed indicates a derived column function returned an error.
	ErrCodeDeriveFailed ErrorCode = "DERIVE_FAILED"
	// ErrCodeMalformedInput indicates the delimited-text decoder rejected its input.
	ErrCodeMalformedInput ErrorCode = "MALFORMED_INPUT"
)

// Resource and validation errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeStorage indicates a storage backend failure.
	ErrCodeStorage ErrorCode = "STORAGE_ERROR"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeStorage:  true,
	ErrCodeInternal: false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
