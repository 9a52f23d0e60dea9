package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Stream errors ---

// ColumnNotFound reports a requested column missing from the header.
func ColumnNotFound(column string, header []string) *AppError {
	return &AppError{
		Code: ErrCodeColumnNotFound, Message: fmt.Sprintf("column %q not found in header [%s]", column, strings.Join(header, ",")),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"column": column, "header": header},
	}
}

// UnknownColumn reports a rename whose source column is missing from the header.
func UnknownColumn(column string, header []string) *AppError {
	return &AppError{
		Code: ErrCodeUnknownColumn, Message: fmt.Sprintf("cannot rename unknown column %q", column),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"column": column, "header": header},
	}
}

// InvalidHeader reports a header element that is not a string label.
func InvalidHeader(position int, value any) *AppError {
	return &AppError{
		Code: ErrCodeInvalidHeader, Message: fmt.Sprintf("header label at position %d is %T, not a string", position, value),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"position": position},
	}
}

// MissingHeader reports a stream that ended before producing its header.
func MissingHeader() *AppError {
	return &AppError{
		Code: ErrCodeInvalidHeader, Message: "stream ended before a header was read",
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// EmptyProjection reports a selection of zero columns.
func EmptyProjection() *AppError {
	return &AppError{
		Code: ErrCodeEmptyProjection, Message: "at least one column must be selected",
		HTTPStatus: http.StatusBadRequest,
	}
}

// RowTooLong reports a row carrying more values than the header. line is
// the source line of the row, or 0 when the source cannot supply one.
func RowTooLong(row []any, headerLength, line int) *AppError {
	details := map[string]any{"row": row, "header_length": headerLength}
	msg := fmt.Sprintf("row %v has %d values, header has %d", row, len(row), headerLength)
	if line > 0 {
		details["line"] = line
		msg = fmt.Sprintf("line %d has %d values, header has %d", line, len(row), headerLength)
	}
	return &AppError{
		Code: ErrCodeRowTooLong, Message: msg,
		HTTPStatus: http.StatusUnprocessableEntity, Details: details,
	}
}

// RowLength reports a row whose length differs from the header outside of
// padding, where positional correspondence cannot hold.
func RowLength(rowLength, headerLength int) *AppError {
	return &AppError{
		Code: ErrCodeRowLength, Message: fmt.Sprintf("row has %d values, header has %d", rowLength, headerLength),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"row_length": rowLength, "header_length": headerLength},
	}
}

// DeriveFailed wraps an error returned by a derived column function.
func DeriveFailed(column string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeDeriveFailed, Message: fmt.Sprintf("deriving column %q failed", column),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"column": column}, Cause: cause,
	}
}

// MalformedInput wraps a decoder failure at the given line.
func MalformedInput(line int, cause error) *AppError {
	return &AppError{
		Code: ErrCodeMalformedInput, Message: fmt.Sprintf("malformed input at line %d", line),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"line": line}, Cause: cause,
	}
}

// --- Common Error Constructors ---

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Retryable: false, Details: details,
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// StorageError wraps a storage backend failure for the given path.
func StorageError(path string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeStorage, Message: fmt.Sprintf("storage operation on %q failed", path),
		HTTPStatus: http.StatusBadGateway, Retryable: true,
		Details: map[string]any{"path": path}, Cause: cause,
	}
}

// Internal creates a new AppError for an internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}

// Wrap returns err as an AppError, preserving any AppError already in the
// chain and classifying everything else as internal.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}
