package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeNotFound, "not found", http.StatusNotFound)
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Message != "not found" {
		t.Errorf("expected message 'not found', got %q", err.Message)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, err.HTTPStatus)
	}
	if err.Retryable {
		t.Error("NOT_FOUND should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeStorage, "bucket unreachable", http.StatusBadGateway)
	if !err.Retryable {
		t.Error("STORAGE_ERROR should be retryable")
	}
}

func TestColumnNotFound_Details(t *testing.T) {
	err := ColumnNotFound("z", []string{"a", "b"})
	if err.Code != ErrCodeColumnNotFound {
		t.Errorf("expected COLUMN_NOT_FOUND, got %s", err.Code)
	}
	if err.Details["column"] != "z" {
		t.Errorf("expected column=z, got %v", err.Details["column"])
	}
	if !strings.Contains(err.Message, "a,b") {
		t.Errorf("expected header in message, got %q", err.Message)
	}
}

func TestRowTooLong_WithLine(t *testing.T) {
	err := RowTooLong([]any{"1", "2", "3"}, 2, 7)
	if err.Details["line"] != 7 {
		t.Errorf("expected line=7, got %v", err.Details["line"])
	}
	if !strings.Contains(err.Message, "line 7") {
		t.Errorf("expected line in message, got %q", err.Message)
	}
	if err.Retryable {
		t.Error("ROW_TOO_LONG should not be retryable")
	}
}

func TestRowTooLong_WithoutLine(t *testing.T) {
	err := RowTooLong([]any{"1", "2", "3"}, 2, 0)
	if _, ok := err.Details["line"]; ok {
		t.Error("expected no line detail when line is unknown")
	}
	if err.Details["header_length"] != 2 {
		t.Errorf("expected header_length=2, got %v", err.Details["header_length"])
	}
}

func TestDeriveFailed_Cause(t *testing.T) {
	cause := fmt.Errorf("division by zero")
	err := DeriveFailed("ratio", cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected cause to be reachable with errors.Is")
	}
}

func TestAppError_NotFound_EmptyID(t *testing.T) {
	err := NotFound("recipe", "")
	if _, ok := err.Details["id"]; ok {
		t.Error("expected no 'id' key in details when id is empty")
	}
}

func TestAppError_InvalidInput_Success(t *testing.T) {
	err := InvalidInput("columns", "must not be empty")
	if err.Code != ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", err.Code)
	}
	if err.Details["field"] != "columns" {
		t.Errorf("expected field=columns, got %v", err.Details["field"])
	}
}

func TestAppError_WithCause_Chain(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := NotFound("item", "1").WithCause(cause)
	if err.Cause != cause {
		t.Error("expected cause to be set via WithCause")
	}
	if !strings.Contains(err.Error(), "root cause") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := &AppError{}
	err.WithDetail("key", "value")
	if err.Details["key"] != "value" {
		t.Errorf("expected key=value, got %v", err.Details["key"])
	}
}

func TestAppError_Constructors_Table(t *testing.T) {
	tests := []struct {
		name      string
		err       *AppError
		code      ErrorCode
		status    int
		retryable bool
	}{
		{"ColumnNotFound", ColumnNotFound("a", nil), ErrCodeColumnNotFound, http.StatusUnprocessableEntity, false},
		{"UnknownColumn", UnknownColumn("a", nil), ErrCodeUnknownColumn, http.StatusUnprocessableEntity, false},
		{"InvalidHeader", InvalidHeader(0, 1), ErrCodeInvalidHeader, http.StatusUnprocessableEntity, false},
		{"MissingHeader", MissingHeader(), ErrCodeInvalidHeader, http.StatusUnprocessableEntity, false},
		{"EmptyProjection", EmptyProjection(), ErrCodeEmptyProjection, http.StatusBadRequest, false},
		{"RowLength", RowLength(1, 2), ErrCodeRowLength, http.StatusUnprocessableEntity, false},
		{"MalformedInput", MalformedInput(3, nil), ErrCodeMalformedInput, http.StatusBadRequest, false},
		{"StorageError", StorageError("x.csv", nil), ErrCodeStorage, http.StatusBadGateway, true},
		{"Validation", Validation("bad input"), ErrCodeInvalidInput, http.StatusBadRequest, false},
		{"Internal", Internal(nil), ErrCodeInternal, http.StatusInternalServerError, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.HTTPStatus != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, tc.err.HTTPStatus)
			}
			if tc.err.Retryable != tc.retryable {
				t.Errorf("expected retryable=%v, got %v", tc.retryable, tc.err.Retryable)
			}
		})
	}
}

func TestAppError_ToResponse_Success(t *testing.T) {
	err := NotFound("recipe", "clean")
	resp := err.ToResponse()
	if resp.Error.Code != ErrCodeNotFound {
		t.Errorf("expected code NOT_FOUND in response, got %s", resp.Error.Code)
	}
	if resp.Error.Details["id"] != "clean" {
		t.Error("expected id=clean in response details")
	}
}

func TestHasCode_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("pass failed: %w", EmptyProjection())
	if !HasCode(wrapped, ErrCodeEmptyProjection) {
		t.Error("expected HasCode to see through wrapping")
	}
	if HasCode(wrapped, ErrCodeRowTooLong) {
		t.Error("expected HasCode to reject a different code")
	}
	if HasCode(fmt.Errorf("plain"), ErrCodeInternal) {
		t.Error("expected HasCode to reject a plain error")
	}
}

func TestWrap_NilReturnsNil(t *testing.T) {
	if Wrap(nil) != nil {
		t.Error("Wrap(nil) should return nil")
	}
}

func TestWrap_WrappedAppError(t *testing.T) {
	orig := NotFound("item", "1")
	got := Wrap(fmt.Errorf("outer: %w", orig))
	if got != orig {
		t.Error("Wrap should return the AppError found in the chain")
	}
}

func TestWrap_PlainError(t *testing.T) {
	plain := fmt.Errorf("something broke")
	got := Wrap(plain)
	if got.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", got.Code)
	}
	if got.Cause != plain {
		t.Error("expected cause to be the original error")
	}
}
