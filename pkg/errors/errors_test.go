package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeScrubFailed, "scrubbing failed")

	assert.Equal(t, ErrCodeScrubFailed, err.Code)
	assert.Equal(t, SeverityError, err.Severity)
	assert.Contains(t, err.Error(), "SSDW3001")
	assert.Contains(t, err.Error(), "scrubbing failed")
	assert.False(t, err.Recoverable)
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(cause, ErrCodeFileOperation, "failed to write prepared file")

	assert.Equal(t, cause, stderrors.Unwrap(err))
	assert.Contains(t, err.Error(), "disk full")
}

func TestWrapExistingAppError(t *testing.T) {
	inner := New(ErrCodeColumnNotFound, "column missing")
	outer := Wrap(inner, ErrCodeScrubFailed, "rule failed")

	var appErr *AppError
	require.True(t, stderrors.As(outer, &appErr))
	assert.Equal(t, ErrCodeScrubFailed, appErr.Code)
	assert.True(t, stderrors.Is(outer, inner))
}

func TestWithContextAndSuggestions(t *testing.T) {
	err := New(ErrCodeSQLExecution, "query failed").
		WithContext("table", "sale").
		WithSuggestions("Run 'smartsales load' first")

	assert.Equal(t, "sale", err.Context["table"])
	assert.Len(t, err.Suggestions, 1)
}

func TestSQLErrorSuggestions(t *testing.T) {
	t.Run("missing table", func(t *testing.T) {
		cause := stderrors.New("no such table: sale")
		err := SQLError("query failed", "SELECT * FROM sale", cause)

		require.NotEmpty(t, err.Suggestions)
		assert.Contains(t, err.Suggestions[0], "smartsales load")
	})

	t.Run("locked database", func(t *testing.T) {
		cause := stderrors.New("database is locked")
		err := SQLError("insert failed", "INSERT INTO sale", cause)

		require.NotEmpty(t, err.Suggestions)
		assert.Contains(t, err.Suggestions[0], "warehouse file")
	})

	t.Run("other causes get no suggestions", func(t *testing.T) {
		err := SQLError("query failed", "SELECT 1", stderrors.New("syntax error"))
		assert.Empty(t, err.Suggestions)
	})
}

func TestIsRecoverable(t *testing.T) {
	assert.True(t, IsRecoverable(New(ErrCodeTimeout, "slow").AsRecoverable()))
	assert.False(t, IsRecoverable(New(ErrCodeInternal, "broken")))
	assert.False(t, IsRecoverable(stderrors.New("plain error")))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeBadHeader, GetErrorCode(New(ErrCodeBadHeader, "bad header")))
	assert.Equal(t, ErrCodeUnknown, GetErrorCode(stderrors.New("plain error")))
}

func TestValidationError(t *testing.T) {
	err := ValidationError("AmountSpent", "-5", "must be positive")

	assert.Equal(t, ErrCodeValidationFailed, err.Code)
	assert.Equal(t, SeverityWarning, err.Severity)
	assert.True(t, err.Recoverable)
	assert.Equal(t, "-5", err.Context["value"])
}
