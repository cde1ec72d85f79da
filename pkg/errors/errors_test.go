package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(CodeComputation, "table mismatch", cause)

	require.EqualError(t, err, "table mismatch: boom")
	require.ErrorIs(t, err, cause)
	require.True(t, IsCode(err, CodeComputation))
	require.False(t, IsCode(err, CodeInvalidInput))
}

func TestCodeOfSurvivesFmtWrapping(t *testing.T) {
	err := fmt.Errorf("stage pillars: %w", OutOfRange("year 1899 before table start"))

	require.Equal(t, CodeOutOfRange, CodeOf(err))
	require.True(t, IsCode(err, CodeOutOfRange))
	require.Equal(t, "", CodeOf(errors.New("plain")))
}

func TestValidationHasNoCause(t *testing.T) {
	err := Validation("gender is required")

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	require.Nil(t, appErr.Err)
	require.Equal(t, "gender is required", err.Error())
}
