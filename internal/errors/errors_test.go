package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name: "error with wrapped error",
			appError: &AppError{
				Type:    ErrorTypeInput,
				Message: "failed to read input",
				Err:     errors.New("file not found"),
			},
			expected: "input: failed to read input: file not found",
		},
		{
			name: "error without wrapped error",
			appError: &AppError{
				Type:    ErrorTypeParsing,
				Message: "unbalanced brackets",
				Err:     nil,
			},
			expected: "parsing: unbalanced brackets",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.Error()
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	wrappedErr := errors.New("wrapped error")
	appErr := &AppError{
		Type:    ErrorTypeInput,
		Message: "test message",
		Err:     wrappedErr,
	}

	result := appErr.Unwrap()
	assert.Equal(t, wrappedErr, result)
}

func TestAppError_Is(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		target   error
		expected bool
	}{
		{
			name: "same type",
			appError: &AppError{
				Type:    ErrorTypeInput,
				Message: "test message",
				Err:     nil,
			},
			target: &AppError{
				Type:    ErrorTypeInput,
				Message: "different message",
				Err:     errors.New("some error"),
			},
			expected: true,
		},
		{
			name: "different type",
			appError: &AppError{
				Type:    ErrorTypeInput,
				Message: "test message",
				Err:     nil,
			},
			target: &AppError{
				Type:    ErrorTypeParsing,
				Message: "test message",
				Err:     nil,
			},
			expected: false,
		},
		{
			name: "not an AppError",
			appError: &AppError{
				Type:    ErrorTypeInput,
				Message: "test message",
				Err:     nil,
			},
			target:   errors.New("standard error"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.Is(tt.target)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestUserFriendlyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "input error",
			err:      NewInputError("failed to read file", nil),
			expected: "Input error: failed to read file",
		},
		{
			name:     "parsing error",
			err:      NewParsingError("unbalanced brackets", nil),
			expected: "Parsing error: unbalanced brackets",
		},
		{
			name:     "parsing error with cause",
			err:      NewParsingError("document rejected", ErrMalformed),
			expected: "Parsing error: document rejected: malformed document",
		},
		{
			name:     "parsing error for empty input hides the sentinel",
			err:      NewParsingError("input string is empty", ErrEmptyInput),
			expected: "Parsing error: input string is empty",
		},
		{
			name:     "config error",
			err:      NewConfigError("invalid indent", nil),
			expected: "Configuration error: invalid indent",
		},
		{
			name:     "store error",
			err:      NewStoreError("failed to save accounts", nil),
			expected: "Data file error: failed to save accounts",
		},
		{
			name:     "account error",
			err:      NewAccountError("withdrawal refused", ErrInsufficientFunds),
			expected: "Account error: withdrawal refused: insufficient funds",
		},
		{
			name:     "output error",
			err:      NewOutputError("failed to write output", nil),
			expected: "Output error: failed to write output",
		},
		{
			name:     "standard error - empty input",
			err:      ErrEmptyInput,
			expected: "Error: The input is empty. Please provide a document.",
		},
		{
			name:     "standard error - malformed",
			err:      ErrMalformed,
			expected: "Error: The document is malformed. Please check its syntax.",
		},
		{
			name:     "standard error - wrapped credentials",
			err:      fmt.Errorf("login: %w", ErrInvalidCredentials),
			expected: "Error: Invalid user ID or PIN.",
		},
		{
			name:     "unknown error",
			err:      errors.New("some unknown error"),
			expected: "Error: some unknown error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := UserFriendlyError(tt.err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestAppError_ErrorsIsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("transfer: %w", NewAccountError("transfer refused", ErrInsufficientFunds))

	assert.True(t, errors.Is(err, ErrInsufficientFunds))
	assert.True(t, errors.Is(err, &AppError{Type: ErrorTypeAccount}))
	assert.False(t, errors.Is(err, &AppError{Type: ErrorTypeStore}))
}
