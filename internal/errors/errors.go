package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyInput         = errors.New("input is empty or contains only whitespace")
	ErrMalformed          = errors.New("malformed document")
	ErrFileNotFound       = errors.New("file not found")
	ErrFileEmpty          = errors.New("file is empty")
	ErrNoInput            = errors.New("no input provided: please specify a file or pipe a document to stdin")
	ErrInvalidFilePath    = errors.New("invalid file path")
	ErrPathNotFound       = errors.New("path not found in document")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid user ID or PIN")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput   ErrorType = "input"
	ErrorTypeParsing ErrorType = "parsing"
	ErrorTypeConfig  ErrorType = "config"
	ErrorTypeStore   ErrorType = "store"
	ErrorTypeAccount ErrorType = "account"
	ErrorTypeOutput  ErrorType = "output"
	ErrorTypeUnknown ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	// Check if target is also an *AppError and if the types match
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInput,
		Message: message,
		Err:     err,
	}
}

// NewParsingError creates a new error related to document parsing
func NewParsingError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeParsing,
		Message: message,
		Err:     err,
	}
}

// NewConfigError creates a new error related to configuration
func NewConfigError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeConfig,
		Message: message,
		Err:     err,
	}
}

// NewStoreError creates a new error related to loading or saving the account store
func NewStoreError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeStore,
		Message: message,
		Err:     err,
	}
}

// NewAccountError creates a new error related to an account operation
func NewAccountError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeAccount,
		Message: message,
		Err:     err,
	}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeOutput,
		Message: message,
		Err:     err,
	}
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParsing:
			if appErr.Err != nil && !errors.Is(appErr.Err, ErrEmptyInput) {
				return fmt.Sprintf("Parsing error: %s: %v", appErr.Message, appErr.Err)
			}
			return fmt.Sprintf("Parsing error: %s", appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		case ErrorTypeStore:
			return fmt.Sprintf("Data file error: %s", appErr.Message)
		case ErrorTypeAccount:
			if appErr.Err != nil {
				return fmt.Sprintf("Account error: %s: %v", appErr.Message, appErr.Err)
			}
			return fmt.Sprintf("Account error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide a document."
	}
	if errors.Is(err, ErrMalformed) {
		return "Error: The document is malformed. Please check its syntax."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrFileEmpty) {
		return "Error: The specified file is empty."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Please specify a file or pipe a document to stdin."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}
	if errors.Is(err, ErrPathNotFound) {
		return "Error: The requested path does not exist in the document."
	}
	if errors.Is(err, ErrInvalidCredentials) {
		return "Error: Invalid user ID or PIN."
	}
	if errors.Is(err, ErrInsufficientFunds) {
		return "Error: Insufficient funds."
	}
	if errors.Is(err, ErrInvalidAmount) {
		return "Error: Please enter an amount greater than zero."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}
