// Package errors provides structured application errors with stable codes.
// Only ingestion-class errors abort an analysis run; every other class is
// absorbed at its own layer and reflected as an absence in the result.
package errors

import (
	"errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap wraps an error with additional context, preserving an existing code
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return &AppError{Code: appErr.Code, Message: message, Cause: err}
	}
	return &AppError{Code: CodeInternalError, Message: message, Cause: err}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the error code, or "UNKNOWN" for foreign errors
func GetCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether err carries the given code
func HasCode(err error, code string) bool {
	return GetCode(err) == code
}

// Error codes for the analysis pipeline
const (
	CodeIngestionError = "INGESTION_ERROR" // unreadable or unsupported file, fatal
	CodeEmptyDataset   = "EMPTY_DATASET"   // no usable rows or columns, fatal
	CodeCleaningStep   = "CLEANING_STEP"   // per-column cleaning failure, recovered
	CodePlotGeneration = "PLOT_GENERATION" // per-plot rendering failure, recovered
	CodeAIUnavailable  = "AI_UNAVAILABLE"  // AI backend failure, degrades gracefully
	CodeConfigInvalid  = "CONFIG_INVALID"  // bad configuration at startup
	CodeInvalidInput   = "INVALID_INPUT"   // malformed request
	CodeInternalError  = "INTERNAL_ERROR"  // everything else
)

// IngestionError marks a fatal parse failure
func IngestionError(message string) *AppError {
	return New(CodeIngestionError, message)
}

// EmptyDataset marks a dataset with no usable rows or columns
func EmptyDataset(message string) *AppError {
	return New(CodeEmptyDataset, message)
}

// PlotGeneration marks a recoverable per-plot rendering failure
func PlotGeneration(message string) *AppError {
	return New(CodePlotGeneration, message)
}

// AIUnavailable marks a degraded AI layer outcome
func AIUnavailable(message string) *AppError {
	return New(CodeAIUnavailable, message)
}

// ConfigInvalid marks bad startup configuration
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

// InvalidInput marks a malformed caller request
func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// IsFatal reports whether an error must abort the pipeline and surface to
// the caller. Only ingestion-class failures qualify.
func IsFatal(err error) bool {
	code := GetCode(err)
	return code == CodeIngestionError || code == CodeEmptyDataset
}
