package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents network-related errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeParsing represents HTML parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeRender represents headless-render errors
	ErrorTypeRender ErrorType = "render"
	// ErrorTypeCache represents cache-related errors
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypeValidation represents validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// PipelineError represents an extraction-pipeline error
type PipelineError struct {
	Type    ErrorType
	URL     string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.URL, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.URL, e.Message)
}

// Unwrap returns the underlying error
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is retryable
func (e *PipelineError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetwork, ErrorTypeRender:
		return true
	default:
		return false
	}
}

// New creates a new PipelineError
func New(errType ErrorType, url, message string, err error) *PipelineError {
	return &PipelineError{
		Type:    errType,
		URL:     url,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(url, message string, err error) *PipelineError {
	return New(ErrorTypeNetwork, url, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(url, message string, err error) *PipelineError {
	return New(ErrorTypeParsing, url, message, err)
}

// NewRender creates a new render error
func NewRender(url, message string, err error) *PipelineError {
	return New(ErrorTypeRender, url, message, err)
}

// NewCache creates a new cache error
func NewCache(url, message string, err error) *PipelineError {
	return New(ErrorTypeCache, url, message, err)
}

// NewValidation creates a new validation error
func NewValidation(url, message string) *PipelineError {
	return New(ErrorTypeValidation, url, message, nil)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *PipelineError {
	return New(ErrorTypeConfiguration, "", message, err)
}
