package bilingo

import "fmt"

// TranslationError is the base error type for translation failures.
type TranslationError struct {
	Message string
	Cause   error
}

func (e *TranslationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *TranslationError) Unwrap() error {
	return e.Cause
}

// ProviderError indicates a translation backend failure (HTTP status, network, etc.).
type ProviderError struct {
	Message    string
	Cause      error
	StatusCode int // HTTP status code, 0 if no response was received
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// TransportError is returned once the retry budget is exhausted. Cause is the
// failure of the final attempt.
type TransportError struct {
	Attempts int
	Cause    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failed after %d attempts: %v", e.Attempts, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// ParseError indicates the backend response did not follow the delimited
// output format. Not retried.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Message)
}

// ValidationError indicates structurally invalid translated output.
type ValidationError struct {
	Message string
	Snippet string // Offending fragment, if any
}

func (e *ValidationError) Error() string {
	if e.Snippet != "" {
		return fmt.Sprintf("validation error: %s: %q", e.Message, e.Snippet)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// TagMismatchError indicates unbalanced templating tags in translated output.
type TagMismatchError struct {
	Tag   string
	Open  int
	Close int
}

func (e *TagMismatchError) Error() string {
	return fmt.Sprintf("tag mismatch: %q has %d opening and %d closing tags", e.Tag, e.Open, e.Close)
}

// CacheError indicates a cache persistence failure.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}
