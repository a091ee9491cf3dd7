package models

import (
	"errors"
	"fmt"
)

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrFormat ErrorType = iota
	ErrIncompatibleVersion
	ErrSourceUnavailable
	ErrNoSourcesConfigured
	ErrInstall
	ErrFileOp
	ErrInvalidConfig
	ErrSignature
	ErrCancelled
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrFormat:
		return "Format"
	case ErrIncompatibleVersion:
		return "IncompatibleVersion"
	case ErrSourceUnavailable:
		return "SourceUnavailable"
	case ErrNoSourcesConfigured:
		return "NoSourcesConfigured"
	case ErrInstall:
		return "Install"
	case ErrFileOp:
		return "FileOp"
	case ErrInvalidConfig:
		return "InvalidConfig"
	case ErrSignature:
		return "Signature"
	case ErrCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// EngineError represents an error raised by the package engine.
// Package holds the package id or source URL the error relates to, if any.
type EngineError struct {
	Type    ErrorType
	Package string
	Err     error
}

// Error implements the error interface
func (e *EngineError) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Package, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Type, e.Err)
}

// Unwrap returns the wrapped error
func (e *EngineError) Unwrap() error {
	return e.Err
}

// Errorf creates an EngineError with a formatted cause
func Errorf(t ErrorType, pkg string, format string, args ...interface{}) *EngineError {
	return &EngineError{
		Type:    t,
		Package: pkg,
		Err:     fmt.Errorf(format, args...),
	}
}

// IsType reports whether any EngineError in err's chain has the given type
func IsType(err error, t ErrorType) bool {
	var engineErr *EngineError
	for err != nil {
		if !errors.As(err, &engineErr) {
			return false
		}
		if engineErr.Type == t {
			return true
		}
		err = engineErr.Err
	}
	return false
}
