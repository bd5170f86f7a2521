package core

import "errors"

// Sentinel errors surfaced by the ingest and statistics paths.
var (
	// ErrInvalidInput is returned when a reading has non-numeric or non-finite values.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUndefinedComparison is returned when a percentage change has a zero baseline.
	ErrUndefinedComparison = errors.New("undefined comparison")

	// ErrNotFound is returned when a requested snapshot or export does not exist.
	ErrNotFound = errors.New("not found")
)

// ErrInsufficientHistory is returned by a forecaster that received no readings.
var ErrInsufficientHistory = errors.New("insufficient history")
