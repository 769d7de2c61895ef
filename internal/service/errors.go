package service

import "errors"

var (
	// ErrInvalidInput marks a malformed request. It is the only error the
	// recommend operation returns.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientCandidates means fewer candidates than requested neighbors.
	ErrInsufficientCandidates = errors.New("insufficient candidates")

	// ErrSearchFailure covers degenerate numeric state while indexing or searching.
	ErrSearchFailure = errors.New("similarity search failed")
)
