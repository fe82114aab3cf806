package domain

import "errors"

// Validation errors
var (
	ErrInvalidRound     = errors.New("invalid round")
	ErrInvalidEventKind = errors.New("invalid event kind")
	ErrInvalidGender    = errors.New("invalid gender")
	ErrInvalidUserRole  = errors.New("invalid user role")
	ErrInvalidLaneCount = errors.New("lane count must be positive")
)
