package domain

import "errors"

var (
	// ErrNonFiniteLevel indicates an audio level is NaN or infinite
	ErrNonFiniteLevel = errors.New("audio level must be a finite number")

	// ErrInvalidRules indicates a threshold rule set cannot form a monotone mapping
	ErrInvalidRules = errors.New("invalid threshold rules")

	// ErrReadingNotFound indicates requested reading doesn't exist
	ErrReadingNotFound = errors.New("reading not found")

	// ErrSourceUnavailable indicates the audio source cannot be read
	ErrSourceUnavailable = errors.New("audio source unavailable")
)
