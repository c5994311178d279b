// internal/domain/shift/errors.go
package shift

import (
	"errors"

	"shift_rotation_bot/internal/domain/calendar"
)

var (
	// ErrInvalidTeam indicates a team index outside [1, teamCount].
	ErrInvalidTeam = errors.New("invalid team")
	// ErrInvalidDay indicates a calendar input that is not a representable day.
	ErrInvalidDay = calendar.ErrInvalidDay
	// ErrInvalidAnchor indicates a rotation anchor that fails validation.
	ErrInvalidAnchor = errors.New("invalid rotation anchor")
	// ErrScanExhausted indicates a bounded search ran a full cycle without a match.
	// It can only happen with a configuration that breaks the rotation pattern.
	ErrScanExhausted = errors.New("bounded cycle scan exhausted")
)
