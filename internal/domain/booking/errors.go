package booking

import (
	"errors"
	"fmt"
)

// Domain errors for booking operations

var (
	ErrMissingUser     = errors.New("booking requires a user")
	ErrMissingRecipe   = errors.New("booking requires a recipe")
	ErrInvalidDate     = errors.New("scheduled date must be formatted as YYYY-MM-DD")
	ErrInvalidMealType = errors.New("meal type must be breakfast, lunch, dinner or snack")
	ErrInvalidServings = errors.New("servings must be between 1 and 20")
	ErrNotesTooLong    = errors.New("notes must not exceed 500 characters")

	ErrInvalidStatusTransition = errors.New("invalid booking status transition")
)

// TransitionError describes a rejected status change
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move booking from %s to %s", e.From, e.To)
}

// Is lets errors.Is match ErrInvalidStatusTransition
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidStatusTransition
}
