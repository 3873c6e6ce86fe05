package recipe

import "errors"

// Domain errors for recipe operations

var (
	// Entity validation errors
	ErrTitleTooShort     = errors.New("recipe title must be at least 3 characters")
	ErrTitleTooLong      = errors.New("recipe title must not exceed 200 characters")
	ErrNegativeTime      = errors.New("prep and cook time must not be negative")
	ErrInvalidServings   = errors.New("servings must be greater than 0")
	ErrInvalidDifficulty = errors.New("difficulty must be Easy, Medium or Hard")

	// Rating errors
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
	ErrReviewTooLong    = errors.New("review must not exceed 2000 characters")
	ErrMissingReference = errors.New("rating requires a user and a recipe")
)
