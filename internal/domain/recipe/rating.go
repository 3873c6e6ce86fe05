package recipe

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Score bounds
const (
	MinScore = 1
	MaxScore = 5

	maxReviewLength = 2000
)

// Rating is one user's score for one recipe. A user holds at most one
// rating per recipe; submitting again overwrites it.
type Rating struct {
	UserID    uuid.UUID
	RecipeID  uuid.UUID
	Score     int
	Review    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewRating validates and creates a rating
func NewRating(userID, recipeID uuid.UUID, score int, review string) (*Rating, error) {
	if userID == uuid.Nil || recipeID == uuid.Nil {
		return nil, ErrMissingReference
	}
	if score < MinScore || score > MaxScore {
		return nil, ErrInvalidRating
	}
	review = strings.TrimSpace(review)
	if len(review) > maxReviewLength {
		return nil, ErrReviewTooLong
	}

	now := time.Now().UTC()
	return &Rating{
		UserID:    userID,
		RecipeID:  recipeID,
		Score:     score,
		Review:    review,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
