package recipe

import (
	"time"

	"github.com/google/uuid"
)

// RecipeRatedEvent is raised when a user submits or replaces a rating
type RecipeRatedEvent struct {
	RecipeID uuid.UUID
	UserID   uuid.UUID
	Score    int
	RatedAt  time.Time
}

func (e RecipeRatedEvent) EventName() string {
	return "recipe.rated"
}

func (e RecipeRatedEvent) OccurredAt() time.Time {
	return e.RatedAt
}

// Rate records a new rating and the refreshed summary on the recipe
func (r *Recipe) Rate(rating *Rating, summary RatingSummary) {
	r.UpdateRatingSummary(summary)
	r.AddEvent(RecipeRatedEvent{
		RecipeID: r.id,
		UserID:   rating.UserID,
		Score:    rating.Score,
		RatedAt:  rating.UpdatedAt,
	})
}
