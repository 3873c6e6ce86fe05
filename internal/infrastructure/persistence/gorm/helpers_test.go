package gorm_test

import (
	"time"

	"github.com/google/uuid"
	"github.com/savorly/savorly/internal/domain/recipe"
	"github.com/savorly/savorly/internal/domain/user"
)

func ids(recipes []*recipe.Recipe) []uuid.UUID {
	out := make([]uuid.UUID, len(recipes))
	for i, r := range recipes {
		out[i] = r.ID()
	}
	return out
}

// userWithEmail builds a fresh user carrying the given email
func userWithEmail(email string) *user.User {
	now := time.Now().UTC()
	return user.Restore(user.Snapshot{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "x",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}
