package recipe

import "strings"

// DefaultServings is used when a recipe does not state its servings
const DefaultServings = 2

// PopularLimit caps the popular recipes listing
const PopularLimit = 4

// Difficulty represents how demanding a recipe is
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// IsValid checks the difficulty against the known levels
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// ParseDifficulty accepts any casing of a known level
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy, nil
	case "medium":
		return DifficultyMedium, nil
	case "hard":
		return DifficultyHard, nil
	}
	return "", ErrInvalidDifficulty
}

// RatingSummary is the aggregate of all ratings of one recipe
type RatingSummary struct {
	Average float64
	Count   int
}
