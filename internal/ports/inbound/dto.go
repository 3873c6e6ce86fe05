package inbound

import (
	"time"

	"github.com/google/uuid"
)

// RecipeDTO is the data transfer object for recipes
type RecipeDTO struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	Cuisine      string    `json:"cuisine,omitempty"`
	PrepTime     int       `json:"prep_time"`
	CookTime     int       `json:"cook_time"`
	Servings     int       `json:"servings"`
	Calories     *int      `json:"calories,omitempty"`
	Difficulty   string    `json:"difficulty"`
	Ingredients  []string  `json:"ingredients"`
	Instructions []string  `json:"instructions"`
	Rating       *float64  `json:"rating"`
	RatingCount  int       `json:"rating_count"`
	IsPopular    bool      `json:"is_popular"`
	CreatedAt    time.Time `json:"created_at"`
}

// TotalTime returns preparation plus cooking time in minutes
func (r RecipeDTO) TotalTime() int {
	return r.PrepTime + r.CookTime
}

// RecipeSummaryDTO is the recipe projection joined onto bookings and favorites.
// Bookings carry id, title, image and timings; favorites also carry servings,
// rating and cuisine.
type RecipeSummaryDTO struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	ImageURL string    `json:"image_url,omitempty"`
	PrepTime int       `json:"prep_time"`
	CookTime int       `json:"cook_time"`
	Servings int       `json:"servings,omitempty"`
	Rating   *float64  `json:"rating,omitempty"`
	Cuisine  string    `json:"cuisine,omitempty"`
}

// RatingDTO is a stored rating
type RatingDTO struct {
	RecipeID  uuid.UUID `json:"recipe_id"`
	UserID    uuid.UUID `json:"user_id"`
	Score     int       `json:"score"`
	Review    string    `json:"review,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookingDTO is a booking with its recipe projection
type BookingDTO struct {
	ID            uuid.UUID         `json:"id"`
	UserID        uuid.UUID         `json:"user_id"`
	RecipeID      uuid.UUID         `json:"recipe_id"`
	ScheduledDate string            `json:"scheduled_date"`
	MealType      string            `json:"meal_type"`
	Servings      int               `json:"servings"`
	Notes         string            `json:"notes,omitempty"`
	Status        string            `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
	Recipe        *RecipeSummaryDTO `json:"recipe,omitempty"`
}

// FavoriteDTO is a favorite with its recipe projection
type FavoriteDTO struct {
	ID        uuid.UUID         `json:"id"`
	UserID    uuid.UUID         `json:"user_id"`
	RecipeID  uuid.UUID         `json:"recipe_id"`
	CreatedAt time.Time         `json:"created_at"`
	Recipe    *RecipeSummaryDTO `json:"recipe,omitempty"`
}

// FavoriteStateDTO reports membership after a favorite mutation
type FavoriteStateDTO struct {
	RecipeID uuid.UUID `json:"recipe_id"`
	Favorite bool      `json:"favorite"`
}

// UserDTO represents user data transfer object
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse contains authentication response data
type AuthResponse struct {
	User         UserDTO   `json:"user"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}
