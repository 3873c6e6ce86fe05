// Package gorm provides GORM model definitions for the application
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel represents the GORM model for users
type UserModel struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	FullName     string    `gorm:"type:varchar(255)"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time
}

// RecipeModel represents the GORM model for recipes
type RecipeModel struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey"`
	Title       string    `gorm:"type:varchar(255);not null;index"`
	Description string    `gorm:"type:text"`
	ImageURL    string    `gorm:"type:text"`
	Cuisine     string    `gorm:"type:varchar(50);index"`

	// Timing (stored in minutes)
	PrepTime int  `gorm:"default:0"`
	CookTime int  `gorm:"default:0"`
	Servings int  `gorm:"default:2"`
	Calories *int

	Difficulty   string      `gorm:"type:varchar(20);default:'Medium'"`
	Ingredients  StringSlice `gorm:"type:json"`
	Instructions StringSlice `gorm:"type:json"`

	// Rating summary, recomputed from RatingModel rows
	Rating      *float64 `gorm:"index"`
	RatingCount int      `gorm:"default:0"`
	IsPopular   bool     `gorm:"default:false;index"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// RatingModel represents the GORM model for recipe ratings
type RatingModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_ratings_user_recipe"`
	RecipeID  uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_ratings_user_recipe;index"`
	Score     int       `gorm:"not null;check:score >= 1 AND score <= 5"`
	Review    string    `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BookingModel represents the GORM model for meal bookings
type BookingModel struct {
	ID            uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID        uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_bookings_slot,priority:1;index"`
	RecipeID      uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_bookings_slot,priority:2"`
	ScheduledDate time.Time `gorm:"type:date;not null;uniqueIndex:idx_bookings_slot,priority:3"`
	MealType      string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_bookings_slot,priority:4"`
	Servings      int       `gorm:"not null;check:servings >= 1 AND servings <= 20"`
	Notes         string    `gorm:"type:text"`
	Status        string    `gorm:"type:varchar(20);not null;default:'scheduled';index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FavoriteModel represents the GORM model for saved recipes
type FavoriteModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_favorites_user_recipe"`
	RecipeID  uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_favorites_user_recipe"`
	CreatedAt time.Time `gorm:"index"`
}

// AllModels lists every model in migration order
func AllModels() []interface{} {
	return []interface{}{
		&UserModel{},
		&RecipeModel{},
		&RatingModel{},
		&BookingModel{},
		&FavoriteModel{},
	}
}

// StringSlice custom type for handling string slices in JSON
type StringSlice []string

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// BeforeCreate hook for UserModel
func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for RecipeModel
func (r *RecipeModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for RatingModel
func (r *RatingModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for BookingModel
func (b *BookingModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for FavoriteModel
func (f *FavoriteModel) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// TableName methods for custom table names
func (UserModel) TableName() string {
	return "users"
}

func (RecipeModel) TableName() string {
	return "recipes"
}

func (RatingModel) TableName() string {
	return "ratings"
}

func (BookingModel) TableName() string {
	return "bookings"
}

func (FavoriteModel) TableName() string {
	return "favorites"
}
