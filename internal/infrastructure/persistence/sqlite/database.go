// Package sqlite provides SQLite database setup and configuration
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/savorly/savorly/internal/domain/recipe"
	gormModels "github.com/savorly/savorly/internal/infrastructure/persistence/gorm"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DriverName is go-sqlite3 with lower() replaced by a Unicode-aware
// version. The builtin only folds ASCII, so searching "CRÈME" would miss
// "crème".
const DriverName = "sqlite3_savorly"

var registerDriver sync.Once

func register() {
	registerDriver.Do(func() {
		sql.Register(DriverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc("lower", strings.ToLower, true)
			},
		})
	})
}

// SetupDatabase creates and configures the SQLite database
func SetupDatabase(dbPath string, gormLogger logger.Interface) (*gorm.DB, error) {
	// Use in-memory database if no path provided
	inMemory := dbPath == "" || dbPath == ":memory:"
	if inMemory {
		dbPath = ":memory:"
	}
	if gormLogger == nil {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	register()
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: DriverName, DSN: dbPath}), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Every connection to :memory: opens a separate database
	if inMemory {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	// Run auto-migration
	if err := db.AutoMigrate(gormModels.AllModels()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// SeedDatabase populates an empty database with the demo recipe catalogue
func SeedDatabase(ctx context.Context, db *gorm.DB) error {
	// Check if data already exists
	var recipeCount int64
	if err := db.WithContext(ctx).Model(&gormModels.RecipeModel{}).Count(&recipeCount).Error; err != nil {
		return fmt.Errorf("failed to count recipes: %w", err)
	}
	if recipeCount > 0 {
		return nil // Already seeded
	}

	repo := gormModels.NewRecipeRepository(db)
	items := demoRecipes()
	// Spread creation times so the newest-first listing follows catalogue order
	base := time.Now().UTC().Add(-time.Duration(len(items)) * time.Hour)
	for i, item := range items {
		r, err := recipe.NewRecipe(item.title, item.details)
		if err != nil {
			return fmt.Errorf("invalid demo recipe %q: %w", item.title, err)
		}
		seeded := recipe.Restore(recipe.Snapshot{
			ID:           r.ID(),
			Title:        r.Title(),
			Description:  r.Description(),
			ImageURL:     r.ImageURL(),
			Cuisine:      r.Cuisine(),
			PrepTime:     r.PrepTime(),
			CookTime:     r.CookTime(),
			Servings:     r.Servings(),
			Calories:     r.Calories(),
			Difficulty:   r.Difficulty(),
			Ingredients:  r.Ingredients(),
			Instructions: r.Instructions(),
			Popular:      r.IsPopular(),
			CreatedAt:    base.Add(time.Duration(len(items)-i) * time.Hour),
		})
		if err := repo.Create(ctx, seeded); err != nil {
			return fmt.Errorf("failed to create demo recipe: %w", err)
		}
		if item.rating != nil {
			if err := repo.UpdateRatingSummary(ctx, seeded.ID(), *item.rating); err != nil {
				return fmt.Errorf("failed to rate demo recipe: %w", err)
			}
		}
	}

	return nil
}

type demoRecipe struct {
	title   string
	details recipe.Details
	rating  *recipe.RatingSummary
}

func intPtr(v int) *int { return &v }

func rated(avg float64, count int) *recipe.RatingSummary {
	return &recipe.RatingSummary{Average: avg, Count: count}
}

func demoRecipes() []demoRecipe {
	return []demoRecipe{
		{
			title: "Classic Spaghetti Carbonara",
			details: recipe.Details{
				Description:  "A traditional Italian pasta dish with eggs, pecorino, guanciale and black pepper",
				ImageURL:     "recipes/carbonara.jpg",
				Cuisine:      "Italian",
				PrepTime:     10,
				CookTime:     15,
				Servings:     4,
				Calories:     intPtr(620),
				Difficulty:   recipe.DifficultyMedium,
				Ingredients:  []string{"400g spaghetti", "150g guanciale", "4 egg yolks", "60g pecorino romano", "Black pepper"},
				Instructions: []string{"Boil the pasta in salted water", "Crisp the guanciale", "Whisk yolks with cheese and pepper", "Toss everything off the heat with pasta water"},
				Popular:      true,
			},
			rating: rated(4.8, 12),
		},
		{
			title: "Margherita Pizza",
			details: recipe.Details{
				Description:  "Neapolitan pizza with tomato, fresh mozzarella and basil",
				ImageURL:     "recipes/margherita.jpg",
				Cuisine:      "Italian",
				PrepTime:     90,
				CookTime:     10,
				Servings:     2,
				Calories:     intPtr(800),
				Difficulty:   recipe.DifficultyHard,
				Ingredients:  []string{"500g pizza dough", "200g San Marzano tomatoes", "150g fior di latte", "Fresh basil", "Olive oil"},
				Instructions: []string{"Stretch the dough", "Top with crushed tomatoes and mozzarella", "Bake as hot as the oven goes", "Finish with basil and oil"},
			},
			rating: rated(4.5, 8),
		},
		{
			title: "Pad Thai",
			details: recipe.Details{
				Description:  "Stir-fried rice noodles with shrimp, tamarind, peanuts and lime",
				ImageURL:     "recipes/pad-thai.jpg",
				Cuisine:      "Thai",
				PrepTime:     20,
				CookTime:     10,
				Servings:     2,
				Calories:     intPtr(540),
				Difficulty:   recipe.DifficultyMedium,
				Ingredients:  []string{"200g rice noodles", "200g shrimp", "2 tbsp tamarind paste", "1 tbsp fish sauce", "Crushed peanuts", "Lime"},
				Instructions: []string{"Soak the noodles", "Stir-fry shrimp and garlic", "Add noodles and sauce", "Serve with peanuts and lime"},
				Popular:      true,
			},
			rating: rated(4.6, 9),
		},
		{
			title: "Green Curry",
			details: recipe.Details{
				Description:  "Fragrant coconut curry with chicken, Thai basil and eggplant",
				ImageURL:     "recipes/green-curry.jpg",
				Cuisine:      "Thai",
				PrepTime:     15,
				CookTime:     25,
				Servings:     4,
				Difficulty:   recipe.DifficultyMedium,
				Ingredients:  []string{"2 tbsp green curry paste", "400ml coconut milk", "500g chicken thigh", "Thai eggplant", "Thai basil"},
				Instructions: []string{"Fry the paste in coconut cream", "Add chicken and remaining coconut milk", "Simmer with eggplant", "Finish with basil"},
			},
		},
		{
			title: "Chicken Tacos al Pastor",
			details: recipe.Details{
				Description:  "Marinated chicken tacos with pineapple, onion and cilantro",
				ImageURL:     "recipes/tacos-al-pastor.jpg",
				Cuisine:      "Mexican",
				PrepTime:     30,
				CookTime:     15,
				Servings:     4,
				Calories:     intPtr(450),
				Difficulty:   recipe.DifficultyEasy,
				Ingredients:  []string{"600g chicken thigh", "Achiote paste", "Pineapple", "Corn tortillas", "Onion", "Cilantro"},
				Instructions: []string{"Marinate the chicken", "Grill chicken and pineapple", "Chop and fill the tortillas", "Top with onion and cilantro"},
				Popular:      true,
			},
			rating: rated(4.7, 15),
		},
		{
			title: "Guacamole",
			details: recipe.Details{
				Description:  "Quick & easy avocado dip with lime, chili and cilantro",
				ImageURL:     "recipes/guacamole.jpg",
				Cuisine:      "Mexican",
				PrepTime:     10,
				CookTime:     0,
				Servings:     4,
				Calories:     intPtr(180),
				Difficulty:   recipe.DifficultyEasy,
				Ingredients:  []string{"3 avocados", "1 lime", "1 jalapeño", "Red onion", "Cilantro", "Salt"},
				Instructions: []string{"Mash the avocados", "Fold in the chopped aromatics", "Season with lime and salt"},
			},
			rating: rated(4.3, 6),
		},
		{
			title: "Quick & Easy Avocado Toast",
			details: recipe.Details{
				Description:  "Five minute breakfast with smashed avocado, chili flakes and a fried egg",
				ImageURL:     "recipes/avocado-toast.jpg",
				Cuisine:      "American",
				PrepTime:     5,
				CookTime:     5,
				Servings:     1,
				Calories:     intPtr(350),
				Difficulty:   recipe.DifficultyEasy,
				Ingredients:  []string{"Sourdough bread", "1 avocado", "1 egg", "Chili flakes", "Flaky salt"},
				Instructions: []string{"Toast the bread", "Smash the avocado on top", "Fry the egg and add it", "Season"},
				Popular:      true,
			},
			rating: rated(4.2, 20),
		},
		{
			title: "Mediterranean Chickpea Salad",
			details: recipe.Details{
				Description:  "Quick & easy salad with chickpeas, cucumber, feta and lemon",
				ImageURL:     "recipes/chickpea-salad.jpg",
				Cuisine:      "Mediterranean",
				PrepTime:     15,
				CookTime:     0,
				Servings:     2,
				Difficulty:   recipe.DifficultyEasy,
				Ingredients:  []string{"400g chickpeas", "1 cucumber", "Cherry tomatoes", "100g feta", "Lemon", "Olive oil"},
				Instructions: []string{"Rinse the chickpeas", "Chop the vegetables", "Dress with lemon and oil", "Crumble feta over the top"},
			},
		},
	}
}
