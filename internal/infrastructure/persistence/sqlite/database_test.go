package sqlite

import (
	"context"
	"testing"

	"github.com/savorly/savorly/internal/domain/recipe"
	gormModels "github.com/savorly/savorly/internal/infrastructure/persistence/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDatabase(t *testing.T) {
	ctx := context.Background()
	db, err := SetupDatabase("", nil)
	require.NoError(t, err)

	require.NoError(t, SeedDatabase(ctx, db))
	// Seeding twice is a no-op
	require.NoError(t, SeedDatabase(ctx, db))

	repo := gormModels.NewRecipeRepository(db)
	all, err := repo.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, len(demoRecipes()))
	assert.Equal(t, demoRecipes()[0].title, all[0].Title())

	thai, err := repo.Search(ctx, "thai")
	require.NoError(t, err)
	assert.Len(t, thai, 2)

	popular, err := repo.FindPopular(ctx, recipe.PopularLimit)
	require.NoError(t, err)
	require.Len(t, popular, 4)
	assert.Equal(t, "Classic Spaghetti Carbonara", popular[0].Title())
	for i := 1; i < len(popular); i++ {
		assert.GreaterOrEqual(t, *popular[i-1].Rating(), *popular[i].Rating())
	}
}

func TestSearchFoldsNonASCIICase(t *testing.T) {
	ctx := context.Background()
	db, err := SetupDatabase("", nil)
	require.NoError(t, err)

	r, err := recipe.NewRecipe("Crème Brûlée", recipe.Details{
		Description:  "Baked vanilla custard under a crackling sugar crust",
		Cuisine:      "Française",
		PrepTime:     20,
		CookTime:     40,
		Servings:     6,
		Difficulty:   recipe.DifficultyMedium,
		Ingredients:  []string{"500ml cream", "5 egg yolks", "Vanilla pod", "Sugar"},
		Instructions: []string{"Infuse the cream", "Whisk into the yolks", "Bake in a water bath", "Torch the sugar"},
	})
	require.NoError(t, err)
	repo := gormModels.NewRecipeRepository(db)
	require.NoError(t, repo.Create(ctx, r))

	for _, term := range []string{"CRÈME", "brûlée", "FRANÇAISE"} {
		found, err := repo.Search(ctx, term)
		require.NoError(t, err)
		assert.Len(t, found, 1, "search %q", term)
	}
}
