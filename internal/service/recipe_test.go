package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Pascal-138/GroceryAssistant/internal/database"
	"github.com/Pascal-138/GroceryAssistant/internal/models"
	"github.com/Pascal-138/GroceryAssistant/internal/types"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(&ingredient).Error)
	return &ingredient
}

func seedTag(t *testing.T, db *gorm.DB, slug string) *models.Tag {
	t.Helper()
	tag := models.Tag{Name: slug, Color: "#49B64E", Slug: slug}
	require.NoError(t, db.Create(&tag).Error)
	return &tag
}

func seedRecipe(t *testing.T, db *gorm.DB, svc *RecipeService, author *models.User, name string, tag *models.Tag, amounts map[*models.Ingredient]int) *models.Recipe {
	t.Helper()
	req := &types.RecipeRequest{
		Name:        name,
		Text:        "Stir and serve.",
		CookingTime: 30,
		Tags:        []uuid.UUID{tag.ID},
	}
	for ingredient, amount := range amounts {
		req.Ingredients = append(req.Ingredients, types.IngredientAmountRequest{
			ID:     ingredient.ID,
			Amount: amount,
		})
	}
	recipe, err := svc.CreateRecipe(context.Background(), author.ID, req, "")
	require.NoError(t, err)
	return recipe
}

func TestRenderShoppingList(t *testing.T) {
	assert.Equal(t, "Shopping list:", RenderShoppingList(nil))

	one := []ShoppingListItem{{Name: "Flour", MeasurementUnit: "g", Total: 150}}
	assert.Equal(t, "Shopping list:\nFlour - 150 g", RenderShoppingList(one))

	many := []ShoppingListItem{
		{Name: "Eggs", MeasurementUnit: "pcs", Total: 3},
		{Name: "Flour", MeasurementUnit: "g", Total: 150},
		{Name: "Milk", MeasurementUnit: "ml", Total: 500},
	}
	assert.Equal(t,
		"Shopping list:\nEggs - 3 pcs, \nFlour - 150 g, \nMilk - 500 ml",
		RenderShoppingList(many))
}

func TestShoppingListGroupsByNameAndUnit(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	user := seedUser(t, db, "chef")
	tag := seedTag(t, db, "dinner")
	flour := seedIngredient(t, db, "Flour", "g")
	flourSpoons := seedIngredient(t, db, "Flour", "tbsp")
	eggs := seedIngredient(t, db, "Eggs", "pcs")

	a := seedRecipe(t, db, svc, user, "Dough", tag, map[*models.Ingredient]int{flour: 100, eggs: 2})
	b := seedRecipe(t, db, svc, user, "Batter", tag, map[*models.Ingredient]int{flour: 50, flourSpoons: 2})

	for _, recipe := range []*models.Recipe{a, b} {
		_, err := svc.AddToShoppingCart(context.Background(), user.ID, recipe.ID)
		require.NoError(t, err)
	}

	items, err := svc.ShoppingList(context.Background(), user.ID)
	require.NoError(t, err)

	// Same name in different units stays separate; same (name, unit) is
	// summed across recipes.
	require.Len(t, items, 3)
	assert.Equal(t, ShoppingListItem{Name: "Eggs", MeasurementUnit: "pcs", Total: 2}, items[0])
	assert.Contains(t, items, ShoppingListItem{Name: "Flour", MeasurementUnit: "g", Total: 150})
	assert.Contains(t, items, ShoppingListItem{Name: "Flour", MeasurementUnit: "tbsp", Total: 2})
}

func TestShoppingListEmptyCart(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	user := seedUser(t, db, "chef")

	items, err := svc.ShoppingList(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFavoriteRecipeDuplicate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	user := seedUser(t, db, "chef")
	tag := seedTag(t, db, "lunch")
	flour := seedIngredient(t, db, "Flour", "g")
	recipe := seedRecipe(t, db, svc, user, "Soup", tag, map[*models.Ingredient]int{flour: 10})

	_, err := svc.FavoriteRecipe(context.Background(), user.ID, recipe.ID)
	require.NoError(t, err)

	_, err = svc.FavoriteRecipe(context.Background(), user.ID, recipe.ID)
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = svc.FavoriteRecipe(context.Background(), user.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveWriteShapeValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	user := seedUser(t, db, "chef")
	tag := seedTag(t, db, "lunch")
	flour := seedIngredient(t, db, "Flour", "g")

	base := func() *types.RecipeRequest {
		return &types.RecipeRequest{
			Name:        "Soup",
			Text:        "Stir and serve.",
			CookingTime: 30,
			Tags:        []uuid.UUID{tag.ID},
			Ingredients: []types.IngredientAmountRequest{{ID: flour.ID, Amount: 10}},
		}
	}

	req := base()
	req.Ingredients[0].Amount = models.MaxAmount + 1
	_, err := svc.CreateRecipe(context.Background(), user.ID, req, "")
	assert.ErrorIs(t, err, ErrValidation)

	req = base()
	req.Ingredients = append(req.Ingredients, types.IngredientAmountRequest{ID: flour.ID, Amount: 5})
	_, err = svc.CreateRecipe(context.Background(), user.ID, req, "")
	assert.ErrorIs(t, err, ErrValidation)

	req = base()
	req.Ingredients = nil
	_, err = svc.CreateRecipe(context.Background(), user.ID, req, "")
	assert.ErrorIs(t, err, ErrValidation)

	req = base()
	req.CookingTime = models.MaxAmount + 1
	_, err = svc.CreateRecipe(context.Background(), user.ID, req, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSubscribeSelfAndDuplicate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)
	author := seedUser(t, db, "author")
	follower := seedUser(t, db, "follower")

	_, err := svc.Subscribe(context.Background(), follower.ID, follower.ID)
	assert.ErrorIs(t, err, ErrSelfFollow)

	follow, err := svc.Subscribe(context.Background(), follower.ID, author.ID)
	require.NoError(t, err)
	assert.Equal(t, author.ID, follow.AuthorID)

	_, err = svc.Subscribe(context.Background(), follower.ID, author.ID)
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = svc.Subscribe(context.Background(), follower.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
