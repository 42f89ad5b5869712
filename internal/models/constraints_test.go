package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Pascal-138/GroceryAssistant/internal/models"
	"github.com/Pascal-138/GroceryAssistant/internal/testhelpers"
)

// These tests exercise the database-level guards directly, bypassing the
// service pre-checks, so they run against real Postgres.

func TestUniqueIndexesEnforced(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)

	user := models.User{Email: "a@example.com", Username: "a", FirstName: "A", LastName: "A", PasswordHash: "x"}
	author := models.User{Email: "b@example.com", Username: "b", FirstName: "B", LastName: "B", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&author).Error)

	recipe := models.Recipe{Name: "Soup", Text: "Boil.", CookingTime: 10, AuthorID: author.ID}
	require.NoError(t, db.Create(&recipe).Error)

	require.NoError(t, db.Create(&models.Favorite{UserID: user.ID, RecipeID: recipe.ID}).Error)
	err := db.Create(&models.Favorite{UserID: user.ID, RecipeID: recipe.ID}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	require.NoError(t, db.Create(&models.ShoppingCartEntry{UserID: user.ID, RecipeID: recipe.ID}).Error)
	err = db.Create(&models.ShoppingCartEntry{UserID: user.ID, RecipeID: recipe.ID}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	require.NoError(t, db.Create(&models.Follow{UserID: user.ID, AuthorID: author.ID}).Error)
	err = db.Create(&models.Follow{UserID: user.ID, AuthorID: author.ID}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestCheckConstraintsEnforced(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)

	author := models.User{Email: "c@example.com", Username: "c", FirstName: "C", LastName: "C", PasswordHash: "x"}
	require.NoError(t, db.Create(&author).Error)

	// Cooking time outside 1..32000 is rejected by the table itself.
	bad := models.Recipe{Name: "Raw", Text: "Nothing.", CookingTime: 0, AuthorID: author.ID}
	assert.Error(t, db.Create(&bad).Error)

	recipe := models.Recipe{Name: "Soup", Text: "Boil.", CookingTime: 10, AuthorID: author.ID}
	require.NoError(t, db.Create(&recipe).Error)

	ingredient := models.Ingredient{Name: "Salt", MeasurementUnit: "g"}
	require.NoError(t, db.Create(&ingredient).Error)

	row := models.RecipeIngredient{RecipeID: recipe.ID, IngredientID: ingredient.ID, Amount: 32001}
	assert.Error(t, db.Create(&row).Error)

	row.Amount = 32000
	require.NoError(t, db.Create(&row).Error)

	// Self-follows never reach the table.
	err := db.Create(&models.Follow{UserID: author.ID, AuthorID: author.ID}).Error
	assert.Error(t, err)
}
