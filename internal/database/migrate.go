package database

import (
	"gorm.io/gorm"

	"github.com/Pascal-138/GroceryAssistant/internal/models"
)

// Migrate creates or updates the schema for all entities, including the
// composite unique indexes guarding the relation tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Favorite{},
		&models.ShoppingCartEntry{},
	)
}
