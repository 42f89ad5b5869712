package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Pascal-138/GroceryAssistant/internal/models"
	"github.com/Pascal-138/GroceryAssistant/internal/types"
)

// RecipeFilter narrows a recipe listing. The two boolean filters are no-ops
// for anonymous callers even when requested true.
type RecipeFilter struct {
	AuthorID         *uuid.UUID
	TagSlugs         []string
	IsFavorited      bool
	IsInShoppingCart bool
	Page             int
	Limit            int
}

// ShoppingListItem is one grouped row of the aggregated shopping list.
type ShoppingListItem struct {
	Name            string
	MeasurementUnit string
	Total           int
}

// RecipeService handles recipe operations
type RecipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

func (s *RecipeService) preloaded(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Preload("Author")
}

// GetRecipe retrieves a recipe with its tags, ingredients and author.
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.preloaded(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// ListRecipes returns a filtered page of recipes, newest first, and the
// total match count.
func (s *RecipeService) ListRecipes(ctx context.Context, caller *uuid.UUID, f RecipeFilter) ([]models.Recipe, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{})

	if f.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *f.AuthorID)
	}

	if len(f.TagSlugs) > 0 {
		// OR semantics: a recipe matches if it carries at least one of the
		// given tags.
		query = query.Where("recipes.id IN (?)", s.db.
			Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs))
	}

	if f.IsFavorited && caller != nil {
		query = query.Where("recipes.id IN (?)", s.db.
			Model(&models.Favorite{}).
			Select("recipe_id").
			Where("user_id = ?", *caller))
	}

	if f.IsInShoppingCart && caller != nil {
		query = query.Where("recipes.id IN (?)", s.db.
			Model(&models.ShoppingCartEntry{}).
			Select("recipe_id").
			Where("user_id = ?", *caller))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 10
	}

	var recipes []models.Recipe
	err := query.
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Preload("Author").
		Order("recipes.published_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// CreateRecipe validates the write shape and stores the recipe together
// with its ingredient rows and tag links in one transaction.
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uuid.UUID, req *types.RecipeRequest, imageURL string) (*models.Recipe, error) {
	tags, rows, err := s.resolveWriteShape(ctx, req)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		ImageURL:    imageURL,
		AuthorID:    authorID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}
		for i := range rows {
			rows[i].RecipeID = recipe.ID
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecipe(ctx, recipe.ID)
}

// UpdateRecipe is author-only and replaces the ingredient set wholesale:
// old rows are deleted and the new set bulk-inserted inside the same
// transaction, so the recipe is never observable with an empty set.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id, callerID uuid.UUID, req *types.RecipeRequest, imageURL string) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if recipe.AuthorID != callerID {
		return nil, ErrForbidden
	}

	tags, rows, err := s.resolveWriteShape(ctx, req)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"name":         req.Name,
			"text":         req.Text,
			"cooking_time": req.CookingTime,
		}
		if imageURL != "" {
			updates["image_url"] = imageURL
		}
		if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		for i := range rows {
			rows[i].RecipeID = recipe.ID
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecipe(ctx, recipe.ID)
}

// DeleteRecipe removes a recipe; author-only.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id, callerID uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if recipe.AuthorID != callerID {
		return ErrForbidden
	}
	return s.db.WithContext(ctx).Select("Tags", "Ingredients").Delete(&recipe).Error
}

// resolveWriteShape checks bounds, rejects duplicate ingredient references
// and resolves tag and ingredient ids against the store.
func (s *RecipeService) resolveWriteShape(ctx context.Context, req *types.RecipeRequest) ([]models.Tag, []models.RecipeIngredient, error) {
	if req.CookingTime < models.MinAmount || req.CookingTime > models.MaxAmount {
		return nil, nil, fmt.Errorf("%w: cooking_time must be between %d and %d", ErrValidation, models.MinAmount, models.MaxAmount)
	}
	if len(req.Ingredients) == 0 {
		return nil, nil, fmt.Errorf("%w: ingredients must not be empty", ErrValidation)
	}
	if len(req.Tags) == 0 {
		return nil, nil, fmt.Errorf("%w: tags must not be empty", ErrValidation)
	}

	seen := make(map[uuid.UUID]bool, len(req.Ingredients))
	ids := make([]uuid.UUID, 0, len(req.Ingredients))
	for _, item := range req.Ingredients {
		if item.Amount < models.MinAmount || item.Amount > models.MaxAmount {
			return nil, nil, fmt.Errorf("%w: amount must be between %d and %d", ErrValidation, models.MinAmount, models.MaxAmount)
		}
		if seen[item.ID] {
			return nil, nil, fmt.Errorf("%w: duplicate ingredient %s", ErrValidation, item.ID)
		}
		seen[item.ID] = true
		ids = append(ids, item.ID)
	}

	var ingredients []models.Ingredient
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		return nil, nil, err
	}
	if len(ingredients) != len(ids) {
		return nil, nil, fmt.Errorf("%w: unknown ingredient id", ErrValidation)
	}

	var tags []models.Tag
	if err := s.db.WithContext(ctx).Where("id IN ?", req.Tags).Find(&tags).Error; err != nil {
		return nil, nil, err
	}
	if len(tags) != len(req.Tags) {
		return nil, nil, fmt.Errorf("%w: unknown tag id", ErrValidation)
	}

	rows := make([]models.RecipeIngredient, len(req.Ingredients))
	for i, item := range req.Ingredients {
		rows[i] = models.RecipeIngredient{
			IngredientID: item.ID,
			Amount:       item.Amount,
		}
	}
	return tags, rows, nil
}

// FavoriteRecipe creates the (user, recipe) favorite. The unique index is
// the guard against concurrent duplicates; the pre-check shapes the error.
func (s *RecipeService) FavoriteRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	return s.createRelation(ctx, userID, recipeID, func() interface{} {
		return &models.Favorite{UserID: userID, RecipeID: recipeID}
	}, &models.Favorite{})
}

// UnfavoriteRecipe removes the favorite; ErrNotFound if absent.
func (s *RecipeService) UnfavoriteRecipe(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.deleteRelation(ctx, userID, recipeID, &models.Favorite{})
}

// AddToShoppingCart places the recipe in the caller's cart.
func (s *RecipeService) AddToShoppingCart(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	return s.createRelation(ctx, userID, recipeID, func() interface{} {
		return &models.ShoppingCartEntry{UserID: userID, RecipeID: recipeID}
	}, &models.ShoppingCartEntry{})
}

// RemoveFromShoppingCart removes the cart entry; ErrNotFound if absent.
func (s *RecipeService) RemoveFromShoppingCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.deleteRelation(ctx, userID, recipeID, &models.ShoppingCartEntry{})
}

func (s *RecipeService) createRelation(ctx context.Context, userID, recipeID uuid.UUID, newRow func() interface{}, model interface{}) (*models.Recipe, error) {
	recipe, err := s.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(model).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicate
	}

	if err := s.db.WithContext(ctx).Create(newRow()).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return recipe, nil
}

func (s *RecipeService) deleteRelation(ctx context.Context, userID, recipeID uuid.UUID, model interface{}) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ShoppingList gathers every ingredient row of the recipes in the user's
// cart, grouped by (name, unit) with summed amounts.
func (s *RecipeService) ShoppingList(ctx context.Context, userID uuid.UUID) ([]ShoppingListItem, error) {
	var items []ShoppingListItem
	err := s.db.WithContext(ctx).
		Model(&models.RecipeIngredient{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_cart_entries ON shopping_cart_entries.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_cart_entries.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// RenderShoppingList formats the aggregated list as the plain-text
// attachment body: header line, one ingredient per line, entries separated
// by a trailing comma except after the last.
func RenderShoppingList(items []ShoppingListItem) string {
	var b strings.Builder
	b.WriteString("Shopping list:")
	for i, item := range items {
		fmt.Fprintf(&b, "\n%s - %d %s", item.Name, item.Total, item.MeasurementUnit)
		if i < len(items)-1 {
			b.WriteString(", ")
		}
	}
	return b.String()
}
