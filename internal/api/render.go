package api

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Pascal-138/GroceryAssistant/internal/models"
	"github.com/Pascal-138/GroceryAssistant/internal/types"
)

// Renderer builds the outward-facing representations, injecting the
// caller-dependent computed booleans. Every is_* field short-circuits to
// false for anonymous callers without touching the store.
type Renderer struct {
	db *gorm.DB
}

func NewRenderer(db *gorm.DB) *Renderer {
	return &Renderer{db: db}
}

// relationSets holds the caller's favorites, cart entries and follows for a
// batch of recipes, fetched with one query per relation.
type relationSets struct {
	favorited  map[uuid.UUID]bool
	inCart     map[uuid.UUID]bool
	subscribed map[uuid.UUID]bool
}

func (r *Renderer) lookupRelations(ctx context.Context, caller *uuid.UUID, recipes []models.Recipe) (*relationSets, error) {
	sets := &relationSets{
		favorited:  map[uuid.UUID]bool{},
		inCart:     map[uuid.UUID]bool{},
		subscribed: map[uuid.UUID]bool{},
	}
	if caller == nil || len(recipes) == 0 {
		return sets, nil
	}

	recipeIDs := make([]uuid.UUID, 0, len(recipes))
	authorIDs := make([]uuid.UUID, 0, len(recipes))
	for _, rec := range recipes {
		recipeIDs = append(recipeIDs, rec.ID)
		authorIDs = append(authorIDs, rec.AuthorID)
	}

	var favorites []models.Favorite
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id IN ?", *caller, recipeIDs).
		Find(&favorites).Error; err != nil {
		return nil, err
	}
	for _, f := range favorites {
		sets.favorited[f.RecipeID] = true
	}

	var cartEntries []models.ShoppingCartEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id IN ?", *caller, recipeIDs).
		Find(&cartEntries).Error; err != nil {
		return nil, err
	}
	for _, e := range cartEntries {
		sets.inCart[e.RecipeID] = true
	}

	var follows []models.Follow
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id IN ?", *caller, authorIDs).
		Find(&follows).Error; err != nil {
		return nil, err
	}
	for _, f := range follows {
		sets.subscribed[f.AuthorID] = true
	}

	return sets, nil
}

// User renders a profile with the caller-relative is_subscribed flag.
func (r *Renderer) User(ctx context.Context, caller *uuid.UUID, user *models.User) (types.UserResponse, error) {
	resp := userResponse(user, false)
	if caller == nil || *caller == user.ID {
		return resp, nil
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", *caller, user.ID).
		Count(&count).Error
	if err != nil {
		return resp, err
	}
	resp.IsSubscribed = count > 0
	return resp, nil
}

// Recipe renders the full read shape for a single recipe.
func (r *Renderer) Recipe(ctx context.Context, caller *uuid.UUID, recipe *models.Recipe) (types.RecipeResponse, error) {
	rendered, err := r.Recipes(ctx, caller, []models.Recipe{*recipe})
	if err != nil {
		return types.RecipeResponse{}, err
	}
	return rendered[0], nil
}

// Recipes renders a listing, resolving the computed booleans with batched
// relation lookups instead of one query per recipe.
func (r *Renderer) Recipes(ctx context.Context, caller *uuid.UUID, recipes []models.Recipe) ([]types.RecipeResponse, error) {
	sets, err := r.lookupRelations(ctx, caller, recipes)
	if err != nil {
		return nil, err
	}

	out := make([]types.RecipeResponse, len(recipes))
	for i, rec := range recipes {
		tags := make([]types.TagResponse, len(rec.Tags))
		for j, tag := range rec.Tags {
			tags[j] = types.TagResponse{ID: tag.ID, Name: tag.Name, Color: tag.Color, Slug: tag.Slug}
		}

		ingredients := make([]types.RecipeIngredientResponse, len(rec.Ingredients))
		for j, row := range rec.Ingredients {
			ingredients[j] = types.RecipeIngredientResponse{
				ID:              row.Ingredient.ID,
				Name:            row.Ingredient.Name,
				MeasurementUnit: row.Ingredient.MeasurementUnit,
				Amount:          row.Amount,
			}
		}

		out[i] = types.RecipeResponse{
			ID:               rec.ID,
			Tags:             tags,
			Author:           userResponse(&rec.Author, sets.subscribed[rec.AuthorID]),
			Ingredients:      ingredients,
			IsFavorited:      sets.favorited[rec.ID],
			IsInShoppingCart: sets.inCart[rec.ID],
			Name:             rec.Name,
			Image:            rec.ImageURL,
			Text:             rec.Text,
			CookingTime:      rec.CookingTime,
		}
	}
	return out, nil
}

// RecipeShort renders the compact shape used by the favorite toggle and
// subscription listings.
func RecipeShort(recipe *models.Recipe) types.RecipeShortResponse {
	return types.RecipeShortResponse{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}
}

// Subscription flattens the followed author with their recipe preview.
// recipes may be truncated by the caller; total never is.
func Subscription(follow *models.Follow, recipes []models.Recipe, total int64) types.SubscriptionResponse {
	short := make([]types.RecipeShortResponse, len(recipes))
	for i := range recipes {
		short[i] = RecipeShort(&recipes[i])
	}

	return types.SubscriptionResponse{
		ID:           follow.Author.ID,
		Email:        follow.Author.Email,
		Username:     follow.Author.Username,
		FirstName:    follow.Author.FirstName,
		LastName:     follow.Author.LastName,
		IsSubscribed: true,
		Recipes:      short,
		RecipesCount: total,
	}
}

func userResponse(user *models.User, isSubscribed bool) types.UserResponse {
	return types.UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: isSubscribed,
	}
}
