package types

import "github.com/google/uuid"

// UserResponse is the profile read shape. IsSubscribed is computed relative
// to the requesting caller and is always false for anonymous callers.
type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

type TagResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
	Slug  string    `json:"slug"`
}

type IngredientResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
}

// RecipeIngredientResponse merges an ingredient with its per-recipe amount.
type RecipeIngredientResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

// RecipeResponse is the full recipe read shape.
type RecipeResponse struct {
	ID                uuid.UUID                  `json:"id"`
	Tags              []TagResponse              `json:"tags"`
	Author            UserResponse               `json:"author"`
	Ingredients       []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited       bool                       `json:"is_favorited"`
	IsInShoppingCart  bool                       `json:"is_in_shopping_cart"`
	Name              string                     `json:"name"`
	Image             string                     `json:"image"`
	Text              string                     `json:"text"`
	CookingTime       int                        `json:"cooking_time"`
}

// RecipeShortResponse is the compact shape returned by the favorite toggle
// and embedded in subscription listings.
type RecipeShortResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

// SubscriptionResponse flattens the followed author's identity to the top
// level. Recipes may be truncated by recipes_limit; RecipesCount never is.
type SubscriptionResponse struct {
	ID           uuid.UUID             `json:"id"`
	Email        string                `json:"email"`
	Username     string                `json:"username"`
	FirstName    string                `json:"first_name"`
	LastName     string                `json:"last_name"`
	IsSubscribed bool                  `json:"is_subscribed"`
	Recipes      []RecipeShortResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

// RecipeListResponse wraps a paginated recipe listing.
type RecipeListResponse struct {
	Count   int64            `json:"count"`
	Results []RecipeResponse `json:"results"`
}
