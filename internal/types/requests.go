package types

import "github.com/google/uuid"

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required,max=150"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the credential payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// IngredientAmountRequest references an existing ingredient with a quantity.
type IngredientAmountRequest struct {
	ID     uuid.UUID `json:"id" binding:"required"`
	Amount int       `json:"amount" binding:"required,min=1,max=32000"`
}

// RecipeRequest is the recipe write shape. The image is an embedded base64
// payload ("data:image/png;base64,..." or bare base64); responses are always
// re-rendered through the read shape.
type RecipeRequest struct {
	Ingredients []IngredientAmountRequest `json:"ingredients" binding:"required,min=1,dive"`
	Tags        []uuid.UUID               `json:"tags" binding:"required,min=1"`
	Image       string                    `json:"image"`
	Name        string                    `json:"name" binding:"required,max=200"`
	Text        string                    `json:"text" binding:"required"`
	CookingTime int                       `json:"cooking_time" binding:"required,min=1,max=32000"`
}
