package router

import (
	"github.com/gin-gonic/gin"

	"github.com/Pascal-138/GroceryAssistant/internal/api"
	"github.com/Pascal-138/GroceryAssistant/internal/middleware"
)

// SetupRouter configures the application routes. Public reads sit behind
// optional auth so anonymous callers pass through with the computed
// booleans defaulting to false; writes and toggles require a token.
func SetupRouter(
	authHandler *api.AuthHandler,
	recipeHandler *api.RecipeHandler,
	tagHandler *api.TagHandler,
	ingredientHandler *api.IngredientHandler,
	userHandler *api.UserHandler,
	validator middleware.TokenValidator,
) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	public := v1.Group("")
	public.Use(middleware.OptionalAuthMiddleware(validator))

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(validator))

	authHandler.RegisterRoutes(v1, protected)
	recipeHandler.RegisterRoutes(public, protected)
	tagHandler.RegisterRoutes(public)
	ingredientHandler.RegisterRoutes(public)
	userHandler.RegisterRoutes(public, protected)

	return router
}
