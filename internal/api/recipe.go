package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Pascal-138/GroceryAssistant/internal/middleware"
	"github.com/Pascal-138/GroceryAssistant/internal/service"
	"github.com/Pascal-138/GroceryAssistant/internal/types"
)

type RecipeHandler struct {
	recipeService *service.RecipeService
	imageService  *service.ImageService
	renderer      *Renderer
}

func NewRecipeHandler(db *gorm.DB, imageService *service.ImageService) *RecipeHandler {
	return &RecipeHandler{
		recipeService: service.NewRecipeService(db),
		imageService:  imageService,
		renderer:      NewRenderer(db),
	}
}

func (h *RecipeHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	// Reads run behind optional auth so the computed booleans can resolve
	// for logged-in callers.
	public.GET("/recipes", h.ListRecipes)
	public.GET("/recipes/:id", h.GetRecipe)

	protected.POST("/recipes", h.CreateRecipe)
	protected.PUT("/recipes/:id", h.UpdateRecipe)
	protected.PATCH("/recipes/:id", h.UpdateRecipe)
	protected.DELETE("/recipes/:id", h.DeleteRecipe)
	protected.POST("/recipes/:id/favorite", h.FavoriteRecipe)
	protected.DELETE("/recipes/:id/favorite", h.UnfavoriteRecipe)
	protected.POST("/recipes/:id/shopping_cart", h.AddToShoppingCart)
	protected.DELETE("/recipes/:id/shopping_cart", h.RemoveFromShoppingCart)
	protected.GET("/recipes/download_shopping_cart", h.DownloadShoppingCart)
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	caller := middleware.CallerID(c)

	filter := service.RecipeFilter{
		TagSlugs:         c.QueryArray("tags"),
		IsFavorited:      parseBool(c.Query("is_favorited")),
		IsInShoppingCart: parseBool(c.Query("is_in_shopping_cart")),
		Page:             parseInt(c.Query("page"), 1),
		Limit:            parseInt(c.Query("limit"), 10),
	}
	if author := c.Query("author"); author != "" {
		authorID, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.AuthorID = &authorID
	}

	recipes, total, err := h.recipeService.ListRecipes(c.Request.Context(), caller, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipes"})
		return
	}

	results, err := h.renderer.Recipes(c.Request.Context(), caller, recipes)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipes"})
		return
	}

	c.JSON(http.StatusOK, types.RecipeListResponse{Count: total, Results: results})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipeID, ok := pathID(c)
	if !ok {
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), recipeID)
	if err != nil {
		serviceError(c, err)
		return
	}

	resp, err := h.renderer.Recipe(c.Request.Context(), middleware.CallerID(c), recipe)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipe"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	caller := middleware.CallerID(c)
	if caller == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	imageURL, err := h.imageService.StoreBase64Image(c.Request.Context(), req.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image payload"})
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), *caller, &req, imageURL)
	if err != nil {
		serviceError(c, err)
		return
	}

	// The write shape is never echoed back; the recipe is re-rendered
	// through the read representation.
	resp, err := h.renderer.Recipe(c.Request.Context(), caller, recipe)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create recipe"})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	recipeID, ok := pathID(c)
	if !ok {
		return
	}

	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	caller := middleware.CallerID(c)
	if caller == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	imageURL, err := h.imageService.StoreBase64Image(c.Request.Context(), req.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image payload"})
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), recipeID, *caller, &req, imageURL)
	if err != nil {
		serviceError(c, err)
		return
	}

	resp, err := h.renderer.Recipe(c.Request.Context(), caller, recipe)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update recipe"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	recipeID, ok := pathID(c)
	if !ok {
		return
	}

	caller := middleware.CallerID(c)
	if caller == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), recipeID, *caller); err != nil {
		serviceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) FavoriteRecipe(c *gin.Context) {
	recipeID, ok := pathID(c)
	if !ok {
		return
	}
	caller := middleware.CallerID(c)
	if caller == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	recipe, err := h.recipeService.FavoriteRecipe(c.Request.Context(), *caller, recipeID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, RecipeShort(recipe))
}

func (h *RecipeHandler) UnfavoriteRecipe(c *gin.Context) {
	recipeID, ok := pathID(c)
	if !ok {
		return
	}
	caller := middleware.CallerID(c)
	if caller == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.recipeService.UnfavoriteRecipe(c.Request.Context(), *caller, recipeID); err != nil {
		serviceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddToShoppingCart(c *gin.Context) {
	recipeID, ok := pathID(c)
	if !ok {
		return
	}
	caller := middleware.CallerID(c)
	if caller == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	recipe, err := h.recipeService.AddToShoppingCart(c.Request.Context(), *caller, recipeID)
	if err != nil {
		serviceError(c, err)
		return
	}

	resp, err := h.renderer.Recipe(c.Request.Context(), caller, recipe)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add to shopping cart"})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RecipeHandler) RemoveFromShoppingCart(c *gin.Context) {
	recipeID, ok := pathID(c)
	if !ok {
		return
	}
	caller := middleware.CallerID(c)
	if caller == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.recipeService.RemoveFromShoppingCart(c.Request.Context(), *caller, recipeID); err != nil {
		serviceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	caller := middleware.CallerID(c)
	if caller == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	items, err := h.recipeService.ShoppingList(c.Request.Context(), *caller)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build shopping list"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(service.RenderShoppingList(items)))
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

func parseBool(v string) bool {
	return v == "1" || v == "true" || v == "True"
}

func parseInt(v string, fallback int) int {
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
