package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Pascal-138/GroceryAssistant/internal/models"
)

// IngredientHandler serves the read-only ingredient reference list with a
// prefix search for autocomplete.
type IngredientHandler struct {
	db *gorm.DB
}

// likeEscaper makes LIKE metacharacters in a search prefix match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func NewIngredientHandler(db *gorm.DB) *IngredientHandler {
	return &IngredientHandler{db: db}
}

func (h *IngredientHandler) RegisterRoutes(public *gin.RouterGroup) {
	public.GET("/ingredients", h.ListIngredients)
	public.GET("/ingredients/:id", h.GetIngredient)
}

func (h *IngredientHandler) ListIngredients(c *gin.Context) {
	query := h.db.WithContext(c.Request.Context()).Order("name")

	if prefix := c.Query("name"); prefix != "" {
		// Case-insensitive starts-with match.
		escaped := likeEscaper.Replace(strings.ToLower(prefix))
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, escaped+"%")
	}

	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ingredients"})
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

func (h *IngredientHandler) GetIngredient(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var ingredient models.Ingredient
	if err := h.db.WithContext(c.Request.Context()).First(&ingredient, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ingredient not found"})
		return
	}
	c.JSON(http.StatusOK, ingredient)
}
