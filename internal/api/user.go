package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Pascal-138/GroceryAssistant/internal/middleware"
	"github.com/Pascal-138/GroceryAssistant/internal/service"
	"github.com/Pascal-138/GroceryAssistant/internal/types"
)

type UserHandler struct {
	userService *service.UserService
	renderer    *Renderer
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{
		userService: service.NewUserService(db),
		renderer:    NewRenderer(db),
	}
}

func (h *UserHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	// subscriptions before :id so gin routes the static segment correctly
	protected.GET("/users/subscriptions", h.Subscriptions)
	protected.GET("/users/me", h.Me)
	public.GET("/users/:id", h.GetUser)
	protected.POST("/users/:id/subscribe", h.Subscribe)
	protected.DELETE("/users/:id/subscribe", h.Unsubscribe)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		serviceError(c, err)
		return
	}

	resp, err := h.renderer.User(c.Request.Context(), middleware.CallerID(c), user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) Me(c *gin.Context) {
	caller := middleware.CallerID(c)
	if caller == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), *caller)
	if err != nil {
		serviceError(c, err)
		return
	}

	resp, err := h.renderer.User(c.Request.Context(), caller, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	authorID, ok := pathID(c)
	if !ok {
		return
	}
	caller := middleware.CallerID(c)
	if caller == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	follow, err := h.userService.Subscribe(c.Request.Context(), *caller, authorID)
	if err != nil {
		serviceError(c, err)
		return
	}

	recipes, total, err := h.userService.AuthorRecipes(c.Request.Context(), follow.AuthorID, parseInt(c.Query("recipes_limit"), 0))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to subscribe"})
		return
	}
	c.JSON(http.StatusCreated, Subscription(follow, recipes, total))
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	authorID, ok := pathID(c)
	if !ok {
		return
	}
	caller := middleware.CallerID(c)
	if caller == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.userService.Unsubscribe(c.Request.Context(), *caller, authorID); err != nil {
		serviceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	caller := middleware.CallerID(c)
	if caller == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	follows, err := h.userService.Subscriptions(c.Request.Context(), *caller)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subscriptions"})
		return
	}

	limit := parseInt(c.Query("recipes_limit"), 0)
	results := make([]types.SubscriptionResponse, 0, len(follows))
	for i := range follows {
		recipes, total, err := h.userService.AuthorRecipes(c.Request.Context(), follows[i].AuthorID, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subscriptions"})
			return
		}
		results = append(results, Subscription(&follows[i], recipes, total))
	}
	c.JSON(http.StatusOK, results)
}
