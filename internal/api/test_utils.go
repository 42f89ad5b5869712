package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Pascal-138/GroceryAssistant/internal/database"
	"github.com/Pascal-138/GroceryAssistant/internal/middleware"
	"github.com/Pascal-138/GroceryAssistant/internal/models"
	"github.com/Pascal-138/GroceryAssistant/internal/service"
	"github.com/Pascal-138/GroceryAssistant/internal/types"
)

const testJWTSecret = "test-secret"

func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	authService := service.NewAuthService(db, nil, testJWTSecret)
	imageService := service.NewImageService(nil, t.TempDir())

	router := gin.New()
	v1 := router.Group("/api/v1")

	public := v1.Group("")
	public.Use(middleware.OptionalAuthMiddleware(authService))

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authService))

	NewAuthHandler(authService).RegisterRoutes(v1, protected)
	NewRecipeHandler(db, imageService).RegisterRoutes(public, protected)
	NewTagHandler(db).RegisterRoutes(public)
	NewIngredientHandler(db).RegisterRoutes(public)
	NewUserHandler(db).RegisterRoutes(public, protected)

	return router, db
}

// createTestUser registers a user through the auth service and returns the
// stored row with a valid token.
func createTestUser(t *testing.T, db *gorm.DB, username string) (*models.User, string) {
	t.Helper()
	authService := service.NewAuthService(db, nil, testJWTSecret)
	user, token, err := authService.Register(context.Background(), &types.RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  "password123",
	})
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user, token
}

func createTestTag(t *testing.T, db *gorm.DB, name, slug string) *models.Tag {
	t.Helper()
	tag := models.Tag{Name: name, Color: "#49B64E", Slug: slug}
	if err := db.Create(&tag).Error; err != nil {
		t.Fatalf("failed to create test tag: %v", err)
	}
	return &tag
}

func createTestIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(&ingredient).Error; err != nil {
		t.Fatalf("failed to create test ingredient: %v", err)
	}
	return &ingredient
}

// recipeBody builds a valid write shape for the given tag and
// ingredient-amount pairs.
func recipeBody(name string, tagIDs []uuid.UUID, ingredients []map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"name":         name,
		"text":         "Stir and serve.",
		"cooking_time": 30,
		"tags":         tagIDs,
		"ingredients":  ingredients,
	}
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func ingredientAmount(id uuid.UUID, amount int) map[string]interface{} {
	return map[string]interface{}{"id": id, "amount": amount}
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("unexpected status %d (want %d): %s", w.Code, want, w.Body.String())
	}
}
