package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pascal-138/GroceryAssistant/internal/models"
)

func TestSubscribe(t *testing.T) {
	router, db := setupTestRouter(t)
	author, _ := createTestUser(t, db, "author")
	_, followerToken := createTestUser(t, db, "follower")

	w := doJSON(t, router, "POST", "/api/v1/users/"+author.ID.String()+"/subscribe", followerToken, nil)
	assertStatus(t, w, http.StatusCreated)

	resp := decodeBody(t, w)
	assert.Equal(t, "author", resp["username"])
	assert.Equal(t, true, resp["is_subscribed"])
	assert.Equal(t, float64(0), resp["recipes_count"])

	// Same pair again conflicts; exactly one follow row survives.
	w = doJSON(t, router, "POST", "/api/v1/users/"+author.ID.String()+"/subscribe", followerToken, nil)
	assertStatus(t, w, http.StatusBadRequest)

	var count int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSubscribeToSelf(t *testing.T) {
	router, db := setupTestRouter(t)
	user, token := createTestUser(t, db, "narcissist")

	w := doJSON(t, router, "POST", "/api/v1/users/"+user.ID.String()+"/subscribe", token, nil)
	assertStatus(t, w, http.StatusBadRequest)
}

func TestUnsubscribe(t *testing.T) {
	router, db := setupTestRouter(t)
	author, _ := createTestUser(t, db, "author")
	_, followerToken := createTestUser(t, db, "follower")

	// Removing an absent subscription is a not-found.
	w := doJSON(t, router, "DELETE", "/api/v1/users/"+author.ID.String()+"/subscribe", followerToken, nil)
	assertStatus(t, w, http.StatusNotFound)

	w = doJSON(t, router, "POST", "/api/v1/users/"+author.ID.String()+"/subscribe", followerToken, nil)
	assertStatus(t, w, http.StatusCreated)

	w = doJSON(t, router, "DELETE", "/api/v1/users/"+author.ID.String()+"/subscribe", followerToken, nil)
	assertStatus(t, w, http.StatusNoContent)

	var count int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSubscriptionsRecipesLimit(t *testing.T) {
	router, db := setupTestRouter(t)
	author, authorToken := createTestUser(t, db, "author")
	_, followerToken := createTestUser(t, db, "follower")
	tag := createTestTag(t, db, "Dinner", "dinner")
	flour := createTestIngredient(t, db, "Flour", "g")

	for _, name := range []string{"First", "Second", "Third"} {
		body := recipeBody(name, []uuid.UUID{tag.ID}, []map[string]interface{}{
			ingredientAmount(flour.ID, 10),
		})
		w := doJSON(t, router, "POST", "/api/v1/recipes", authorToken, body)
		assertStatus(t, w, http.StatusCreated)
	}

	w := doJSON(t, router, "POST", "/api/v1/users/"+author.ID.String()+"/subscribe?recipes_limit=2", followerToken, nil)
	assertStatus(t, w, http.StatusCreated)

	// The preview is truncated but the count is not.
	resp := decodeBody(t, w)
	assert.Len(t, resp["recipes"], 2)
	assert.Equal(t, float64(3), resp["recipes_count"])

	w = doJSON(t, router, "GET", "/api/v1/users/subscriptions?recipes_limit=1", followerToken, nil)
	assertStatus(t, w, http.StatusOK)

	var subs []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &subs))
	require.Len(t, subs, 1)
	assert.Equal(t, "author", subs[0]["username"])
	assert.Len(t, subs[0]["recipes"], 1)
	assert.Equal(t, float64(3), subs[0]["recipes_count"])
}

func TestGetUserSubscribedFlag(t *testing.T) {
	router, db := setupTestRouter(t)
	author, _ := createTestUser(t, db, "author")
	_, followerToken := createTestUser(t, db, "follower")

	w := doJSON(t, router, "GET", "/api/v1/users/"+author.ID.String(), followerToken, nil)
	assertStatus(t, w, http.StatusOK)
	assert.Equal(t, false, decodeBody(t, w)["is_subscribed"])

	w = doJSON(t, router, "POST", "/api/v1/users/"+author.ID.String()+"/subscribe", followerToken, nil)
	assertStatus(t, w, http.StatusCreated)

	w = doJSON(t, router, "GET", "/api/v1/users/"+author.ID.String(), followerToken, nil)
	assertStatus(t, w, http.StatusOK)
	assert.Equal(t, true, decodeBody(t, w)["is_subscribed"])

	// Anonymous callers always see false.
	w = doJSON(t, router, "GET", "/api/v1/users/"+author.ID.String(), "", nil)
	assertStatus(t, w, http.StatusOK)
	assert.Equal(t, false, decodeBody(t, w)["is_subscribed"])
}

func TestGetUserNotFound(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doJSON(t, router, "GET", "/api/v1/users/"+uuid.NewString(), "", nil)
	assertStatus(t, w, http.StatusNotFound)
}
