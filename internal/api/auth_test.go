package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doJSON(t, router, "POST", "/api/v1/auth/register", "", map[string]interface{}{
		"email":      "cook@example.com",
		"username":   "cook",
		"first_name": "Carla",
		"last_name":  "Cook",
		"password":   "password123",
	})
	assertStatus(t, w, http.StatusCreated)

	resp := decodeBody(t, w)
	require.NotEmpty(t, resp["token"])
	user := resp["user"].(map[string]interface{})
	assert.Equal(t, "cook", user["username"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "password_hash")

	// The returned token authenticates immediately.
	w = doJSON(t, router, "GET", "/api/v1/users/me", resp["token"].(string), nil)
	assertStatus(t, w, http.StatusOK)
	assert.Equal(t, "cook", decodeBody(t, w)["username"])
}

func TestRegisterDuplicate(t *testing.T) {
	router, db := setupTestRouter(t)
	createTestUser(t, db, "cook")

	w := doJSON(t, router, "POST", "/api/v1/auth/register", "", map[string]interface{}{
		"email":      "cook@example.com",
		"username":   "someone-else",
		"first_name": "Carla",
		"last_name":  "Cook",
		"password":   "password123",
	})
	assertStatus(t, w, http.StatusBadRequest)

	w = doJSON(t, router, "POST", "/api/v1/auth/register", "", map[string]interface{}{
		"email":      "fresh@example.com",
		"username":   "cook",
		"first_name": "Carla",
		"last_name":  "Cook",
		"password":   "password123",
	})
	assertStatus(t, w, http.StatusBadRequest)
}

func TestLogin(t *testing.T) {
	router, db := setupTestRouter(t)
	createTestUser(t, db, "cook")

	w := doJSON(t, router, "POST", "/api/v1/auth/login", "", map[string]interface{}{
		"email":    "cook@example.com",
		"password": "password123",
	})
	assertStatus(t, w, http.StatusOK)
	assert.NotEmpty(t, decodeBody(t, w)["token"])

	w = doJSON(t, router, "POST", "/api/v1/auth/login", "", map[string]interface{}{
		"email":    "cook@example.com",
		"password": "wrong",
	})
	assertStatus(t, w, http.StatusUnauthorized)

	w = doJSON(t, router, "POST", "/api/v1/auth/login", "", map[string]interface{}{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	assertStatus(t, w, http.StatusUnauthorized)
}

func TestProtectedRoutesRejectBadTokens(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doJSON(t, router, "GET", "/api/v1/users/me", "", nil)
	assertStatus(t, w, http.StatusUnauthorized)

	w = doJSON(t, router, "GET", "/api/v1/users/me", "not-a-jwt", nil)
	assertStatus(t, w, http.StatusUnauthorized)
}
