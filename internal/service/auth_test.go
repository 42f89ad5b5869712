package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pascal-138/GroceryAssistant/internal/models"
	"github.com/Pascal-138/GroceryAssistant/internal/types"
)

func registerRequest(username string) *types.RegisterRequest {
	return &types.RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  "password123",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, nil, "test-secret")

	user, token, err := svc.Register(context.Background(), registerRequest("chef"))
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "password123", user.PasswordHash)

	_, _, err = svc.Login(context.Background(), "chef@example.com", "password123")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "chef@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, nil, "test-secret")

	_, _, err := svc.Register(context.Background(), registerRequest("chef"))
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), registerRequest("chef"))
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestRegisterDuplicateBehindUniqueIndex(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, nil, "test-secret")

	_, _, err := svc.Register(context.Background(), registerRequest("chef"))
	require.NoError(t, err)

	// A soft-deleted row is invisible to the existence pre-check but still
	// occupies the unique index, so Create fails the same way it would
	// under a concurrent registration race.
	require.NoError(t, db.Where("username = ?", "chef").Delete(&models.User{}).Error)

	_, _, err = svc.Register(context.Background(), registerRequest("chef"))
	assert.ErrorIs(t, err, ErrUserExists)
}
