package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Pascal-138/GroceryAssistant/internal/models"
)

// UserService handles profiles and follow relations.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new UserService instance
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// GetUser retrieves a user by id.
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// IsSubscribed reports whether caller follows author. It must only be
// called for authenticated callers; handlers short-circuit anonymous
// callers to false without touching the store.
func (s *UserService) IsSubscribed(ctx context.Context, callerID, authorID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", callerID, authorID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Subscribe creates the follow relation. Self-follows and duplicates are
// rejected; the unique index backs the duplicate pre-check under
// concurrent requests.
func (s *UserService) Subscribe(ctx context.Context, userID, authorID uuid.UUID) (*models.Follow, error) {
	if userID == authorID {
		return nil, ErrSelfFollow
	}

	author, err := s.GetUser(ctx, authorID)
	if err != nil {
		return nil, err
	}

	exists, err := s.IsSubscribed(ctx, userID, authorID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicate
	}

	follow := models.Follow{UserID: userID, AuthorID: authorID}
	if err := s.db.WithContext(ctx).Create(&follow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	follow.Author = *author
	return &follow, nil
}

// Unsubscribe removes the follow relation; ErrNotFound if absent.
func (s *UserService) Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error {
	if _, err := s.GetUser(ctx, authorID); err != nil {
		return err
	}
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Subscriptions lists the caller's follows with the authors preloaded.
func (s *UserService) Subscriptions(ctx context.Context, userID uuid.UUID) ([]models.Follow, error) {
	var follows []models.Follow
	err := s.db.WithContext(ctx).
		Preload("Author").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&follows).Error
	if err != nil {
		return nil, err
	}
	return follows, nil
}

// AuthorRecipes returns the author's recipes, newest first, optionally
// truncated, plus the untruncated total.
func (s *UserService) AuthorRecipes(ctx context.Context, authorID uuid.UUID, limit int) ([]models.Recipe, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := s.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("published_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}
