package service

import "errors"

var (
	// ErrNotFound covers lookups of recipes, users, tags, ingredients and
	// relation rows that do not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a favorite, cart entry or follow
	// already exists for the pair.
	ErrDuplicate = errors.New("relation already exists")
	// ErrSelfFollow is returned when a user tries to follow themselves.
	ErrSelfFollow = errors.New("cannot follow yourself")
	// ErrForbidden is returned when a caller edits a recipe they do not own.
	ErrForbidden = errors.New("not the author of this recipe")
	// ErrValidation covers out-of-range amounts and unknown referenced ids.
	ErrValidation = errors.New("validation failed")
)
