package models

import "errors"

// ErrValidation indicates malformed input; it is always raised before any
// storage mutation.
var ErrValidation = errors.New("validation failed")

// ErrNotFound indicates the referenced entity does not exist or belongs to a
// different user.
var ErrNotFound = errors.New("entity not found")
