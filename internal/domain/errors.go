// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrValidation indicates a request failed a domain validation rule.
var ErrValidation = errors.New("validation failed")

// ErrConflict indicates a uniqueness violation or concurrent modification conflict.
var ErrConflict = errors.New("conflict: resource already exists or was modified")
