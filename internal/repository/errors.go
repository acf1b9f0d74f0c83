package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a row does not exist. Services translate it
// into their own error vocabulary instead of handing callers empty defaults.
var ErrNotFound = errors.New("record not found")

// translate maps gorm's sentinel onto ours so callers never import gorm just
// to check an error.
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
