package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested record does not exist.
// Implementations wrap gorm.ErrRecordNotFound into this sentinel so
// callers never depend on the driver.
var ErrNotFound = errors.New("record not found")

// IsNotFoundError reports whether err means "no such record" regardless
// of which layer produced it.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
