package repository

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrDuplicateKey is returned by Create when a row with the same primary key exists.
var ErrDuplicateKey = errors.New("duplicate key")

// IsDuplicateKey reports whether err is a uniqueness violation, translated or raw.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDuplicateKey) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// TranslateWriteError maps driver errors on insert to repository errors.
func TranslateWriteError(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsDuplicateKey(err) {
		return fmt.Errorf("%s: %w", op, ErrDuplicateKey)
	}
	return fmt.Errorf("%s: %w", op, err)
}
