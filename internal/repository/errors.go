// Package repository provides data access layer implementations for the application.
package repository

import (
	"errors"

	"quill/internal/models"

	"gorm.io/gorm"
)

// translate maps storage errors to the typed failures the services consume.
// Requires gorm.Config.TranslateError so duplicate-key errors arrive as
// gorm.ErrDuplicatedKey regardless of driver.
func translate(err error, resource string, key interface{}, uniqueField string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.NewNotFoundError(resource, key)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return models.NewUniqueViolationError(resource, uniqueField)
	default:
		return err
	}
}
