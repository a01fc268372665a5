package repository

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/circle-app/circle-server/internal/domain"
)

// translate maps driver errors onto domain errors for resource.
func translate(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.NotFoundError{Resource: resource}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.Conflict(resource + " already exists").WithCause(err)
	default:
		return errors.Wrapf(err, "%s query failed", resource)
	}
}
