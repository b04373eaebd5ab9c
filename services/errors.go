package services

import (
	"errors"

	"rrlogistics/models"
	"rrlogistics/repository"
)

// notFound translates the repository sentinel into the typed error handlers understand.
func notFound(resource string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return models.NotFoundError{Resource: resource, Err: err}
	}
	return err
}
