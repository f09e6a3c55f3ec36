package service

import (
	"errors"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/spec-kit/request-service/pkg/util/errorutil"
)

// notFound maps a missing row to a NOT_FOUND error naming the resource.
func notFound(err error, resource, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	}
	return apperrors.MapError(err)
}
