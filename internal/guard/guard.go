// Package guard implements the tenant-scoped resource guard used by every
// service: load a row by primary key, then verify its owning tenant or
// account matches the caller before any read or write proceeds.
package guard

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/spec-kit/whatsapp-crm/pkg/util"
)

// Loader fetches a resource by primary key.
type Loader[T any] func(ctx context.Context, id string) (T, error)

// OwnerFunc extracts the owning tenant or account ID from a resource.
type OwnerFunc[T any] func(T) string

// Guard pairs a loader with an owner extractor for one resource type.
type Guard[T any] struct {
	resource string
	code     string
	load     Loader[T]
	ownerOf  OwnerFunc[T]
}

// New builds a guard. resource names the entity in error messages; code is
// the 404 error code (e.g. INBOX_NOT_FOUND).
func New[T any](resource, code string, load Loader[T], ownerOf OwnerFunc[T]) *Guard[T] {
	return &Guard[T]{resource: resource, code: code, load: load, ownerOf: ownerOf}
}

// Require returns the resource iff it exists and belongs to ownerID. An
// ownership mismatch returns the same 404 as a missing row: callers must not
// be able to distinguish another tenant's resource from a nonexistent one.
func (g *Guard[T]) Require(ctx context.Context, id, ownerID string) (T, error) {
	var zero T

	resource, err := g.load(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, g.NotFound()
		}
		return zero, err
	}
	if g.ownerOf(resource) != ownerID {
		return zero, g.NotFound()
	}
	return resource, nil
}

// NotFound returns the guard's canonical 404.
func (g *Guard[T]) NotFound() error {
	return apperrors.NewNotFound(g.resource, g.code)
}
