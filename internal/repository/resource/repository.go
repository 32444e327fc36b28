package resource

import (
	"context"

	"dancehub-storefront/internal/domain"
)

// Repository reads and writes the curriculum resource catalog.
type Repository interface {
	List(ctx context.Context) ([]domain.Resource, error)
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
	Upsert(ctx context.Context, r domain.Resource) (*domain.Resource, error)
}
