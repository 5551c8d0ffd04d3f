package ports

import (
	"context"

	"github.com/campneus/cofre/internal/core/domain"
)

// LocationInput carries the data for creating or updating a location.
type LocationInput struct {
	Name   string
	Code   string
	City   string
	Active *bool
}

// LocationService defines location use cases. Mutations are admin-only and a
// location may only be deleted while no credential references it.
type LocationService interface {
	List(ctx context.Context, principal domain.Principal) ([]domain.Location, error)
	Get(ctx context.Context, principal domain.Principal, id string) (*domain.Location, error)
	Create(ctx context.Context, principal domain.Principal, input LocationInput) (*domain.Location, error)
	Update(ctx context.Context, principal domain.Principal, id string, input LocationInput) (*domain.Location, error)
	Delete(ctx context.Context, principal domain.Principal, id string) error
}

// LocationRepository defines location persistence.
type LocationRepository interface {
	Create(ctx context.Context, l *domain.Location) (*domain.Location, error)
	Update(ctx context.Context, l *domain.Location) (*domain.Location, error)
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Location, error)
	List(ctx context.Context) ([]domain.Location, error)
	Count(ctx context.Context) (int64, error)
}
