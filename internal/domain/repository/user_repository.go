package repository

import (
	"context"

	"github.com/oksasatya/go-user-identity/internal/domain/entity"
	"github.com/oksasatya/go-user-identity/internal/domain/valueobject"
)

// ListFilter narrows and pages the listing operations.
type ListFilter struct {
	Page    int
	PerPage int
}

// Limit and Offset translate the filter into query bounds, defaulting to
// the first page of ten.
func (f ListFilter) Limit() int {
	if f.PerPage <= 0 {
		return 10
	}
	return f.PerPage
}

func (f ListFilter) Offset() int {
	page := f.Page
	if page <= 0 {
		page = 1
	}
	return (page - 1) * f.Limit()
}

// UserRepository is the persistence contract consumed by the domain and
// application layers. Lookups return (nil, nil) when no row matches; Save
// is insert-or-update keyed on the presence of an id and returns the
// post-persistence state so callers can record identity-bearing events.
// The store's unique constraints on email and username are the actual
// uniqueness boundary; domain-service pre-checks are advisory.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	FindByEmail(ctx context.Context, email valueobject.Email) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	Save(ctx context.Context, u *entity.User) (*entity.User, error)
	Delete(ctx context.Context, id int64) (bool, error)
	FindAll(ctx context.Context, f ListFilter) ([]*entity.User, error)
	FindByRole(ctx context.Context, role valueobject.Role, f ListFilter) ([]*entity.User, error)
	FindActive(ctx context.Context, f ListFilter) ([]*entity.User, error)
	ExistsByEmail(ctx context.Context, email valueobject.Email) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}
