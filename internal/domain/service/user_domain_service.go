// Package service holds stateless domain logic spanning more than one user
// record.
package service

import (
	"context"

	"github.com/oksasatya/go-user-identity/internal/domain/entity"
	domainerr "github.com/oksasatya/go-user-identity/internal/domain/errors"
	"github.com/oksasatya/go-user-identity/internal/domain/repository"
	"github.com/oksasatya/go-user-identity/internal/domain/valueobject"
)

type UserDomainService struct {
	repo repository.UserRepository
}

func NewUserDomainService(repo repository.UserRepository) *UserDomainService {
	return &UserDomainService{repo: repo}
}

// CanRegisterWithEmail reports whether the email is unused.
func (s *UserDomainService) CanRegisterWithEmail(ctx context.Context, email valueobject.Email) (bool, error) {
	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// CanRegisterWithUsername reports whether the username is unused.
func (s *UserDomainService) CanRegisterWithUsername(ctx context.Context, username string) (bool, error) {
	exists, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// ValidateRegistration checks email first, then username, and returns a
// ConflictError naming the first collision. The check is advisory: only
// the store's unique constraints close the race between concurrent
// registrations.
func (s *UserDomainService) ValidateRegistration(ctx context.Context, email valueobject.Email, username string) error {
	ok, err := s.CanRegisterWithEmail(ctx, email)
	if err != nil {
		return err
	}
	if !ok {
		return domainerr.NewConflict("email", "email is already in use")
	}

	ok, err = s.CanRegisterWithUsername(ctx, username)
	if err != nil {
		return err
	}
	if !ok {
		return domainerr.NewConflict("username", "username is already taken")
	}
	return nil
}

// AuthenticateUser verifies credentials against the stored hash. The nil
// result covers unknown email, an account that cannot log in, and a wrong
// password alike, so callers cannot tell which one happened.
func (s *UserDomainService) AuthenticateUser(ctx context.Context, email valueobject.Email, plainPassword string) (*entity.User, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || !u.CanLogin() {
		return nil, nil
	}
	if !u.Password().Verify(plainPassword) {
		return nil, nil
	}
	return u, nil
}
