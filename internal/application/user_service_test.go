package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-identity/internal/application"
	"github.com/oksasatya/go-user-identity/internal/domain/entity"
	domainerr "github.com/oksasatya/go-user-identity/internal/domain/errors"
	"github.com/oksasatya/go-user-identity/internal/domain/repository"
	domainsvc "github.com/oksasatya/go-user-identity/internal/domain/service"
	"github.com/oksasatya/go-user-identity/internal/domain/valueobject"
	"github.com/oksasatya/go-user-identity/pkg/helpers"
)

// fakeRepo is an in-memory UserRepository that counts saves so tests can
// assert that no-op commands never hit the store.
type fakeRepo struct {
	users  map[int64]*entity.User
	nextID int64
	saves  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[int64]*entity.User{}, nextID: 1}
}

func (r *fakeRepo) FindByID(_ context.Context, id int64) (*entity.User, error) {
	return r.users[id], nil
}

func (r *fakeRepo) FindByEmail(_ context.Context, email valueobject.Email) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email().Equals(email) {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Username() == username {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) Save(_ context.Context, u *entity.User) (*entity.User, error) {
	r.saves++
	if !u.HasID() {
		u.AssignID(r.nextID)
		r.nextID++
	}
	r.users[u.ID()] = u
	return u, nil
}

func (r *fakeRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := r.users[id]; !ok {
		return false, nil
	}
	delete(r.users, id)
	return true, nil
}

func (r *fakeRepo) FindAll(_ context.Context, _ repository.ListFilter) ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeRepo) FindByRole(ctx context.Context, role valueobject.Role, f repository.ListFilter) ([]*entity.User, error) {
	all, _ := r.FindAll(ctx, f)
	out := make([]*entity.User, 0, len(all))
	for _, u := range all {
		if u.Role() == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeRepo) FindActive(ctx context.Context, f repository.ListFilter) ([]*entity.User, error) {
	all, _ := r.FindAll(ctx, f)
	out := make([]*entity.User, 0, len(all))
	for _, u := range all {
		if u.IsActive() {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeRepo) ExistsByEmail(ctx context.Context, email valueobject.Email) (bool, error) {
	u, _ := r.FindByEmail(ctx, email)
	return u != nil, nil
}

func (r *fakeRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	u, _ := r.FindByUsername(ctx, username)
	return u != nil, nil
}

var _ repository.UserRepository = (*fakeRepo)(nil)

func newTestService(repo *fakeRepo) *application.Service {
	jwt := helpers.NewJWTManager("test-access", "test-refresh", time.Hour, 24*time.Hour)
	domain := domainsvc.NewUserDomainService(repo)
	return application.NewService(repo, domain, jwt, nil, "", nil, nil, nil, "", nil, nil)
}

func registerCmd() application.RegisterUserCommand {
	return application.RegisterUserCommand{
		Username:  "linh",
		Email:     "linh@example.com",
		Password:  "Sup3r@secret",
		FirstName: "Linh",
		LastName:  "Nguyen",
	}
}

func TestRegister(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	u, err := svc.Register(ctx, registerCmd())
	require.NoError(t, err)
	assert.True(t, u.HasID())
	assert.Equal(t, valueobject.RoleUser, u.Role())
	assert.True(t, u.IsActive())
	assert.False(t, u.IsVerified())
	assert.True(t, u.Password().IsHashed(), "plaintext must never reach the store")
	assert.True(t, u.Password().Verify("Sup3r@secret"))
	assert.Empty(t, u.PendingEvents(), "events are drained after publication")
	assert.Equal(t, 1, repo.saves)
}

func TestRegisterConflicts(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerCmd())
	require.NoError(t, err)

	// same email
	cmd := registerCmd()
	cmd.Username = "someone-else"
	_, err = svc.Register(ctx, cmd)
	var conflict *domainerr.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "email", conflict.Field)

	// same username
	cmd = registerCmd()
	cmd.Email = "other@example.com"
	_, err = svc.Register(ctx, cmd)
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "username", conflict.Field)
}

func TestRegisterValidation(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	cmd := registerCmd()
	cmd.Email = "not-an-email"
	_, err := svc.Register(ctx, cmd)
	assert.True(t, domainerr.IsValidation(err))

	cmd = registerCmd()
	cmd.Password = "short"
	_, err = svc.Register(ctx, cmd)
	assert.True(t, domainerr.IsValidation(err))

	cmd = registerCmd()
	cmd.Phone = "12345"
	_, err = svc.Register(ctx, cmd)
	assert.True(t, domainerr.IsValidation(err))

	cmd = registerCmd()
	cmd.Role = "root"
	_, err = svc.Register(ctx, cmd)
	assert.True(t, domainerr.IsValidation(err))

	assert.Equal(t, 0, repo.saves, "nothing persists when validation fails")
}

func TestUpdateProfileNoOpSkipsSave(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	u, err := svc.Register(ctx, registerCmd())
	require.NoError(t, err)
	savesAfterRegister := repo.saves

	same := "Linh"
	_, err = svc.UpdateProfile(ctx, application.UpdateUserProfileCommand{UserID: u.ID(), FirstName: &same})
	require.NoError(t, err)
	assert.Equal(t, savesAfterRegister, repo.saves, "a no-op update must not save")

	changed := "Mai"
	updated, err := svc.UpdateProfile(ctx, application.UpdateUserProfileCommand{UserID: u.ID(), FirstName: &changed})
	require.NoError(t, err)
	assert.Equal(t, "Mai", updated.FirstName())
	assert.Equal(t, savesAfterRegister+1, repo.saves)
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	name := "Mai"
	_, err := svc.UpdateProfile(context.Background(), application.UpdateUserProfileCommand{UserID: 999, FirstName: &name})
	assert.ErrorIs(t, err, domainerr.ErrUserNotFound)
}

func TestDeactivateIsIdempotentAcrossCalls(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	u, err := svc.Register(ctx, registerCmd())
	require.NoError(t, err)

	_, err = svc.Deactivate(ctx, application.DeactivateUserCommand{UserID: u.ID(), Reason: "cleanup"})
	require.NoError(t, err)
	savesAfterFirst := repo.saves

	_, err = svc.Deactivate(ctx, application.DeactivateUserCommand{UserID: u.ID()})
	require.NoError(t, err)
	assert.Equal(t, savesAfterFirst, repo.saves, "repeat deactivation must not save")

	activated, err := svc.Activate(ctx, application.ActivateUserCommand{UserID: u.ID()})
	require.NoError(t, err)
	assert.True(t, activated.IsActive())
}

func TestChangeRole(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	u, err := svc.Register(ctx, registerCmd())
	require.NoError(t, err)

	changed, err := svc.ChangeRole(ctx, application.ChangeRoleCommand{UserID: u.ID(), Role: "admin"})
	require.NoError(t, err)
	assert.True(t, changed.IsAdmin())

	_, err = svc.ChangeRole(ctx, application.ChangeRoleCommand{UserID: u.ID(), Role: "owner"})
	assert.True(t, domainerr.IsValidation(err))
}

func TestChangePassword(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	u, err := svc.Register(ctx, registerCmd())
	require.NoError(t, err)

	changed, err := svc.ChangePassword(ctx, application.ChangePasswordCommand{UserID: u.ID(), NewPassword: "N3w@password"})
	require.NoError(t, err)
	assert.True(t, changed.Password().Verify("N3w@password"))
	assert.False(t, changed.Password().Verify("Sup3r@secret"))
}

func TestGetUser(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	u, err := svc.Register(ctx, registerCmd())
	require.NoError(t, err)

	view, err := svc.GetUser(ctx, application.GetUserQuery{UserID: u.ID()})
	require.NoError(t, err)
	assert.Equal(t, u.ID(), view.ID)
	assert.Equal(t, "linh@example.com", view.Email)
	assert.Equal(t, "Linh Nguyen", view.FullName)

	_, err = svc.GetUser(ctx, application.GetUserQuery{UserID: 999})
	assert.ErrorIs(t, err, domainerr.ErrUserNotFound)
}

func TestGetUsersFilters(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	a, err := svc.Register(ctx, registerCmd())
	require.NoError(t, err)
	cmd := registerCmd()
	cmd.Username = "moc"
	cmd.Email = "moc@example.com"
	_, err = svc.Register(ctx, cmd)
	require.NoError(t, err)

	_, err = svc.ChangeRole(ctx, application.ChangeRoleCommand{UserID: a.ID(), Role: "admin"})
	require.NoError(t, err)
	_, err = svc.Deactivate(ctx, application.DeactivateUserCommand{UserID: a.ID()})
	require.NoError(t, err)

	all, err := svc.GetUsers(ctx, application.GetUsersQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	admins, err := svc.GetUsers(ctx, application.GetUsersQuery{Role: "admin"})
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, a.ID(), admins[0].ID)

	active := true
	activeOnly, err := svc.GetUsers(ctx, application.GetUsersQuery{IsActive: &active})
	require.NoError(t, err)
	require.Len(t, activeOnly, 1)
	assert.Equal(t, "moc@example.com", activeOnly[0].Email)

	_, err = svc.GetUsers(ctx, application.GetUsersQuery{Role: "owner"})
	assert.True(t, domainerr.IsValidation(err))
}

func TestVerifyEmail(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	u, err := svc.Register(ctx, registerCmd())
	require.NoError(t, err)

	verified, err := svc.VerifyEmail(ctx, u.ID())
	require.NoError(t, err)
	assert.True(t, verified.IsVerified())
	savesAfterVerify := repo.saves

	_, err = svc.VerifyEmail(ctx, u.ID())
	require.NoError(t, err)
	assert.Equal(t, savesAfterVerify, repo.saves, "repeat verification must not save")
}
