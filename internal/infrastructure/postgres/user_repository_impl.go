package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-user-identity/internal/domain/entity"
	"github.com/oksasatya/go-user-identity/internal/domain/repository"
	"github.com/oksasatya/go-user-identity/internal/domain/valueobject"
)

const userColumns = `user_id, username, email, password_hash, password_salt, first_name, last_name,
	phone, is_active, is_verified, email_verified_at, role, created_at, updated_at,
	last_login_at, profile_image_url, timezone, language`

// UserRepository persists the User aggregate in Postgres. The unique
// indexes on email and username are the real uniqueness boundary; domain
// pre-checks only make the common rejection fast.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = $1`, id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email valueobject.Email) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email.Value())
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

// Save inserts when the aggregate has no identity yet, updates otherwise,
// and returns the post-persistence state so callers can record events that
// need the assigned id.
func (r *UserRepository) Save(ctx context.Context, u *entity.User) (*entity.User, error) {
	s := u.ToSnapshot()
	if s.ID == 0 {
		return r.insert(ctx, u, s)
	}
	return r.update(ctx, u, s)
}

func (r *UserRepository) insert(ctx context.Context, u *entity.User, s entity.Snapshot) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, password_salt, first_name, last_name,
			phone, is_active, is_verified, email_verified_at, role, created_at, updated_at,
			last_login_at, profile_image_url, timezone, language)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING user_id
	`, s.Username, s.Email.Value(), s.Password.Value(), nullStr(s.PasswordSalt), s.FirstName, s.LastName,
		phoneValue(s.Phone), s.IsActive, s.IsVerified, s.EmailVerifiedAt, s.Role.String(), s.CreatedAt, s.UpdatedAt,
		s.LastLoginAt, nullStr(s.ProfileImageURL), s.Timezone, s.Language)

	var id int64
	if err := row.Scan(&id); err != nil {
		return nil, err
	}
	u.AssignID(id)
	return u, nil
}

func (r *UserRepository) update(ctx context.Context, u *entity.User, s entity.Snapshot) (*entity.User, error) {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET username = $1, email = $2, password_hash = $3, password_salt = $4, first_name = $5,
			last_name = $6, phone = $7, is_active = $8, is_verified = $9, email_verified_at = $10,
			role = $11, updated_at = $12, last_login_at = $13, profile_image_url = $14,
			timezone = $15, language = $16
		WHERE user_id = $17
	`, s.Username, s.Email.Value(), s.Password.Value(), nullStr(s.PasswordSalt), s.FirstName,
		s.LastName, phoneValue(s.Phone), s.IsActive, s.IsVerified, s.EmailVerifiedAt,
		s.Role.String(), s.UpdatedAt, s.LastLoginAt, nullStr(s.ProfileImageURL),
		s.Timezone, s.Language, s.ID)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

// Delete removes the row physically. The primary flow uses deactivation;
// this exists for administrative cleanup only.
func (r *UserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.pool.Exec(ctx, `DELETE FROM users WHERE user_id = $1`, id)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (r *UserRepository) FindAll(ctx context.Context, f repository.ListFilter) ([]*entity.User, error) {
	return r.findMany(ctx, `SELECT `+userColumns+` FROM users ORDER BY user_id LIMIT $1 OFFSET $2`,
		f.Limit(), f.Offset())
}

func (r *UserRepository) FindByRole(ctx context.Context, role valueobject.Role, f repository.ListFilter) ([]*entity.User, error) {
	return r.findMany(ctx, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY user_id LIMIT $2 OFFSET $3`,
		role.String(), f.Limit(), f.Offset())
}

func (r *UserRepository) FindActive(ctx context.Context, f repository.ListFilter) ([]*entity.User, error) {
	return r.findMany(ctx, `SELECT `+userColumns+` FROM users WHERE is_active ORDER BY user_id LIMIT $1 OFFSET $2`,
		f.Limit(), f.Offset())
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email valueobject.Email) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email.Value())
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username)
}

func (r *UserRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var ok bool
	if err := r.pool.QueryRow(ctx, query, arg).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (r *UserRepository) findOne(ctx context.Context, query string, args ...any) (*entity.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) findMany(ctx context.Context, query string, args ...any) ([]*entity.User, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*entity.User, error) {
	var (
		s               entity.Snapshot
		email           string
		passwordHash    string
		passwordSalt    *string
		phone           *string
		role            string
		emailVerifiedAt *time.Time
		lastLoginAt     *time.Time
		profileImageURL *string
	)
	if err := row.Scan(&s.ID, &s.Username, &email, &passwordHash, &passwordSalt, &s.FirstName, &s.LastName,
		&phone, &s.IsActive, &s.IsVerified, &emailVerifiedAt, &role, &s.CreatedAt, &s.UpdatedAt,
		&lastLoginAt, &profileImageURL, &s.Timezone, &s.Language); err != nil {
		return nil, err
	}

	emailVO, err := valueobject.NewEmail(email)
	if err != nil {
		return nil, err
	}
	s.Email = emailVO

	passwordVO, err := valueobject.PasswordFromHash(passwordHash)
	if err != nil {
		return nil, err
	}
	s.Password = passwordVO

	if phone != nil && *phone != "" {
		p, err := valueobject.NewPhone(*phone)
		if err != nil {
			return nil, err
		}
		s.Phone = &p
	}

	roleVO, err := valueobject.RoleFromString(role)
	if err != nil {
		return nil, err
	}
	s.Role = roleVO

	s.EmailVerifiedAt = emailVerifiedAt
	s.LastLoginAt = lastLoginAt
	if passwordSalt != nil {
		s.PasswordSalt = *passwordSalt
	}
	if profileImageURL != nil {
		s.ProfileImageURL = *profileImageURL
	}
	return entity.Reconstitute(s), nil
}

func nullStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func phoneValue(p *valueobject.Phone) *string {
	if p == nil {
		return nil
	}
	v := p.Value()
	return &v
}

var _ repository.UserRepository = (*UserRepository)(nil)
