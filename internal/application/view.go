package application

import (
	"time"

	"github.com/oksasatya/go-user-identity/internal/domain/entity"
)

// UserView is the read-side snapshot of a user handed to handlers and
// cached in Redis. It never carries credential material.
type UserView struct {
	ID              int64      `json:"id"`
	Username        string     `json:"username"`
	Email           string     `json:"email"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	FullName        string     `json:"full_name"`
	Phone           string     `json:"phone,omitempty"`
	IsActive        bool       `json:"is_active"`
	IsVerified      bool       `json:"is_verified"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	Role            string     `json:"role"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
	ProfileImageURL string     `json:"profile_image_url,omitempty"`
	Timezone        string     `json:"timezone"`
	Language        string     `json:"language"`
}

// NewUserView projects an aggregate into its read model.
func NewUserView(u *entity.User) *UserView {
	v := &UserView{
		ID:              u.ID(),
		Username:        u.Username(),
		Email:           u.Email().Value(),
		FirstName:       u.FirstName(),
		LastName:        u.LastName(),
		FullName:        u.FullName(),
		IsActive:        u.IsActive(),
		IsVerified:      u.IsVerified(),
		EmailVerifiedAt: u.EmailVerifiedAt(),
		Role:            u.Role().String(),
		CreatedAt:       u.CreatedAt(),
		UpdatedAt:       u.UpdatedAt(),
		LastLoginAt:     u.LastLoginAt(),
		ProfileImageURL: u.ProfileImageURL(),
		Timezone:        u.Timezone(),
		Language:        u.Language(),
	}
	if p := u.Phone(); p != nil {
		v.Phone = p.Value()
	}
	return v
}

// NewUserViews projects a listing.
func NewUserViews(users []*entity.User) []*UserView {
	out := make([]*UserView, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserView(u))
	}
	return out
}
