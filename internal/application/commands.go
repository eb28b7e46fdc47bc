package application

// Commands and queries accepted by the application service. They carry raw
// input; value-object construction (and therefore validation) happens in
// the handlers of the service, which is where a ValidationError surfaces.

type RegisterUserCommand struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string // optional
	Role      string // optional, defaults to "user"
}

// UpdateUserProfileCommand uses pointers so "not provided" and "set to
// empty" stay distinguishable.
type UpdateUserProfileCommand struct {
	UserID          int64
	FirstName       *string
	LastName        *string
	Phone           *string
	ProfileImageURL *string
	Timezone        *string
	Language        *string
}

type ChangePasswordCommand struct {
	UserID      int64
	NewPassword string
}

type DeactivateUserCommand struct {
	UserID int64
	Reason string
}

type ActivateUserCommand struct {
	UserID int64
}

type ChangeRoleCommand struct {
	UserID int64
	Role   string
}

type GetUserQuery struct {
	UserID int64
}

type GetUsersQuery struct {
	Role     string // optional
	IsActive *bool  // optional
	Page     int
	PerPage  int
}
