package domain

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// swagger:model domain.User
type User struct {
	Meta
	Name      string   `json:"name" validate:"required,max=100"`
	Email     string   `json:"email" validate:"required,email"`
	Role      UserRole `json:"role" validate:"required,oneof=user admin"`
	Favorites []string `json:"favorites"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserCreate is a registration candidate. Password is never persisted.
type UserCreate struct {
	Name     string   `validate:"required,max=100"`
	Email    string   `validate:"required,email"`
	Password string   `validate:"required,min=6,max=72"`
	Role     UserRole `validate:"omitempty,oneof=user admin"`
}

type UserPatch struct {
	Name      *string   `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Email     *string   `json:"email,omitempty" validate:"omitempty,email"`
	Password  *string   `json:"password,omitempty" validate:"omitempty,min=6,max=72"`
	Favorites *[]string `json:"favorites,omitempty"`
}
