package domain

// Role is the caller's resolved role, carried in the JWT claims
type Role string

const (
	RoleAuthor Role = "author"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

// Privileged reports whether the role may act on any post regardless of ownership
func (r Role) Privileged() bool {
	return r == RoleEditor || r == RoleAdmin
}

// Actor identifies the caller of a workflow operation.
// Resolution of id/role from credentials happens upstream (JWT middleware).
type Actor struct {
	ID   string
	Role Role
}

// SystemActor is the sentinel actor used by the scheduled-publish poller
var SystemActor = Actor{ID: SystemActorID, Role: RoleAdmin}

// User represents an account - maps to users table.
// The workflow subsystem reads users only to render display names.
type User struct {
	ID        string `gorm:"column:id;primaryKey" json:"id"`
	Email     string `gorm:"column:email" json:"email"`
	FullName  string `gorm:"column:full_name" json:"full_name"`
	Role      Role   `gorm:"column:role;default:author" json:"role"`
	IsDeleted bool   `gorm:"column:is_deleted;default:0" json:"-"`
}

// TableName returns the table name
func (User) TableName() string {
	return "users"
}

// DisplayName returns the name to show in audit views
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}
