package models

// UserRole determines which operations a user may perform.
type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleManager  UserRole = "manager"
	UserRoleEmployee UserRole = "employee"
)

// CanEdit reports whether the role is allowed to mutate ledger data.
// Employees have read-only access.
func (r UserRole) CanEdit() bool {
	return r == UserRoleAdmin || r == UserRoleManager
}

// User represents an application user
type User struct {
	Base
	Username string   `gorm:"uniqueIndex;size:80;not null" json:"username"`
	Email    string   `gorm:"size:120;not null" json:"email"`
	Password string   `gorm:"not null" json:"-"`
	Role     UserRole `gorm:"size:20;not null;default:employee" json:"role"`
	IsActive bool     `gorm:"default:true" json:"is_active"`
}
