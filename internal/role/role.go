package role

import (
	"errors"
	"time"
)

type Role struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"column:name;not null"`
	Description *string   `json:"description,omitempty" gorm:"column:description"`
	CreatedAt   time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updatedAt" gorm:"column:updated_at"`
	CreatedBy   *int64    `json:"-" gorm:"column:created_by"`
}

func (Role) TableName() string {
	return "roles"
}

// Assignment links a user to a role. Membership is current-state only;
// there is no validity window, revocation is deletion of the row.
type Assignment struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"userId" gorm:"column:user_id;not null"`
	RoleID    int64     `json:"roleId" gorm:"column:role_id;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"column:updated_at"`
	CreatedBy *int64    `json:"-" gorm:"column:created_by"`
}

func (Assignment) TableName() string {
	return "user_roles"
}

// System roles ship with the product and must never be deleted.
var systemRoles = map[string]struct{}{
	"Administrador": {},
	"Supervisor":    {},
	"Tecnico":       {},
	"Cliente":       {},
}

func IsSystem(name string) bool {
	_, ok := systemRoles[name]
	return ok
}

var ErrNotFound = errors.New("role not found")

// Directory resolves role ids to role records.
type Directory interface {
	FindByID(id int64) (*Role, error)
}

// AssignmentDirectory lists a user's current role assignments.
type AssignmentDirectory interface {
	FindByUserID(userID int64) ([]Assignment, error)
}
