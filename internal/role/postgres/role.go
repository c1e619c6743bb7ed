package postgres

import (
	"errors"

	"github.com/frahmantamala/account-management/internal/role"
	"gorm.io/gorm"
)

// RoleDirectory implements the role.Directory interface using GORM
type RoleDirectory struct {
	db *gorm.DB
}

// NewRoleDirectory creates a new role directory
func NewRoleDirectory(db *gorm.DB) role.Directory {
	return &RoleDirectory{db: db}
}

func (d *RoleDirectory) FindByID(id int64) (*role.Role, error) {
	var r role.Role
	err := d.db.Where("id = ?", id).First(&r).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, role.ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

// AssignmentDirectory implements role.AssignmentDirectory using GORM
type AssignmentDirectory struct {
	db *gorm.DB
}

// NewAssignmentDirectory creates a new role-assignment directory
func NewAssignmentDirectory(db *gorm.DB) role.AssignmentDirectory {
	return &AssignmentDirectory{db: db}
}

func (d *AssignmentDirectory) FindByUserID(userID int64) ([]role.Assignment, error) {
	var assignments []role.Assignment
	err := d.db.Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&assignments).Error
	return assignments, err
}
