package postgres

import (
	"errors"
	"time"

	"github.com/frahmantamala/account-management/internal/user"
	"gorm.io/gorm"
)

// UserDirectory implements the user.Directory interface using GORM
type UserDirectory struct {
	db *gorm.DB
}

// NewUserDirectory creates a new user directory
func NewUserDirectory(db *gorm.DB) user.Directory {
	return &UserDirectory{db: db}
}

func (d *UserDirectory) FindByUsername(username string) (*user.User, error) {
	var u user.User
	err := d.db.Where("username = ?", user.NormalizeIdentifier(username)).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (d *UserDirectory) FindByEmail(email string) (*user.User, error) {
	var u user.User
	err := d.db.Where("email = ?", user.NormalizeIdentifier(email)).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (d *UserDirectory) FindByID(id int64) (*user.User, error) {
	var u user.User
	err := d.db.Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// UpdatePasswordHash replaces the stored digest. This is the only write
// path for password material.
func (d *UserDirectory) UpdatePasswordHash(id int64, passwordHash string) error {
	result := d.db.Model(&user.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return user.ErrNotFound
	}
	return nil
}
