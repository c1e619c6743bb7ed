package user

import (
	"errors"
	"strings"
	"time"
)

// User is the account record. The password hash never leaves the server:
// it is excluded from JSON and only ever replaced wholesale through
// Directory.UpdatePasswordHash, never read back into a derivation.
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"column:username;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	Email        *string   `json:"email,omitempty" gorm:"column:email"`
	FullName     *string   `json:"fullName,omitempty" gorm:"column:full_name"`
	Active       bool      `json:"active" gorm:"column:active;default:true"`
	CreatedAt    time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt    time.Time `json:"updatedAt" gorm:"column:updated_at"`
	CreatedBy    *int64    `json:"-" gorm:"column:created_by"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsActive() bool {
	return u.Active
}

func (u *User) EmailOrEmpty() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}

// NormalizeIdentifier lower-cases and trims a username or email so
// lookups and uniqueness behave case-insensitively.
func NormalizeIdentifier(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

var ErrNotFound = errors.New("user not found")

// Directory is the persistence-backed lookup contract the auth core
// depends on. Accounts are deactivated rather than deleted, so every
// implementation returns inactive users as-is and leaves the active
// check to the caller.
type Directory interface {
	FindByUsername(username string) (*User, error)
	FindByEmail(email string) (*User, error)
	FindByID(id int64) (*User, error)
	UpdatePasswordHash(id int64, passwordHash string) error
}
