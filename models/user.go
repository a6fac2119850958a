package models

import (
	"time"
)

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

type User struct {
	ID                     uint       `gorm:"primaryKey" json:"id"`
	Email                  string     `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash           string     `gorm:"size:191;not null" json:"-"` // never expose
	FirstName              string     `gorm:"size:100" json:"firstName"`
	LastName               string     `gorm:"size:100" json:"lastName"`
	IsEmailVerified        bool       `gorm:"not null" json:"isEmailVerified"`
	EmailVerificationToken *string    `gorm:"size:64;index" json:"-"`
	ResetPasswordToken     *string    `gorm:"size:64;index" json:"-"`
	ResetPasswordExpire    *time.Time `json:"-"`
	Roles                  []Role     `gorm:"many2many:user_roles" json:"roles"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
}

// RoleNames returns the names of the roles currently loaded on the user.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}
