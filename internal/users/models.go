package users

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "USER"
	RoleOrganizer Role = "ORGANIZER"
)

type User struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	FirstName string    `json:"first_name" gorm:"not null"`
	LastName  string    `json:"last_name" gorm:"not null"`
	Username  string    `json:"username" gorm:"uniqueIndex;not null;size:150"`
	Password  string    `json:"-" gorm:"not null"` // hide in json
	Role      Role      `json:"role" gorm:"type:varchar(20);not null;default:'USER'"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// IsOrganizer reports whether the user may manage events, venues and categories.
func (u *User) IsOrganizer() bool {
	return u.Role == RoleOrganizer
}

func IsValidRole(role string) bool {
	switch Role(role) {
	case RoleUser, RoleOrganizer:
		return true
	default:
		return false
	}
}

// RoleFor maps the registration flag to a role.
func RoleFor(isOrganizer bool) Role {
	if isOrganizer {
		return RoleOrganizer
	}
	return RoleUser
}
