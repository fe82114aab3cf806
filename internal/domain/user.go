package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserRole gates what a user may change
type UserRole string

const (
	UserRoleAdmin     UserRole = "ADMIN"
	UserRoleOrganizer UserRole = "ORGANIZER"
	UserRoleJudge     UserRole = "JUDGE"
	UserRoleViewer    UserRole = "VIEWER"
)

// IsValid checks if a user role is known
func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleAdmin, UserRoleOrganizer, UserRoleJudge, UserRoleViewer:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PasswordHash string    `json:"-" gorm:"not null"`
	DisplayName  string    `json:"displayName" gorm:"uniqueIndex;not null"`
	Role         UserRole  `json:"role" gorm:"type:varchar(20);not null;default:'VIEWER'"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type UserSession struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID           uuid.UUID `json:"userId" gorm:"type:uuid;not null"`
	RefreshTokenHash string    `json:"-" gorm:"not null"`
	ExpiresAt        time.Time `json:"expiresAt" gorm:"not null"`
	CreatedAt        time.Time `json:"createdAt"`
}
