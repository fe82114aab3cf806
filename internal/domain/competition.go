package domain

import (
	"time"

	"github.com/google/uuid"
)

// Competition is a meeting that groups events
type Competition struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"type:varchar(200);not null"`
	Venue     string    `json:"venue" gorm:"type:varchar(200)"`
	StartDate time.Time `json:"startDate" gorm:"not null"`
	EndDate   time.Time `json:"endDate" gorm:"not null"`
	Indoor    bool      `json:"indoor" gorm:"not null;default:false"`
	CreatedBy uuid.UUID `json:"createdBy" gorm:"type:uuid;not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Events []Event `json:"events,omitempty" gorm:"foreignKey:CompetitionID"`
}

// TableName returns the table name for GORM
func (Competition) TableName() string {
	return "competitions"
}

// Athlete is a person who can be registered for events
type Athlete struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FirstName string     `json:"firstName" gorm:"type:varchar(100);not null"`
	LastName  string     `json:"lastName" gorm:"type:varchar(100);not null;index"`
	Club      string     `json:"club" gorm:"type:varchar(200)"`
	Gender    Gender     `json:"gender" gorm:"type:varchar(10);not null"`
	BirthDate *time.Time `json:"birthDate"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// TableName returns the table name for GORM
func (Athlete) TableName() string {
	return "athletes"
}

// FullName returns "First Last"
func (a *Athlete) FullName() string {
	if a.FirstName == "" {
		return a.LastName
	}
	return a.FirstName + " " + a.LastName
}

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderMixed  Gender = "X"
)

// IsValid checks if a gender value is known
func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderMixed:
		return true
	}
	return false
}
