package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventKind decides how marks compare
type EventKind string

const (
	EventKindTrack    EventKind = "TRACK"
	EventKindField    EventKind = "FIELD"
	EventKindRoad     EventKind = "ROAD"
	EventKindCombined EventKind = "COMBINED"
)

// IsValid checks if an event kind is known
func (k EventKind) IsValid() bool {
	switch k {
	case EventKindTrack, EventKindField, EventKindRoad, EventKindCombined:
		return true
	}
	return false
}

// DefaultLaneCount is used when an event does not specify its lane count
const DefaultLaneCount = 8

// Event is a single discipline within a competition, e.g. "100m Men"
type Event struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CompetitionID uuid.UUID  `json:"competitionId" gorm:"type:uuid;not null;index"`
	Name          string     `json:"name" gorm:"type:varchar(200);not null"`
	Discipline    string     `json:"discipline" gorm:"type:varchar(50);not null"`
	Kind          EventKind  `json:"kind" gorm:"type:varchar(20);not null;default:'TRACK'"`
	Gender        Gender     `json:"gender" gorm:"type:varchar(10);not null"`
	LaneCount     int        `json:"laneCount" gorm:"not null;default:8"`
	ScheduledAt   *time.Time `json:"scheduledAt"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`

	// Relations
	Competition   *Competition   `json:"-" gorm:"foreignKey:CompetitionID"`
	Registrations []Registration `json:"registrations,omitempty" gorm:"foreignKey:EventID"`
}

// TableName returns the table name for GORM
func (Event) TableName() string {
	return "events"
}

// IsTimeBased reports whether lower marks are better. Only field events
// (jumps and throws) rank by higher-is-better distances and heights.
func (e *Event) IsTimeBased() bool {
	return e.Kind != EventKindField
}

// RegistrationStatus tracks an entry's lifecycle
type RegistrationStatus string

const (
	RegistrationStatusRegistered RegistrationStatus = "REGISTERED"
	RegistrationStatusConfirmed  RegistrationStatus = "CONFIRMED"
	RegistrationStatusWithdrawn  RegistrationStatus = "WITHDRAWN"
)

// Registration is one athlete's entry into one event
type Registration struct {
	ID           uuid.UUID          `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	EventID      uuid.UUID          `json:"eventId" gorm:"type:uuid;not null;uniqueIndex:idx_registration_event_athlete"`
	AthleteID    uuid.UUID          `json:"athleteId" gorm:"type:uuid;not null;uniqueIndex:idx_registration_event_athlete"`
	BibNumber    string             `json:"bibNumber" gorm:"type:varchar(20)"`
	SeedTime     *string            `json:"seedTime" gorm:"type:varchar(20)"`
	SeasonBest   *string            `json:"seasonBest" gorm:"type:varchar(20)"`
	PersonalBest *string            `json:"personalBest" gorm:"type:varchar(20)"`
	Status       RegistrationStatus `json:"status" gorm:"type:varchar(20);not null;default:'REGISTERED'"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`

	// Relations
	Athlete *Athlete `json:"athlete,omitempty" gorm:"foreignKey:AthleteID"`
	Event   *Event   `json:"-" gorm:"foreignKey:EventID"`
}

// TableName returns the table name for GORM
func (Registration) TableName() string {
	return "registrations"
}

// IsActive returns true if the entry still takes part in seeding
func (r *Registration) IsActive() bool {
	return r.Status != RegistrationStatusWithdrawn
}
