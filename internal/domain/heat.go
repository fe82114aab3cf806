package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Round is the competition stage a heat belongs to
type Round string

const (
	RoundQualification  Round = "QUALIFICATION"
	RoundQualificationA Round = "QUALIFICATION_A"
	RoundQualificationB Round = "QUALIFICATION_B"
	RoundQualificationC Round = "QUALIFICATION_C"
	RoundSemifinal      Round = "SEMIFINAL"
	RoundFinal          Round = "FINAL"
)

// AllRounds contains all valid rounds in competition order
var AllRounds = []Round{
	RoundQualification,
	RoundQualificationA,
	RoundQualificationB,
	RoundQualificationC,
	RoundSemifinal,
	RoundFinal,
}

// IsValid checks if a round is valid
func (r Round) IsValid() bool {
	for _, round := range AllRounds {
		if r == round {
			return true
		}
	}
	return false
}

// DefaultHeatMaxLanes is the capacity of a manually created heat
const DefaultHeatMaxLanes = 20

// Heat is one race (series) within an event round
type Heat struct {
	ID            uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	EventID       uuid.UUID      `json:"eventId" gorm:"type:uuid;not null;uniqueIndex:idx_heat_event_number_round"`
	HeatNumber    int            `json:"heatNumber" gorm:"not null;uniqueIndex:idx_heat_event_number_round"`
	Round         Round          `json:"round" gorm:"type:varchar(20);not null;uniqueIndex:idx_heat_event_number_round"`
	MaxLanes      int            `json:"maxLanes" gorm:"not null;default:20"`
	ScheduledTime *time.Time     `json:"scheduledTime"`
	Notes         *string        `json:"notes" gorm:"type:text"`
	SeriesMethod  string         `json:"seriesMethod,omitempty" gorm:"type:varchar(30)"`
	LaneMethod    string         `json:"laneMethod,omitempty" gorm:"type:varchar(30)"`
	SeedingParams datatypes.JSON `json:"seedingParams,omitempty" gorm:"type:jsonb"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`

	// Relations
	Assignments []HeatAssignment `json:"assignments" gorm:"foreignKey:HeatID"`
	Event       *Event           `json:"-" gorm:"foreignKey:EventID"`
}

// TableName returns the table name for GORM
func (Heat) TableName() string {
	return "heats"
}

// LaneTaken returns true if any assignment already occupies the lane
func (h *Heat) LaneTaken(lane int) bool {
	for _, a := range h.Assignments {
		if a.Lane == lane {
			return true
		}
	}
	return false
}

// HeatAssignment binds one registration to one lane of a heat
type HeatAssignment struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	HeatID           uuid.UUID `json:"heatId" gorm:"type:uuid;not null;uniqueIndex:idx_assignment_heat_lane"`
	RegistrationID   uuid.UUID `json:"registrationId" gorm:"type:uuid;not null;index"`
	Lane             int       `json:"lane" gorm:"not null;uniqueIndex:idx_assignment_heat_lane"`
	SeedTime         *string   `json:"seedTime" gorm:"type:varchar(20)"`
	SeedRank         int       `json:"seedRank" gorm:"not null"`
	AssignmentMethod string    `json:"assignmentMethod" gorm:"type:varchar(60);not null"`
	IsPresent        bool      `json:"isPresent" gorm:"not null;default:true"`
	CreatedAt        time.Time `json:"createdAt"`

	// Relations
	Registration *Registration `json:"registration,omitempty" gorm:"foreignKey:RegistrationID"`
	Heat         *Heat         `json:"-" gorm:"foreignKey:HeatID"`
}

// TableName returns the table name for GORM
func (HeatAssignment) TableName() string {
	return "heat_assignments"
}
