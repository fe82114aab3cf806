package websocket

import (
	"encoding/json"
	"time"

	"github.com/dom/trackmeet/internal/domain"
	"github.com/google/uuid"
)

type MessageType string

const (
	// Client to Server
	MessageTypeSubscribeEvent   MessageType = "SUBSCRIBE_EVENT"
	MessageTypeUnsubscribeEvent MessageType = "UNSUBSCRIBE_EVENT"
	MessageTypePing             MessageType = "PING"

	// Server to Client
	MessageTypeSubscribed   MessageType = "SUBSCRIBED"
	MessageTypeUnsubscribed MessageType = "UNSUBSCRIBED"
	MessageTypeHeatsUpdated MessageType = "HEATS_UPDATED"
	MessageTypePong         MessageType = "PONG"
	MessageTypeError        MessageType = "ERROR"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// Client to Server payloads

type SubscribeEventPayload struct {
	EventID string `json:"eventId"`
}

// Server to Client payloads

type SubscribedPayload struct {
	EventID     string `json:"eventId"`
	Subscribers int    `json:"subscribers"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HeatsUpdatedPayload is the start list of one round after it changed.
// An empty Heats list means the round was cleared.
type HeatsUpdatedPayload struct {
	EventID string     `json:"eventId"`
	Round   string     `json:"round"`
	Heats   []HeatInfo `json:"heats"`
}

type HeatInfo struct {
	ID            string     `json:"id"`
	HeatNumber    int        `json:"heatNumber"`
	MaxLanes      int        `json:"maxLanes"`
	ScheduledTime *time.Time `json:"scheduledTime,omitempty"`
	SeriesMethod  string     `json:"seriesMethod,omitempty"`
	LaneMethod    string     `json:"laneMethod,omitempty"`
	Lanes         []LaneInfo `json:"lanes"`
}

type LaneInfo struct {
	Lane           int     `json:"lane"`
	AssignmentID   string  `json:"assignmentId"`
	RegistrationID string  `json:"registrationId"`
	BibNumber      string  `json:"bibNumber,omitempty"`
	Name           string  `json:"name,omitempty"`
	Club           string  `json:"club,omitempty"`
	SeedTime       *string `json:"seedTime,omitempty"`
	SeedRank       int     `json:"seedRank"`
	IsPresent      bool    `json:"isPresent"`
}

// NewHeatsUpdatedPayload flattens heats into the push format
func NewHeatsUpdatedPayload(eventID uuid.UUID, round domain.Round, heats []*domain.Heat) HeatsUpdatedPayload {
	payload := HeatsUpdatedPayload{
		EventID: eventID.String(),
		Round:   string(round),
		Heats:   make([]HeatInfo, 0, len(heats)),
	}

	for _, h := range heats {
		info := HeatInfo{
			ID:            h.ID.String(),
			HeatNumber:    h.HeatNumber,
			MaxLanes:      h.MaxLanes,
			ScheduledTime: h.ScheduledTime,
			SeriesMethod:  h.SeriesMethod,
			LaneMethod:    h.LaneMethod,
			Lanes:         make([]LaneInfo, 0, len(h.Assignments)),
		}
		for _, a := range h.Assignments {
			lane := LaneInfo{
				Lane:           a.Lane,
				AssignmentID:   a.ID.String(),
				RegistrationID: a.RegistrationID.String(),
				SeedTime:       a.SeedTime,
				SeedRank:       a.SeedRank,
				IsPresent:      a.IsPresent,
			}
			if reg := a.Registration; reg != nil {
				lane.BibNumber = reg.BibNumber
				if reg.Athlete != nil {
					lane.Name = reg.Athlete.FullName()
					lane.Club = reg.Athlete.Club
				}
			}
			info.Lanes = append(info.Lanes, lane)
		}
		payload.Heats = append(payload.Heats, info)
	}
	return payload
}
