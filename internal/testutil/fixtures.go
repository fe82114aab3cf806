package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dom/trackmeet/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	displayName string
	password    string
	role        domain.UserRole
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		displayName: fmt.Sprintf("testuser_%s", uuid.New().String()[:8]),
		password:    "testpassword123",
		role:        domain.UserRoleViewer,
	}
}

// WithDisplayName sets the display name
func (b *UserBuilder) WithDisplayName(name string) *UserBuilder {
	b.displayName = name
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// WithRole sets the role
func (b *UserBuilder) WithRole(role domain.UserRole) *UserBuilder {
	b.role = role
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		DisplayName:  b.displayName,
		PasswordHash: string(hashedPassword),
		Role:         b.role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// AuthResponse matches the API auth response
type AuthResponse struct {
	User struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
		Role        string `json:"role"`
	} `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// BuildAndAuthenticate creates the user in the database with its role and
// logs in through the API, returning the user and access token
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	user, password := b.Build(t, ts.DB.DB)

	reqBody := map[string]string{
		"displayName": user.DisplayName,
		"password":    password,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL("/auth/login"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to log in user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	return user, authResp.AccessToken
}

// CompetitionBuilder creates test competitions
type CompetitionBuilder struct {
	name    string
	venue   string
	indoor  bool
	creator *domain.User
}

// NewCompetitionBuilder creates a new CompetitionBuilder with default values
func NewCompetitionBuilder() *CompetitionBuilder {
	return &CompetitionBuilder{
		name:  fmt.Sprintf("Meeting %s", uuid.New().String()[:6]),
		venue: "Olympic Stadium",
	}
}

// WithName sets the competition name
func (b *CompetitionBuilder) WithName(name string) *CompetitionBuilder {
	b.name = name
	return b
}

// Indoor marks the competition as an indoor meeting
func (b *CompetitionBuilder) Indoor() *CompetitionBuilder {
	b.indoor = true
	return b
}

// WithCreator sets the organizer who owns the competition
func (b *CompetitionBuilder) WithCreator(user *domain.User) *CompetitionBuilder {
	b.creator = user
	return b
}

// Build creates the competition in the database
func (b *CompetitionBuilder) Build(t *testing.T, db *gorm.DB) *domain.Competition {
	t.Helper()

	if b.creator == nil {
		user, _ := NewUserBuilder().WithRole(domain.UserRoleOrganizer).Build(t, db)
		b.creator = user
	}

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	competition := &domain.Competition{
		ID:        uuid.New(),
		Name:      b.name,
		Venue:     b.venue,
		StartDate: start,
		EndDate:   start,
		Indoor:    b.indoor,
		CreatedBy: b.creator.ID,
	}

	if err := db.Create(competition).Error; err != nil {
		t.Fatalf("failed to create competition: %v", err)
	}

	return competition
}

// EventBuilder creates test events
type EventBuilder struct {
	competition *domain.Competition
	name        string
	discipline  string
	kind        domain.EventKind
	gender      domain.Gender
	laneCount   int
}

// NewEventBuilder creates a new EventBuilder for a 100m track event
func NewEventBuilder() *EventBuilder {
	return &EventBuilder{
		name:       "100m Men",
		discipline: "100m",
		kind:       domain.EventKindTrack,
		gender:     domain.GenderMale,
		laneCount:  domain.DefaultLaneCount,
	}
}

// WithCompetition sets the parent competition
func (b *EventBuilder) WithCompetition(c *domain.Competition) *EventBuilder {
	b.competition = c
	return b
}

// WithName sets the event name and discipline
func (b *EventBuilder) WithName(name, discipline string) *EventBuilder {
	b.name = name
	b.discipline = discipline
	return b
}

// WithKind sets the event kind
func (b *EventBuilder) WithKind(kind domain.EventKind) *EventBuilder {
	b.kind = kind
	return b
}

// WithLaneCount sets the lane count
func (b *EventBuilder) WithLaneCount(n int) *EventBuilder {
	b.laneCount = n
	return b
}

// Build creates the event in the database
func (b *EventBuilder) Build(t *testing.T, db *gorm.DB) *domain.Event {
	t.Helper()

	if b.competition == nil {
		b.competition = NewCompetitionBuilder().Build(t, db)
	}

	event := &domain.Event{
		ID:            uuid.New(),
		CompetitionID: b.competition.ID,
		Name:          b.name,
		Discipline:    b.discipline,
		Kind:          b.kind,
		Gender:        b.gender,
		LaneCount:     b.laneCount,
	}

	if err := db.Create(event).Error; err != nil {
		t.Fatalf("failed to create event: %v", err)
	}

	return event
}

// AthleteBuilder creates test athletes
type AthleteBuilder struct {
	firstName string
	lastName  string
	club      string
	gender    domain.Gender
}

// NewAthleteBuilder creates a new AthleteBuilder with a unique name
func NewAthleteBuilder() *AthleteBuilder {
	return &AthleteBuilder{
		firstName: "Test",
		lastName:  fmt.Sprintf("Athlete%s", uuid.New().String()[:6]),
		club:      "Test AC",
		gender:    domain.GenderMale,
	}
}

// WithName sets first and last name
func (b *AthleteBuilder) WithName(first, last string) *AthleteBuilder {
	b.firstName = first
	b.lastName = last
	return b
}

// WithClub sets the club
func (b *AthleteBuilder) WithClub(club string) *AthleteBuilder {
	b.club = club
	return b
}

// Build creates the athlete in the database
func (b *AthleteBuilder) Build(t *testing.T, db *gorm.DB) *domain.Athlete {
	t.Helper()

	athlete := &domain.Athlete{
		ID:        uuid.New(),
		FirstName: b.firstName,
		LastName:  b.lastName,
		Club:      b.club,
		Gender:    b.gender,
	}

	if err := db.Create(athlete).Error; err != nil {
		t.Fatalf("failed to create athlete: %v", err)
	}

	return athlete
}

// RegistrationBuilder enters an athlete into an event
type RegistrationBuilder struct {
	event        *domain.Event
	athlete      *domain.Athlete
	bib          string
	seedTime     *string
	seasonBest   *string
	personalBest *string
	status       domain.RegistrationStatus
	createdAt    time.Time
}

// NewRegistrationBuilder creates a new RegistrationBuilder
func NewRegistrationBuilder(event *domain.Event) *RegistrationBuilder {
	return &RegistrationBuilder{
		event:  event,
		status: domain.RegistrationStatusRegistered,
	}
}

// WithAthlete sets the athlete; one is created when unset
func (b *RegistrationBuilder) WithAthlete(a *domain.Athlete) *RegistrationBuilder {
	b.athlete = a
	return b
}

// WithBib sets the bib number
func (b *RegistrationBuilder) WithBib(bib string) *RegistrationBuilder {
	b.bib = bib
	return b
}

// WithSeedTime sets the seed time
func (b *RegistrationBuilder) WithSeedTime(seed string) *RegistrationBuilder {
	b.seedTime = &seed
	return b
}

// WithSeasonBest sets the season best
func (b *RegistrationBuilder) WithSeasonBest(sb string) *RegistrationBuilder {
	b.seasonBest = &sb
	return b
}

// WithPersonalBest sets the personal best
func (b *RegistrationBuilder) WithPersonalBest(pb string) *RegistrationBuilder {
	b.personalBest = &pb
	return b
}

// WithStatus sets the registration status
func (b *RegistrationBuilder) WithStatus(status domain.RegistrationStatus) *RegistrationBuilder {
	b.status = status
	return b
}

// WithCreatedAt pins the registration time, which decides registration order
func (b *RegistrationBuilder) WithCreatedAt(ts time.Time) *RegistrationBuilder {
	b.createdAt = ts
	return b
}

// Build creates the registration in the database
func (b *RegistrationBuilder) Build(t *testing.T, db *gorm.DB) *domain.Registration {
	t.Helper()

	if b.athlete == nil {
		b.athlete = NewAthleteBuilder().Build(t, db)
	}

	reg := &domain.Registration{
		ID:           uuid.New(),
		EventID:      b.event.ID,
		AthleteID:    b.athlete.ID,
		BibNumber:    b.bib,
		SeedTime:     b.seedTime,
		SeasonBest:   b.seasonBest,
		PersonalBest: b.personalBest,
		Status:       b.status,
		CreatedAt:    b.createdAt,
	}

	if err := db.Create(reg).Error; err != nil {
		t.Fatalf("failed to create registration: %v", err)
	}

	reg.Athlete = b.athlete
	return reg
}

// SeedRegistrations registers n athletes with seed times
// 10.00, 10.10, ... in registration order
func SeedRegistrations(t *testing.T, db *gorm.DB, event *domain.Event, n int) []*domain.Registration {
	t.Helper()

	base := time.Now().Add(-time.Hour)
	regs := make([]*domain.Registration, n)
	for i := 0; i < n; i++ {
		regs[i] = NewRegistrationBuilder(event).
			WithBib(fmt.Sprintf("%d", 100+i)).
			WithSeedTime(fmt.Sprintf("%.2f", 10.0+float64(i)*0.1)).
			WithCreatedAt(base.Add(time.Duration(i) * time.Second)).
			Build(t, db)
	}
	return regs
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}
