package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/trackmeet/internal/domain"
	"github.com/dom/trackmeet/internal/repository/postgres"
	"github.com/dom/trackmeet/internal/service"
	"github.com/dom/trackmeet/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompetitionService_CreateCompetition(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	svc := service.NewCompetitionService(repos.Competition, repos.Event)
	ctx := context.Background()

	organizer, _ := testutil.NewUserBuilder().WithRole(domain.UserRoleOrganizer).Build(t, testDB.DB)
	start := time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   service.CreateCompetitionInput
		wantErr error
	}{
		{
			name:  "single day meeting",
			input: service.CreateCompetitionInput{Name: "Summer Open", StartDate: start, CreatedBy: organizer.ID},
		},
		{
			name:    "blank name",
			input:   service.CreateCompetitionInput{Name: "   ", StartDate: start, CreatedBy: organizer.ID},
			wantErr: service.ErrNameRequired,
		},
		{
			name: "end before start",
			input: service.CreateCompetitionInput{Name: "Backwards", StartDate: start,
				EndDate: start.Add(-24 * time.Hour), CreatedBy: organizer.ID},
			wantErr: service.ErrInvalidDateRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.CreateCompetition(ctx, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.EndDate.Equal(got.StartDate))

			loaded, err := svc.GetCompetition(ctx, got.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.input.Name, loaded.Name)
		})
	}

	_, err := svc.GetCompetition(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrCompetitionNotFound)
}

func TestCompetitionService_CreateEvent(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	svc := service.NewCompetitionService(repos.Competition, repos.Event)
	ctx := context.Background()

	outdoor := testutil.NewCompetitionBuilder().Build(t, testDB.DB)
	indoor := testutil.NewCompetitionBuilder().Indoor().Build(t, testDB.DB)

	tests := []struct {
		name          string
		input         service.CreateEventInput
		wantErr       error
		wantLaneCount int
		wantKind      domain.EventKind
	}{
		{
			name:          "outdoor defaults",
			input:         service.CreateEventInput{CompetitionID: outdoor.ID, Name: "100m Women", Gender: domain.GenderFemale},
			wantLaneCount: 8,
			wantKind:      domain.EventKindTrack,
		},
		{
			name:          "indoor defaults to six lanes",
			input:         service.CreateEventInput{CompetitionID: indoor.ID, Name: "60m Men", Gender: domain.GenderMale},
			wantLaneCount: 6,
			wantKind:      domain.EventKindTrack,
		},
		{
			name: "explicit lanes and kind",
			input: service.CreateEventInput{CompetitionID: outdoor.ID, Name: "Shot Put", Gender: domain.GenderMale,
				Kind: domain.EventKindField, LaneCount: 9},
			wantLaneCount: 9,
			wantKind:      domain.EventKindField,
		},
		{
			name:    "bad gender",
			input:   service.CreateEventInput{CompetitionID: outdoor.ID, Name: "400m", Gender: "Q"},
			wantErr: domain.ErrInvalidGender,
		},
		{
			name:    "bad kind",
			input:   service.CreateEventInput{CompetitionID: outdoor.ID, Name: "400m", Gender: domain.GenderMale, Kind: "SWIM"},
			wantErr: domain.ErrInvalidEventKind,
		},
		{
			name:    "unknown competition",
			input:   service.CreateEventInput{CompetitionID: uuid.New(), Name: "400m", Gender: domain.GenderMale},
			wantErr: service.ErrCompetitionNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.CreateEvent(ctx, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLaneCount, got.LaneCount)
			assert.Equal(t, tt.wantKind, got.Kind)
		})
	}

	events, err := svc.ListEvents(ctx, outdoor.ID)
	require.NoError(t, err)
	assert.Len(t, events, 2)

	_, err = svc.GetEvent(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrEventNotFound)
}

func TestRegistrationService(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	athletes := service.NewAthleteService(repos.Athlete)
	svc := service.NewRegistrationService(repos.Registration, repos.Event, repos.Athlete)
	ctx := context.Background()

	event := testutil.NewEventBuilder().Build(t, testDB.DB)
	athlete, err := athletes.Create(ctx, service.CreateAthleteInput{
		FirstName: "Grace", LastName: "Hopper", Club: "Navy AC", Gender: domain.GenderFemale,
	})
	require.NoError(t, err)

	seed := "11.42"
	reg, err := svc.Register(ctx, service.RegisterAthleteInput{
		EventID: event.ID, AthleteID: athlete.ID, BibNumber: "77", SeedTime: &seed,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RegistrationStatusRegistered, reg.Status)

	_, err = svc.Register(ctx, service.RegisterAthleteInput{EventID: event.ID, AthleteID: athlete.ID})
	assert.ErrorIs(t, err, service.ErrAlreadyRegistered)

	_, err = svc.Register(ctx, service.RegisterAthleteInput{EventID: event.ID, AthleteID: uuid.New()})
	assert.ErrorIs(t, err, service.ErrAthleteNotFound)

	_, err = svc.Register(ctx, service.RegisterAthleteInput{EventID: uuid.New(), AthleteID: athlete.ID})
	assert.ErrorIs(t, err, service.ErrEventNotFound)

	withdrawn, err := svc.SetStatus(ctx, reg.ID, domain.RegistrationStatusWithdrawn)
	require.NoError(t, err)
	assert.Equal(t, domain.RegistrationStatusWithdrawn, withdrawn.Status)

	_, err = svc.SetStatus(ctx, reg.ID, "DISQUALIFIED")
	assert.ErrorIs(t, err, service.ErrInvalidStatus)

	list, err := svc.ListByEvent(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Hopper", list[0].Athlete.LastName)

	require.NoError(t, svc.Delete(ctx, reg.ID))
	assert.ErrorIs(t, svc.Delete(ctx, reg.ID), service.ErrRegistrationNotFound)

	found, err := athletes.List(ctx, "hop", 0, 0)
	require.NoError(t, err)
	assert.Len(t, found, 1)
}
