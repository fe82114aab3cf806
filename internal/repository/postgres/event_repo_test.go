package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/trackmeet/internal/domain"
	"github.com/dom/trackmeet/internal/repository/postgres"
	"github.com/dom/trackmeet/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestEventRepository_GetWithParticipants(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewEventRepository(testDB.DB)
	ctx := context.Background()

	event := testutil.NewEventBuilder().Build(t, testDB.DB)
	base := time.Now().Add(-time.Hour)

	second := testutil.NewRegistrationBuilder(event).WithCreatedAt(base.Add(2 * time.Second)).Build(t, testDB.DB)
	first := testutil.NewRegistrationBuilder(event).WithCreatedAt(base).Build(t, testDB.DB)
	testutil.NewRegistrationBuilder(event).
		WithCreatedAt(base.Add(time.Second)).
		WithStatus(domain.RegistrationStatusWithdrawn).
		Build(t, testDB.DB)
	confirmed := testutil.NewRegistrationBuilder(event).
		WithCreatedAt(base.Add(3 * time.Second)).
		WithStatus(domain.RegistrationStatusConfirmed).
		Build(t, testDB.DB)

	got, regs, err := repo.GetWithParticipants(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, event.ID, got.ID)
	require.Len(t, regs, 3)

	// Registration order, withdrawn entries skipped
	assert.Equal(t, first.ID, regs[0].ID)
	assert.Equal(t, second.ID, regs[1].ID)
	assert.Equal(t, confirmed.ID, regs[2].ID)
	for _, r := range regs {
		require.NotNil(t, r.Athlete)
	}

	_, _, err = repo.GetWithParticipants(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestEventRepository_GetByCompetitionID(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewEventRepository(testDB.DB)
	competitionRepo := postgres.NewCompetitionRepository(testDB.DB)
	ctx := context.Background()

	competition := testutil.NewCompetitionBuilder().Build(t, testDB.DB)
	testutil.NewEventBuilder().WithCompetition(competition).WithName("100m Men", "100m").Build(t, testDB.DB)
	testutil.NewEventBuilder().WithCompetition(competition).WithName("High Jump Women", "HJ").
		WithKind(domain.EventKindField).Build(t, testDB.DB)
	testutil.NewEventBuilder().Build(t, testDB.DB)

	events, err := repo.GetByCompetitionID(ctx, competition.ID)
	require.NoError(t, err)
	assert.Len(t, events, 2)

	loaded, err := competitionRepo.GetByID(ctx, competition.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Events, 2)
}

func TestRegistrationRepository_UniquePerEvent(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewRegistrationRepository(testDB.DB)
	ctx := context.Background()

	event := testutil.NewEventBuilder().Build(t, testDB.DB)
	athlete := testutil.NewAthleteBuilder().Build(t, testDB.DB)
	testutil.NewRegistrationBuilder(event).WithAthlete(athlete).Build(t, testDB.DB)

	err := repo.Create(ctx, &domain.Registration{
		ID:        uuid.New(),
		EventID:   event.ID,
		AthleteID: athlete.ID,
		Status:    domain.RegistrationStatusRegistered,
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, uuid.New(), domain.RegistrationStatusConfirmed), gorm.ErrRecordNotFound)
}
