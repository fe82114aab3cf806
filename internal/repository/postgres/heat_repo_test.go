package postgres_test

import (
	"context"
	"testing"

	"github.com/dom/trackmeet/internal/domain"
	"github.com/dom/trackmeet/internal/repository/postgres"
	"github.com/dom/trackmeet/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newHeat(eventID uuid.UUID, round domain.Round, number int, regs ...*domain.Registration) *domain.Heat {
	heat := &domain.Heat{
		ID:         uuid.New(),
		EventID:    eventID,
		HeatNumber: number,
		Round:      round,
		MaxLanes:   8,
	}
	for i, reg := range regs {
		heat.Assignments = append(heat.Assignments, domain.HeatAssignment{
			ID:               uuid.New(),
			HeatID:           heat.ID,
			RegistrationID:   reg.ID,
			Lane:             len(regs) - i,
			SeedRank:         i + 1,
			AssignmentMethod: "MANUAL",
			IsPresent:        true,
		})
	}
	return heat
}

func countAssignments(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&domain.HeatAssignment{}).Count(&n).Error)
	return n
}

func TestHeatRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewHeatRepository(testDB.DB)
	ctx := context.Background()

	event := testutil.NewEventBuilder().Build(t, testDB.DB)
	regs := testutil.SeedRegistrations(t, testDB.DB, event, 3)

	heat := newHeat(event.ID, domain.RoundFinal, 1, regs...)
	require.NoError(t, repo.Create(ctx, heat))

	got, err := repo.GetByID(ctx, heat.ID)
	require.NoError(t, err)
	require.Len(t, got.Assignments, 3)

	// Assignments come back in lane order with athletes loaded
	for i, a := range got.Assignments {
		assert.Equal(t, i+1, a.Lane)
		require.NotNil(t, a.Registration)
		require.NotNil(t, a.Registration.Athlete)
	}
	assert.Equal(t, regs[2].ID, got.Assignments[0].RegistrationID)

	t.Run("duplicate heat number in round", func(t *testing.T) {
		err := repo.Create(ctx, newHeat(event.ID, domain.RoundFinal, 1))
		assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	})

	t.Run("same number in another round", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, newHeat(event.ID, domain.RoundSemifinal, 1)))
	})

	t.Run("missing heat", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestHeatRepository_ReplaceRound(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewHeatRepository(testDB.DB)
	ctx := context.Background()

	event := testutil.NewEventBuilder().Build(t, testDB.DB)
	regs := testutil.SeedRegistrations(t, testDB.DB, event, 4)

	require.NoError(t, repo.ReplaceRound(ctx, event.ID, domain.RoundQualification, []*domain.Heat{
		newHeat(event.ID, domain.RoundQualification, 1, regs[0], regs[1]),
		newHeat(event.ID, domain.RoundQualification, 2, regs[2], regs[3]),
	}))
	require.NoError(t, repo.Create(ctx, newHeat(event.ID, domain.RoundFinal, 1, regs[0])))

	require.NoError(t, repo.ReplaceRound(ctx, event.ID, domain.RoundQualification, []*domain.Heat{
		newHeat(event.ID, domain.RoundQualification, 1, regs...),
	}))

	heats, err := repo.GetByEventAndRound(ctx, event.ID, domain.RoundQualification)
	require.NoError(t, err)
	require.Len(t, heats, 1)
	assert.Len(t, heats[0].Assignments, 4)

	// Other rounds are untouched
	finals, err := repo.GetByEventAndRound(ctx, event.ID, domain.RoundFinal)
	require.NoError(t, err)
	assert.Len(t, finals, 1)
	assert.Equal(t, int64(5), countAssignments(t, testDB.DB))

	t.Run("failure rolls back the delete", func(t *testing.T) {
		duplicateLane := newHeat(event.ID, domain.RoundQualification, 1, regs[0], regs[1])
		duplicateLane.Assignments[1].Lane = duplicateLane.Assignments[0].Lane

		err := repo.ReplaceRound(ctx, event.ID, domain.RoundQualification, []*domain.Heat{duplicateLane})
		require.Error(t, err)

		heats, err := repo.GetByEventAndRound(ctx, event.ID, domain.RoundQualification)
		require.NoError(t, err)
		require.Len(t, heats, 1)
		assert.Len(t, heats[0].Assignments, 4)
	})
}

func TestHeatRepository_DeleteByRound(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewHeatRepository(testDB.DB)
	ctx := context.Background()

	event := testutil.NewEventBuilder().Build(t, testDB.DB)
	regs := testutil.SeedRegistrations(t, testDB.DB, event, 2)
	require.NoError(t, repo.Create(ctx, newHeat(event.ID, domain.RoundFinal, 1, regs...)))

	require.NoError(t, repo.DeleteByRound(ctx, event.ID, domain.RoundFinal))
	require.NoError(t, repo.DeleteByRound(ctx, event.ID, domain.RoundFinal))

	heats, err := repo.GetByEventAndRound(ctx, event.ID, domain.RoundFinal)
	require.NoError(t, err)
	assert.Empty(t, heats)
	assert.Equal(t, int64(0), countAssignments(t, testDB.DB))
}

func TestHeatRepository_UpdateDeleteAndPresence(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewHeatRepository(testDB.DB)
	ctx := context.Background()

	event := testutil.NewEventBuilder().Build(t, testDB.DB)
	regs := testutil.SeedRegistrations(t, testDB.DB, event, 2)
	heat := newHeat(event.ID, domain.RoundFinal, 1, regs...)
	require.NoError(t, repo.Create(ctx, heat))

	loaded, err := repo.GetByID(ctx, heat.ID)
	require.NoError(t, err)
	notes := "Photo finish camera on"
	loaded.Notes = &notes
	loaded.MaxLanes = 6
	require.NoError(t, repo.Update(ctx, loaded))

	loaded, err = repo.GetByID(ctx, heat.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, loaded.MaxLanes)
	assert.Equal(t, notes, *loaded.Notes)
	assert.Len(t, loaded.Assignments, 2)

	assignmentID := loaded.Assignments[0].ID
	require.NoError(t, repo.SetPresence(ctx, assignmentID, false))
	assignment, err := repo.GetAssignment(ctx, assignmentID)
	require.NoError(t, err)
	assert.False(t, assignment.IsPresent)
	require.NotNil(t, assignment.Heat)
	assert.Equal(t, heat.ID, assignment.Heat.ID)

	assert.ErrorIs(t, repo.SetPresence(ctx, uuid.New(), true), gorm.ErrRecordNotFound)

	require.NoError(t, repo.Delete(ctx, heat.ID))
	assert.ErrorIs(t, repo.Delete(ctx, heat.ID), gorm.ErrRecordNotFound)
	assert.Equal(t, int64(0), countAssignments(t, testDB.DB))
}
