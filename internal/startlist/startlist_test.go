package startlist_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/dom/trackmeet/internal/domain"
	"github.com/dom/trackmeet/internal/startlist"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func assignment(lane, rank int, bib, first, last, seed string, present bool) domain.HeatAssignment {
	return domain.HeatAssignment{
		ID:        uuid.New(),
		Lane:      lane,
		SeedRank:  rank,
		SeedTime:  &seed,
		IsPresent: present,
		Registration: &domain.Registration{
			BibNumber: bib,
			Athlete:   &domain.Athlete{FirstName: first, LastName: last, Club: "City Harriers"},
		},
	}
}

func sampleRound() (*domain.Event, []*domain.Heat) {
	event := &domain.Event{ID: uuid.New(), Name: "100m Women"}
	scheduled := time.Date(2026, 6, 1, 18, 5, 0, 0, time.UTC)
	notes := "Wind +0.4"

	heats := []*domain.Heat{
		{
			HeatNumber:    1,
			MaxLanes:      8,
			ScheduledTime: &scheduled,
			Notes:         &notes,
			Assignments: []domain.HeatAssignment{
				assignment(3, 3, "12", "Mary", "Rand", "11.60", true),
				assignment(4, 1, "7", "Irena", "Szewinska", "11.10", true),
				assignment(5, 2, "9", "Wilma", "Rudolph", "11.30", false),
			},
		},
		{
			HeatNumber: 2,
			MaxLanes:   8,
			Assignments: []domain.HeatAssignment{
				assignment(4, 1, "21", "Fanny", "Blankers-Koen", "11.50", true),
			},
		},
	}
	return event, heats
}

func TestGenerate(t *testing.T) {
	event, heats := sampleRound()

	f, err := startlist.Generate(event, domain.RoundFinal, heats)
	require.NoError(t, err)

	assert.Equal(t, []string{"Start List", "Heat 1", "Heat 2"}, f.GetSheetList())

	t.Run("summary lists every lane", func(t *testing.T) {
		title, err := f.GetCellValue("Start List", "A1")
		require.NoError(t, err)
		assert.Equal(t, "100m Women - FINAL", title)

		rows, err := f.GetRows("Start List")
		require.NoError(t, err)
		require.Len(t, rows, 7) // title, blank, header, four lanes
		assert.Equal(t, []string{"Heat", "Lane", "Bib", "Name", "Club", "Seed", "Rank", "Present"}, rows[2])
		assert.Equal(t, []string{"1", "4", "7", "Irena Szewinska", "City Harriers", "11.10", "1", "yes"}, rows[4])
		assert.Equal(t, []string{"2", "4", "21", "Fanny Blankers-Koen", "City Harriers", "11.50", "1", "yes"}, rows[6])
	})

	t.Run("heat sheet", func(t *testing.T) {
		title, err := f.GetCellValue("Heat 1", "A1")
		require.NoError(t, err)
		assert.Equal(t, "Heat 1, 8 lanes, 18:05", title)

		name, err := f.GetCellValue("Heat 1", "C6")
		require.NoError(t, err)
		assert.Equal(t, "Wilma Rudolph", name)

		present, err := f.GetCellValue("Heat 1", "G6")
		require.NoError(t, err)
		assert.Equal(t, "no", present)

		notes, err := f.GetCellValue("Heat 1", "A8")
		require.NoError(t, err)
		assert.Equal(t, "Notes: Wind +0.4", notes)
	})

	t.Run("round trips through a buffer", func(t *testing.T) {
		buf, err := f.WriteToBuffer()
		require.NoError(t, err)

		reopened, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		defer reopened.Close()

		lane, err := reopened.GetCellValue("Heat 2", "A4")
		require.NoError(t, err)
		assert.Equal(t, "4", lane)
	})
}

func TestGenerate_EmptyRound(t *testing.T) {
	f, err := startlist.Generate(&domain.Event{Name: "Pole Vault"}, domain.RoundQualification, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Start List"}, f.GetSheetList())
}
