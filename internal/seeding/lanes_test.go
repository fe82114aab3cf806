package seeding_test

import (
	"testing"

	"github.com/dom/trackmeet/internal/domain"
	"github.com/dom/trackmeet/internal/seeding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// laneByRank maps each athlete's heat-internal seed rank to its lane
func laneByRank(assignments []seeding.LaneAssignment) map[int]int {
	out := make(map[int]int, len(assignments))
	for _, a := range assignments {
		out[a.SeedRank] = a.Lane
	}
	return out
}

func lanesInRankOrder(assignments []seeding.LaneAssignment) []int {
	byRank := laneByRank(assignments)
	out := make([]int, len(assignments))
	for i := range out {
		out[i] = byRank[i+1]
	}
	return out
}

func TestFinalLaneOrder(t *testing.T) {
	tests := []struct {
		lanes int
		want  []int
	}{
		{8, []int{4, 5, 3, 6, 2, 7, 1, 8}},
		{6, []int{3, 4, 2, 5, 1, 6}},
		{9, []int{5, 6, 4, 7, 3, 8, 2, 9, 1}},
		{5, []int{3, 4, 2, 5, 1}},
		{4, []int{2, 3, 1, 4}},
		{1, []int{1}},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			assert.Equal(t, tt.want, seeding.FinalLaneOrder(tt.lanes))
		})
	}

	assert.Empty(t, seeding.FinalLaneOrder(0))
}

func TestAssignLanes_Formulas(t *testing.T) {
	engine := seeding.NewEngine()
	group := seededPool(4)

	tests := []struct {
		method domain.LaneMethod
		want   []int
	}{
		{domain.LaneBestToWorst, []int{1, 2, 3, 4}},
		{domain.LaneWorstToBest, []int{4, 3, 2, 1}},
		{domain.LaneStandardInside, []int{1, 2, 3, 4}},
		{domain.LaneStandardOutside, []int{8, 7, 6, 5}},
		{domain.LaneWaterfall, []int{1, 2, 3, 4}},
		{domain.LaneWaterfallReverse, []int{8, 7, 6, 5}},
		{domain.LaneBestInCenter, []int{4, 5, 3, 6}},
		{domain.LanePairsIndoor, []int{8, 7, 6, 5}},
	}

	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			got, err := engine.AssignLanes(group, tt.method, 8)
			require.NoError(t, err)
			assert.Equal(t, tt.want, lanesInRankOrder(got))
		})
	}
}

func TestAssignLanes_BandTables(t *testing.T) {
	engine := seeding.NewEngine()

	tests := []struct {
		method   domain.LaneMethod
		maxLanes int
		want     []int
	}{
		{domain.LaneHalfAndHalf, 8, []int{3, 4, 5, 6, 1, 2, 7, 8}},
		{domain.LaneHalfAndHalf, 6, []int{2, 3, 4, 1, 5, 6}},
		{domain.LaneWASprintsStraight, 8, []int{3, 4, 5, 6, 7, 8, 1, 2}},
		{domain.LaneWASprintsStraight, 9, []int{4, 5, 6, 3, 7, 8, 1, 2, 9}},
		{domain.LaneWA200m, 8, []int{5, 6, 7, 3, 4, 8, 1, 2}},
		{domain.LaneWA200m, 9, []int{5, 6, 7, 4, 8, 9, 1, 2, 3}},
		{domain.LaneWA400m800m, 8, []int{4, 5, 6, 7, 3, 8, 1, 2}},
		{domain.LaneWA400m800m, 9, []int{5, 6, 7, 4, 8, 9, 1, 2, 3}},
		{domain.LaneWAHalvesAndPairs, 8, []int{3, 4, 5, 6, 2, 7, 1, 8}},
		{domain.LaneWA9Lanes, 9, []int{4, 5, 6, 3, 7, 8, 1, 2, 9}},
		{domain.LaneWA6Lanes, 6, []int{3, 4, 2, 5, 1, 6}},
		// no table for this lane count
		{domain.LaneWA6Lanes, 8, []int{4, 5, 3, 6, 2, 7, 1, 8}},
		{domain.LaneWA200m, 6, []int{3, 4, 2, 5, 1, 6}},
	}

	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			got, err := engine.AssignLanes(seededPool(tt.maxLanes), tt.method, tt.maxLanes)
			require.NoError(t, err)
			assert.Equal(t, tt.want, lanesInRankOrder(got))
		})
	}
}

func TestAssignLanes_SortedByLane(t *testing.T) {
	engine := seeding.NewEngine()

	got, err := engine.AssignLanes(seededPool(8), domain.LaneBestInCenter, 8)
	require.NoError(t, err)
	for i, a := range got {
		assert.Equal(t, i+1, a.Lane)
		assert.Equal(t, domain.LaneBestInCenter, a.Method)
	}
	assert.Equal(t, 7, got[0].SeedRank)
}

func TestAssignLanes_SeedRankIsPositionInHeat(t *testing.T) {
	engine := seeding.NewEngine()
	groups, err := engine.Partition(seededPool(9), domain.SeriesSerpentine, 3, 8)
	require.NoError(t, err)

	// heat 2 holds overall ranks 2, 5 and 8
	got, err := engine.AssignLanes(groups[1], domain.LaneBestToWorst, 8)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 1, got[0].SeedRank)
	assert.Equal(t, 2, got[0].Participant.Rank)
	assert.Equal(t, 3, got[2].SeedRank)
	assert.Equal(t, 8, got[2].Participant.Rank)
}

func TestAssignLanes_PairsKeepsPairsAndIsReproducible(t *testing.T) {
	a, err := seeding.NewEngine(seeding.WithSeed(7)).AssignLanes(seededPool(8), domain.LanePairs, 8)
	require.NoError(t, err)
	b, err := seeding.NewEngine(seeding.WithSeed(7)).AssignLanes(seededPool(8), domain.LanePairs, 8)
	require.NoError(t, err)
	assert.Equal(t, lanesInRankOrder(a), lanesInRankOrder(b))

	pairs := [][2]int{{4, 5}, {3, 6}, {2, 7}, {1, 8}}
	lanes := lanesInRankOrder(a)
	for k, pair := range pairs {
		assert.ElementsMatch(t, pair[:], lanes[2*k:2*k+2], "pair %d", k+1)
	}
}

func TestAssignLanes_RandomKeepsSeedRank(t *testing.T) {
	a, err := seeding.NewEngine(seeding.WithSeed(99)).AssignLanes(seededPool(6), domain.LaneRandom, 8)
	require.NoError(t, err)
	b, err := seeding.NewEngine(seeding.WithSeed(99)).AssignLanes(seededPool(6), domain.LaneRandom, 8)
	require.NoError(t, err)
	assert.Equal(t, lanesInRankOrder(a), lanesInRankOrder(b))

	lanes := lanesInRankOrder(a)
	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5, 6}, lanes)
	for _, assignment := range a {
		assert.Equal(t, assignment.Participant.Rank, assignment.SeedRank)
	}
}

func TestAssignLanes_Errors(t *testing.T) {
	engine := seeding.NewEngine()

	_, err := engine.AssignLanes(seededPool(9), domain.LaneBestInCenter, 8)
	assert.ErrorIs(t, err, seeding.ErrGroupExceedsLanes)

	_, err = engine.AssignLanes(seededPool(3), domain.LaneMethod("SIDEWAYS"), 8)
	assert.ErrorIs(t, err, seeding.ErrUnknownLaneMethod)

	_, err = engine.AssignLanes(seededPool(1), domain.LaneBestToWorst, 0)
	assert.ErrorIs(t, err, seeding.ErrInvalidMaxLanes)
}

func TestAssignLanes_LanesUniqueAndInRange(t *testing.T) {
	engine := seeding.NewEngine(seeding.WithSeed(3))

	for _, series := range domain.AllSeriesMethods {
		for _, lane := range domain.AllLaneMethods {
			for _, maxLanes := range []int{1, 3, 4, 5, 6, 8, 9} {
				for n := 1; n <= 25; n++ {
					if series == domain.SeriesStraightFinal && n > maxLanes {
						continue
					}
					heats := seeding.HeatsCountFor(series, n, maxLanes)
					groups, err := engine.Partition(seededPool(n), series, heats, maxLanes)
					require.NoError(t, err)

					seen := map[int]int{}
					for _, g := range groups {
						got, err := engine.AssignLanes(g, lane, maxLanes)
						require.NoError(t, err, "%s/%s lanes=%d n=%d", series, lane, maxLanes, n)

						used := map[int]bool{}
						for _, a := range got {
							assert.False(t, used[a.Lane], "%s/%s duplicate lane %d", series, lane, a.Lane)
							used[a.Lane] = true
							assert.GreaterOrEqual(t, a.Lane, 1)
							assert.LessOrEqual(t, a.Lane, maxLanes)
							seen[a.Participant.Rank]++
						}
					}
					assert.Len(t, seen, n, "%s/%s every athlete placed once", series, lane)
					for rank, count := range seen {
						assert.Equal(t, 1, count, "rank %d placed %d times", rank, count)
					}
				}
			}
		}
	}
}
