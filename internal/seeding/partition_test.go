package seeding_test

import (
	"testing"

	"github.com/dom/trackmeet/internal/domain"
	"github.com/dom/trackmeet/internal/seeding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groupRanks(groups [][]seeding.Ranked) [][]int {
	out := make([][]int, len(groups))
	for i, g := range groups {
		out[i] = ranks(g)
	}
	return out
}

func TestPartition_Serpentine(t *testing.T) {
	engine := seeding.NewEngine(seeding.WithSeed(1))

	for _, method := range []domain.SeriesMethod{domain.SeriesSerpentine, domain.SeriesZigzag} {
		t.Run(string(method), func(t *testing.T) {
			groups, err := engine.Partition(seededPool(9), method, 3, 8)
			require.NoError(t, err)
			assert.Equal(t, [][]int{{1, 6, 7}, {2, 5, 8}, {3, 4, 9}}, groupRanks(groups))

			sums := make([]int, len(groups))
			for i, g := range groups {
				for _, r := range g {
					sums[i] += r.Rank
				}
			}
			for _, s := range sums {
				assert.InDelta(t, sums[0], s, 3)
			}
		})
	}
}

func TestPartition_SeedTimeBlocks(t *testing.T) {
	engine := seeding.NewEngine()

	groups, err := engine.Partition(seededPool(17), domain.SeriesSeedTime, 3, 8)
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Len(t, groups[0], 8)
	assert.Len(t, groups[1], 8)
	assert.Len(t, groups[2], 1)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, ranks(groups[0]))
	assert.Equal(t, []int{17}, ranks(groups[2]))
}

// SEED_TIME puts the best athletes in heat 1 while SERPENTINE spreads
// them. Both behaviours are intentional.
func TestPartition_SeedTimeVersusSerpentineHeatOrder(t *testing.T) {
	engine := seeding.NewEngine()

	blocks, err := engine.Partition(seededPool(16), domain.SeriesSeedTime, 2, 8)
	require.NoError(t, err)
	spread, err := engine.Partition(seededPool(16), domain.SeriesSerpentine, 2, 8)
	require.NoError(t, err)

	assert.Contains(t, ranks(blocks[0]), 2)
	assert.NotContains(t, ranks(blocks[1]), 2)
	assert.Contains(t, ranks(spread[1]), 2)
}

func TestPartition_StraightFinal(t *testing.T) {
	engine := seeding.NewEngine()

	groups, err := engine.Partition(seededPool(8), domain.SeriesStraightFinal, 1, 8)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0], 8)

	_, err = engine.Partition(seededPool(9), domain.SeriesStraightFinal, 1, 8)
	assert.ErrorIs(t, err, seeding.ErrStraightFinalCapacity)
}

func TestPartition_RoundRobinIgnoresRanking(t *testing.T) {
	engine := seeding.NewEngine()
	pool := seededPool(7)
	// reverse the input so input order and rank order differ
	for i, j := 0, len(pool)-1; i < j; i, j = i+1, j-1 {
		pool[i], pool[j] = pool[j], pool[i]
	}

	groups, err := engine.Partition(pool, domain.SeriesRoundRobin, 3, 8)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{7, 4, 1}, {6, 3}, {5, 2}}, groupRanks(groups))
}

func TestPartition_ByResult(t *testing.T) {
	engine := seeding.NewEngine()

	groups, err := engine.Partition(seededPool(10), domain.SeriesByResult, 3, 8)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 2, 3, 4}, {5, 6, 7, 8}, {9, 10}}, groupRanks(groups))
}

func TestPartition_ByResultIndoor(t *testing.T) {
	engine := seeding.NewEngine()

	groups, err := engine.Partition(seededPool(10), domain.SeriesByResultIndoor, 2, 6)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 2, 5, 6, 9, 10}, {3, 4, 7, 8}}, groupRanks(groups))
}

func TestPartition_ByResultIndoorFitsLanes(t *testing.T) {
	engine := seeding.NewEngine()

	tests := []struct {
		name     string
		n        int
		maxLanes int
		heats    int
		want     [][]int
	}{
		{
			name:     "odd lane count",
			n:        9,
			maxLanes: 3,
			heats:    5,
			want:     [][]int{{1, 2}, {3, 4}, {5, 6}, {7, 8}, {9}},
		},
		{
			name:     "pairs do not divide evenly",
			n:        25,
			maxLanes: 5,
			heats:    7,
			want: [][]int{
				{1, 2, 15, 16}, {3, 4, 17, 18}, {5, 6, 19, 20}, {7, 8, 21, 22},
				{9, 10, 23, 24}, {11, 12, 25}, {13, 14},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			heats := seeding.HeatsCountFor(domain.SeriesByResultIndoor, tt.n, tt.maxLanes)
			assert.Equal(t, tt.heats, heats)

			groups, err := engine.Partition(seededPool(tt.n), domain.SeriesByResultIndoor, heats, tt.maxLanes)
			require.NoError(t, err)
			assert.Equal(t, tt.want, groupRanks(groups))

			for _, g := range groups {
				_, err := engine.AssignLanes(g, domain.LanePairsIndoor, tt.maxLanes)
				assert.NoError(t, err)
			}
		})
	}
}

func TestPartition_ByResultIndoorCarriesPairsWhenHeatsAreFull(t *testing.T) {
	engine := seeding.NewEngine()

	groups, err := engine.Partition(seededPool(9), domain.SeriesByResultIndoor, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 2, 7}, {3, 4, 8}, {5, 6, 9}}, groupRanks(groups))
}

func TestPartition_AlphabeticalNumber(t *testing.T) {
	engine := seeding.NewEngine()
	in := []seeding.Participant{
		participant("C", nil), participant("A", nil), participant("X", nil), participant("B", nil),
	}
	in[0].BibNumber = "30"
	in[1].BibNumber = "4"
	in[2].BibNumber = ""
	in[3].BibNumber = "12"

	groups, err := engine.Partition(seeding.Annotate(in, true, domain.CriteriaSeedTime), domain.SeriesAlphabeticalNumber, 2, 8)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"A", "B"}, names(groups[0]))
	assert.Equal(t, []string{"C", "X"}, names(groups[1]))
}

func TestPartition_AlphabeticalName(t *testing.T) {
	engine := seeding.NewEngine(seeding.WithLocale("de"))
	in := []seeding.Participant{
		{LastName: "Zimmer", FirstName: "Anna"},
		{LastName: "Öztürk", FirstName: "Ben"},
		{LastName: "Meyer", FirstName: "Carl"},
		{LastName: "Adler", FirstName: "Dora"},
		{LastName: "Meyer", FirstName: "Bea"},
	}

	groups, err := engine.Partition(seeding.Annotate(in, true, domain.CriteriaSeedTime), domain.SeriesAlphabeticalName, 2, 8)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	var last []string
	for _, g := range groups {
		for _, r := range g {
			last = append(last, r.LastName+" "+r.FirstName)
		}
	}
	assert.Equal(t, []string{"Adler Dora", "Meyer Bea", "Meyer Carl", "Öztürk Ben", "Zimmer Anna"}, last)
	assert.Len(t, groups[0], 3)
	assert.Len(t, groups[1], 2)
}

func TestPartition_RandomIsReproducibleWithSeed(t *testing.T) {
	a, err := seeding.NewEngine(seeding.WithSeed(42)).Partition(seededPool(20), domain.SeriesRandom, 3, 8)
	require.NoError(t, err)
	b, err := seeding.NewEngine(seeding.WithSeed(42)).Partition(seededPool(20), domain.SeriesRandom, 3, 8)
	require.NoError(t, err)

	assert.Equal(t, groupRanks(a), groupRanks(b))
	require.Len(t, a, 3)
	assert.Len(t, a[0], 8)
	assert.Len(t, a[2], 4)

	seen := map[int]bool{}
	for _, g := range a {
		for _, r := range g {
			assert.False(t, seen[r.Rank])
			seen[r.Rank] = true
		}
	}
	assert.Len(t, seen, 20)
}

func TestPartition_DropsEmptyGroups(t *testing.T) {
	engine := seeding.NewEngine()

	groups, err := engine.Partition(seededPool(2), domain.SeriesSerpentine, 4, 8)
	require.NoError(t, err)
	assert.Len(t, groups, 2)
}

func TestPartition_Errors(t *testing.T) {
	engine := seeding.NewEngine()

	_, err := engine.Partition(seededPool(3), domain.SeriesMethod("NOPE"), 1, 8)
	assert.ErrorIs(t, err, seeding.ErrUnknownSeriesMethod)

	_, err = engine.Partition(seededPool(3), domain.SeriesSerpentine, 0, 8)
	assert.ErrorIs(t, err, seeding.ErrInvalidHeatsCount)

	_, err = engine.Partition(seededPool(3), domain.SeriesSeedTime, 1, 0)
	assert.ErrorIs(t, err, seeding.ErrInvalidMaxLanes)

	groups, err := engine.Partition(nil, domain.SeriesSeedTime, 1, 8)
	assert.NoError(t, err)
	assert.Empty(t, groups)
}

func TestDefaultHeatsCount(t *testing.T) {
	assert.Equal(t, 3, seeding.DefaultHeatsCount(17, 8))
	assert.Equal(t, 2, seeding.DefaultHeatsCount(16, 8))
	assert.Equal(t, 1, seeding.DefaultHeatsCount(1, 8))
	assert.Equal(t, 1, seeding.DefaultHeatsCount(0, 8))
}

func TestHeatsCountFor(t *testing.T) {
	tests := []struct {
		method   domain.SeriesMethod
		n        int
		maxLanes int
		want     int
	}{
		{domain.SeriesSerpentine, 17, 8, 3},
		{domain.SeriesByResultIndoor, 17, 8, 3},
		{domain.SeriesByResultIndoor, 9, 3, 5},
		{domain.SeriesByResultIndoor, 25, 5, 7},
		{domain.SeriesByResultIndoor, 5, 1, 5},
		{domain.SeriesByResultIndoor, 0, 6, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, seeding.HeatsCountFor(tt.method, tt.n, tt.maxLanes), "%s n=%d lanes=%d", tt.method, tt.n, tt.maxLanes)
	}
}
