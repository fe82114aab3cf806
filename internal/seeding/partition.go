package seeding

import (
	"fmt"
	"slices"

	"github.com/dom/trackmeet/internal/domain"
)

// Partitioner splits a pool into heats. Group i becomes heat i+1.
type Partitioner interface {
	Partition(pool []Ranked, method domain.SeriesMethod, heatsCount, maxLanes int) ([][]Ranked, error)
}

type partitionFunc func(e *Engine, pool []Ranked, heatsCount, maxLanes int) ([][]Ranked, error)

var partitioners = map[domain.SeriesMethod]partitionFunc{
	domain.SeriesStraightFinal:      straightFinal,
	domain.SeriesSeedTime:           seedTimeBlocks,
	domain.SeriesSerpentine:         serpentine,
	domain.SeriesZigzag:             serpentine,
	domain.SeriesRandom:             randomBlocks,
	domain.SeriesAlphabeticalNumber: alphabeticalNumber,
	domain.SeriesAlphabeticalName:   alphabeticalName,
	domain.SeriesRoundRobin:         roundRobin,
	domain.SeriesByResult:           byResult,
	domain.SeriesByResultIndoor:     byResultIndoor,
}

// DefaultHeatsCount is the fewest heats that fit n athletes
func DefaultHeatsCount(n, maxLanes int) int {
	if n <= 0 || maxLanes <= 0 {
		return 1
	}
	return (n + maxLanes - 1) / maxLanes
}

// HeatsCountFor is DefaultHeatsCount adjusted for methods that place
// athletes in units larger than one. BY_RESULT_INDOOR needs enough heats
// to hold every ranked pair.
func HeatsCountFor(method domain.SeriesMethod, n, maxLanes int) int {
	if method != domain.SeriesByResultIndoor || maxLanes < 2 {
		return DefaultHeatsCount(n, maxLanes)
	}
	return DefaultHeatsCount((n+1)/2, maxLanes/2)
}

// Partition divides pool into non-empty groups. pool must be in input order
// with ranks filled in by Annotate. Members keep their pool rank.
func (e *Engine) Partition(pool []Ranked, method domain.SeriesMethod, heatsCount, maxLanes int) ([][]Ranked, error) {
	fn, ok := partitioners[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSeriesMethod, method)
	}
	if maxLanes < 1 {
		return nil, ErrInvalidMaxLanes
	}
	if heatsCount < 1 {
		return nil, ErrInvalidHeatsCount
	}
	if len(pool) == 0 {
		return nil, nil
	}

	groups, err := fn(e, pool, heatsCount, maxLanes)
	if err != nil {
		return nil, err
	}
	return dropEmpty(groups), nil
}

func straightFinal(_ *Engine, pool []Ranked, _, maxLanes int) ([][]Ranked, error) {
	if len(pool) > maxLanes {
		return nil, fmt.Errorf("%w: %d athletes for %d lanes", ErrStraightFinalCapacity, len(pool), maxLanes)
	}
	return [][]Ranked{byRank(pool)}, nil
}

// seedTimeBlocks puts the best block in heat 1
func seedTimeBlocks(_ *Engine, pool []Ranked, _, maxLanes int) ([][]Ranked, error) {
	return chunk(byRank(pool), maxLanes), nil
}

func serpentine(_ *Engine, pool []Ranked, heatsCount, _ int) ([][]Ranked, error) {
	ranked := byRank(pool)
	groups := make([][]Ranked, heatsCount)
	cycle := 2 * heatsCount
	for i, r := range ranked {
		pos := i % cycle
		g := pos
		if pos >= heatsCount {
			g = cycle - 1 - pos
		}
		groups[g] = append(groups[g], r)
	}
	return groups, nil
}

func randomBlocks(e *Engine, pool []Ranked, _, maxLanes int) ([][]Ranked, error) {
	shuffled := slices.Clone(pool)
	e.shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return chunk(shuffled, maxLanes), nil
}

func alphabeticalNumber(_ *Engine, pool []Ranked, heatsCount, _ int) ([][]Ranked, error) {
	sorted := slices.Clone(pool)
	slices.SortStableFunc(sorted, func(a, b Ranked) int {
		return ParseBibNumber(a.BibNumber) - ParseBibNumber(b.BibNumber)
	})
	return distributeEvenly(sorted, heatsCount), nil
}

func alphabeticalName(e *Engine, pool []Ranked, heatsCount, _ int) ([][]Ranked, error) {
	sorted := slices.Clone(pool)
	slices.SortStableFunc(sorted, func(a, b Ranked) int {
		return e.compareNames(a.LastName+a.FirstName, b.LastName+b.FirstName)
	})
	return distributeEvenly(sorted, heatsCount), nil
}

func roundRobin(_ *Engine, pool []Ranked, heatsCount, _ int) ([][]Ranked, error) {
	groups := make([][]Ranked, heatsCount)
	for i, r := range pool {
		groups[i%heatsCount] = append(groups[i%heatsCount], r)
	}
	return groups, nil
}

func byResult(_ *Engine, pool []Ranked, heatsCount, _ int) ([][]Ranked, error) {
	return distributeEvenly(byRank(pool), heatsCount), nil
}

// byResultIndoor keeps neighbours in the ranking together two at a time.
// A pair moves on to the next heat with room for it, and is split only when
// no heat can take both athletes.
func byResultIndoor(_ *Engine, pool []Ranked, heatsCount, maxLanes int) ([][]Ranked, error) {
	ranked := byRank(pool)
	groups := make([][]Ranked, heatsCount)
	for p := 0; 2*p < len(ranked); p++ {
		pair := ranked[2*p : min(2*p+2, len(ranked))]
		target := p % heatsCount
		if g, ok := firstWithRoom(groups, target, len(pair), maxLanes); ok {
			groups[g] = append(groups[g], pair...)
			continue
		}
		for _, r := range pair {
			g, ok := firstWithRoom(groups, target, 1, maxLanes)
			if !ok {
				g = target
			}
			groups[g] = append(groups[g], r)
		}
	}
	return groups, nil
}

// firstWithRoom scans groups from start, wrapping around, for one that can
// take size more athletes
func firstWithRoom(groups [][]Ranked, start, size, maxLanes int) (int, bool) {
	for i := range groups {
		g := (start + i) % len(groups)
		if len(groups[g])+size <= maxLanes {
			return g, true
		}
	}
	return 0, false
}

func distributeEvenly(list []Ranked, heatsCount int) [][]Ranked {
	perHeat := (len(list) + heatsCount - 1) / heatsCount
	groups := make([][]Ranked, heatsCount)
	for i, r := range list {
		g := i / perHeat
		if g >= heatsCount {
			continue
		}
		groups[g] = append(groups[g], r)
	}
	return groups
}

func chunk(list []Ranked, size int) [][]Ranked {
	var groups [][]Ranked
	for start := 0; start < len(list); start += size {
		end := min(start+size, len(list))
		groups = append(groups, list[start:end:end])
	}
	return groups
}

func dropEmpty(groups [][]Ranked) [][]Ranked {
	out := groups[:0]
	for _, g := range groups {
		if len(g) > 0 {
			out = append(out, g)
		}
	}
	return out
}
