package seeding

import (
	"fmt"
	"slices"

	"github.com/dom/trackmeet/internal/domain"
)

// Assigner places the athletes of one heat into lanes
type Assigner interface {
	AssignLanes(group []Ranked, method domain.LaneMethod, maxLanes int) ([]LaneAssignment, error)
}

// LaneAssignment is one athlete's lane in a heat. SeedRank is the athlete's
// position in the heat's best-first ordering.
type LaneAssignment struct {
	Participant Ranked
	Lane        int
	SeedRank    int
	Method      domain.LaneMethod
}

// laneFormulas map a 1-based position to a lane. n is the heat size.
var laneFormulas = map[domain.LaneMethod]func(pos, n, maxLanes int) int{
	domain.LaneBestToWorst:      func(pos, _, _ int) int { return pos },
	domain.LaneWorstToBest:      func(pos, n, _ int) int { return n + 1 - pos },
	domain.LaneStandardInside:   func(pos, _, _ int) int { return pos },
	domain.LaneStandardOutside:  func(pos, _, maxLanes int) int { return maxLanes + 1 - pos },
	domain.LaneWaterfall:        func(pos, _, _ int) int { return pos },
	domain.LaneWaterfallReverse: func(pos, _, maxLanes int) int { return maxLanes + 1 - pos },
}

// AssignLanes returns the heat's assignments sorted by lane
func (e *Engine) AssignLanes(group []Ranked, method domain.LaneMethod, maxLanes int) ([]LaneAssignment, error) {
	if maxLanes < 1 {
		return nil, ErrInvalidMaxLanes
	}
	if len(group) > maxLanes {
		return nil, fmt.Errorf("%w: %d athletes for %d lanes", ErrGroupExceedsLanes, len(group), maxLanes)
	}

	ordered := byRank(group)
	var lanes []int

	switch {
	case laneFormulas[method] != nil:
		formula := laneFormulas[method]
		lanes = make([]int, len(ordered))
		for i := range ordered {
			lanes[i] = formula(i+1, len(ordered), maxLanes)
		}
	case isBandMethod(method):
		if bands, ok := laneBands(method, maxLanes); ok {
			lanes = slices.Concat(bands...)
		} else {
			lanes = FinalLaneOrder(maxLanes)
		}
	case method == domain.LaneBestInCenter:
		lanes = FinalLaneOrder(maxLanes)
	case method == domain.LanePairs:
		lanes = e.pairLanes(FinalLaneOrder(maxLanes))
	case method == domain.LanePairsIndoor:
		lanes = indoorPairLanes(maxLanes)
	case method == domain.LaneRandom:
		lanes = e.randomLanes(len(ordered))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownLaneMethod, method)
	}

	out := make([]LaneAssignment, len(ordered))
	for i, r := range ordered {
		out[i] = LaneAssignment{
			Participant: r,
			Lane:        lanes[i],
			SeedRank:    i + 1,
			Method:      method,
		}
	}
	slices.SortFunc(out, func(a, b LaneAssignment) int {
		return a.Lane - b.Lane
	})
	return out, nil
}

// pairLanes walks order two lanes at a time and flips each pair at random
func (e *Engine) pairLanes(order []int) []int {
	lanes := slices.Clone(order)
	for i := 0; i+1 < len(lanes); i += 2 {
		if e.coinFlip() {
			lanes[i], lanes[i+1] = lanes[i+1], lanes[i]
		}
	}
	return lanes
}

// indoorPairLanes fills (maxLanes-1, maxLanes) first, better rank outside
func indoorPairLanes(maxLanes int) []int {
	lanes := make([]int, 0, maxLanes)
	for hi := maxLanes; hi >= 1; hi -= 2 {
		lanes = append(lanes, hi)
		if hi-1 >= 1 {
			lanes = append(lanes, hi-1)
		}
	}
	return lanes
}

func (e *Engine) randomLanes(n int) []int {
	lanes := make([]int, n)
	for i := range lanes {
		lanes[i] = i + 1
	}
	e.shuffle(n, func(i, j int) {
		lanes[i], lanes[j] = lanes[j], lanes[i]
	})
	return lanes
}
