package seeding

import (
	"slices"

	"github.com/dom/trackmeet/internal/domain"
)

// bandTables lists, per policy and lane count, the lanes drawn for each rank
// band. Rank 1 takes the first lane of the first band.
var bandTables = map[domain.LaneMethod]map[int][][]int{
	domain.LaneWASprintsStraight: {
		8: {{3, 4, 5, 6}, {7, 8}, {1, 2}},
		9: {{4, 5, 6}, {3, 7, 8}, {1, 2, 9}},
	},
	domain.LaneWA200m: {
		8: {{5, 6, 7}, {3, 4, 8}, {1, 2}},
		9: {{5, 6, 7}, {4, 8, 9}, {1, 2, 3}},
	},
	domain.LaneWA400m800m: {
		8: {{4, 5, 6, 7}, {3, 8}, {1, 2}},
		9: {{5, 6, 7}, {4, 8, 9}, {1, 2, 3}},
	},
	domain.LaneWAHalvesAndPairs: {
		8: {{3, 4, 5, 6}, {2, 7}, {1, 8}},
	},
	domain.LaneWA9Lanes: {
		9: {{4, 5, 6}, {3, 7, 8}, {1, 2, 9}},
	},
	domain.LaneWA6Lanes: {
		6: {{3, 4}, {2, 5}, {1, 6}},
	},
}

var finalLaneOrders = map[int][]int{
	8: {4, 5, 3, 6, 2, 7, 1, 8},
	6: {3, 4, 2, 5, 1, 6},
}

// FinalLaneOrder returns lanes from best to worst for a track of maxLanes
// lanes, starting in the middle and alternating outward.
func FinalLaneOrder(maxLanes int) []int {
	if order, ok := finalLaneOrders[maxLanes]; ok {
		return slices.Clone(order)
	}
	if maxLanes < 1 {
		return nil
	}

	center := (maxLanes + 1) / 2
	order := []int{center}
	for i := 1; len(order) < maxLanes && i < 2*maxLanes; i++ {
		lane := center - i/2
		if i%2 == 1 {
			lane = center + (i+1)/2
		}
		if lane >= 1 && lane <= maxLanes {
			order = append(order, lane)
		}
	}
	return order
}

// laneBands resolves the bands for a band policy. ok is false when the
// policy has no table for this lane count.
func laneBands(method domain.LaneMethod, maxLanes int) ([][]int, bool) {
	if method == domain.LaneHalfAndHalf {
		return halfAndHalf(maxLanes), maxLanes > 0
	}
	byCount, ok := bandTables[method]
	if !ok {
		return nil, false
	}
	bands, ok := byCount[maxLanes]
	return bands, ok
}

func halfAndHalf(maxLanes int) [][]int {
	order := FinalLaneOrder(maxLanes)
	split := (len(order) + 1) / 2
	inner := slices.Clone(order[:split])
	outer := slices.Clone(order[split:])
	slices.Sort(inner)
	slices.Sort(outer)
	return [][]int{inner, outer}
}

func isBandMethod(method domain.LaneMethod) bool {
	if method == domain.LaneHalfAndHalf {
		return true
	}
	_, ok := bandTables[method]
	return ok
}
