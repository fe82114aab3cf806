package domain

// SeriesMethod selects how participants are divided into heats
type SeriesMethod string

const (
	SeriesStraightFinal      SeriesMethod = "STRAIGHT_FINAL"
	SeriesSeedTime           SeriesMethod = "SEED_TIME"
	SeriesSerpentine         SeriesMethod = "SERPENTINE"
	SeriesRandom             SeriesMethod = "RANDOM"
	SeriesAlphabeticalNumber SeriesMethod = "ALPHABETICAL_NUMBER"
	SeriesAlphabeticalName   SeriesMethod = "ALPHABETICAL_NAME"
	SeriesRoundRobin         SeriesMethod = "ROUND_ROBIN"
	SeriesZigzag             SeriesMethod = "ZIGZAG"
	SeriesByResult           SeriesMethod = "BY_RESULT"
	SeriesByResultIndoor     SeriesMethod = "BY_RESULT_INDOOR"
)

// AllSeriesMethods lists every partitioning policy
var AllSeriesMethods = []SeriesMethod{
	SeriesStraightFinal,
	SeriesSeedTime,
	SeriesSerpentine,
	SeriesRandom,
	SeriesAlphabeticalNumber,
	SeriesAlphabeticalName,
	SeriesRoundRobin,
	SeriesZigzag,
	SeriesByResult,
	SeriesByResultIndoor,
}

// IsValid checks if a series method is known
func (m SeriesMethod) IsValid() bool {
	for _, method := range AllSeriesMethods {
		if m == method {
			return true
		}
	}
	return false
}

// IsIndoor reports whether the method follows indoor seeding rules
func (m SeriesMethod) IsIndoor() bool {
	return m == SeriesByResultIndoor
}

// SimpleAutoAssignMethods are the methods accepted by the simple auto-assign path
var SimpleAutoAssignMethods = []SeriesMethod{
	SeriesStraightFinal,
	SeriesSeedTime,
	SeriesSerpentine,
	SeriesRandom,
}

// IsSimple reports whether the method may be used with simple auto-assign
func (m SeriesMethod) IsSimple() bool {
	for _, method := range SimpleAutoAssignMethods {
		if m == method {
			return true
		}
	}
	return false
}

// LaneMethod selects how participants of one heat are placed into lanes
type LaneMethod string

const (
	LaneBestToWorst       LaneMethod = "BEST_TO_WORST"
	LaneWorstToBest       LaneMethod = "WORST_TO_BEST"
	LaneStandardOutside   LaneMethod = "STANDARD_OUTSIDE"
	LaneStandardInside    LaneMethod = "STANDARD_INSIDE"
	LaneWaterfall         LaneMethod = "WATERFALL"
	LaneWaterfallReverse  LaneMethod = "WATERFALL_REVERSE"
	LaneHalfAndHalf       LaneMethod = "HALF_AND_HALF"
	LaneWAHalvesAndPairs  LaneMethod = "WA_HALVES_AND_PAIRS"
	LaneWASprintsStraight LaneMethod = "WA_SPRINTS_STRAIGHT"
	LaneWA200m            LaneMethod = "WA_200M"
	LaneWA400m800m        LaneMethod = "WA_400M_800M"
	LaneWA9Lanes          LaneMethod = "WA_9_LANES"
	LaneWA6Lanes          LaneMethod = "WA_6_LANES"
	LanePairs             LaneMethod = "PAIRS"
	LanePairsIndoor       LaneMethod = "PAIRS_INDOOR"
	LaneBestInCenter      LaneMethod = "BEST_IN_CENTER"
	LaneRandom            LaneMethod = "RANDOM"
)

// AllLaneMethods lists every lane policy
var AllLaneMethods = []LaneMethod{
	LaneBestToWorst,
	LaneWorstToBest,
	LaneStandardOutside,
	LaneStandardInside,
	LaneWaterfall,
	LaneWaterfallReverse,
	LaneHalfAndHalf,
	LaneWAHalvesAndPairs,
	LaneWASprintsStraight,
	LaneWA200m,
	LaneWA400m800m,
	LaneWA9Lanes,
	LaneWA6Lanes,
	LanePairs,
	LanePairsIndoor,
	LaneBestInCenter,
	LaneRandom,
}

// IsValid checks if a lane method is known
func (m LaneMethod) IsValid() bool {
	for _, method := range AllLaneMethods {
		if m == method {
			return true
		}
	}
	return false
}

// IsIndoor reports whether the method follows indoor seeding rules
func (m LaneMethod) IsIndoor() bool {
	return m == LanePairsIndoor
}

// SeedingCriteria selects which mark ranks first when several are known
type SeedingCriteria string

const (
	CriteriaSeedTime     SeedingCriteria = "SEED_TIME"
	CriteriaSeasonBest   SeedingCriteria = "SEASON_BEST"
	CriteriaPersonalBest SeedingCriteria = "PERSONAL_BEST"
)

// IsValid checks if a seeding criteria value is known
func (c SeedingCriteria) IsValid() bool {
	switch c {
	case CriteriaSeedTime, CriteriaSeasonBest, CriteriaPersonalBest:
		return true
	}
	return false
}
