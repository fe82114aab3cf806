package seeding

import (
	"slices"
	"strings"

	"github.com/dom/trackmeet/internal/domain"
	"github.com/google/uuid"
)

// Participant is a registration as the engine sees it. The engine never modifies it.
type Participant struct {
	RegistrationID uuid.UUID
	FirstName      string
	LastName       string
	BibNumber      string
	SeedTime       *string
	SeasonBest     *string
	PersonalBest   *string
}

// Ranked annotates a participant with its parsed best mark and its 1-based
// rank in the best-first ordering of the whole pool. BestMark is nil when
// the participant has no mark at all.
type Ranked struct {
	Participant
	BestMark *float64
	Rank     int
}

// Mark returns the first non-empty mark in the order given by criteria
func (p Participant) Mark(criteria domain.SeedingCriteria) (string, bool) {
	var order []*string
	switch criteria {
	case domain.CriteriaSeasonBest:
		order = []*string{p.SeasonBest, p.PersonalBest, p.SeedTime}
	case domain.CriteriaPersonalBest:
		order = []*string{p.PersonalBest, p.SeasonBest, p.SeedTime}
	default:
		order = []*string{p.SeedTime, p.SeasonBest, p.PersonalBest}
	}

	for _, m := range order {
		if m != nil && strings.TrimSpace(*m) != "" {
			return *m, true
		}
	}
	return "", false
}

// RankBySeed orders participants best first using seed time, then season
// best, then personal best.
func RankBySeed(participants []Participant, timeBased bool) []Ranked {
	return RankWithCriteria(participants, timeBased, domain.CriteriaSeedTime)
}

// RankWithCriteria orders participants best first. Timed events rank
// ascending and field events descending. Participants without a mark keep
// their input order at the end.
func RankWithCriteria(participants []Participant, timeBased bool, criteria domain.SeedingCriteria) []Ranked {
	pool := Annotate(participants, timeBased, criteria)
	return byRank(pool)
}

// Annotate computes every participant's rank but keeps the input order.
// Policies that ignore marks partition this slice as is.
func Annotate(participants []Participant, timeBased bool, criteria domain.SeedingCriteria) []Ranked {
	pool := make([]Ranked, len(participants))
	for i, p := range participants {
		pool[i] = Ranked{Participant: p}
		if mark, ok := p.Mark(criteria); ok {
			v := ParseMark(mark, timeBased)
			pool[i].BestMark = &v
		}
	}

	order := make([]int, len(pool))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return compareMarks(pool[a].BestMark, pool[b].BestMark, timeBased)
	})
	for rank, idx := range order {
		pool[idx].Rank = rank + 1
	}

	return pool
}

func compareMarks(a, b *float64, timeBased bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}

	x, y := *a, *b
	if !timeBased {
		x, y = y, x
	}
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

// byRank returns a copy sorted by Rank
func byRank(pool []Ranked) []Ranked {
	out := slices.Clone(pool)
	slices.SortStableFunc(out, func(a, b Ranked) int {
		return a.Rank - b.Rank
	})
	return out
}
