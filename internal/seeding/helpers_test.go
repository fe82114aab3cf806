package seeding_test

import (
	"fmt"

	"github.com/dom/trackmeet/internal/domain"
	"github.com/dom/trackmeet/internal/seeding"
	"github.com/google/uuid"
)

func strPtr(s string) *string {
	return &s
}

func participant(name string, seed *string) seeding.Participant {
	return seeding.Participant{
		RegistrationID: uuid.New(),
		FirstName:      name,
		LastName:       name,
		SeedTime:       seed,
	}
}

// seededPool returns n participants in input order whose seed times make
// participant i the (i+1)th fastest
func seededPool(n int) []seeding.Ranked {
	participants := make([]seeding.Participant, n)
	for i := range participants {
		participants[i] = participant(fmt.Sprintf("P%02d", i+1), strPtr(fmt.Sprintf("%.2f", 10.0+float64(i)*0.1)))
	}
	return seeding.Annotate(participants, true, domain.CriteriaSeedTime)
}

func ranks(group []seeding.Ranked) []int {
	out := make([]int, len(group))
	for i, r := range group {
		out[i] = r.Rank
	}
	return out
}

func names(group []seeding.Ranked) []string {
	out := make([]string, len(group))
	for i, r := range group {
		out[i] = r.FirstName
	}
	return out
}
