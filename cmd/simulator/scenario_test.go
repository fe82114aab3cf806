package main

import (
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario_Example(t *testing.T) {
	s, err := LoadScenario("scenarios/indoor.yaml")
	require.NoError(t, err)

	assert.True(t, s.Competition.Indoor)
	require.Len(t, s.Events, 2)

	sixty := s.Events[0]
	assert.Equal(t, "TRACK", sixty.Kind, "kind defaults to track")
	require.Len(t, sixty.Assign, 3)
	assert.False(t, sixty.Assign[0].Advanced())
	assert.True(t, sixty.Assign[1].Advanced())
	assert.Equal(t, 6, sixty.Assign[1].MaxLanesIndoor)
	assert.Equal(t, "SEASON_BEST", s.Events[1].Assign[0].Criteria)
}

func TestParseScenario_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing competition name",
			yaml:    "events: [{name: 100m}]",
			wantErr: "competition.name",
		},
		{
			name:    "no events",
			yaml:    "competition: {name: Meet}",
			wantErr: "at least one event",
		},
		{
			name:    "unknown round",
			yaml:    "competition: {name: Meet}\nevents: [{name: 100m, assign: [{round: HEAT, method: SEED_TIME}]}]",
			wantErr: "unknown round",
		},
		{
			name:    "advanced method on simple step",
			yaml:    "competition: {name: Meet}\nevents: [{name: 100m, assign: [{round: FINAL, method: ZIGZAG}]}]",
			wantErr: "not a simple method",
		},
		{
			name:    "unknown lane method",
			yaml:    "competition: {name: Meet}\nevents: [{name: 100m, assign: [{round: FINAL, series: SEED_TIME, lanes: CENTER}]}]",
			wantErr: "unknown lane method",
		},
		{
			name:    "mixed simple and advanced",
			yaml:    "competition: {name: Meet}\nevents: [{name: 100m, assign: [{round: FINAL, method: SEED_TIME, series: SEED_TIME, lanes: WA_200M}]}]",
			wantErr: "cannot be combined",
		},
		{
			name:    "bad gender",
			yaml:    "competition: {name: Meet}\nevents: [{name: 100m, gender: Q}]",
			wantErr: "unknown gender",
		},
		{
			name:    "not yaml",
			yaml:    "competition: [",
			wantErr: "parse scenario",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEventSpec_Roster(t *testing.T) {
	spec := EventSpec{
		Discipline: "100m",
		Athletes:   []AthleteSpec{{LastName: "Listed", Bib: "7"}},
		Generate:   20,
	}

	roster := spec.Roster(rand.New(rand.NewPCG(1, 1)))
	require.Len(t, roster, 21)
	assert.Equal(t, "Listed", roster[0].LastName)

	bibs := map[string]bool{}
	for _, a := range roster[1:] {
		assert.NotEmpty(t, a.LastName)
		assert.False(t, bibs[a.Bib], "bib %s repeated", a.Bib)
		bibs[a.Bib] = true
		if a.Seed != "" {
			mark, err := strconv.ParseFloat(a.Seed, 64)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, mark, 10.3)
			assert.LessOrEqual(t, mark, 10.3*1.12+0.01)
		}
	}

	again := spec.Roster(rand.New(rand.NewPCG(1, 1)))
	assert.Equal(t, roster, again, "same seed gives the same roster")
}
