package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"

	"github.com/dom/trackmeet/internal/domain"
	"gopkg.in/yaml.v3"
)

// Scenario describes a meet to build through the API
type Scenario struct {
	Competition CompetitionSpec `yaml:"competition"`
	Events      []EventSpec     `yaml:"events"`
}

type CompetitionSpec struct {
	Name   string `yaml:"name"`
	Venue  string `yaml:"venue"`
	Date   string `yaml:"date"` // RFC 3339
	Indoor bool   `yaml:"indoor"`
}

type EventSpec struct {
	Name       string        `yaml:"name"`
	Discipline string        `yaml:"discipline"`
	Kind       string        `yaml:"kind"`
	Gender     string        `yaml:"gender"`
	LaneCount  int           `yaml:"laneCount"`
	Athletes   []AthleteSpec `yaml:"athletes"`
	// Generate adds that many synthetic athletes after the listed ones
	Generate int          `yaml:"generate"`
	Assign   []AssignSpec `yaml:"assign"`
}

type AthleteSpec struct {
	FirstName    string `yaml:"firstName"`
	LastName     string `yaml:"lastName"`
	Club         string `yaml:"club"`
	Bib          string `yaml:"bib"`
	Seed         string `yaml:"seed"`
	SeasonBest   string `yaml:"sb"`
	PersonalBest string `yaml:"pb"`
}

type AssignSpec struct {
	Round          string `yaml:"round"`
	Method         string `yaml:"method"`
	SeriesMethod   string `yaml:"series"`
	LaneMethod     string `yaml:"lanes"`
	MaxLanes       int    `yaml:"maxLanes"`
	MaxLanesIndoor int    `yaml:"maxLanesIndoor"`
	HeatsCount     int    `yaml:"heats"`
	Finalists      int    `yaml:"finalists"`
	Criteria       string `yaml:"criteria"`
}

// Advanced reports whether the step names its own lane policy
func (a AssignSpec) Advanced() bool {
	return a.SeriesMethod != "" || a.LaneMethod != ""
}

// LoadScenario reads and checks a scenario file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate catches unknown enum values before anything is sent to the server
func (s *Scenario) Validate() error {
	if s.Competition.Name == "" {
		return errors.New("competition.name is required")
	}
	if s.Competition.Date == "" {
		s.Competition.Date = "2026-06-01T00:00:00Z"
	}
	if len(s.Events) == 0 {
		return errors.New("at least one event is required")
	}

	for i := range s.Events {
		e := &s.Events[i]
		if e.Name == "" {
			return fmt.Errorf("events[%d]: name is required", i)
		}
		if e.Discipline == "" {
			e.Discipline = e.Name
		}
		if e.Kind == "" {
			e.Kind = string(domain.EventKindTrack)
		}
		if !domain.EventKind(e.Kind).IsValid() {
			return fmt.Errorf("events[%d]: unknown kind %q", i, e.Kind)
		}
		if e.Gender == "" {
			e.Gender = string(domain.GenderMixed)
		}
		if !domain.Gender(e.Gender).IsValid() {
			return fmt.Errorf("events[%d]: unknown gender %q", i, e.Gender)
		}

		for j, a := range e.Assign {
			if !domain.Round(a.Round).IsValid() {
				return fmt.Errorf("events[%d].assign[%d]: unknown round %q", i, j, a.Round)
			}
			if a.Advanced() {
				if !domain.SeriesMethod(a.SeriesMethod).IsValid() {
					return fmt.Errorf("events[%d].assign[%d]: unknown series method %q", i, j, a.SeriesMethod)
				}
				if !domain.LaneMethod(a.LaneMethod).IsValid() {
					return fmt.Errorf("events[%d].assign[%d]: unknown lane method %q", i, j, a.LaneMethod)
				}
				if a.Method != "" {
					return fmt.Errorf("events[%d].assign[%d]: method cannot be combined with series/lanes", i, j)
				}
				continue
			}
			if !domain.SeriesMethod(a.Method).IsSimple() {
				return fmt.Errorf("events[%d].assign[%d]: %q is not a simple method", i, j, a.Method)
			}
		}
	}
	return nil
}

var (
	firstNames = []string{"Ada", "Bruno", "Chiara", "Dmitri", "Elif", "Femi", "Greta", "Hugo", "Ines", "Jonas", "Kaia", "Luca"}
	lastNames  = []string{"Adeyemi", "Berg", "Costa", "Dubois", "Eriksen", "Fischer", "García", "Horvat", "Ivanova", "Jansen", "Kowalski", "Lindqvist"}
	clubs      = []string{"AC Lane", "Harriers", "Stadium TC", "Track Union"}
)

// Roster returns the listed athletes followed by Generate synthetic ones.
// Synthetic seeds spread around base so every seeding method has work to do.
func (e EventSpec) Roster(rng *rand.Rand) []AthleteSpec {
	roster := make([]AthleteSpec, 0, len(e.Athletes)+e.Generate)
	roster = append(roster, e.Athletes...)

	base := baseMark(e.Discipline)
	for i := 0; i < e.Generate; i++ {
		a := AthleteSpec{
			FirstName: firstNames[rng.IntN(len(firstNames))],
			LastName:  lastNames[rng.IntN(len(lastNames))],
			Club:      clubs[rng.IntN(len(clubs))],
			Bib:       strconv.Itoa(100 + len(e.Athletes) + i),
		}
		// leave a few without a mark so the unseeded path is exercised
		if rng.IntN(10) > 0 {
			a.Seed = strconv.FormatFloat(base*(1+rng.Float64()*0.12), 'f', 2, 64)
		}
		roster = append(roster, a)
	}
	return roster
}

func baseMark(discipline string) float64 {
	switch discipline {
	case "60m":
		return 6.6
	case "100m":
		return 10.3
	case "200m":
		return 20.8
	case "400m":
		return 46.0
	}
	return 10.0
}
