package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dom/trackmeet/internal/domain"
	"github.com/dom/trackmeet/internal/metrics"
	"github.com/dom/trackmeet/internal/repository"
	"github.com/dom/trackmeet/internal/seeding"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound           = errors.New("event not found")
	ErrNoParticipants          = errors.New("no participants registered for this event")
	ErrUnsupportedSimpleMethod = errors.New("method is only available through advanced auto-assign")
	ErrInvalidMethod           = errors.New("invalid seeding method")
	ErrInvalidRound            = errors.New("invalid round")
	ErrInvalidCriteria         = errors.New("invalid seeding criteria")
	ErrInvalidMaxLanes         = errors.New("max lanes must be at least 1")
	ErrInvalidHeatsCount       = errors.New("heats count must not be negative")
	ErrInvalidFinalistsCount   = errors.New("finalists count must not be negative")
	ErrHeatExists              = errors.New("heat number already exists for this round")
	ErrHeatNotFound            = errors.New("heat not found")
	ErrAssignmentNotFound      = errors.New("assignment not found")
	ErrInvalidHeatNumber       = errors.New("heat number must be at least 1")
	ErrInvalidLane             = errors.New("lane out of range or already taken")
	ErrRegistrationNotInEvent  = errors.New("registration does not belong to this event")
	ErrAlreadyAssigned         = errors.New("registration already has a lane in this round")
	ErrMaxLanesBelowAssigned   = errors.New("max lanes is lower than an assigned lane")
)

// IsBadRequest reports whether err is caused by the request rather than the system
func IsBadRequest(err error) bool {
	for _, target := range []error{
		ErrNoParticipants, ErrUnsupportedSimpleMethod, ErrInvalidMethod, ErrInvalidRound,
		ErrInvalidCriteria, ErrInvalidMaxLanes, ErrInvalidHeatsCount, ErrInvalidFinalistsCount,
		ErrInvalidHeatNumber, ErrInvalidLane, ErrRegistrationNotInEvent, ErrAlreadyAssigned,
		ErrMaxLanesBelowAssigned,
		seeding.ErrStraightFinalCapacity, seeding.ErrGroupExceedsLanes, seeding.ErrUnknownSeriesMethod,
		seeding.ErrUnknownLaneMethod, seeding.ErrInvalidHeatsCount, seeding.ErrInvalidMaxLanes,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// HeatNotifier is told whenever the heats of a round change
type HeatNotifier interface {
	HeatsUpdated(eventID uuid.UUID, round domain.Round, heats []*domain.Heat)
}

type HeatService struct {
	eventRepo        repository.EventRepository
	heatRepo         repository.HeatRepository
	registrationRepo repository.RegistrationRepository
	engine           *seeding.Engine
	notifier         HeatNotifier
	metrics          *metrics.Manager
	logger           *zap.Logger
	defaultMaxLanes  int
}

func NewHeatService(
	eventRepo repository.EventRepository,
	heatRepo repository.HeatRepository,
	registrationRepo repository.RegistrationRepository,
	engine *seeding.Engine,
	logger *zap.Logger,
	defaultMaxLanes int,
) *HeatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultMaxLanes < 1 {
		defaultMaxLanes = domain.DefaultLaneCount
	}
	return &HeatService{
		eventRepo:        eventRepo,
		heatRepo:         heatRepo,
		registrationRepo: registrationRepo,
		engine:           engine,
		logger:           logger,
		defaultMaxLanes:  defaultMaxLanes,
	}
}

// SetNotifier wires the subscriber push. The hub is built after the services.
func (s *HeatService) SetNotifier(n HeatNotifier) {
	s.notifier = n
}

func (s *HeatService) SetMetrics(m *metrics.Manager) {
	s.metrics = m
}

// AutoAssignInput drives the simple path. Zero MaxLanes uses the event's
// lane count, zero HeatsCount the fewest heats that fit, zero
// FinalistsCount keeps everyone.
type AutoAssignInput struct {
	EventID        uuid.UUID
	Round          domain.Round
	Method         domain.SeriesMethod
	MaxLanes       int
	HeatsCount     int
	FinalistsCount int
}

// AdvancedAutoAssignInput chooses series and lane policies independently.
// MaxLanesIndoor replaces MaxLanes when either policy is an indoor variant.
type AdvancedAutoAssignInput struct {
	EventID         uuid.UUID
	Round           domain.Round
	SeriesMethod    domain.SeriesMethod
	LaneMethod      domain.LaneMethod
	MaxLanes        int
	HeatsCount      int
	FinalistsCount  int
	MaxLanesIndoor  int
	SeedingCriteria domain.SeedingCriteria
}

type AutoAssignResult struct {
	HeatsCreated         int
	ParticipantsAssigned int
	SeriesMethod         domain.SeriesMethod
	LaneMethod           domain.LaneMethod
	Heats                []*domain.Heat
}

// seedingPlan is a validated auto-assign request
type seedingPlan struct {
	eventID        uuid.UUID
	round          domain.Round
	series         domain.SeriesMethod
	lane           domain.LaneMethod
	maxLanes       int
	maxLanesIndoor int
	heatsCount     int
	finalists      int
	criteria       domain.SeedingCriteria
	tag            string
	simple         bool
}

// seedingParams is stored on each heat to record how it was formed
type seedingParams struct {
	Simple          bool                   `json:"simple"`
	SeriesMethod    domain.SeriesMethod    `json:"seriesMethod"`
	LaneMethod      domain.LaneMethod      `json:"laneMethod"`
	MaxLanes        int                    `json:"maxLanes"`
	HeatsCount      int                    `json:"heatsCount"`
	FinalistsCount  int                    `json:"finalistsCount,omitempty"`
	SeedingCriteria domain.SeedingCriteria `json:"seedingCriteria"`
	Participants    int                    `json:"participants"`
}

func (s *HeatService) AutoAssign(ctx context.Context, input AutoAssignInput) (*AutoAssignResult, error) {
	if !input.Method.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, input.Method)
	}
	if !input.Method.IsSimple() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSimpleMethod, input.Method)
	}

	lane := domain.LaneBestInCenter
	if input.Method == domain.SeriesRandom {
		lane = domain.LaneRandom
	}

	return s.run(ctx, seedingPlan{
		eventID:    input.EventID,
		round:      input.Round,
		series:     input.Method,
		lane:       lane,
		maxLanes:   input.MaxLanes,
		heatsCount: input.HeatsCount,
		finalists:  input.FinalistsCount,
		criteria:   domain.CriteriaSeedTime,
		tag:        string(input.Method),
		simple:     true,
	})
}

func (s *HeatService) AdvancedAutoAssign(ctx context.Context, input AdvancedAutoAssignInput) (*AutoAssignResult, error) {
	if !input.SeriesMethod.IsValid() {
		return nil, fmt.Errorf("%w: series method %q", ErrInvalidMethod, input.SeriesMethod)
	}
	if !input.LaneMethod.IsValid() {
		return nil, fmt.Errorf("%w: lane method %q", ErrInvalidMethod, input.LaneMethod)
	}

	criteria := input.SeedingCriteria
	if criteria == "" {
		criteria = domain.CriteriaSeedTime
	}
	if !criteria.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCriteria, criteria)
	}
	if input.MaxLanesIndoor < 0 {
		return nil, ErrInvalidMaxLanes
	}

	return s.run(ctx, seedingPlan{
		eventID:        input.EventID,
		round:          input.Round,
		series:         input.SeriesMethod,
		lane:           input.LaneMethod,
		maxLanes:       input.MaxLanes,
		maxLanesIndoor: input.MaxLanesIndoor,
		heatsCount:     input.HeatsCount,
		finalists:      input.FinalistsCount,
		criteria:       criteria,
		tag:            string(input.SeriesMethod) + "/" + string(input.LaneMethod),
	})
}

// run forms every heat in memory and commits the round in one transaction,
// so a rejected request leaves the previous heats in place.
func (s *HeatService) run(ctx context.Context, plan seedingPlan) (result *AutoAssignResult, err error) {
	start := time.Now()
	defer func() {
		heats, athletes := 0, 0
		if result != nil {
			heats, athletes = result.HeatsCreated, result.ParticipantsAssigned
		}
		s.metrics.ObserveAutoAssign(string(plan.series), string(plan.lane), err, time.Since(start), heats, athletes)
	}()

	if !plan.round.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRound, plan.round)
	}
	if plan.maxLanes < 0 {
		return nil, ErrInvalidMaxLanes
	}
	if plan.heatsCount < 0 {
		return nil, ErrInvalidHeatsCount
	}
	if plan.finalists < 0 {
		return nil, ErrInvalidFinalistsCount
	}

	event, registrations, err := s.eventRepo.GetWithParticipants(ctx, plan.eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if len(registrations) == 0 {
		return nil, ErrNoParticipants
	}

	maxLanes := s.resolveMaxLanes(plan, event)
	pool := seeding.Annotate(toParticipants(registrations), event.IsTimeBased(), plan.criteria)
	pool = keepFinalists(pool, plan.finalists)

	heatsCount := plan.heatsCount
	if heatsCount == 0 {
		heatsCount = seeding.HeatsCountFor(plan.series, len(pool), maxLanes)
	}

	groups, err := s.engine.Partition(pool, plan.series, heatsCount, maxLanes)
	if err != nil {
		return nil, err
	}

	params, err := json.Marshal(seedingParams{
		Simple:          plan.simple,
		SeriesMethod:    plan.series,
		LaneMethod:      plan.lane,
		MaxLanes:        maxLanes,
		HeatsCount:      heatsCount,
		FinalistsCount:  plan.finalists,
		SeedingCriteria: plan.criteria,
		Participants:    len(pool),
	})
	if err != nil {
		return nil, err
	}

	heats := make([]*domain.Heat, 0, len(groups))
	assigned := 0
	for i, group := range groups {
		lanes, err := s.engine.AssignLanes(group, plan.lane, maxLanes)
		if err != nil {
			return nil, fmt.Errorf("heat %d: %w", i+1, err)
		}
		heat := buildHeat(plan, event.ID, i+1, maxLanes, params, lanes)
		assigned += len(heat.Assignments)
		heats = append(heats, heat)
	}

	if err := s.heatRepo.ReplaceRound(ctx, event.ID, plan.round, heats); err != nil {
		s.logger.Error("failed to commit heats",
			zap.String("eventId", event.ID.String()),
			zap.String("round", string(plan.round)),
			zap.Error(err))
		return nil, err
	}

	saved, err := s.heatRepo.GetByEventAndRound(ctx, event.ID, plan.round)
	if err != nil {
		return nil, err
	}
	s.notify(event.ID, plan.round, saved)

	s.logger.Info("heats assigned",
		zap.String("eventId", event.ID.String()),
		zap.String("round", string(plan.round)),
		zap.String("method", plan.tag),
		zap.Int("heats", len(saved)),
		zap.Int("athletes", assigned))

	return &AutoAssignResult{
		HeatsCreated:         len(saved),
		ParticipantsAssigned: assigned,
		SeriesMethod:         plan.series,
		LaneMethod:           plan.lane,
		Heats:                saved,
	}, nil
}

func (s *HeatService) resolveMaxLanes(plan seedingPlan, event *domain.Event) int {
	maxLanes := plan.maxLanes
	if maxLanes == 0 {
		maxLanes = event.LaneCount
	}
	if maxLanes <= 0 {
		maxLanes = s.defaultMaxLanes
	}
	if plan.maxLanesIndoor > 0 && (plan.series.IsIndoor() || plan.lane.IsIndoor()) {
		maxLanes = plan.maxLanesIndoor
	}
	return maxLanes
}

func toParticipants(registrations []*domain.Registration) []seeding.Participant {
	participants := make([]seeding.Participant, len(registrations))
	for i, reg := range registrations {
		p := seeding.Participant{
			RegistrationID: reg.ID,
			BibNumber:      reg.BibNumber,
			SeedTime:       reg.SeedTime,
			SeasonBest:     reg.SeasonBest,
			PersonalBest:   reg.PersonalBest,
		}
		if reg.Athlete != nil {
			p.FirstName = reg.Athlete.FirstName
			p.LastName = reg.Athlete.LastName
		}
		participants[i] = p
	}
	return participants
}

// keepFinalists drops everyone ranked below n, keeping input order
func keepFinalists(pool []seeding.Ranked, n int) []seeding.Ranked {
	if n <= 0 || n >= len(pool) {
		return pool
	}
	kept := make([]seeding.Ranked, 0, n)
	for _, r := range pool {
		if r.Rank <= n {
			kept = append(kept, r)
		}
	}
	return kept
}

func buildHeat(plan seedingPlan, eventID uuid.UUID, number, maxLanes int, params []byte, lanes []seeding.LaneAssignment) *domain.Heat {
	heat := &domain.Heat{
		ID:            uuid.New(),
		EventID:       eventID,
		HeatNumber:    number,
		Round:         plan.round,
		MaxLanes:      maxLanes,
		SeriesMethod:  string(plan.series),
		LaneMethod:    string(plan.lane),
		SeedingParams: params,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
		Assignments:   make([]domain.HeatAssignment, len(lanes)),
	}

	for i, la := range lanes {
		var seedTime *string
		if la.Participant.SeedTime != nil {
			v := *la.Participant.SeedTime
			seedTime = &v
		}
		heat.Assignments[i] = domain.HeatAssignment{
			ID:               uuid.New(),
			HeatID:           heat.ID,
			RegistrationID:   la.Participant.RegistrationID,
			Lane:             la.Lane,
			SeedTime:         seedTime,
			SeedRank:         la.SeedRank,
			AssignmentMethod: plan.tag,
			IsPresent:        true,
			CreatedAt:        time.Now(),
		}
	}
	return heat
}

func (s *HeatService) notify(eventID uuid.UUID, round domain.Round, heats []*domain.Heat) {
	if s.notifier == nil {
		return
	}
	s.notifier.HeatsUpdated(eventID, round, heats)
}

// publish reloads a round and pushes it to subscribers
func (s *HeatService) publish(ctx context.Context, eventID uuid.UUID, round domain.Round) {
	if s.notifier == nil {
		return
	}
	heats, err := s.heatRepo.GetByEventAndRound(ctx, eventID, round)
	if err != nil {
		s.logger.Warn("failed to reload heats for subscribers",
			zap.String("eventId", eventID.String()),
			zap.Error(err))
		return
	}
	s.notify(eventID, round, heats)
}

type ManualAssignmentInput struct {
	RegistrationID uuid.UUID
	Lane           int
}

type CreateHeatInput struct {
	EventID       uuid.UUID
	HeatNumber    int
	Round         domain.Round
	MaxLanes      int
	ScheduledTime *time.Time
	Notes         *string
	Assignments   []ManualAssignmentInput
}

// CreateHeat adds a single heat by hand, optionally with lane assignments
func (s *HeatService) CreateHeat(ctx context.Context, input CreateHeatInput) (*domain.Heat, error) {
	if !input.Round.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRound, input.Round)
	}
	if input.HeatNumber < 1 {
		return nil, ErrInvalidHeatNumber
	}
	maxLanes := input.MaxLanes
	if maxLanes == 0 {
		maxLanes = domain.DefaultHeatMaxLanes
	}
	if maxLanes < 1 {
		return nil, ErrInvalidMaxLanes
	}

	event, err := s.eventRepo.GetByID(ctx, input.EventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	assignedInRound, err := s.registrationsInRound(ctx, event.ID, input.Round)
	if err != nil {
		return nil, err
	}

	heat := &domain.Heat{
		ID:            uuid.New(),
		EventID:       event.ID,
		HeatNumber:    input.HeatNumber,
		Round:         input.Round,
		MaxLanes:      maxLanes,
		ScheduledTime: input.ScheduledTime,
		Notes:         input.Notes,
		Assignments:   make([]domain.HeatAssignment, 0, len(input.Assignments)),
	}

	for _, a := range input.Assignments {
		if a.Lane < 1 || a.Lane > maxLanes || heat.LaneTaken(a.Lane) {
			return nil, fmt.Errorf("%w: lane %d", ErrInvalidLane, a.Lane)
		}
		if assignedInRound[a.RegistrationID] {
			return nil, ErrAlreadyAssigned
		}

		reg, err := s.registrationRepo.GetByID(ctx, a.RegistrationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrRegistrationNotInEvent
			}
			return nil, err
		}
		if reg.EventID != event.ID {
			return nil, ErrRegistrationNotInEvent
		}

		assignedInRound[a.RegistrationID] = true
		heat.Assignments = append(heat.Assignments, domain.HeatAssignment{
			ID:               uuid.New(),
			HeatID:           heat.ID,
			RegistrationID:   reg.ID,
			Lane:             a.Lane,
			SeedTime:         reg.SeedTime,
			SeedRank:         len(heat.Assignments) + 1,
			AssignmentMethod: "MANUAL",
			IsPresent:        true,
		})
	}

	if err := s.heatRepo.Create(ctx, heat); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrHeatExists
		}
		return nil, err
	}

	created, err := s.heatRepo.GetByID(ctx, heat.ID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, event.ID, input.Round)
	return created, nil
}

func (s *HeatService) registrationsInRound(ctx context.Context, eventID uuid.UUID, round domain.Round) (map[uuid.UUID]bool, error) {
	heats, err := s.heatRepo.GetByEventAndRound(ctx, eventID, round)
	if err != nil {
		return nil, err
	}
	seen := make(map[uuid.UUID]bool)
	for _, h := range heats {
		for _, a := range h.Assignments {
			seen[a.RegistrationID] = true
		}
	}
	return seen, nil
}

// ListHeats returns the heats of a round in heat order. An empty round lists every round.
func (s *HeatService) ListHeats(ctx context.Context, eventID uuid.UUID, round domain.Round) ([]*domain.Heat, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	if round != "" {
		if !round.IsValid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRound, round)
		}
		return s.heatRepo.GetByEventAndRound(ctx, eventID, round)
	}

	var all []*domain.Heat
	for _, r := range domain.AllRounds {
		heats, err := s.heatRepo.GetByEventAndRound(ctx, eventID, r)
		if err != nil {
			return nil, err
		}
		all = append(all, heats...)
	}
	return all, nil
}

func (s *HeatService) GetHeat(ctx context.Context, heatID uuid.UUID) (*domain.Heat, error) {
	heat, err := s.heatRepo.GetByID(ctx, heatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHeatNotFound
		}
		return nil, err
	}
	return heat, nil
}

// UpdateHeatInput holds the editable heat fields. Nil fields are left unchanged.
type UpdateHeatInput struct {
	ScheduledTime *time.Time
	Notes         *string
	MaxLanes      *int
}

func (s *HeatService) UpdateHeat(ctx context.Context, heatID uuid.UUID, input UpdateHeatInput) (*domain.Heat, error) {
	heat, err := s.GetHeat(ctx, heatID)
	if err != nil {
		return nil, err
	}

	if input.MaxLanes != nil {
		if *input.MaxLanes < 1 {
			return nil, ErrInvalidMaxLanes
		}
		for _, a := range heat.Assignments {
			if a.Lane > *input.MaxLanes {
				return nil, ErrMaxLanesBelowAssigned
			}
		}
		heat.MaxLanes = *input.MaxLanes
	}
	if input.ScheduledTime != nil {
		heat.ScheduledTime = input.ScheduledTime
	}
	if input.Notes != nil {
		heat.Notes = input.Notes
	}

	if err := s.heatRepo.Update(ctx, heat); err != nil {
		return nil, err
	}
	s.publish(ctx, heat.EventID, heat.Round)
	return heat, nil
}

func (s *HeatService) DeleteHeat(ctx context.Context, heatID uuid.UUID) error {
	heat, err := s.GetHeat(ctx, heatID)
	if err != nil {
		return err
	}
	if err := s.heatRepo.Delete(ctx, heat.ID); err != nil {
		return err
	}
	s.publish(ctx, heat.EventID, heat.Round)
	return nil
}

// DeleteRound removes every heat of a round. Deleting an empty round succeeds.
func (s *HeatService) DeleteRound(ctx context.Context, eventID uuid.UUID, round domain.Round) error {
	if !round.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidRound, round)
	}
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	if err := s.heatRepo.DeleteByRound(ctx, eventID, round); err != nil {
		return err
	}
	s.notify(eventID, round, []*domain.Heat{})
	return nil
}

// SetPresence marks an athlete as present or absent at the call room
func (s *HeatService) SetPresence(ctx context.Context, assignmentID uuid.UUID, present bool) (*domain.HeatAssignment, error) {
	if err := s.heatRepo.SetPresence(ctx, assignmentID, present); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	assignment, err := s.heatRepo.GetAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if assignment.Heat != nil {
		s.publish(ctx, assignment.Heat.EventID, assignment.Heat.Round)
	}
	return assignment, nil
}
