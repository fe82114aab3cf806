package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dom/trackmeet/internal/domain"
	"github.com/dom/trackmeet/internal/service"
	"github.com/dom/trackmeet/internal/startlist"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type HeatHandler struct {
	heatService        *service.HeatService
	competitionService *service.CompetitionService
	logger             *zap.Logger
}

func NewHeatHandler(heatService *service.HeatService, competitionService *service.CompetitionService, logger *zap.Logger) *HeatHandler {
	return &HeatHandler{
		heatService:        heatService,
		competitionService: competitionService,
		logger:             logger,
	}
}

type AutoAssignRequest struct {
	Round          domain.Round        `json:"round" validate:"required"`
	Method         domain.SeriesMethod `json:"method" validate:"required"`
	MaxLanes       int                 `json:"maxLanes" validate:"gte=0"`
	HeatsCount     int                 `json:"heatsCount" validate:"gte=0"`
	FinalistsCount int                 `json:"finalistsCount" validate:"gte=0"`
}

type AdvancedAutoAssignRequest struct {
	Round           domain.Round           `json:"round" validate:"required"`
	SeriesMethod    domain.SeriesMethod    `json:"seriesMethod" validate:"required"`
	LaneMethod      domain.LaneMethod      `json:"laneMethod" validate:"required"`
	MaxLanes        int                    `json:"maxLanes" validate:"gte=0"`
	HeatsCount      int                    `json:"heatsCount" validate:"gte=0"`
	FinalistsCount  int                    `json:"finalistsCount" validate:"gte=0"`
	MaxLanesIndoor  int                    `json:"maxLanesIndoor" validate:"gte=0"`
	SeedingCriteria domain.SeedingCriteria `json:"seedingCriteria"`
}

type AutoAssignResponse struct {
	HeatsCreated         int                 `json:"heatsCreated"`
	ParticipantsAssigned int                 `json:"participantsAssigned"`
	SeriesMethod         domain.SeriesMethod `json:"seriesMethod"`
	LaneMethod           domain.LaneMethod   `json:"laneMethod"`
	Heats                []*domain.Heat      `json:"heats"`
}

type ManualAssignmentRequest struct {
	RegistrationID uuid.UUID `json:"registrationId" validate:"required"`
	Lane           int       `json:"lane" validate:"required,gte=1"`
}

type CreateHeatRequest struct {
	HeatNumber    int                       `json:"heatNumber" validate:"required,gte=1"`
	Round         domain.Round              `json:"round" validate:"required"`
	MaxLanes      int                       `json:"maxLanes" validate:"gte=0"`
	ScheduledTime *time.Time                `json:"scheduledTime"`
	Notes         *string                   `json:"notes"`
	Assignments   []ManualAssignmentRequest `json:"assignments" validate:"dive"`
}

type UpdateHeatRequest struct {
	ScheduledTime *time.Time `json:"scheduledTime"`
	Notes         *string    `json:"notes"`
	MaxLanes      *int       `json:"maxLanes" validate:"omitempty,gte=1"`
}

type PresenceRequest struct {
	IsPresent *bool `json:"isPresent" validate:"required"`
}

func toAutoAssignResponse(result *service.AutoAssignResult) AutoAssignResponse {
	heats := result.Heats
	if heats == nil {
		heats = []*domain.Heat{}
	}
	return AutoAssignResponse{
		HeatsCreated:         result.HeatsCreated,
		ParticipantsAssigned: result.ParticipantsAssigned,
		SeriesMethod:         result.SeriesMethod,
		LaneMethod:           result.LaneMethod,
		Heats:                heats,
	}
}

func (h *HeatHandler) AutoAssign(w http.ResponseWriter, r *http.Request) {
	eventID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req AutoAssignRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.heatService.AutoAssign(r.Context(), service.AutoAssignInput{
		EventID:        eventID,
		Round:          req.Round,
		Method:         req.Method,
		MaxLanes:       req.MaxLanes,
		HeatsCount:     req.HeatsCount,
		FinalistsCount: req.FinalistsCount,
	})
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toAutoAssignResponse(result))
}

func (h *HeatHandler) AdvancedAutoAssign(w http.ResponseWriter, r *http.Request) {
	eventID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req AdvancedAutoAssignRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.heatService.AdvancedAutoAssign(r.Context(), service.AdvancedAutoAssignInput{
		EventID:         eventID,
		Round:           req.Round,
		SeriesMethod:    req.SeriesMethod,
		LaneMethod:      req.LaneMethod,
		MaxLanes:        req.MaxLanes,
		HeatsCount:      req.HeatsCount,
		FinalistsCount:  req.FinalistsCount,
		MaxLanesIndoor:  req.MaxLanesIndoor,
		SeedingCriteria: req.SeedingCriteria,
	})
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toAutoAssignResponse(result))
}

// List returns the heats of one round, or of every round when ?round= is absent
func (h *HeatHandler) List(w http.ResponseWriter, r *http.Request) {
	eventID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	round, ok := roundParam(w, r, false)
	if !ok {
		return
	}

	heats, err := h.heatService.ListHeats(r.Context(), eventID, round)
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}
	if heats == nil {
		heats = []*domain.Heat{}
	}

	writeJSON(w, http.StatusOK, heats)
}

func (h *HeatHandler) Create(w http.ResponseWriter, r *http.Request) {
	eventID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req CreateHeatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	assignments := make([]service.ManualAssignmentInput, len(req.Assignments))
	for i, a := range req.Assignments {
		assignments[i] = service.ManualAssignmentInput{RegistrationID: a.RegistrationID, Lane: a.Lane}
	}

	heat, err := h.heatService.CreateHeat(r.Context(), service.CreateHeatInput{
		EventID:       eventID,
		HeatNumber:    req.HeatNumber,
		Round:         req.Round,
		MaxLanes:      req.MaxLanes,
		ScheduledTime: req.ScheduledTime,
		Notes:         req.Notes,
		Assignments:   assignments,
	})
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, heat)
}

func (h *HeatHandler) DeleteRound(w http.ResponseWriter, r *http.Request) {
	eventID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	round, ok := roundParam(w, r, true)
	if !ok {
		return
	}

	if err := h.heatService.DeleteRound(r.Context(), eventID, round); err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// StartList streams the round as an xlsx workbook
func (h *HeatHandler) StartList(w http.ResponseWriter, r *http.Request) {
	eventID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	round, ok := roundParam(w, r, true)
	if !ok {
		return
	}

	event, err := h.competitionService.GetEvent(r.Context(), eventID)
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}
	heats, err := h.heatService.ListHeats(r.Context(), eventID, round)
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	f, err := startlist.Generate(event, round, heats)
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("%s-%s.xlsx", strings.ReplaceAll(strings.ToLower(event.Name), " ", "-"), strings.ToLower(string(round)))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := f.Write(w); err != nil {
		h.logger.Warn("failed to write start list",
			zap.String("eventId", eventID.String()),
			zap.Error(err))
	}
}

func (h *HeatHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	heat, err := h.heatService.GetHeat(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, heat)
}

func (h *HeatHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req UpdateHeatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	heat, err := h.heatService.UpdateHeat(r.Context(), id, service.UpdateHeatInput{
		ScheduledTime: req.ScheduledTime,
		Notes:         req.Notes,
		MaxLanes:      req.MaxLanes,
	})
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, heat)
}

func (h *HeatHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.heatService.DeleteHeat(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *HeatHandler) SetPresence(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req PresenceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	assignment, err := h.heatService.SetPresence(r.Context(), id, *req.IsPresent)
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, assignment)
}
