package handlers

import (
	"net/http"

	"github.com/dom/trackmeet/internal/domain"
	"github.com/dom/trackmeet/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RegistrationHandler struct {
	registrationService *service.RegistrationService
	logger              *zap.Logger
}

func NewRegistrationHandler(registrationService *service.RegistrationService, logger *zap.Logger) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService, logger: logger}
}

type RegisterAthleteRequest struct {
	AthleteID    uuid.UUID `json:"athleteId" validate:"required"`
	BibNumber    string    `json:"bibNumber" validate:"max=20"`
	SeedTime     *string   `json:"seedTime" validate:"omitempty,max=20"`
	SeasonBest   *string   `json:"seasonBest" validate:"omitempty,max=20"`
	PersonalBest *string   `json:"personalBest" validate:"omitempty,max=20"`
}

type SetStatusRequest struct {
	Status domain.RegistrationStatus `json:"status" validate:"required"`
}

func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	eventID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req RegisterAthleteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	registration, err := h.registrationService.Register(r.Context(), service.RegisterAthleteInput{
		EventID:      eventID,
		AthleteID:    req.AthleteID,
		BibNumber:    req.BibNumber,
		SeedTime:     req.SeedTime,
		SeasonBest:   req.SeasonBest,
		PersonalBest: req.PersonalBest,
	})
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, registration)
}

func (h *RegistrationHandler) List(w http.ResponseWriter, r *http.Request) {
	eventID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	registrations, err := h.registrationService.ListByEvent(r.Context(), eventID)
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, registrations)
}

func (h *RegistrationHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req SetStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	registration, err := h.registrationService.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, registration)
}

func (h *RegistrationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.registrationService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
