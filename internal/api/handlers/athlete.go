package handlers

import (
	"net/http"
	"time"

	"github.com/dom/trackmeet/internal/domain"
	"github.com/dom/trackmeet/internal/service"
	"go.uber.org/zap"
)

type AthleteHandler struct {
	athleteService *service.AthleteService
	logger         *zap.Logger
}

func NewAthleteHandler(athleteService *service.AthleteService, logger *zap.Logger) *AthleteHandler {
	return &AthleteHandler{athleteService: athleteService, logger: logger}
}

type CreateAthleteRequest struct {
	FirstName string        `json:"firstName" validate:"max=100"`
	LastName  string        `json:"lastName" validate:"required,max=100"`
	Club      string        `json:"club" validate:"max=200"`
	Gender    domain.Gender `json:"gender" validate:"required,oneof=M F X"`
	BirthDate *time.Time    `json:"birthDate"`
}

func (h *AthleteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAthleteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	athlete, err := h.athleteService.Create(r.Context(), service.CreateAthleteInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Club:      req.Club,
		Gender:    req.Gender,
		BirthDate: req.BirthDate,
	})
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, athlete)
}

// List supports ?search= matching the start of either name
func (h *AthleteHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	athletes, err := h.athleteService.List(r.Context(), r.URL.Query().Get("search"), limit, offset)
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, athletes)
}

func (h *AthleteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	athlete, err := h.athleteService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, athlete)
}
