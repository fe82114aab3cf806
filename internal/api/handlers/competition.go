package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dom/trackmeet/internal/api/middleware"
	"github.com/dom/trackmeet/internal/domain"
	"github.com/dom/trackmeet/internal/service"
	"go.uber.org/zap"
)

type CompetitionHandler struct {
	competitionService *service.CompetitionService
	logger             *zap.Logger
}

func NewCompetitionHandler(competitionService *service.CompetitionService, logger *zap.Logger) *CompetitionHandler {
	return &CompetitionHandler{competitionService: competitionService, logger: logger}
}

type CreateCompetitionRequest struct {
	Name      string    `json:"name" validate:"required,max=200"`
	Venue     string    `json:"venue" validate:"max=200"`
	StartDate time.Time `json:"startDate" validate:"required"`
	EndDate   time.Time `json:"endDate"`
	Indoor    bool      `json:"indoor"`
}

type CreateEventRequest struct {
	Name        string           `json:"name" validate:"required,max=200"`
	Discipline  string           `json:"discipline" validate:"required,max=50"`
	Kind        domain.EventKind `json:"kind" validate:"omitempty,oneof=TRACK FIELD ROAD COMBINED"`
	Gender      domain.Gender    `json:"gender" validate:"required"`
	LaneCount   int              `json:"laneCount" validate:"gte=0,lte=20"`
	ScheduledAt *time.Time       `json:"scheduledAt"`
}

func (h *CompetitionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateCompetitionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	competition, err := h.competitionService.CreateCompetition(r.Context(), service.CreateCompetitionInput{
		Name:      req.Name,
		Venue:     req.Venue,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Indoor:    req.Indoor,
		CreatedBy: userID,
	})
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, competition)
}

func (h *CompetitionHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	competitions, err := h.competitionService.ListCompetitions(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, competitions)
}

func (h *CompetitionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	competition, err := h.competitionService.GetCompetition(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, competition)
}

func (h *CompetitionHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	competitionID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req CreateEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	event, err := h.competitionService.CreateEvent(r.Context(), service.CreateEventInput{
		CompetitionID: competitionID,
		Name:          req.Name,
		Discipline:    req.Discipline,
		Kind:          req.Kind,
		Gender:        req.Gender,
		LaneCount:     req.LaneCount,
		ScheduledAt:   req.ScheduledAt,
	})
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

func (h *CompetitionHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	competitionID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	events, err := h.competitionService.ListEvents(r.Context(), competitionID)
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, events)
}

func (h *CompetitionHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	event, err := h.competitionService.GetEvent(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, event)
}

// pagination reads limit and offset. Bad values fall through as zero and
// the service applies its defaults.
func pagination(r *http.Request) (int, int) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}
