package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dom/trackmeet/internal/domain"
	"github.com/dom/trackmeet/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeJSON reads the body into v and runs struct validation on it.
// An error has already been written to w when ok is false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	if err := validate.Struct(v); err != nil {
		http.Error(w, validationMessage(err), http.StatusBadRequest)
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return "Invalid request: " + strings.Join(msgs, "; ")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	json.NewEncoder(w).Encode(v)
}

func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		http.Error(w, "Invalid "+name, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func roundParam(w http.ResponseWriter, r *http.Request, required bool) (domain.Round, bool) {
	round := domain.Round(strings.ToUpper(r.URL.Query().Get("round")))
	if round == "" && !required {
		return "", true
	}
	if !round.IsValid() {
		http.Error(w, service.ErrInvalidRound.Error(), http.StatusBadRequest)
		return "", false
	}
	return round, true
}

var notFoundErrors = []error{
	service.ErrEventNotFound,
	service.ErrCompetitionNotFound,
	service.ErrAthleteNotFound,
	service.ErrRegistrationNotFound,
	service.ErrHeatNotFound,
	service.ErrAssignmentNotFound,
	service.ErrUserNotFound,
}

var conflictErrors = []error{
	service.ErrHeatExists,
	service.ErrAlreadyRegistered,
	service.ErrDisplayNameExists,
}

var badRequestErrors = []error{
	service.ErrNameRequired,
	service.ErrInvalidDateRange,
	service.ErrInvalidStatus,
	domain.ErrInvalidRound,
	domain.ErrInvalidEventKind,
	domain.ErrInvalidGender,
	domain.ErrInvalidUserRole,
	domain.ErrInvalidLaneCount,
}

func matchAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// writeServiceError maps service errors to HTTP status codes. Anything
// unrecognised is logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, r *http.Request, err error) {
	switch {
	case matchAny(err, notFoundErrors):
		http.Error(w, err.Error(), http.StatusNotFound)
	case matchAny(err, conflictErrors):
		http.Error(w, err.Error(), http.StatusConflict)
	case service.IsBadRequest(err), matchAny(err, badRequestErrors):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrSessionExpired):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	default:
		logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
