package handlers_test

import (
	"net/http"
	"testing"

	"github.com/dom/trackmeet/internal/domain"
	"github.com/dom/trackmeet/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompetitionHandler_Create(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, organizer := testutil.NewUserBuilder().WithRole(domain.UserRoleOrganizer).BuildAndAuthenticate(t, ts)
	_, viewer := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	tests := []struct {
		name           string
		token          string
		request        map[string]interface{}
		expectedStatus int
	}{
		{
			name:           "organizer creates indoor meeting",
			token:          organizer,
			request:        map[string]interface{}{"name": "Indoor Open", "startDate": "2026-02-01T00:00:00Z", "indoor": true},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing name",
			token:          organizer,
			request:        map[string]interface{}{"startDate": "2026-02-01T00:00:00Z"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "end before start",
			token: organizer,
			request: map[string]interface{}{
				"name":      "Backwards",
				"startDate": "2026-02-02T00:00:00Z",
				"endDate":   "2026-02-01T00:00:00Z",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "viewer is forbidden",
			token:          viewer,
			request:        map[string]interface{}{"name": "Nope", "startDate": "2026-02-01T00:00:00Z"},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, "POST", ts.APIURL("/competitions"), tt.request, tt.token)
			defer resp.Body.Close()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestCompetitionHandler_EventsAndRegistrations(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, organizer := testutil.NewUserBuilder().WithRole(domain.UserRoleOrganizer).BuildAndAuthenticate(t, ts)
	_, viewer := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	resp := do(t, "POST", ts.APIURL("/competitions"),
		map[string]interface{}{"name": "Indoor Open", "startDate": "2026-02-01T00:00:00Z", "indoor": true}, organizer)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var competition domain.Competition
	testutil.AssertJSONResponse(t, resp, &competition)
	resp.Body.Close()

	resp = do(t, "POST", ts.APIURL("/competitions/"+competition.ID.String()+"/events"),
		map[string]interface{}{"name": "60m Men", "discipline": "60m", "gender": "M"}, organizer)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var event domain.Event
	testutil.AssertJSONResponse(t, resp, &event)
	resp.Body.Close()
	assert.Equal(t, 6, event.LaneCount, "indoor events default to six lanes")
	assert.Equal(t, domain.EventKindTrack, event.Kind)

	resp = do(t, "POST", ts.APIURL("/competitions/"+competition.ID.String()+"/events"),
		map[string]interface{}{"name": "Bad", "discipline": "60m", "gender": "M", "kind": "SWIM"}, organizer)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, "GET", ts.APIURL("/competitions/"+competition.ID.String()+"/events"), nil, viewer)
	var events []domain.Event
	testutil.AssertJSONResponse(t, resp, &events)
	resp.Body.Close()
	require.Len(t, events, 1)

	resp = do(t, "POST", ts.APIURL("/athletes"),
		map[string]interface{}{"firstName": "Ada", "lastName": "Hopper", "club": "AC Lane", "gender": "F"}, organizer)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var athlete domain.Athlete
	testutil.AssertJSONResponse(t, resp, &athlete)
	resp.Body.Close()

	resp = do(t, "GET", ts.APIURL("/athletes?search=hop"), nil, viewer)
	var found []domain.Athlete
	testutil.AssertJSONResponse(t, resp, &found)
	resp.Body.Close()
	require.Len(t, found, 1)
	assert.Equal(t, athlete.ID, found[0].ID)

	registrationsURL := ts.APIURL("/events/" + event.ID.String() + "/registrations")
	register := map[string]interface{}{"athleteId": athlete.ID.String(), "bibNumber": "101", "seedTime": "6.71"}

	resp = do(t, "POST", registrationsURL, register, organizer)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var registration domain.Registration
	testutil.AssertJSONResponse(t, resp, &registration)
	resp.Body.Close()

	resp = do(t, "POST", registrationsURL, register, organizer)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = do(t, "PATCH", ts.APIURL("/registrations/"+registration.ID.String()+"/status"),
		map[string]string{"status": "WITHDRAWN"}, organizer)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// the only entry is withdrawn, so there is nobody to seed
	resp = do(t, "POST", ts.APIURL("/events/"+event.ID.String()+"/heats/auto-assign"),
		map[string]interface{}{"round": "FINAL", "method": "STRAIGHT_FINAL"}, organizer)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, "DELETE", ts.APIURL("/registrations/"+registration.ID.String()), nil, organizer)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, "DELETE", ts.APIURL("/registrations/"+registration.ID.String()), nil, organizer)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp, err := http.Get(ts.BaseURL() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.BaseURL() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
