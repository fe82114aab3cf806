package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/dom/trackmeet/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertJSONResponse decodes JSON response into v and verifies success
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	err = json.Unmarshal(body, v)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
}

// AssertErrorResponse verifies error response with expected status and message
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	// Error responses are plain text in this API
	assert.Contains(t, string(body), expectedMessage, "error message mismatch")
}

// AssertValidRound checks that every lane of every heat is inside the heat's
// capacity, no lane is used twice in a heat, and no registration appears in
// two heats of the round
func AssertValidRound(t *testing.T, heats []*domain.Heat) {
	t.Helper()

	seen := make(map[uuid.UUID]int)
	for _, h := range heats {
		lanes := make(map[int]bool)
		for _, a := range h.Assignments {
			assert.GreaterOrEqual(t, a.Lane, 1, "heat %d: lane below 1", h.HeatNumber)
			assert.LessOrEqual(t, a.Lane, h.MaxLanes, "heat %d: lane %d above max %d", h.HeatNumber, a.Lane, h.MaxLanes)
			assert.False(t, lanes[a.Lane], "heat %d: lane %d used twice", h.HeatNumber, a.Lane)
			lanes[a.Lane] = true

			if prev, ok := seen[a.RegistrationID]; ok {
				t.Errorf("registration %s in heats %d and %d", a.RegistrationID, prev, h.HeatNumber)
			}
			seen[a.RegistrationID] = h.HeatNumber
		}
	}
}

// HeatSizes returns the number of assignments per heat in heat order
func HeatSizes(heats []*domain.Heat) []int {
	sizes := make([]int, len(heats))
	for i, h := range heats {
		sizes[i] = len(h.Assignments)
	}
	return sizes
}
