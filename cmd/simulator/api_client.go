package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dom/trackmeet/internal/domain"
)

// APIClient handles HTTP communication with the backend
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL + "/api/v1",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

type AuthResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type AutoAssignResponse struct {
	HeatsCreated         int            `json:"heatsCreated"`
	ParticipantsAssigned int            `json:"participantsAssigned"`
	SeriesMethod         string         `json:"seriesMethod"`
	LaneMethod           string         `json:"laneMethod"`
	Heats                []*domain.Heat `json:"heats"`
}

// Login authenticates and keeps the access token for later calls
func (c *APIClient) Login(displayName, password string) (*User, error) {
	var result AuthResponse
	if err := c.do("POST", "/auth/login", map[string]string{
		"displayName": displayName,
		"password":    password,
	}, http.StatusOK, &result); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	c.token = result.AccessToken
	return &result.User, nil
}

// Register creates a user and keeps its access token
func (c *APIClient) Register(displayName, password string) (*User, error) {
	var result AuthResponse
	if err := c.do("POST", "/auth/register", map[string]string{
		"displayName": displayName,
		"password":    password,
	}, http.StatusOK, &result); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	c.token = result.AccessToken
	return &result.User, nil
}

func (c *APIClient) CreateCompetition(s *Scenario) (*domain.Competition, error) {
	var competition domain.Competition
	err := c.do("POST", "/competitions", map[string]interface{}{
		"name":      s.Competition.Name,
		"venue":     s.Competition.Venue,
		"startDate": s.Competition.Date,
		"indoor":    s.Competition.Indoor,
	}, http.StatusCreated, &competition)
	return &competition, err
}

func (c *APIClient) CreateEvent(competitionID string, e EventSpec) (*domain.Event, error) {
	var event domain.Event
	err := c.do("POST", "/competitions/"+competitionID+"/events", map[string]interface{}{
		"name":       e.Name,
		"discipline": e.Discipline,
		"kind":       e.Kind,
		"gender":     e.Gender,
		"laneCount":  e.LaneCount,
	}, http.StatusCreated, &event)
	return &event, err
}

func (c *APIClient) CreateAthlete(a AthleteSpec, gender string) (*domain.Athlete, error) {
	var athlete domain.Athlete
	err := c.do("POST", "/athletes", map[string]interface{}{
		"firstName": a.FirstName,
		"lastName":  a.LastName,
		"club":      a.Club,
		"gender":    gender,
	}, http.StatusCreated, &athlete)
	return &athlete, err
}

func (c *APIClient) RegisterAthlete(eventID string, athleteID string, a AthleteSpec) (*domain.Registration, error) {
	body := map[string]interface{}{
		"athleteId": athleteID,
		"bibNumber": a.Bib,
	}
	if a.Seed != "" {
		body["seedTime"] = a.Seed
	}
	if a.SeasonBest != "" {
		body["seasonBest"] = a.SeasonBest
	}
	if a.PersonalBest != "" {
		body["personalBest"] = a.PersonalBest
	}

	var registration domain.Registration
	err := c.do("POST", "/events/"+eventID+"/registrations", body, http.StatusCreated, &registration)
	return &registration, err
}

// Assign runs the simple path when only Method is set, the advanced path otherwise
func (c *APIClient) Assign(eventID string, a AssignSpec) (*AutoAssignResponse, error) {
	path := "/events/" + eventID + "/heats/auto-assign"
	body := map[string]interface{}{
		"round":          a.Round,
		"maxLanes":       a.MaxLanes,
		"heatsCount":     a.HeatsCount,
		"finalistsCount": a.Finalists,
	}
	if a.Advanced() {
		path = "/events/" + eventID + "/heats/advanced-auto-assign"
		body["seriesMethod"] = a.SeriesMethod
		body["laneMethod"] = a.LaneMethod
		body["maxLanesIndoor"] = a.MaxLanesIndoor
		body["seedingCriteria"] = a.Criteria
	} else {
		body["method"] = a.Method
	}

	var result AutoAssignResponse
	err := c.do("POST", path, body, http.StatusOK, &result)
	return &result, err
}

// DownloadStartList fetches the xlsx start list of one round
func (c *APIClient) DownloadStartList(eventID, round string) ([]byte, error) {
	resp, err := c.request("GET", "/events/"+eventID+"/heats/startlist.xlsx?round="+round, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("start list failed (status %d): %s", resp.StatusCode, string(data))
	}
	return data, nil
}

func (c *APIClient) do(method, path string, body interface{}, expected int, out interface{}) error {
	resp, err := c.request(method, path, body)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != expected {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s failed (status %d): %s", method, path, resp.StatusCode, bytes.TrimSpace(bodyBytes))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *APIClient) request(method, path string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.httpClient.Do(req)
}
