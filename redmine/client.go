// Package redmine is a thin client for the Redmine REST API surface the
// reconciler consumes: time entries and project activity lookups.
package redmine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const listPageSize = 100

// Client defines the remote time-entry operations.
type Client interface {
	ListTimeEntries(ctx context.Context, projectID, userID int64, spentOn string) ([]TimeEntry, int, error)
	CreateTimeEntry(ctx context.Context, entry NewTimeEntry) (int64, error)
	DeleteTimeEntry(ctx context.Context, id int64) error
	FetchActivityMap(ctx context.Context, projectID int64) (ActivityMap, error)
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type ClientConfig struct {
	BaseURL    string
	APIKey     string
	UserAgent  string
	HTTPClient httpDoer
}

type HTTPClient struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient httpDoer
}

func NewClient(cfg ClientConfig) (*HTTPClient, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errors.New("base URL is required")
	}
	baseURL = strings.TrimRight(baseURL, "/")

	parsedBase, err := url.Parse(baseURL)
	if err != nil || parsedBase.Scheme == "" || parsedBase.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("API key is required")
	}

	doer := cfg.HTTPClient
	if doer == nil {
		doer = &http.Client{Timeout: 30 * time.Second}
	}

	return &HTTPClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		userAgent:  strings.TrimSpace(cfg.UserAgent),
		httpClient: doer,
	}, nil
}

// Ref is an id/name reference nested inside a time entry.
type Ref struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

// TimeEntry is a server-owned record of hours spent by a user on a date.
type TimeEntry struct {
	ID       int64   `json:"id"`
	Project  Ref     `json:"project"`
	Issue    Ref     `json:"issue"`
	User     Ref     `json:"user"`
	Activity Ref     `json:"activity"`
	Hours    float64 `json:"hours"`
	SpentOn  string  `json:"spent_on"`
	Comments string  `json:"comments"`
}

// NewTimeEntry is the creation payload for POST /time_entries.json.
type NewTimeEntry struct {
	IssueID    int64   `json:"issue_id"`
	SpentOn    string  `json:"spent_on"`
	Hours      float64 `json:"hours"`
	ActivityID int64   `json:"activity_id"`
	UserID     int64   `json:"user_id,omitempty"`
	Comments   string  `json:"comments,omitempty"`
}

// ActivityMap maps normalized activity display names to activity ids.
type ActivityMap map[string]int64

// Resolve looks up an activity id by display name, tolerating case and
// whitespace differences.
func (m ActivityMap) Resolve(name string) (int64, bool) {
	id, ok := m[normalizeName(name)]
	return id, ok
}

// RemoteError reports a failed API call: a transport error or a non-2xx
// response with its status and truncated body.
type RemoteError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
	Err        error
}

func (e *RemoteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request %s %s failed: %v", e.Method, e.Path, e.Err)
	}
	return fmt.Sprintf("request %s %s failed with status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

type timeEntriesResponse struct {
	TimeEntries []TimeEntry `json:"time_entries"`
	TotalCount  int         `json:"total_count"`
	Offset      int         `json:"offset"`
	Limit       int         `json:"limit"`
}

type createTimeEntryRequest struct {
	TimeEntry NewTimeEntry `json:"time_entry"`
}

type createTimeEntryResponse struct {
	TimeEntry TimeEntry `json:"time_entry"`
}

type projectResponse struct {
	Project struct {
		ID                  int64 `json:"id"`
		TimeEntryActivities []Ref `json:"time_entry_activities"`
	} `json:"project"`
}

// ListTimeEntries returns all time entries for project+user on the given
// date, following offset pagination, plus the server-reported total count.
func (c *HTTPClient) ListTimeEntries(ctx context.Context, projectID, userID int64, spentOn string) ([]TimeEntry, int, error) {
	entries := make([]TimeEntry, 0, listPageSize)
	offset := 0
	total := 0

	for {
		query := url.Values{}
		query.Set("project_id", strconv.FormatInt(projectID, 10))
		query.Set("user_id", strconv.FormatInt(userID, 10))
		query.Set("spent_on", spentOn)
		query.Set("limit", strconv.Itoa(listPageSize))
		query.Set("offset", strconv.Itoa(offset))

		var page timeEntriesResponse
		if err := c.doJSON(ctx, http.MethodGet, "/time_entries.json?"+query.Encode(), nil, &page); err != nil {
			return nil, 0, err
		}

		entries = append(entries, page.TimeEntries...)
		total = page.TotalCount
		offset += len(page.TimeEntries)
		if len(page.TimeEntries) == 0 || offset >= total {
			break
		}
	}

	return entries, total, nil
}

// CreateTimeEntry creates one time entry and returns its server id.
func (c *HTTPClient) CreateTimeEntry(ctx context.Context, entry NewTimeEntry) (int64, error) {
	var out createTimeEntryResponse
	if err := c.doJSON(ctx, http.MethodPost, "/time_entries.json", createTimeEntryRequest{TimeEntry: entry}, &out); err != nil {
		return 0, err
	}
	return out.TimeEntry.ID, nil
}

func (c *HTTPClient) DeleteTimeEntry(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/time_entries/%d.json", id), nil, nil)
}

// FetchActivityMap loads the project's time-entry activities and returns a
// name-to-id map keyed by normalized display name.
func (c *HTTPClient) FetchActivityMap(ctx context.Context, projectID int64) (ActivityMap, error) {
	path := fmt.Sprintf("/projects/%d.json?include=time_entry_activities", projectID)
	var out projectResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}

	activities := make(ActivityMap, len(out.Project.TimeEntryActivities))
	for _, activity := range out.Project.TimeEntryActivities {
		key := normalizeName(activity.Name)
		if key == "" {
			continue
		}
		if _, exists := activities[key]; exists {
			continue
		}
		activities[key] = activity.ID
	}
	return activities, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, endpointPath string, body any, out any) error {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	requestURL := c.baseURL + endpointPath
	req, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return fmt.Errorf("create request %s %s: %w", method, endpointPath, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Redmine-API-Key", c.apiKey)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RemoteError{Method: method, Path: endpointPath, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &RemoteError{
			Method:     method,
			Path:       endpointPath,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(responseBody)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response %s %s: %w", method, endpointPath, err)
	}
	return nil
}

func normalizeName(value string) string {
	return strings.ToLower(strings.Join(strings.Fields(strings.TrimSpace(value)), " "))
}
