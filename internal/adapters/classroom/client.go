// Package classroom is the coursework API client: active course lists and
// per-course assignment lists. Course tagging stays in the aggregator.
package classroom

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/magicpin/internal/domain"
	"github.com/bnema/magicpin/internal/ports"
)

const defaultBaseURL = "https://classroom.googleapis.com/v1"

const maxResponseBytes = 4 << 20

type Client struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

var _ ports.CourseworkClient = (*Client)(nil)

type courseListResponse struct {
	Courses []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"courses"`
}

type courseWorkResponse struct {
	CourseWork []courseWorkItem `json:"courseWork"`
}

type courseWorkItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	State       string   `json:"state"`
	MaxPoints   float64  `json:"maxPoints"`
	DueDate     *dueDate `json:"dueDate"`
	DueTime     *dueTime `json:"dueTime"`
}

type dueDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

type dueTime struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

func (c *Client) ListActiveCourses(ctx context.Context, token string) ([]domain.Course, error) {
	if token == "" {
		return nil, errors.New("bearer token is required")
	}

	endpoint := c.baseURL() + "/courses?courseStates=ACTIVE"

	var payload courseListResponse
	if err := c.getJSON(ctx, endpoint, token, &payload); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	courses := make([]domain.Course, 0, len(payload.Courses))
	for _, course := range payload.Courses {
		courses = append(courses, domain.Course{ID: course.ID, Name: course.Name})
	}

	return courses, nil
}

func (c *Client) ListCourseWork(ctx context.Context, token string, courseID string) ([]domain.AssignmentRecord, error) {
	if token == "" {
		return nil, errors.New("bearer token is required")
	}
	if courseID == "" {
		return nil, errors.New("course id is required")
	}

	endpoint := fmt.Sprintf("%s/courses/%s/courseWork", c.baseURL(), url.PathEscape(courseID))

	var payload courseWorkResponse
	if err := c.getJSON(ctx, endpoint, token, &payload); err != nil {
		return nil, fmt.Errorf("list coursework: %w", err)
	}

	records := make([]domain.AssignmentRecord, 0, len(payload.CourseWork))
	for _, item := range payload.CourseWork {
		records = append(records, fromCourseWorkItem(item))
	}

	return records, nil
}

func fromCourseWorkItem(item courseWorkItem) domain.AssignmentRecord {
	record := domain.AssignmentRecord{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		State:       item.State,
		MaxPoints:   item.MaxPoints,
	}
	if item.DueDate != nil {
		record.DueDate = &domain.DueDate{Year: item.DueDate.Year, Month: item.DueDate.Month, Day: item.DueDate.Day}
	}
	if item.DueTime != nil {
		record.DueTime = &domain.DueTime{Hours: item.DueTime.Hours, Minutes: item.DueTime.Minutes}
	}

	return record
}

func (c *Client) getJSON(ctx context.Context, endpoint string, token string, out any) error {
	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (c *Client) baseURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return defaultBaseURL
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	return context.WithTimeout(ctx, requestTimeout)
}
