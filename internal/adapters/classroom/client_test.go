package classroom

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/magicpin/internal/domain"
)

func TestListActiveCourses(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/courses", r.URL.Path)
		assert.Equal(t, "ACTIVE", r.URL.Query().Get("courseStates"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"courses":[{"id":"1","name":"Math"},{"id":"2","name":"History"}]}`))
	}))
	defer server.Close()

	client := &Client{BaseURL: server.URL}

	courses, err := client.ListActiveCourses(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, []domain.Course{{ID: "1", Name: "Math"}, {ID: "2", Name: "History"}}, courses)
}

func TestListActiveCoursesEmptyIsValid(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := &Client{BaseURL: server.URL}

	courses, err := client.ListActiveCourses(context.Background(), "tok")
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestListCourseWorkMapsFields(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/courses/1/courseWork", r.URL.Path)
		_, _ = w.Write([]byte(`{"courseWork":[{
			"id":"a1","title":"HW1","description":"chapters 1-3","state":"PUBLISHED",
			"maxPoints":25,"dueDate":{"year":2024,"month":3,"day":1},"dueTime":{"hours":23,"minutes":59}
		}]}`))
	}))
	defer server.Close()

	client := &Client{BaseURL: server.URL}

	records, err := client.ListCourseWork(context.Background(), "tok", "1")
	require.NoError(t, err)
	require.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, "a1", record.ID)
	assert.Equal(t, "HW1", record.Title)
	assert.Equal(t, "chapters 1-3", record.Description)
	assert.Equal(t, domain.AssignmentStatePublished, record.State)
	assert.Equal(t, float64(25), record.MaxPoints)
	require.NotNil(t, record.DueDate)
	assert.Equal(t, "2024-3-1", record.DueDate.String())
	require.NotNil(t, record.DueTime)
	assert.Equal(t, 23, record.DueTime.Hours)
	assert.Empty(t, record.CourseName, "course tagging belongs to the aggregator")
}

func TestListCourseWorkNonSuccessStatusIncludesBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`insufficient scope`))
	}))
	defer server.Close()

	client := &Client{BaseURL: server.URL}

	_, err := client.ListCourseWork(context.Background(), "tok", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
	assert.Contains(t, err.Error(), "insufficient scope")
}
