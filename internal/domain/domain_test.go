package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDueDateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2024-3-1", DueDate{Year: 2024, Month: 3, Day: 1}.String())
	assert.Equal(t, "2025-12-31", DueDate{Year: 2025, Month: 12, Day: 31}.String())
}

func TestSubjectSnapshotEqual(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		a     SubjectSnapshot
		b     SubjectSnapshot
		equal bool
	}{
		{
			name:  "identical",
			a:     SubjectSnapshot{AccountID: "a@example.com", Subjects: []string{"A", "B", "C"}},
			b:     SubjectSnapshot{AccountID: "a@example.com", Subjects: []string{"A", "B", "C"}},
			equal: true,
		},
		{
			name:  "different order",
			a:     SubjectSnapshot{AccountID: "a@example.com", Subjects: []string{"A", "B"}},
			b:     SubjectSnapshot{AccountID: "a@example.com", Subjects: []string{"B", "A"}},
			equal: false,
		},
		{
			name:  "different account",
			a:     SubjectSnapshot{AccountID: "a@example.com", Subjects: []string{"A"}},
			b:     SubjectSnapshot{AccountID: "b@example.com", Subjects: []string{"A"}},
			equal: false,
		},
		{
			name:  "different length",
			a:     SubjectSnapshot{AccountID: "a@example.com", Subjects: []string{"A", "B"}},
			b:     SubjectSnapshot{AccountID: "a@example.com", Subjects: []string{"A"}},
			equal: false,
		},
		{
			name:  "both empty",
			a:     SubjectSnapshot{AccountID: "a@example.com"},
			b:     SubjectSnapshot{AccountID: "a@example.com"},
			equal: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, tt.a.Equal(tt.b))
		})
	}
}

func TestModelErrorPassesMessageThrough(t *testing.T) {
	t.Parallel()

	err := &ModelError{Message: "upstream exploded"}
	assert.Equal(t, "upstream exploded", err.Error())
}

func TestCredentialEmpty(t *testing.T) {
	t.Parallel()

	assert.True(t, Credential{}.Empty())
	assert.False(t, Credential{Token: "tok"}.Empty())
}
