package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/bnema/magicpin/internal/domain"
	"github.com/bnema/magicpin/internal/ports"
)

// Aggregator fans out per-course assignment queries and reduces them into
// one flat sequence. Partial success is the normal outcome: a failing course
// is logged and omitted entirely, never partially included.
type Aggregator struct {
	creds      CredentialSource
	coursework ports.CourseworkClient
	log        *logrus.Logger
}

func NewAggregator(creds CredentialSource, coursework ports.CourseworkClient, log *logrus.Logger) *Aggregator {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Aggregator{
		creds:      creds,
		coursework: coursework,
		log:        log,
	}
}

func (a *Aggregator) Aggregate(ctx context.Context) ([]domain.AssignmentRecord, error) {
	cred, err := a.creds.Acquire(ctx, false)
	if err != nil {
		if errors.Is(err, domain.ErrNoToken) {
			return nil, domain.ErrNoAuth
		}
		return nil, fmt.Errorf("acquire credential: %w", err)
	}
	if cred.Empty() {
		return nil, domain.ErrNoAuth
	}

	courses, err := a.coursework.ListActiveCourses(ctx, cred.Token)
	if err != nil {
		return nil, fmt.Errorf("list active courses: %w", err)
	}

	// Courses are fetched strictly in order, so the flat result is
	// deterministic and matches the course list.
	var records []domain.AssignmentRecord
	for _, course := range courses {
		assignments, err := a.coursework.ListCourseWork(ctx, cred.Token, course.ID)
		if err != nil {
			a.log.WithError(err).WithFields(logrus.Fields{
				"course_id":   course.ID,
				"course_name": course.Name,
			}).Warn("skipping course: fetch assignments failed")
			continue
		}
		for _, assignment := range assignments {
			assignment.CourseName = course.Name
			assignment.CourseID = course.ID
			if assignment.Description == "" {
				assignment.Description = "No description"
			}
			records = append(records, assignment)
		}
	}

	return records, nil
}
