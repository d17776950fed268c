package application

import (
	"context"
	"errors"

	"github.com/bnema/magicpin/internal/domain"
)

type inMemoryStateRepo struct {
	account   domain.AccountID
	snapshots map[domain.AccountID]domain.SubjectSnapshot
	saveErr   error
}

func newInMemoryStateRepo(account domain.AccountID) *inMemoryStateRepo {
	return &inMemoryStateRepo{
		account:   account,
		snapshots: map[domain.AccountID]domain.SubjectSnapshot{},
	}
}

func (r *inMemoryStateRepo) ActiveAccount(_ context.Context) (domain.AccountID, error) {
	return r.account, nil
}

func (r *inMemoryStateRepo) SetActiveAccount(_ context.Context, id domain.AccountID) error {
	r.account = id
	return nil
}

func (r *inMemoryStateRepo) Snapshot(_ context.Context, id domain.AccountID) (domain.SubjectSnapshot, error) {
	return r.snapshots[id], nil
}

func (r *inMemoryStateRepo) SaveSnapshot(_ context.Context, snapshot domain.SubjectSnapshot) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.snapshots[snapshot.AccountID] = snapshot
	return nil
}

type inMemoryTranscriptRepo struct {
	logs map[domain.AccountID][]domain.Turn
}

func newInMemoryTranscriptRepo() *inMemoryTranscriptRepo {
	return &inMemoryTranscriptRepo{logs: map[domain.AccountID][]domain.Turn{}}
}

func (r *inMemoryTranscriptRepo) Append(_ context.Context, id domain.AccountID, turn domain.Turn) error {
	log := append(r.logs[id], turn)
	if len(log) > domain.MaxTranscriptTurns {
		log = log[len(log)-domain.MaxTranscriptTurns:]
	}
	r.logs[id] = log
	return nil
}

func (r *inMemoryTranscriptRepo) Load(_ context.Context, id domain.AccountID) ([]domain.Turn, error) {
	return r.logs[id], nil
}

func (r *inMemoryTranscriptRepo) Clear(_ context.Context, id domain.AccountID) error {
	delete(r.logs, id)
	return nil
}

type inMemoryTokenStore struct {
	token  string
	getErr error
	setErr error
}

func (s *inMemoryTokenStore) Get(_ context.Context) (string, error) {
	if s.getErr != nil {
		return "", s.getErr
	}
	if s.token == "" {
		return "", domain.ErrNoToken
	}
	return s.token, nil
}

func (s *inMemoryTokenStore) Set(_ context.Context, token string) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.token = token
	return nil
}

func (s *inMemoryTokenStore) Delete(_ context.Context) error {
	s.token = ""
	return nil
}

type stubAuthorizer struct {
	token string
	err   error
	calls int
}

func (a *stubAuthorizer) Authorize(_ context.Context) (string, error) {
	a.calls++
	return a.token, a.err
}

type stubMailClient struct {
	ids      []string
	subjects map[string]string
	listErr  error
	// onList runs before the ID list is returned; tests use it to race an
	// account switch against an in-flight poll.
	onList func()
}

func (c *stubMailClient) ListRecentMessageIDs(_ context.Context, _ string, _ int) ([]string, error) {
	if c.onList != nil {
		c.onList()
	}
	if c.listErr != nil {
		return nil, c.listErr
	}
	return c.ids, nil
}

func (c *stubMailClient) Subject(_ context.Context, _ string, messageID string) (string, error) {
	subject, ok := c.subjects[messageID]
	if !ok {
		return "", errors.New("unknown message " + messageID)
	}
	return subject, nil
}

type stubCourseworkClient struct {
	courses    []domain.Course
	coursesErr error
	work       map[string][]domain.AssignmentRecord
	workErrs   map[string]error
}

func (c *stubCourseworkClient) ListActiveCourses(_ context.Context, _ string) ([]domain.Course, error) {
	if c.coursesErr != nil {
		return nil, c.coursesErr
	}
	return c.courses, nil
}

func (c *stubCourseworkClient) ListCourseWork(_ context.Context, _ string, courseID string) ([]domain.AssignmentRecord, error) {
	if err := c.workErrs[courseID]; err != nil {
		return nil, err
	}
	return c.work[courseID], nil
}

type stubIdentityClient struct {
	email string
	err   error
}

func (c *stubIdentityClient) ResolveEmail(_ context.Context, _ string) (string, error) {
	return c.email, c.err
}

type stubModelClient struct {
	reply      string
	err        error
	lastPrompt string
}

func (c *stubModelClient) Converse(_ context.Context, prompt string) (string, error) {
	c.lastPrompt = prompt
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

type recordingListener struct {
	snapshots []domain.SubjectSnapshot
}

func (l *recordingListener) SubjectsRefreshed(_ context.Context, snapshot domain.SubjectSnapshot) {
	l.snapshots = append(l.snapshots, snapshot)
}
