package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/job-assistant/internal/db"
	"github.com/jonathan/job-assistant/internal/drafting"
	"github.com/jonathan/job-assistant/internal/fetch"
	"github.com/jonathan/job-assistant/internal/types"
)

type loggedAction struct {
	UserID uuid.UUID
	JobID  *uuid.UUID
	Type   string
	Meta   map[string]any
}

// memStore is an in-memory Store.
type memStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*db.User
	jobs     map[uuid.UUID]*db.Job
	masters  map[uuid.UUID]*db.ResumeMaster
	variants map[[2]uuid.UUID]*db.ResumeVariant
	letters  map[uuid.UUID]*db.CoverLetter
	contacts map[uuid.UUID]*db.OutreachContact
	actions  []loggedAction

	ensureCalls int
	failWith    error
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[uuid.UUID]*db.User{},
		jobs:     map[uuid.UUID]*db.Job{},
		masters:  map[uuid.UUID]*db.ResumeMaster{},
		variants: map[[2]uuid.UUID]*db.ResumeVariant{},
		letters:  map[uuid.UUID]*db.CoverLetter{},
		contacts: map[uuid.UUID]*db.OutreachContact{},
	}
}

func (m *memStore) Ping(context.Context) error { return m.failWith }

func (m *memStore) GetUser(_ context.Context, userID uuid.UUID) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[userID], m.failWith
}

func (m *memStore) EnsureUser(_ context.Context, userID uuid.UUID, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureCalls++
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.users[userID]; !ok {
		m.users[userID] = &db.User{ID: userID, Email: email, CreatedAt: time.Now()}
	}
	return nil
}

func (m *memStore) CreateJob(_ context.Context, in *db.JobCreateInput) (*db.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	job := &db.Job{
		ID:                uuid.New(),
		UserID:            in.UserID,
		Title:             in.Title,
		Company:           in.Company,
		Location:          in.Location,
		JDRaw:             in.JDRaw,
		Status:            types.JobStatusNotApplied,
		ApplicationStatus: types.ApplicationStatusNotSent,
		ConnectionStatus:  types.ConnectionStatusNone,
		SourceURL:         in.SourceURL,
		DeadlineAt:        in.DeadlineAt,
		Notes:             in.Notes,
		CreatedAt:         time.Now(),
	}
	m.jobs[job.ID] = job
	return job, nil
}

func (m *memStore) owned(userID, jobID uuid.UUID) *db.Job {
	job := m.jobs[jobID]
	if job == nil || job.UserID != userID {
		return nil
	}
	return job
}

func (m *memStore) GetJob(_ context.Context, userID, jobID uuid.UUID) (*db.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.owned(userID, jobID), m.failWith
}

func (m *memStore) ListJobs(_ context.Context, userID uuid.UUID, status string) ([]db.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.Job{}
	for _, j := range m.jobs {
		if j.UserID == userID && (status == "" || j.Status == status) {
			out = append(out, *j)
		}
	}
	return out, m.failWith
}

func (m *memStore) UpdateJob(_ context.Context, userID, jobID uuid.UUID, req *types.UpdateJobRequest) (*db.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job := m.owned(userID, jobID)
	if job == nil {
		return nil, nil
	}
	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.Status != nil {
		job.Status = *req.Status
	}
	if req.ConnectionStatus != nil {
		job.ConnectionStatus = *req.ConnectionStatus
	}
	return job, nil
}

func (m *memStore) SetJobSpans(_ context.Context, userID, jobID uuid.UUID, spans types.JDSpan) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job := m.owned(userID, jobID)
	if job == nil {
		return false, nil
	}
	job.JDSpans = &spans
	return true, nil
}

func (m *memStore) DeleteJob(_ context.Context, userID, jobID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.owned(userID, jobID) == nil {
		return false, nil
	}
	delete(m.jobs, jobID)
	return true, nil
}

func (m *memStore) GetResumeMaster(_ context.Context, userID uuid.UUID) (*db.ResumeMaster, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.masters[userID], m.failWith
}

func (m *memStore) UpsertResumeMaster(_ context.Context, userID uuid.UUID, latex string, parsed types.ParsedResume) (*db.ResumeMaster, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	master, exists := m.masters[userID]
	if !exists {
		master = &db.ResumeMaster{ID: uuid.New(), UserID: userID, CreatedAt: time.Now()}
		m.masters[userID] = master
	}
	master.LaTeX = latex
	master.Parsed = parsed
	return master, !exists, nil
}

func (m *memStore) GetResumeVariant(_ context.Context, userID, jobID uuid.UUID) (*db.ResumeVariant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.variants[[2]uuid.UUID{userID, jobID}], nil
}

func (m *memStore) UpsertResumeVariant(_ context.Context, userID, jobID uuid.UUID, latex string, diff types.Selection) (*db.ResumeVariant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]uuid.UUID{userID, jobID}
	variant, ok := m.variants[key]
	if !ok {
		variant = &db.ResumeVariant{ID: uuid.New(), UserID: userID, JobID: jobID}
		m.variants[key] = variant
	}
	variant.LaTeX = latex
	variant.Diff = &diff
	variant.PDFPath = nil
	return variant, nil
}

func (m *memStore) GetCoverLetter(_ context.Context, jobID uuid.UUID) (*db.CoverLetter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.letters[jobID], nil
}

func (m *memStore) UpsertCoverLetter(_ context.Context, jobID uuid.UUID, text string) (*db.CoverLetter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	letter, ok := m.letters[jobID]
	if !ok {
		letter = &db.CoverLetter{ID: uuid.New(), JobID: jobID}
		m.letters[jobID] = letter
	}
	letter.Text = text
	return letter, nil
}

func (m *memStore) UpdateCoverLetterText(_ context.Context, jobID uuid.UUID, text string) (*db.CoverLetter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	letter, ok := m.letters[jobID]
	if !ok {
		return nil, nil
	}
	letter.Text = text
	return letter, nil
}

func (m *memStore) CreateContact(_ context.Context, in *db.ContactCreateInput) (*db.OutreachContact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := &db.OutreachContact{
		ID:          uuid.New(),
		UserID:      in.UserID,
		JobID:       in.JobID,
		Name:        in.Name,
		LinkedInURL: in.LinkedInURL,
		Role:        in.Role,
		Status:      types.ContactStatusNotContacted,
		Notes:       in.Notes,
		CreatedAt:   time.Now(),
	}
	m.contacts[c.ID] = c
	return c, nil
}

func (m *memStore) ListContacts(_ context.Context, userID uuid.UUID, jobID *uuid.UUID) ([]db.OutreachContact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.OutreachContact{}
	for _, c := range m.contacts {
		if c.UserID != userID {
			continue
		}
		if jobID != nil && (c.JobID == nil || *c.JobID != *jobID) {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (m *memStore) ownedContact(userID, contactID uuid.UUID) *db.OutreachContact {
	c := m.contacts[contactID]
	if c == nil || c.UserID != userID {
		return nil
	}
	return c
}

func (m *memStore) GetContact(_ context.Context, userID, contactID uuid.UUID) (*db.OutreachContact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ownedContact(userID, contactID), nil
}

func (m *memStore) UpdateContact(_ context.Context, userID, contactID uuid.UUID, req *types.UpdateContactRequest) (*db.OutreachContact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.ownedContact(userID, contactID)
	if c == nil {
		return nil, nil
	}
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Status != nil {
		c.Status = *req.Status
	}
	return c, nil
}

func (m *memStore) DeleteContact(_ context.Context, userID, contactID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ownedContact(userID, contactID) == nil {
		return false, nil
	}
	delete(m.contacts, contactID)
	return true, nil
}

func (m *memStore) LogAction(_ context.Context, userID uuid.UUID, jobID *uuid.UUID, actionType string, meta map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = append(m.actions, loggedAction{UserID: userID, JobID: jobID, Type: actionType, Meta: meta})
	return nil
}

func (m *memStore) ListActions(_ context.Context, userID uuid.UUID, limit int) ([]db.Action, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.Action{}
	for i := len(m.actions) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		a := m.actions[i]
		if a.UserID == userID {
			out = append(out, db.Action{ID: uuid.New(), UserID: a.UserID, JobID: a.JobID, Type: a.Type, Meta: a.Meta})
		}
	}
	return out, nil
}

func (m *memStore) actionTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.actions))
	for _, a := range m.actions {
		out = append(out, a.Type)
	}
	return out
}

func (m *memStore) lastAction() loggedAction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.actions[len(m.actions)-1]
}

type fakeQueue struct {
	mu       sync.Mutex
	enqueued []uuid.UUID
	err      error
}

func (q *fakeQueue) EnqueueCompile(_ context.Context, variantID uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.enqueued = append(q.enqueued, variantID)
	return nil
}

type fakeSigner struct {
	err error
}

func (s fakeSigner) SignedURL(_ context.Context, path string, _ time.Duration) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "https://storage.test/signed/" + path + "?token=t", nil
}

type fakeDrafter struct {
	letter     string
	dm         string
	err        error
	lastLetter drafting.CoverLetterInput
	lastDM     drafting.OutreachInput
}

func (d *fakeDrafter) CoverLetter(_ context.Context, in drafting.CoverLetterInput) (string, error) {
	d.lastLetter = in
	return d.letter, d.err
}

func (d *fakeDrafter) OutreachDM(_ context.Context, in drafting.OutreachInput) (string, error) {
	d.lastDM = in
	return d.dm, d.err
}

type fakeFetcher struct {
	posting *fetch.Posting
	err     error
}

func (f fakeFetcher) Posting(_ context.Context, url string) (*fetch.Posting, error) {
	if f.err != nil {
		return nil, f.err
	}
	p := *f.posting
	p.URL = url
	return &p, nil
}

var errStoreDown = errors.New("connection refused")
