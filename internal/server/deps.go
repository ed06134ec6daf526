package server

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/job-assistant/internal/db"
	"github.com/jonathan/job-assistant/internal/drafting"
	"github.com/jonathan/job-assistant/internal/fetch"
	"github.com/jonathan/job-assistant/internal/types"
)

// Store is the persistence the API needs. *db.DB implements it.
type Store interface {
	Ping(ctx context.Context) error

	GetUser(ctx context.Context, userID uuid.UUID) (*db.User, error)
	EnsureUser(ctx context.Context, userID uuid.UUID, email string) error

	CreateJob(ctx context.Context, input *db.JobCreateInput) (*db.Job, error)
	GetJob(ctx context.Context, userID, jobID uuid.UUID) (*db.Job, error)
	ListJobs(ctx context.Context, userID uuid.UUID, status string) ([]db.Job, error)
	UpdateJob(ctx context.Context, userID, jobID uuid.UUID, req *types.UpdateJobRequest) (*db.Job, error)
	SetJobSpans(ctx context.Context, userID, jobID uuid.UUID, spans types.JDSpan) (bool, error)
	DeleteJob(ctx context.Context, userID, jobID uuid.UUID) (bool, error)

	GetResumeMaster(ctx context.Context, userID uuid.UUID) (*db.ResumeMaster, error)
	UpsertResumeMaster(ctx context.Context, userID uuid.UUID, latex string, parsed types.ParsedResume) (*db.ResumeMaster, bool, error)
	GetResumeVariant(ctx context.Context, userID, jobID uuid.UUID) (*db.ResumeVariant, error)
	UpsertResumeVariant(ctx context.Context, userID, jobID uuid.UUID, latex string, diff types.Selection) (*db.ResumeVariant, error)

	GetCoverLetter(ctx context.Context, jobID uuid.UUID) (*db.CoverLetter, error)
	UpsertCoverLetter(ctx context.Context, jobID uuid.UUID, text string) (*db.CoverLetter, error)
	UpdateCoverLetterText(ctx context.Context, jobID uuid.UUID, text string) (*db.CoverLetter, error)

	CreateContact(ctx context.Context, input *db.ContactCreateInput) (*db.OutreachContact, error)
	ListContacts(ctx context.Context, userID uuid.UUID, jobID *uuid.UUID) ([]db.OutreachContact, error)
	GetContact(ctx context.Context, userID, contactID uuid.UUID) (*db.OutreachContact, error)
	UpdateContact(ctx context.Context, userID, contactID uuid.UUID, req *types.UpdateContactRequest) (*db.OutreachContact, error)
	DeleteContact(ctx context.Context, userID, contactID uuid.UUID) (bool, error)

	LogAction(ctx context.Context, userID uuid.UUID, jobID *uuid.UUID, actionType string, meta map[string]any) error
	ListActions(ctx context.Context, userID uuid.UUID, limit int) ([]db.Action, error)
}

// CompileQueue accepts resume compile jobs.
type CompileQueue interface {
	EnqueueCompile(ctx context.Context, variantID uuid.UUID) error
}

// URLSigner creates download links for stored PDFs.
type URLSigner interface {
	SignedURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}

// Analyzer runs the job description pipeline.
type Analyzer interface {
	Analyze(ctx context.Context, text string) types.Analysis
}

// Drafter writes cover letters and outreach messages.
type Drafter interface {
	CoverLetter(ctx context.Context, in drafting.CoverLetterInput) (string, error)
	OutreachDM(ctx context.Context, in drafting.OutreachInput) (string, error)
}

// PostingFetcher downloads job postings.
type PostingFetcher interface {
	Posting(ctx context.Context, url string) (*fetch.Posting, error)
}

// ResumeParser parses a master resume.
type ResumeParser interface {
	Parse(source string) types.ParsedResume
}

// ResumeRebuilder applies a selection to a master resume.
type ResumeRebuilder interface {
	Rebuild(master string, parsed types.ParsedResume, skills []types.Skill, coursework []types.CourseworkItem) string
}
