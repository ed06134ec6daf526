package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/job-assistant/internal/types"
)

// Action types recorded in the actions table.
const (
	ActionJDProcessed          = "jd_processed"
	ActionResumeCompiled       = "resume_compiled"
	ActionCoverLetterGenerated = "cover_letter_generated"
	ActionJobAdded             = "job_added"
	ActionOutreachDMGenerated  = "outreach_dm_generated"
	ActionResumeViewed         = "resume_viewed"
	ActionApplied              = "applied"
	ActionConnected            = "connected"
	ActionMessaged             = "messaged"
)

// User is an account. Rows are created by the identity provider; the API only reads them.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Job is a tracked job posting.
type Job struct {
	ID                uuid.UUID     `json:"id"`
	UserID            uuid.UUID     `json:"user_id"`
	Title             string        `json:"title"`
	Company           string        `json:"company"`
	Location          *string       `json:"location"`
	JDRaw             string        `json:"jd_raw"`
	JDSpans           *types.JDSpan `json:"jd_spans_json"`
	Status            string        `json:"status"`
	ApplicationStatus string        `json:"application_status"`
	ConnectionStatus  string        `json:"connection_status"`
	SourceURL         *string       `json:"source_url"`
	DeadlineAt        *time.Time    `json:"deadline_at"`
	Notes             *string       `json:"notes"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// JobCreateInput holds the fields for a new job.
type JobCreateInput struct {
	UserID     uuid.UUID
	Title      string
	Company    string
	Location   *string
	JDRaw      string
	SourceURL  *string
	DeadlineAt *time.Time
	Notes      *string
}

// ResumeMaster is a user's uploaded LaTeX resume and its parsed form.
type ResumeMaster struct {
	ID        uuid.UUID          `json:"id"`
	UserID    uuid.UUID          `json:"user_id"`
	LaTeX     string             `json:"latex"`
	Parsed    types.ParsedResume `json:"parsed"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// ResumeVariant is the resume rebuilt for one job.
type ResumeVariant struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"user_id"`
	JobID     uuid.UUID        `json:"job_id"`
	LaTeX     string           `json:"latex"`
	PDFPath   *string          `json:"pdf_path"`
	Diff      *types.Selection `json:"diff"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// CoverLetter is the cover letter for a job. There is at most one per job.
type CoverLetter struct {
	ID        uuid.UUID `json:"id"`
	JobID     uuid.UUID `json:"job_id"`
	Text      string    `json:"text"`
	PDFPath   *string   `json:"pdf_path"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OutreachContact is a person the user plans to contact about a job.
type OutreachContact struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	JobID           *uuid.UUID `json:"job_id"`
	Name            string     `json:"name"`
	LinkedInURL     *string    `json:"linkedin_url"`
	Role            *string    `json:"role"`
	Status          string     `json:"status"`
	LastContactedAt *time.Time `json:"last_contacted_at"`
	Notes           *string    `json:"notes"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ContactCreateInput holds the fields for a new contact.
type ContactCreateInput struct {
	UserID      uuid.UUID
	JobID       *uuid.UUID
	Name        string
	LinkedInURL *string
	Role        *string
	Notes       *string
}

// Action is an analytics event.
type Action struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"user_id"`
	JobID     *uuid.UUID     `json:"job_id"`
	Type      string         `json:"type"`
	Meta      map[string]any `json:"meta"`
	CreatedAt time.Time      `json:"created_at"`
}
