package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// Job tracking statuses.
const (
	JobStatusNotApplied = "Not Applied"
	JobStatusApplied    = "Applied"
	JobStatusInterview  = "Interview"
	JobStatusOffer      = "Offer"
	JobStatusRejected   = "Rejected"

	ApplicationStatusNotSent = "Not Sent"
	ApplicationStatusSent    = "Sent"
	ApplicationStatusWaiting = "Waiting"

	ConnectionStatusNone       = "No Connection"
	ConnectionStatusReachedOut = "Reached Out"
	ConnectionStatusConnected  = "Connected"

	ContactStatusNotContacted  = "Not Contacted"
	ContactStatusReachedOut    = "Reached Out"
	ContactStatusConnected     = "Connected"
	ContactStatusNotInterested = "Not Interested"
)

// CreateJobRequest represents the request to track a new job posting.
type CreateJobRequest struct {
	Title      string     `json:"title" validate:"required"`
	Company    string     `json:"company" validate:"required"`
	Location   *string    `json:"location,omitempty"`
	JDRaw      string     `json:"jd_raw" validate:"required"`
	SourceURL  *string    `json:"source_url,omitempty" validate:"omitempty,url"`
	DeadlineAt *time.Time `json:"deadline_at,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
}

// Validate validates the CreateJobRequest using the validator.
func (r *CreateJobRequest) Validate() error {
	return validate.Struct(r)
}

// ImportJobRequest creates a job from a posting URL.
type ImportJobRequest struct {
	URL     string `json:"url" validate:"required,url"`
	Title   string `json:"title,omitempty"`
	Company string `json:"company,omitempty"`
}

// Validate validates the ImportJobRequest using the validator.
func (r *ImportJobRequest) Validate() error {
	return validate.Struct(r)
}

// UpdateJobRequest is a partial update; nil fields are left unchanged.
type UpdateJobRequest struct {
	Title             *string    `json:"title,omitempty" validate:"omitempty,min=1"`
	Company           *string    `json:"company,omitempty" validate:"omitempty,min=1"`
	Location          *string    `json:"location,omitempty"`
	Status            *string    `json:"status,omitempty" validate:"omitempty,oneof='Not Applied' 'Applied' 'Interview' 'Offer' 'Rejected'"`
	ApplicationStatus *string    `json:"application_status,omitempty" validate:"omitempty,oneof='Not Sent' 'Sent' 'Waiting'"`
	ConnectionStatus  *string    `json:"connection_status,omitempty" validate:"omitempty,oneof='No Connection' 'Reached Out' 'Connected'"`
	SourceURL         *string    `json:"source_url,omitempty" validate:"omitempty,url"`
	DeadlineAt        *time.Time `json:"deadline_at,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
}

// Validate validates the UpdateJobRequest using the validator.
func (r *UpdateJobRequest) Validate() error {
	return validate.Struct(r)
}

// AnalyzeJDRequest runs the job description pipeline, optionally persisting spans on a job.
type AnalyzeJDRequest struct {
	JDText string     `json:"jd_text" validate:"required"`
	JobID  *uuid.UUID `json:"job_id,omitempty"`
}

// Validate validates the AnalyzeJDRequest using the validator.
func (r *AnalyzeJDRequest) Validate() error {
	return validate.Struct(r)
}

// UploadResumeRequest carries a master resume's LaTeX source.
type UploadResumeRequest struct {
	LaTeX string `json:"latex" validate:"required"`
}

// Validate validates the UploadResumeRequest using the validator.
func (r *UploadResumeRequest) Validate() error {
	return validate.Struct(r)
}

// UpdateResumeVariantRequest selects skills and coursework for a job-specific resume.
type UpdateResumeVariantRequest struct {
	JobID      uuid.UUID        `json:"job_id" validate:"required"`
	Skills     []Skill          `json:"skills" validate:"dive"`
	Coursework []CourseworkItem `json:"coursework" validate:"dive"`
}

// Validate validates the UpdateResumeVariantRequest using the validator.
func (r *UpdateResumeVariantRequest) Validate() error {
	return validate.Struct(r)
}

// GenerateCoverLetterRequest asks for a cover letter draft for a job.
type GenerateCoverLetterRequest struct {
	JobID uuid.UUID `json:"job_id" validate:"required"`
}

// Validate validates the GenerateCoverLetterRequest using the validator.
func (r *GenerateCoverLetterRequest) Validate() error {
	return validate.Struct(r)
}

// UpdateCoverLetterRequest replaces a cover letter's text.
type UpdateCoverLetterRequest struct {
	Text string `json:"text" validate:"required"`
}

// Validate validates the UpdateCoverLetterRequest using the validator.
func (r *UpdateCoverLetterRequest) Validate() error {
	return validate.Struct(r)
}

// CreateContactRequest adds an outreach contact.
type CreateContactRequest struct {
	JobID       *uuid.UUID `json:"job_id,omitempty"`
	Name        string     `json:"name" validate:"required"`
	LinkedInURL *string    `json:"linkedin_url,omitempty" validate:"omitempty,url"`
	Role        *string    `json:"role,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

// Validate validates the CreateContactRequest using the validator.
func (r *CreateContactRequest) Validate() error {
	return validate.Struct(r)
}

// UpdateContactRequest is a partial update; nil fields are left unchanged.
type UpdateContactRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1"`
	LinkedInURL *string `json:"linkedin_url,omitempty" validate:"omitempty,url"`
	Role        *string `json:"role,omitempty"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof='Not Contacted' 'Reached Out' 'Connected' 'Not Interested'"`
	Notes       *string `json:"notes,omitempty"`
}

// Validate validates the UpdateContactRequest using the validator.
func (r *UpdateContactRequest) Validate() error {
	return validate.Struct(r)
}

// GenerateDMRequest asks for a short outreach message.
type GenerateDMRequest struct {
	ContactID *uuid.UUID `json:"contact_id,omitempty"`
	JobID     *uuid.UUID `json:"job_id,omitempty"`
	Role      *string    `json:"role,omitempty"`
	Name      *string    `json:"name,omitempty"`
}

// Validate validates the GenerateDMRequest using the validator.
func (r *GenerateDMRequest) Validate() error {
	return validate.Struct(r)
}
