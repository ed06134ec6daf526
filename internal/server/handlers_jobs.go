package server

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jonathan/job-assistant/internal/db"
	"github.com/jonathan/job-assistant/internal/fetch"
	"github.com/jonathan/job-assistant/internal/types"
)

const importedJobTitle = "Imported job"

// jobSummary is the list view of a job.
type jobSummary struct {
	ID                uuid.UUID  `json:"id"`
	Title             string     `json:"title"`
	Company           string     `json:"company"`
	Location          *string    `json:"location"`
	Status            string     `json:"status"`
	ApplicationStatus string     `json:"application_status"`
	ConnectionStatus  string     `json:"connection_status"`
	DeadlineAt        *time.Time `json:"deadline_at"`
	CreatedAt         time.Time  `json:"created_at"`
}

func summarizeJob(j db.Job) jobSummary {
	return jobSummary{
		ID:                j.ID,
		Title:             j.Title,
		Company:           j.Company,
		Location:          j.Location,
		Status:            j.Status,
		ApplicationStatus: j.ApplicationStatus,
		ConnectionStatus:  j.ConnectionStatus,
		DeadlineAt:        j.DeadlineAt,
		CreatedAt:         j.CreatedAt,
	}
}

func createdJobResponse(j *db.Job) map[string]any {
	return map[string]any{
		"id":         j.ID,
		"title":      j.Title,
		"company":    j.Company,
		"status":     j.Status,
		"created_at": j.CreatedAt,
	}
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	var req types.CreateJobRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	job, err := s.store.CreateJob(r.Context(), &db.JobCreateInput{
		UserID:     userID,
		Title:      req.Title,
		Company:    req.Company,
		Location:   req.Location,
		JDRaw:      req.JDRaw,
		SourceURL:  req.SourceURL,
		DeadlineAt: req.DeadlineAt,
		Notes:      req.Notes,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.logAction(r.Context(), userID, &job.ID, db.ActionJobAdded, map[string]any{
		"title":   job.Title,
		"company": job.Company,
	})
	s.jsonResponse(w, http.StatusCreated, createdJobResponse(job))
}

func (s *Server) handleImportJob(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	if s.fetcher == nil {
		s.fail(w, r, &UnavailableError{Feature: "Job import"})
		return
	}

	var req types.ImportJobRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	posting, err := s.fetcher.Posting(r.Context(), req.URL)
	if err != nil {
		if errors.Is(err, fetch.ErrInvalidURL) {
			s.fail(w, r, &ValidationError{Message: "Invalid posting URL", Cause: err})
			return
		}
		s.fail(w, r, &UpstreamError{Message: "Failed to fetch job posting", Cause: err})
		return
	}

	title := firstNonBlank(req.Title, posting.Title, importedJobTitle)
	company := firstNonBlank(req.Company, posting.Company, hostOf(req.URL))
	sourceURL := req.URL

	job, err := s.store.CreateJob(r.Context(), &db.JobCreateInput{
		UserID:    userID,
		Title:     title,
		Company:   company,
		JDRaw:     posting.Text,
		SourceURL: &sourceURL,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.logAction(r.Context(), userID, &job.ID, db.ActionJobAdded, map[string]any{
		"title":   job.Title,
		"company": job.Company,
		"source":  "import",
	})
	s.jsonResponse(w, http.StatusCreated, createdJobResponse(job))
}

func (s *Server) handleAnalyzeJD(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	var req types.AnalyzeJDRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	analysis := s.analyzer.Analyze(r.Context(), req.JDText)

	// Spans are only stored on, and the action only linked to, a job the caller owns.
	var linkedJob *uuid.UUID
	if req.JobID != nil {
		updated, err := s.store.SetJobSpans(r.Context(), userID, *req.JobID, analysis.Spans)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if updated {
			linkedJob = req.JobID
		}
	}

	s.logAction(r.Context(), userID, linkedJob, db.ActionJDProcessed, map[string]any{
		"jd_length": utf8.RuneCountInString(req.JDText),
	})
	s.jsonResponse(w, http.StatusOK, analysis)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	jobs, err := s.store.ListJobs(r.Context(), userID, r.URL.Query().Get("status"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	out := make([]jobSummary, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, summarizeJob(j))
	}
	s.jsonResponse(w, http.StatusOK, out)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	jobID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	job, err := s.ownedJob(r.Context(), userID, jobID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	jobID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req types.UpdateJobRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	job, err := s.store.UpdateJob(r.Context(), userID, jobID, &req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if job == nil {
		s.fail(w, r, &NotFoundError{Message: msgJobNotFound})
		return
	}

	if req.Status != nil && *req.Status == types.JobStatusApplied {
		s.logAction(r.Context(), userID, &job.ID, db.ActionApplied, map[string]any{})
	}
	if req.ConnectionStatus != nil && *req.ConnectionStatus == types.ConnectionStatusConnected {
		s.logAction(r.Context(), userID, &job.ID, db.ActionConnected, map[string]any{})
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"id":      job.ID,
		"title":   job.Title,
		"company": job.Company,
		"status":  job.Status,
		"message": "Job updated",
	})
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	jobID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	deleted, err := s.store.DeleteJob(r.Context(), userID, jobID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !deleted {
		s.fail(w, r, &NotFoundError{Message: msgJobNotFound})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Job deleted"})
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
