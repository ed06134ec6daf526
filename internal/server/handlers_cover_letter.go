package server

import (
	"net/http"

	"github.com/jonathan/job-assistant/internal/db"
	"github.com/jonathan/job-assistant/internal/drafting"
	"github.com/jonathan/job-assistant/internal/types"
)

func (s *Server) handleGenerateCoverLetter(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	if s.drafter == nil {
		s.fail(w, r, &UnavailableError{Feature: "Cover letter generation"})
		return
	}

	var req types.GenerateCoverLetterRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	job, err := s.ownedJob(r.Context(), userID, req.JobID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	text, err := s.drafter.CoverLetter(r.Context(), drafting.CoverLetterInput{
		Company:        job.Company,
		Role:           job.Title,
		JobDescription: job.JDRaw,
	})
	if err != nil {
		s.fail(w, r, &UpstreamError{Message: "Failed to generate cover letter", Cause: err})
		return
	}

	letter, err := s.store.UpsertCoverLetter(r.Context(), job.ID, text)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.logAction(r.Context(), userID, &job.ID, db.ActionCoverLetterGenerated, map[string]any{})
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"id":      letter.ID,
		"text":    letter.Text,
		"message": "Cover letter generated",
	})
}

func (s *Server) handleGetCoverLetter(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	jobID, ok := s.pathUUID(w, r, "job_id")
	if !ok {
		return
	}
	if _, err := s.ownedJob(r.Context(), userID, jobID); err != nil {
		s.fail(w, r, err)
		return
	}

	letter, err := s.store.GetCoverLetter(r.Context(), jobID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if letter == nil {
		s.fail(w, r, &NotFoundError{Message: msgCoverLetterNotFound})
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"id":       letter.ID,
		"text":     letter.Text,
		"pdf_path": s.signedURL(r.Context(), letter.PDFPath),
	})
}

func (s *Server) handleUpdateCoverLetter(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	jobID, ok := s.pathUUID(w, r, "job_id")
	if !ok {
		return
	}

	var req types.UpdateCoverLetterRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	if _, err := s.ownedJob(r.Context(), userID, jobID); err != nil {
		s.fail(w, r, err)
		return
	}

	letter, err := s.store.UpdateCoverLetterText(r.Context(), jobID, req.Text)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if letter == nil {
		s.fail(w, r, &NotFoundError{Message: msgCoverLetterNotFound})
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"id":      letter.ID,
		"text":    letter.Text,
		"message": "Cover letter updated",
	})
}
