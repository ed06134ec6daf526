package server

import (
	"net/http"

	"github.com/jonathan/job-assistant/internal/db"
	"github.com/jonathan/job-assistant/internal/types"
)

func (s *Server) handleUploadMaster(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	var req types.UploadResumeRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	parsed := s.parser.Parse(req.LaTeX)
	master, created, err := s.store.UpsertResumeMaster(r.Context(), userID, req.LaTeX, parsed)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	message := "Master resume updated"
	if created {
		message = "Master resume created"
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"id":      master.ID,
		"parsed":  master.Parsed,
		"message": message,
	})
}

func (s *Server) handleGetMaster(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	master, err := s.store.GetResumeMaster(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if master == nil {
		s.fail(w, r, &NotFoundError{Message: msgMasterNotFound})
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"id":     master.ID,
		"latex":  master.LaTeX,
		"parsed": master.Parsed,
	})
}

// handleUpdateVariant rebuilds the master with the chosen skills and coursework
// and queues the result for PDF compilation.
func (s *Server) handleUpdateVariant(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	var req types.UpdateResumeVariantRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	if _, err := s.ownedJob(r.Context(), userID, req.JobID); err != nil {
		s.fail(w, r, err)
		return
	}

	master, err := s.store.GetResumeMaster(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if master == nil {
		s.fail(w, r, &NotFoundError{Message: msgMasterRequired})
		return
	}

	selection := types.Selection{Skills: req.Skills, Coursework: req.Coursework}
	if selection.Skills == nil {
		selection.Skills = []types.Skill{}
	}
	if selection.Coursework == nil {
		selection.Coursework = []types.CourseworkItem{}
	}

	latex := s.rebuilder.Rebuild(master.LaTeX, master.Parsed, selection.Skills, selection.Coursework)
	variant, err := s.store.UpsertResumeVariant(r.Context(), userID, req.JobID, latex, selection)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if s.queue == nil {
		s.logger.Warn("compile queue not configured, skipping PDF compilation", "variant_id", variant.ID)
	} else if err := s.queue.EnqueueCompile(r.Context(), variant.ID); err != nil {
		s.logger.Error("failed to enqueue compile job", "variant_id", variant.ID, "error", err)
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"id":      variant.ID,
		"latex":   variant.LaTeX,
		"message": "Resume variant updated. PDF compilation in progress.",
	})
}

func (s *Server) handleGetVariant(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	jobID, ok := s.pathUUID(w, r, "job_id")
	if !ok {
		return
	}

	variant, err := s.store.GetResumeVariant(r.Context(), userID, jobID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if variant == nil {
		s.fail(w, r, &NotFoundError{Message: msgVariantNotFound})
		return
	}

	s.logAction(r.Context(), userID, &jobID, db.ActionResumeViewed, map[string]any{})
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"id":       variant.ID,
		"latex":    variant.LaTeX,
		"pdf_path": s.signedURL(r.Context(), variant.PDFPath),
		"diff":     variant.Diff,
	})
}
