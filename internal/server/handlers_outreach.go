package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/job-assistant/internal/db"
	"github.com/jonathan/job-assistant/internal/drafting"
	"github.com/jonathan/job-assistant/internal/types"
)

func (s *Server) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	var req types.CreateContactRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	if req.JobID != nil {
		if _, err := s.ownedJob(r.Context(), userID, *req.JobID); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	contact, err := s.store.CreateContact(r.Context(), &db.ContactCreateInput{
		UserID:      userID,
		JobID:       req.JobID,
		Name:        req.Name,
		LinkedInURL: req.LinkedInURL,
		Role:        req.Role,
		Notes:       req.Notes,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"id":         contact.ID,
		"name":       contact.Name,
		"status":     contact.Status,
		"created_at": contact.CreatedAt,
	})
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	var jobID *uuid.UUID
	if raw := r.URL.Query().Get("job_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid job_id")
			return
		}
		jobID = &id
	}

	contacts, err := s.store.ListContacts(r.Context(), userID, jobID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, contacts)
}

func (s *Server) ownedContact(w http.ResponseWriter, r *http.Request, userID uuid.UUID) (*db.OutreachContact, bool) {
	contactID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return nil, false
	}
	contact, err := s.store.GetContact(r.Context(), userID, contactID)
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	if contact == nil {
		s.fail(w, r, &NotFoundError{Message: msgContactNotFound})
		return nil, false
	}
	return contact, true
}

func (s *Server) handleGetContact(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	contact, ok := s.ownedContact(w, r, userID)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, contact)
}

func (s *Server) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	contactID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req types.UpdateContactRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	contact, err := s.store.UpdateContact(r.Context(), userID, contactID, &req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if contact == nil {
		s.fail(w, r, &NotFoundError{Message: msgContactNotFound})
		return
	}

	if req.Status != nil {
		switch *req.Status {
		case types.ContactStatusReachedOut:
			s.logAction(r.Context(), userID, contact.JobID, db.ActionMessaged, map[string]any{"contact_id": contact.ID})
		case types.ContactStatusConnected:
			s.logAction(r.Context(), userID, contact.JobID, db.ActionConnected, map[string]any{"contact_id": contact.ID})
		}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"id":      contact.ID,
		"name":    contact.Name,
		"status":  contact.Status,
		"message": "Contact updated",
	})
}

func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	contactID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	deleted, err := s.store.DeleteContact(r.Context(), userID, contactID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !deleted {
		s.fail(w, r, &NotFoundError{Message: msgContactNotFound})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Contact deleted"})
}

// handleGenerateDM drafts a short LinkedIn message. Explicit name and role in
// the request take precedence over the stored contact; the contact's job is
// used when no job_id is given.
func (s *Server) handleGenerateDM(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	if s.drafter == nil {
		s.fail(w, r, &UnavailableError{Feature: "Message generation"})
		return
	}

	var req types.GenerateDMRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	var in drafting.OutreachInput
	jobID := req.JobID

	if req.ContactID != nil {
		contact, err := s.store.GetContact(r.Context(), userID, *req.ContactID)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if contact == nil {
			s.fail(w, r, &NotFoundError{Message: msgContactNotFound})
			return
		}
		in.Name = contact.Name
		if contact.Role != nil {
			in.Role = *contact.Role
		}
		if jobID == nil {
			jobID = contact.JobID
		}
	}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.Role != nil {
		in.Role = *req.Role
	}

	if jobID != nil {
		job, err := s.ownedJob(r.Context(), userID, *jobID)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		in.JobTitle = job.Title
		in.Company = job.Company
		in.JobDescription = job.JDRaw
	}

	text, err := s.drafter.OutreachDM(r.Context(), in)
	if err != nil {
		s.fail(w, r, &UpstreamError{Message: "Failed to generate message", Cause: err})
		return
	}

	var contactRef any
	if req.ContactID != nil {
		contactRef = req.ContactID.String()
	}
	s.logAction(r.Context(), userID, jobID, db.ActionOutreachDMGenerated, map[string]any{"contact_id": contactRef})
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"dm_text": text,
		"message": "DM generated",
	})
}
