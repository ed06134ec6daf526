package server

import (
	"net/http"
	"strconv"
)

// maxActionsLimit caps the activity feed page size.
const maxActionsLimit = 200

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	user, err := s.store.GetUser(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if user == nil {
		s.fail(w, r, &NotFoundError{Message: msgUserNotFound})
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"id":         user.ID,
		"email":      user.Email,
		"created_at": user.CreatedAt,
	})
}

// handleListActions returns the user's most recent activity.
func (s *Server) handleListActions(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = min(n, maxActionsLimit)
	}

	actions, err := s.store.ListActions(r.Context(), userID, limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, actions)
}
