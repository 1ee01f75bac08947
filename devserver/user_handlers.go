package devserver

import (
	"net/http"

	"github.com/jrsteele09/go-app-core/users"
)

// MeHandler returns the authenticated user's own record
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record, err := s.users.get(userIDFromContext(r.Context()))
		if err != nil {
			writeError(w, http.StatusNotFound, codeNotFound, "user not found")
			return
		}
		writeJSON(w, http.StatusOK, record.profile.User)
	}
}

// ProfileHandler returns a user's public profile
func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record, err := s.users.get(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusNotFound, codeNotFound, "user not found")
			return
		}
		writeJSON(w, http.StatusOK, record.profile)
	}
}

// UpdateProfileHandler applies a partial update to the caller's profile
func (s *Server) UpdateProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update users.ProfileUpdate
		if err := decodeJSON(r, &update); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequest, "malformed request body")
			return
		}

		record, err := s.users.update(userIDFromContext(r.Context()), func(record *userRecord) {
			if update.Name != nil {
				record.profile.Name = *update.Name
			}
			if update.Bio != nil {
				record.profile.Bio = *update.Bio
			}
			if update.Location != nil {
				record.profile.Location = *update.Location
			}
			if update.Website != nil {
				record.profile.Website = *update.Website
			}
		})
		if err != nil {
			writeError(w, http.StatusNotFound, codeNotFound, "user not found")
			return
		}
		writeJSON(w, http.StatusOK, record.profile)
	}
}

// UpdateAvatarHandler replaces the caller's avatar URL
func (s *Server) UpdateAvatarHandler() http.HandlerFunc {
	type avatarRequest struct {
		Avatar string `json:"avatar"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req avatarRequest
		if err := decodeJSON(r, &req); err != nil || req.Avatar == "" {
			writeError(w, http.StatusBadRequest, codeInvalidRequest, "avatar is required")
			return
		}

		record, err := s.users.update(userIDFromContext(r.Context()), func(record *userRecord) {
			record.profile.Avatar = req.Avatar
		})
		if err != nil {
			writeError(w, http.StatusNotFound, codeNotFound, "user not found")
			return
		}
		writeJSON(w, http.StatusOK, record.profile.User)
	}
}

// DeleteAccountHandler permanently removes the caller's account and revokes
// its tokens
func (s *Server) DeleteAccountHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r.Context())
		if err := s.users.delete(userID); err != nil {
			writeError(w, http.StatusNotFound, codeNotFound, "user not found")
			return
		}
		s.tokens.revokeUser(userID)
		writeJSON(w, http.StatusNoContent, nil)
	}
}
