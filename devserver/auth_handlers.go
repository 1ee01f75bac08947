package devserver

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-app-core/auth"
	"github.com/jrsteele09/go-app-core/users"
)

func (s *Server) authResponse(record *userRecord) (*auth.AuthResponse, error) {
	tokens, err := s.tokens.issue(record.profile.ID, record.profile.Email)
	if err != nil {
		return nil, err
	}
	return &auth.AuthResponse{User: record.profile.User, Tokens: tokens}, nil
}

// LoginHandler exchanges email/password for a session
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds auth.LoginCredentials
		if err := decodeJSON(r, &creds); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequest, "malformed request body")
			return
		}
		if err := creds.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
			return
		}

		record, err := s.users.getByEmail(creds.Email)
		if err != nil || !users.CheckPasswordHash(creds.Password, record.passwordHash) {
			writeError(w, http.StatusUnauthorized, codeInvalidCredentials, "invalid email or password")
			return
		}

		resp, err := s.authResponse(record)
		if err != nil {
			log.Error().Err(err).Msg("token issuance failed")
			writeError(w, http.StatusInternalServerError, codeInternal, "could not issue tokens")
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// RegisterHandler creates an account and returns the initial session
func (s *Server) RegisterHandler() http.HandlerFunc {
	type registerRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequest, "malformed request body")
			return
		}

		creds := auth.RegisterCredentials{
			Email:           req.Email,
			Password:        req.Password,
			Name:            req.Name,
			ConfirmPassword: req.Password, // confirm-password never crosses the wire
		}
		if err := creds.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
			return
		}

		if s.users.emailTaken(req.Email) {
			writeError(w, http.StatusConflict, codeEmailTaken, "email already registered")
			return
		}

		hash, err := users.HashPassword(req.Password)
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternal, "could not hash password")
			return
		}

		record := s.users.create(req.Email, req.Name, hash)
		resp, err := s.authResponse(record)
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternal, "could not issue tokens")
			return
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}

// RefreshHandler exchanges a refresh token for a fresh session. Refresh
// tokens rotate: the presented token is consumed even when the exchange
// fails.
func (s *Server) RefreshHandler() http.HandlerFunc {
	type refreshRequest struct {
		RefreshToken string `json:"refreshToken"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if err := decodeJSON(r, &req); err != nil || req.RefreshToken == "" {
			writeError(w, http.StatusBadRequest, codeInvalidRequest, "refreshToken is required")
			return
		}

		userID, err := s.tokens.redeem(req.RefreshToken)
		if err != nil {
			writeError(w, http.StatusUnauthorized, codeInvalidRefreshToken, "invalid or expired refresh token")
			return
		}

		record, err := s.users.get(userID)
		if err != nil {
			writeError(w, http.StatusUnauthorized, codeInvalidRefreshToken, "account no longer exists")
			return
		}

		resp, err := s.authResponse(record)
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternal, "could not issue tokens")
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// LogoutHandler revokes the caller's refresh token. It accepts anonymous
// calls so a client with an expired session can still log out cleanly.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if token, ok := cutBearer(authHeader); ok {
			if userID, err := s.tokens.verifyAccess(token); err == nil {
				s.tokens.revokeUser(userID)
			}
		}
		writeJSON(w, http.StatusNoContent, nil)
	}
}

// ForgotPasswordHandler issues a reset token. A real deployment would email
// it; the dev server logs it instead. The response is identical whether or
// not the account exists.
func (s *Server) ForgotPasswordHandler() http.HandlerFunc {
	type forgotRequest struct {
		Email string `json:"email"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req forgotRequest
		if err := decodeJSON(r, &req); err != nil || req.Email == "" {
			writeError(w, http.StatusBadRequest, codeInvalidRequest, "email is required")
			return
		}

		if record, err := s.users.getByEmail(req.Email); err == nil {
			token := s.users.createResetToken(record.profile.ID)
			log.Info().Str("email", record.profile.Email).Str("token", token).Msg("password reset token issued")
		}

		writeJSON(w, http.StatusOK, &auth.MessageResponse{
			Message: "if the account exists, a reset email has been sent",
		})
	}
}

// ResetPasswordHandler sets a new password using a reset token
func (s *Server) ResetPasswordHandler() http.HandlerFunc {
	type resetRequest struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req resetRequest
		if err := decodeJSON(r, &req); err != nil || req.Token == "" {
			writeError(w, http.StatusBadRequest, codeInvalidRequest, "token is required")
			return
		}
		if len(req.Password) < 8 {
			writeError(w, http.StatusBadRequest, codeInvalidRequest, "password must be at least 8 characters")
			return
		}

		userID, err := s.users.redeemResetToken(req.Token)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidResetToken, "invalid or expired reset token")
			return
		}

		hash, err := users.HashPassword(req.Password)
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternal, "could not hash password")
			return
		}

		if _, err := s.users.update(userID, func(record *userRecord) {
			record.passwordHash = hash
		}); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidResetToken, "account no longer exists")
			return
		}

		// Force re-authentication everywhere
		s.tokens.revokeUser(userID)

		writeJSON(w, http.StatusOK, &auth.MessageResponse{Message: "password updated"})
	}
}
