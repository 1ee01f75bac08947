package devserver

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-app-core/api"
)

const contentTypeJSON = "application/json; charset=utf-8"

// Error codes used in responses. The shapes match the normalized error the
// client core expects: {code, message, details?}.
const (
	codeInvalidRequest      = "INVALID_REQUEST"
	codeInvalidCredentials  = "INVALID_CREDENTIALS"
	codeEmailTaken          = "EMAIL_TAKEN"
	codeUnauthorized        = "UNAUTHORIZED"
	codeInvalidRefreshToken = "INVALID_REFRESH_TOKEN"
	codeInvalidResetToken   = "INVALID_RESET_TOKEN"
	codeNotFound            = "NOT_FOUND"
	codeInternal            = "INTERNAL_ERROR"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Debug().Err(err).Msg("encode response failed")
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, &api.Error{Code: code, Message: message})
}

// decodeJSON decodes the request body, rejecting unknown fields
func decodeJSON(r *http.Request, out any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}
