package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/AnshRaj112/lingua-backend/internal/apperror"
)

type envelope map[string]interface{}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError turns err into a JSON error response. Anything that is not an
// *apperror.AppError becomes a 500 carrying only fallback; the cause is logged.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error, fallback string) {
	appErr := apperror.From(err, fallback)

	status := appErr.StatusCode()
	if status >= http.StatusInternalServerError {
		logger.Error(appErr.Message,
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(appErr.Err),
		)
	}

	body := envelope{"success": false, "message": appErr.Message}
	for k, v := range appErr.Fields {
		body[k] = v
	}
	writeJSON(w, status, body)
}

// decodeJSON reads a JSON request body into dst. An empty body leaves dst
// zero-valued so the field checks report what is missing.
func decodeJSON(r *http.Request, dst interface{}) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return apperror.NewValidationError("Invalid request body")
	}
	return nil
}
