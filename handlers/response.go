package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"rrlogistics/logger"
	"rrlogistics/models"
	"rrlogistics/services"
)

// ApiResponse is the envelope of every JSON response.
type ApiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp ApiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Log.Warn("encode response", zap.Error(err))
	}
}

func writeOK(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, ApiResponse{Success: true, Message: message, Data: data})
}

func writeFail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ApiResponse{Success: false, Message: message})
}

// writeError maps service errors to a status code. Unknown errors are logged
// and reported as 500 without their text.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case models.IsValidation(err):
		writeFail(w, http.StatusBadRequest, err.Error())
	case models.IsNotFound(err):
		writeFail(w, http.StatusNotFound, err.Error())
	case models.IsConflict(err):
		writeFail(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		writeFail(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, services.ErrTokenIsExpired):
		writeFail(w, http.StatusUnauthorized, "Token is expired")
	case errors.Is(err, services.ErrTokenIsInvalid):
		writeFail(w, http.StatusUnauthorized, "Token is invalid")
	default:
		logger.Log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("uri", r.RequestURI),
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.Error(err),
		)
		writeFail(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return false
	}
	return true
}

// paging reads skip and limit query parameters.
func paging(r *http.Request) (skip, limit int64, err error) {
	q := r.URL.Query()
	for name, dst := range map[string]*int64{"skip": &skip, "limit": &limit} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		v, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil || v < 0 {
			return 0, 0, models.ValidationError{Field: name, Msg: fmt.Sprintf("invalid value %q", raw)}
		}
		*dst = v
	}
	return skip, limit, nil
}
