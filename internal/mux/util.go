package mux

import (
	"encoding/json"
	"errors"
	"net/http"

	"chipstack-server/pkg/playable/poker/texasholdem"
	"chipstack-server/pkg/table"
	"github.com/sirupsen/logrus"
)

func decodeRequest(w http.ResponseWriter, r *http.Request, payload interface{}) bool {
	if ct := r.Header.Get("Content-Type"); ct != "application/json" && ct != "text/json" {
		writeJSONError(w, http.StatusUnsupportedMediaType, nil)
		return false
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return false
	}

	return true
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Error("could not write JSON response")
	}
}

type errorResponse struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

// writeError picks the status code from the type of error
// Anything that isn't a participant, user, or not found error is a 500
func writeError(w http.ResponseWriter, err error) {
	var pe texasholdem.ParticipantError
	var ue table.UserError

	switch {
	case errors.Is(err, table.ErrTableNotFound),
		errors.Is(err, table.ErrHandNotFound),
		errors.Is(err, texasholdem.ErrHandNotFound):
		writeJSONError(w, http.StatusNotFound, err)
	case errors.As(err, &pe), errors.As(err, &ue):
		writeJSONError(w, http.StatusBadRequest, err)
	default:
		writeJSONError(w, http.StatusInternalServerError, err)
	}
}

func writeJSONError(w http.ResponseWriter, statusCode int, err error) {
	var msg string

	if statusCode < 500 && err != nil {
		msg = err.Error()
	} else {
		msg = http.StatusText(statusCode)
	}

	if statusCode >= 500 {
		logrus.WithField("statusCode", statusCode).Error(err)
	}

	writeJSON(w, statusCode, errorResponse{
		Message:    msg,
		StatusCode: statusCode,
	})
}
