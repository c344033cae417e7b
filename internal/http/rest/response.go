package rest

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/cityline/cityline_api/util"
	"github.com/cityline/cityline_api/util/tracing"
)

// ServerResponse is the uniform envelope every handler returns. The
// wrapped error is logged, never serialized, so internal error detail
// stays out of client-facing bodies.
type ServerResponse struct {
	Message    string      `json:"message"`
	Status     string      `json:"status"`
	StatusCode int         `json:"-"`
	Data       interface{} `json:"data,omitempty"`
}

func writeJSONResponse(w http.ResponseWriter, body []byte, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(body); err != nil {
		log.Printf("[HTTP]: failed to write response: %v", err)
	}
}

func writeErrorResponse(w http.ResponseWriter, err error, status, message string) {
	log.Printf("[HTTP]: %s: %v", message, err)

	resp := ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
	}
	respByte, mErr := json.Marshal(resp)
	if mErr != nil {
		http.Error(w, message, http.StatusInternalServerError)
		return
	}
	writeJSONResponse(w, respByte, resp.StatusCode)
}

func respondWithError(err error, message string, status string, tc *tracing.Context) *ServerResponse {
	requestID := ""
	if tc != nil {
		requestID = tc.RequestID
	}
	log.Printf("[%s]: %s: %v", requestID, message, err)

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
	}
}
