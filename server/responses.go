package server

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/evcommunities/demo/logger"
)

// response is the body of every API reply. Information carries the
// simulation id on success; Error carries the failure detail.
type response struct {
	Message     string `json:"message"`
	Information string `json:"information,omitempty"`
	Error       string `json:"error,omitempty"`
}

func writeResponse(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Could not write response: %v", err)
	}
}

func okResponse(w http.ResponseWriter, simulationID string) {
	writeResponse(w, http.StatusOK, response{Message: OkMessage, Information: simulationID})
}

func badRequestResponse(w http.ResponseWriter, detail string) {
	writeResponse(w, http.StatusBadRequest, response{Message: BadRequestMessage, Error: detail})
}

func unauthorizedResponse(w http.ResponseWriter) {
	writeResponse(w, http.StatusUnauthorized, response{Message: UnauthorizedMessage})
}

func invalidResponse(w http.ResponseWriter, detail string) {
	writeResponse(w, http.StatusUnprocessableEntity, response{Message: InvalidMessage, Error: detail})
}

func serverErrorResponse(w http.ResponseWriter, detail string) {
	writeResponse(w, http.StatusInternalServerError, response{Message: ServerErrorMessage, Error: detail})
}
