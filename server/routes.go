package server

import (
	"bytes"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/evcommunities/demo/logger"
	"github.com/evcommunities/demo/simulation"
)

// Handler serves the demo API routes.
type Handler struct {
	privateKey string
	launcher   Launcher
}

// NewHandler builds the route handler. Requests must carry privateKey in the
// private-key header to be accepted.
func NewHandler(privateKey string, launcher Launcher) *Handler {
	return &Handler{privateKey: privateKey, launcher: launcher}
}

// Routes returns the demo API routing table.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /simulation", h.startSimulation)
	mux.HandleFunc("GET /health", h.health)
	return mux
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeResponse(w, http.StatusOK, response{Message: "OK"})
}

// startSimulation validates the posted parameters and launches a new
// simulation run.
func (h *Handler) startSimulation(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get(HeaderPrivateKey)
	if key == "" || key != h.privateKey {
		logger.Warn("Invalid token used: %s", key)
		unauthorizedResponse(w)
		return
	}

	content, err := io.ReadAll(r.Body)
	if err != nil {
		serverErrorResponse(w, err.Error())
		return
	}
	if len(content) <= 2 {
		logger.Info("No content found in the request")
		badRequestResponse(w, noContentError)
		return
	}

	document, parseError := decodeDocument(content)
	if parseError != "" {
		badRequestResponse(w, "Could not parse input: "+parseError)
		return
	}

	parameters, err := simulation.ValidateInput(document)
	if err != nil {
		invalidResponse(w, err.Error())
		return
	}

	simulationID, err := h.launcher.Launch(r.Context(), parameters)
	if err != nil {
		logger.Error("Could not start the simulation: %v", err)
		serverErrorResponse(w, err.Error())
		return
	}

	logger.Info("Simulation started with id: %s", simulationID)
	okResponse(w, simulationID)
}

// decodeDocument parses the request body into a JSON object keeping the
// integer and floating point number distinction intact.
func decodeDocument(content []byte) (map[string]any, string) {
	decoder := json.NewDecoder(bytes.NewReader(content))
	decoder.UseNumber()

	var decoded any
	if err := decoder.Decode(&decoded); err != nil {
		logger.Debug("Could not parse the request content: %v", err)
		return nil, err.Error()
	}
	document, ok := decoded.(map[string]any)
	if !ok {
		return nil, notObjectError
	}
	return document, ""
}
