package mapping

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/synaptica-ai/requestmapping/pkg/common/logger"
	"github.com/synaptica-ai/requestmapping/pkg/datamapper"
)

const defaultHTTPSource = "http"

// HTTPHandler serves the mapping API. Request size is capped by
// middleware.BodyLimit on the router.
type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

func (h *HTTPHandler) Register(router *mux.Router) {
	router.HandleFunc("/map", h.handleMap).Methods(http.MethodPost)
	router.HandleFunc("/mappings", h.handleCreate).Methods(http.MethodPost)
	router.HandleFunc("/mappings/{id}", h.handleGet).Methods(http.MethodGet)
	router.HandleFunc("/schema", h.handleSchema).Methods(http.MethodGet)
}

func (h *HTTPHandler) handleMap(w http.ResponseWriter, r *http.Request) {
	raw, ok := readBody(w, r)
	if !ok {
		return
	}

	input, err := datamapper.DecodeInput(raw)
	if err != nil {
		logger.Log.WithError(err).Warn("invalid mapping payload")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, h.service.MapOnly(input))
}

func (h *HTTPHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	raw, ok := readBody(w, r)
	if !ok {
		return
	}

	var req MappingRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		logger.Log.WithError(err).Warn("invalid mapping request")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	input, err := req.Input()
	if err != nil {
		logger.Log.WithError(err).Warn("invalid mapping record")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = defaultHTTPSource
	}

	resp, err := h.service.Process(r.Context(), source, "", input)
	if err != nil {
		logger.Log.WithError(err).Error("failed to process mapping")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusAccepted, resp)
}

func (h *HTTPHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	res, err := h.service.Result(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "mapping not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to fetch mapping")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (h *HTTPHandler) handleSchema(w http.ResponseWriter, r *http.Request) {
	descriptor := h.service.Descriptor()

	if strings.EqualFold(r.URL.Query().Get("format"), "yaml") {
		content, err := descriptor.YAML()
		if err != nil {
			logger.Log.WithError(err).Error("failed to encode descriptor")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		w.Write(content)
		return
	}

	writeJSON(w, http.StatusOK, descriptor)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	raw, err := io.ReadAll(r.Body)
	if err == nil {
		return raw, true
	}
	if errors.As(err, new(*http.MaxBytesError)) {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return nil, false
	}
	logger.Log.WithError(err).Warn("failed to read request body")
	http.Error(w, "invalid request body", http.StatusBadRequest)
	return nil, false
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.WithError(err).Warn("failed to write response")
	}
}
