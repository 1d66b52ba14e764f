package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/scantech/scansim/internal/models"
	"github.com/scantech/scansim/pkg/preview"
	"github.com/scantech/scansim/pkg/registry"
)

// errorBody is the JSON shape of all error responses
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// writeJSON renders v with the given status code
func (s *Server) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("Failed to encode response")
	}
}

// writeError maps domain error kinds to HTTP status codes
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		notFound    *models.NotFoundError
		unavailable *models.ScannerUnavailableError
		badSettings *models.InvalidSettingsError
		badState    *models.InvalidTransitionError
		blocked     *models.RemovalBlockedError
	)

	kind := "internal"
	code := http.StatusInternalServerError
	switch {
	case errors.As(err, &notFound):
		kind, code = "not_found", http.StatusNotFound
	case errors.As(err, &unavailable):
		kind, code = "scanner_unavailable", http.StatusConflict
	case errors.As(err, &badSettings):
		kind, code = "invalid_settings", http.StatusUnprocessableEntity
	case errors.As(err, &badState):
		kind, code = "invalid_transition", http.StatusConflict
	case errors.As(err, &blocked):
		kind, code = "removal_blocked", http.StatusConflict
	}

	s.writeJSON(w, code, errorBody{Error: errorDetail{Kind: kind, Message: err.Error()}})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{
			Kind:    "bad_request",
			Message: "invalid JSON body: " + err.Error(),
		}})
		return false
	}
	return true
}

func (s *Server) handleSystemInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, models.SystemInfo{
		Platform:   registry.CurrentSystem(),
		Scanners:   s.registry.Count(),
		ActiveJobs: s.manager.ActiveCount(),
	})
}

func (s *Server) handleListScanners(w http.ResponseWriter, r *http.Request) {
	if system := r.URL.Query().Get("system"); system != "" {
		st := models.SystemType(system)
		if !st.IsValid() {
			s.writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{
				Kind:    "bad_request",
				Message: "unknown system type: " + system,
			}})
			return
		}
		s.writeJSON(w, http.StatusOK, s.registry.ListBySystem(st))
		return
	}
	s.writeJSON(w, http.StatusOK, s.registry.List())
}

func (s *Server) handleAddScanner(w http.ResponseWriter, r *http.Request) {
	var spec registry.AddSpec
	if !s.decode(w, r, &spec) {
		return
	}
	id, err := s.registry.Add(spec)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{"scanner_id": id})
}

func (s *Server) handleGetScanner(w http.ResponseWriter, r *http.Request) {
	scanner, err := s.registry.Get(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, scanner)
}

func (s *Server) handleRemoveScanner(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.Remove(mux.Vars(r)["id"]); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCapabilities(w http.ResponseWriter, r *http.Request) {
	caps, err := s.registry.Capabilities(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, caps)
}

func (s *Server) handleTestConnection(w http.ResponseWriter, r *http.Request) {
	ok, err := s.registry.TestConnection(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"connected": ok})
}

func (s *Server) handleResetStatus(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.ResetStatus(mux.Vars(r)["id"]); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDiscover(w http.ResponseWriter, r *http.Request) {
	scanners, err := s.registry.Discover()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, scanners)
}

func (s *Server) handleSimulateEvents(w http.ResponseWriter, r *http.Request) {
	s.registry.SimulateEvents()
	w.WriteHeader(http.StatusNoContent)
}

// createJobRequest is the payload for job creation. Settings may be
// omitted to scan with the defaults.
type createJobRequest struct {
	ScannerID    string               `json:"scanner_id"`
	DocumentType models.DocumentType  `json:"document_type"`
	Settings     *models.ScanSettings `json:"settings,omitempty"`
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if !s.decode(w, r, &req) {
		return
	}

	settings := models.DefaultScanSettings()
	if req.Settings != nil {
		settings = *req.Settings
	}

	jobID, err := s.manager.Create(req.ScannerID, req.DocumentType, settings)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{"job_id": jobID})
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.manager.List())
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.manager.Get(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleStartJob(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.Start(mux.Vars(r)["id"]); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.Cancel(mux.Vars(r)["id"]); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleJobResult(w http.ResponseWriter, r *http.Request) {
	result, err := s.manager.Result(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"result": result})
}

func (s *Server) handleDocumentTypes(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, models.DocumentTypes())
}

func (s *Server) handleColorModes(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, models.ColorModes())
}

func (s *Server) handlePaperSizes(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, models.StandardPaperSizes())
}

func (s *Server) handleOutputFormats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, models.OutputFormats())
}

func (s *Server) handleScannerTypes(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, models.ScannerTypes())
}

func (s *Server) handleDefaultSettings(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, models.DefaultScanSettings())
}

func (s *Server) handleOpenOutput(w http.ResponseWriter, r *http.Request) {
	if err := preview.OpenDirectory(s.config.Output.Directory); err != nil {
		s.writeJSON(w, http.StatusInternalServerError, errorBody{Error: errorDetail{
			Kind:    "internal",
			Message: err.Error(),
		}})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type previewRequest struct {
	Path string `json:"path"`
}

func (s *Server) handlePreviewFile(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := preview.OpenFile(req.Path); err != nil {
		s.writeJSON(w, http.StatusNotFound, errorBody{Error: errorDetail{
			Kind:    "not_found",
			Message: err.Error(),
		}})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
