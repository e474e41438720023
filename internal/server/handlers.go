package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"trendlens/internal/alerts"
	"trendlens/internal/brief"
	"trendlens/internal/refresh"
	"trendlens/internal/render"
)

// briefHandler handles brief-related HTTP requests
type briefHandler struct {
	svc        *brief.Service
	controller *refresh.Controller
	thresholds alerts.Thresholds
}

func newBriefHandler(svc *brief.Service, controller *refresh.Controller, th alerts.Thresholds) *briefHandler {
	return &briefHandler{
		svc:        svc,
		controller: controller,
		thresholds: th,
	}
}

// GetBrief returns the trend brief, generating one if the refresh
// policy allows. ?force=true bypasses the cooldown.
func (h *briefHandler) GetBrief(w http.ResponseWriter, r *http.Request) {
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))

	b, err := h.svc.Generate(r.Context(), force)
	if err != nil {
		if errors.Is(err, brief.ErrNotInitialized) {
			respondWithError(w, http.StatusConflict, "No influencer content loaded yet", err)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to generate brief", err)
		return
	}

	respondWithJSON(w, http.StatusOK, b)
}

// GetBriefMarkdown returns the brief rendered as markdown.
func (h *briefHandler) GetBriefMarkdown(w http.ResponseWriter, r *http.Request) {
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))

	b, err := h.svc.Generate(r.Context(), force)
	if err != nil {
		if errors.Is(err, brief.ErrNotInitialized) {
			respondWithError(w, http.StatusConflict, "No influencer content loaded yet", err)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to generate brief", err)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(render.Markdown(b)))
}

type queryRequest struct {
	Question string `json:"question"`
}

type queryResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// PostQuery answers a free-form question about the loaded content.
func (h *briefHandler) PostQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Question == "" {
		respondWithError(w, http.StatusBadRequest, "Missing question", nil)
		return
	}

	answer, err := h.svc.Query(r.Context(), req.Question)
	if err != nil {
		if errors.Is(err, brief.ErrNotInitialized) {
			respondWithError(w, http.StatusConflict, "No influencer content loaded yet", err)
			return
		}
		respondWithError(w, http.StatusBadGateway, "Query failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, queryResponse{Question: req.Question, Answer: answer})
}

// GetAlerts scans the loaded content for threshold breaches.
func (h *briefHandler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]any{
		"alerts": h.svc.Alerts(r.Context(), h.thresholds),
	})
}

type statusResponse struct {
	State         string     `json:"state"`
	LastGenerated *time.Time `json:"lastGenerated,omitempty"`
}

// GetStatus reports the refresh state and last generation time.
func (h *briefHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{State: h.controller.State().String()}
	if last, ok := h.controller.LastGenerated(); ok {
		resp.LastGenerated = &last
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	response := map[string]string{"error": message}
	if err != nil {
		response["detail"] = err.Error()
	}

	jsonResponse, _ := json.Marshal(response)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(jsonResponse)
}
