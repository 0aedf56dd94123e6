package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/uxxjournal/transcribe-relay/internal/stt"
)

type HealthHandler struct {
	transcriber stt.Transcriber
}

func NewHealthHandler(t stt.Transcriber) *HealthHandler {
	return &HealthHandler{transcriber: t}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz reports whether the upstream provider is configured.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}

	if err := h.transcriber.Ready(); err != nil {
		checks[h.transcriber.Name()] = "unhealthy: " + err.Error()
	} else {
		checks[h.transcriber.Name()] = "ok"
	}

	status := http.StatusOK
	for _, v := range checks {
		if v != "ok" {
			status = http.StatusServiceUnavailable
			break
		}
	}

	writeJSON(w, status, map[string]interface{}{"status": statusStr(status), "checks": checks})
}

func statusStr(code int) string {
	if code == http.StatusOK {
		return "ok"
	}
	return "unhealthy"
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
