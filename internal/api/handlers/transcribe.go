package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/uxxjournal/transcribe-relay/internal/relay"
	"github.com/uxxjournal/transcribe-relay/internal/stt"
)

type TranscribeHandler struct {
	relay *relay.Relay
}

func NewTranscribeHandler(rl *relay.Relay) *TranscribeHandler {
	return &TranscribeHandler{relay: rl}
}

// Transcribe relays one uploaded recording and renders the result.
func (h *TranscribeHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	res := h.relay.Transcribe(r)

	if res.Err != nil {
		writeText(w, res.Err.Status, res.Err.Message)
		return
	}
	writeTranscript(w, res.Text)
}

// writeTranscript emits exactly {"text":"..."}: no trailing newline and no
// HTML escaping of the transcript.
func writeTranscript(w http.ResponseWriter, text string) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(stt.TranscriptionResponse{Text: text}); err != nil {
		writeText(w, http.StatusInternalServerError, "Server error: "+err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(msg))
}
