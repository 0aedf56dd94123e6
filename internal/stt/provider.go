package stt

import (
	"context"
	"errors"
	"fmt"

	"github.com/uxxjournal/transcribe-relay/internal/config"
)

// DefaultFileName is used when the uploaded audio has no filename.
const DefaultFileName = "audio.webm"

// ErrMissingAPIKey is returned by Ready when the upstream secret is not configured.
var ErrMissingAPIKey = errors.New("missing OPENAI_API_KEY")

// TranscriptionRequest holds one audio blob to forward upstream.
type TranscriptionRequest struct {
	Audio       []byte
	FileName    string
	ContentType string
}

// TranscriptionResponse holds the projected transcription result.
type TranscriptionResponse struct {
	Text string `json:"text"`
}

// Transcriber is the interface for speech-to-text backends.
type Transcriber interface {
	Name() string
	// Ready reports whether the backend has what it needs to serve a call.
	// It is cheap and safe to call on every request.
	Ready() error
	Transcribe(ctx context.Context, req TranscriptionRequest) (*TranscriptionResponse, error)
}

// UpstreamError is a transport failure or non-success status from the provider.
// Body holds the provider's raw error text.
type UpstreamError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("upstream request failed: %s", e.Detail())
	}
	return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Detail())
}

// Detail returns the raw upstream message, or the transport error text.
func (e *UpstreamError) Detail() string {
	if e.Body != "" || e.Err == nil {
		return e.Body
	}
	return e.Err.Error()
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// New builds the backend selected by cfg.Backend.
func New(cfg config.STTConfig) (Transcriber, error) {
	switch cfg.Backend {
	case config.BackendOpenAI, "":
		return NewOpenAISTT(OpenAISTTConfig{
			APIKey:  cfg.OpenAIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.Timeout,
		}), nil
	case config.BackendOpenAISDK:
		return NewSDKSTT(OpenAISTTConfig{
			APIKey:  cfg.OpenAIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.Timeout,
		}), nil
	case config.BackendLocal:
		return NewLocalSTT(LocalSTTConfig{
			BaseURL: cfg.LocalBaseURL,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown stt backend %q", cfg.Backend)
	}
}
