package stt

import "time"

// LocalSTTConfig points the relay at a self-hosted OpenAI-compatible server
// such as whisper.cpp.
type LocalSTTConfig struct {
	BaseURL string // default: "http://localhost:8178"
	Model   string
	Timeout time.Duration
}

// LocalSTT speaks the same wire format as OpenAISTT but never sends a
// bearer credential.
type LocalSTT struct {
	*OpenAISTT
}

func NewLocalSTT(cfg LocalSTTConfig) *LocalSTT {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8178"
	}
	return &LocalSTT{
		OpenAISTT: NewOpenAISTT(OpenAISTTConfig{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		}),
	}
}

func (l *LocalSTT) Name() string { return "local-whisper" }

// Ready is always nil: OPENAI_API_KEY guards the hosted provider only, so a
// relay in front of a local server is never misconfigured for lacking it.
func (l *LocalSTT) Ready() error { return nil }
