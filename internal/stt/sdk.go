package stt

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// SDKSTT talks to the same transcription endpoint through the go-openai client.
// The SDK's typed decoding is bypassed: the raw response is captured on the
// way in and projected the same way OpenAISTT does it.
type SDKSTT struct {
	cfg    OpenAISTTConfig
	client *openai.Client
}

func NewSDKSTT(cfg OpenAISTTConfig) *SDKSTT {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini-transcribe"
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	clientCfg.HTTPClient = &http.Client{
		Timeout:   cfg.Timeout,
		Transport: &recordingTransport{base: http.DefaultTransport},
	}

	return &SDKSTT{
		cfg:    cfg,
		client: openai.NewClientWithConfig(clientCfg),
	}
}

func (s *SDKSTT) Name() string { return "openai-sdk" }

func (s *SDKSTT) Ready() error {
	if s.cfg.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func (s *SDKSTT) Transcribe(ctx context.Context, req TranscriptionRequest) (*TranscriptionResponse, error) {
	name := req.FileName
	if name == "" {
		name = DefaultFileName
	}

	rec := &recording{}
	_, sdkErr := s.client.CreateTranscription(withRecording(ctx, rec), openai.AudioRequest{
		Model:    s.cfg.Model,
		FilePath: name,
		Reader:   bytes.NewReader(req.Audio),
		Format:   openai.AudioResponseFormatJSON,
	})

	if !rec.done {
		// The provider never answered.
		return nil, &UpstreamError{Err: sdkErr}
	}
	if !isSuccess(rec.status) {
		return nil, &UpstreamError{StatusCode: rec.status, Body: string(rec.body), Err: sdkErr}
	}
	if rec.err != nil {
		return nil, fmt.Errorf("read response: %w", rec.err)
	}

	text, err := projectText(rec.body)
	if err != nil {
		return nil, err
	}
	return &TranscriptionResponse{Text: text}, nil
}

type recordingKey struct{}

// recording holds the raw provider answer for one call.
type recording struct {
	done   bool
	status int
	body   []byte
	err    error
}

func withRecording(ctx context.Context, rec *recording) context.Context {
	return context.WithValue(ctx, recordingKey{}, rec)
}

// recordingTransport buffers the response body into the request's recording
// and hands the SDK an identical copy.
type recordingTransport struct {
	base http.RoundTripper
}

func (t *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	rec, ok := req.Context().Value(recordingKey{}).(*recording)
	if err != nil || !ok {
		return resp, err
	}

	body, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	rec.done = true
	rec.status = resp.StatusCode
	rec.body = body
	rec.err = readErr
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}
