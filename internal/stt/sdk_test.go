package stt

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSDKSTTTranscribe(t *testing.T) {
	var got capturedUpload
	srv := fakeUpstream(t, http.StatusOK, `{"text":"from sdk"}`, &got)

	s := NewSDKSTT(OpenAISTTConfig{APIKey: "sk-sdk", BaseURL: srv.URL + "/v1"})
	resp, err := s.Transcribe(context.Background(), TranscriptionRequest{
		Audio:    []byte("opus"),
		FileName: "note.webm",
	})
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if resp.Text != "from sdk" {
		t.Errorf("Text = %q", resp.Text)
	}
	if got.path != "/v1/audio/transcriptions" {
		t.Errorf("path = %q", got.path)
	}
	if got.authorization != "Bearer sk-sdk" {
		t.Errorf("Authorization = %q", got.authorization)
	}
	if got.model != "gpt-4o-mini-transcribe" || got.format != "json" {
		t.Errorf("model/format = %q/%q", got.model, got.format)
	}
	if got.fileName != "note.webm" || got.fileData != "opus" {
		t.Errorf("file part = (%q, %q)", got.fileName, got.fileData)
	}
}

func TestSDKSTTUpstreamError(t *testing.T) {
	srv := fakeUpstream(t, http.StatusServiceUnavailable, "rate limited", nil)

	s := NewSDKSTT(OpenAISTTConfig{APIKey: "k", BaseURL: srv.URL})
	_, err := s.Transcribe(context.Background(), TranscriptionRequest{Audio: []byte("a")})
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("error = %v, want *UpstreamError", err)
	}
	if !strings.Contains(ue.Detail(), "rate limited") {
		t.Errorf("Detail() = %q, want it to contain %q", ue.Detail(), "rate limited")
	}
}

func TestSDKSTTForwardsRawErrorBody(t *testing.T) {
	const raw = `{"error":{"message":"rate limited","type":"requests"}}`
	srv := fakeUpstream(t, http.StatusTooManyRequests, raw, nil)

	s := NewSDKSTT(OpenAISTTConfig{APIKey: "k", BaseURL: srv.URL})
	_, err := s.Transcribe(context.Background(), TranscriptionRequest{Audio: []byte("a")})
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("error = %v, want *UpstreamError", err)
	}
	if ue.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d", ue.StatusCode)
	}
	if ue.Detail() != raw {
		t.Errorf("Detail() = %q, want raw body %q", ue.Detail(), raw)
	}
}

func TestSDKSTTProjection(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "string text", body: `{"text":"ok"}`, want: "ok"},
		{name: "numeric text", body: `{"text":42}`, want: ""},
		{name: "missing text", body: `{"duration":3}`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := fakeUpstream(t, http.StatusOK, tt.body, nil)
			s := NewSDKSTT(OpenAISTTConfig{APIKey: "k", BaseURL: srv.URL})
			resp, err := s.Transcribe(context.Background(), TranscriptionRequest{Audio: []byte("a")})
			if err != nil {
				t.Fatalf("Transcribe() error = %v", err)
			}
			if resp.Text != tt.want {
				t.Errorf("Text = %q, want %q", resp.Text, tt.want)
			}
		})
	}
}

func TestSDKSTTInvalidJSONIsNotUpstream(t *testing.T) {
	srv := fakeUpstream(t, http.StatusOK, `{"text":`, nil)
	s := NewSDKSTT(OpenAISTTConfig{APIKey: "k", BaseURL: srv.URL})

	_, err := s.Transcribe(context.Background(), TranscriptionRequest{Audio: []byte("a")})
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		t.Errorf("error = %v, want a non-upstream error", err)
	}
}

func TestSDKSTTTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	s := NewSDKSTT(OpenAISTTConfig{APIKey: "k", BaseURL: url})
	_, err := s.Transcribe(context.Background(), TranscriptionRequest{Audio: []byte("a")})
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("error = %v, want *UpstreamError", err)
	}
	if ue.StatusCode != 0 || ue.Detail() == "" {
		t.Errorf("unexpected upstream error: %+v", ue)
	}
}
