package stt

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// OpenAISTTConfig holds configuration for the OpenAI STT backend.
type OpenAISTTConfig struct {
	APIKey  string
	BaseURL string // default: "https://api.openai.com/v1"
	Model   string // default: "gpt-4o-mini-transcribe"
	Timeout time.Duration
}

// OpenAISTT transcribes audio using OpenAI's transcription API (or a compatible endpoint).
type OpenAISTT struct {
	cfg        OpenAISTTConfig
	httpClient *http.Client
}

// NewOpenAISTT creates an OpenAISTT with sensible defaults applied.
// A zero Timeout leaves the call bounded only by the transport.
func NewOpenAISTT(cfg OpenAISTTConfig) *OpenAISTT {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini-transcribe"
	}
	return &OpenAISTT{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (o *OpenAISTT) Name() string { return "openai" }

func (o *OpenAISTT) Ready() error {
	if o.cfg.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// Transcribe sends the audio blob to the transcription endpoint in a single attempt.
func (o *OpenAISTT) Transcribe(ctx context.Context, req TranscriptionRequest) (*TranscriptionResponse, error) {
	body, contentType, err := o.encode(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.cfg.BaseURL+"/audio/transcriptions", body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	if o.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+o.cfg.APIKey)
	}

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if !isSuccess(resp.StatusCode) {
		ue := &UpstreamError{StatusCode: resp.StatusCode, Body: string(respBody)}
		if err != nil && len(respBody) == 0 {
			ue.Err = fmt.Errorf("read response: %w", err)
		}
		return nil, ue
	}
	// A failure past a success status is ours, not the provider's.
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	text, err := projectText(respBody)
	if err != nil {
		return nil, err
	}
	return &TranscriptionResponse{Text: text}, nil
}

func (o *OpenAISTT) encode(req TranscriptionRequest) (io.Reader, string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("model", o.cfg.Model); err != nil {
		return nil, "", fmt.Errorf("write model field: %w", err)
	}

	name := req.FileName
	if name == "" {
		name = DefaultFileName
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// The client's declared MIME type is kept on the forwarded part.
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(name)))
	header.Set("Content-Type", contentType)
	fw, err := mw.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := fw.Write(req.Audio); err != nil {
		return nil, "", fmt.Errorf("copy audio data: %w", err)
	}

	if err := mw.WriteField("response_format", "json"); err != nil {
		return nil, "", fmt.Errorf("write response_format field: %w", err)
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &body, mw.FormDataContentType(), nil
}

func isSuccess(code int) bool { return code >= 200 && code <= 299 }

// projectText returns the "text" member if it is a JSON string, else "".
func projectText(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("parse response: invalid JSON")
	}
	res := gjson.GetBytes(body, "text")
	if res.Type != gjson.String {
		return "", nil
	}
	return res.Str, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
