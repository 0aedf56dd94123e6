// Package relay implements the transcription gateway: it checks
// configuration and credentials, validates one uploaded audio blob, forwards
// it to the speech-to-text provider, and reshapes the answer.
//
// Every failure is resolved inside Transcribe and comes back as a Result;
// nothing escapes to the transport.
package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/uxxjournal/transcribe-relay/internal/auth"
	"github.com/uxxjournal/transcribe-relay/internal/logger"
	"github.com/uxxjournal/transcribe-relay/internal/metrics"
	"github.com/uxxjournal/transcribe-relay/internal/stt"
)

// Result is the outcome of one invocation: a transcript, or Err.
// CORS preflights never get here; middleware.CORS answers them.
type Result struct {
	Text string
	Err  *Error
}

func (r Result) Kind() Kind {
	if r.Err != nil {
		return r.Err.Kind
	}
	return KindSuccess
}

type Relay struct {
	transcriber stt.Transcriber
	verifier    auth.Verifier
	metrics     *metrics.Metrics
}

// New builds a Relay. A nil verifier means presence-only checking; nil
// metrics disables recording.
func New(t stt.Transcriber, v auth.Verifier, m *metrics.Metrics) *Relay {
	if v == nil {
		v = auth.Presence{}
	}
	return &Relay{transcriber: t, verifier: v, metrics: m}
}

// Transcribe runs the pipeline for one request. Safe for concurrent use.
func (rl *Relay) Transcribe(r *http.Request) (res Result) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			res = Result{Err: classify(fmt.Errorf("%v", p))}
		}
		rl.finish(r.Context(), res, time.Since(start))
	}()

	text, err := rl.run(r)
	if err != nil {
		return Result{Err: classify(err)}
	}
	return Result{Text: text}
}

func (rl *Relay) run(r *http.Request) (string, error) {
	// Checked per call: the key may be absent from the environment.
	if err := rl.transcriber.Ready(); err != nil {
		return "", misconfigured(err)
	}

	if err := rl.verifier.Verify(r.Header.Get("Authorization")); err != nil {
		return "", unauthenticated(err)
	}

	up, err := readUpload(r)
	if err != nil {
		return "", err
	}
	rl.metrics.ObserveAudio(len(up.data))

	// Client disconnects do not cancel the upstream call.
	ctx := context.WithoutCancel(r.Context())

	started := time.Now()
	resp, err := rl.transcriber.Transcribe(ctx, stt.TranscriptionRequest{
		Audio:       up.data,
		FileName:    up.fileName,
		ContentType: up.contentType,
	})
	rl.metrics.ObserveUpstream(time.Since(started).Seconds())
	if err != nil {
		var ue *stt.UpstreamError
		if errors.As(err, &ue) {
			return "", upstream(ue.Detail(), err)
		}
		return "", err
	}
	return resp.Text, nil
}

func (rl *Relay) finish(ctx context.Context, res Result, elapsed time.Duration) {
	kind := res.Kind()
	rl.metrics.RecordOutcome(string(kind))

	log := logger.FromContext(ctx)
	attrs := []any{
		slog.String("outcome", string(kind)),
		slog.String("provider", rl.transcriber.Name()),
		slog.Duration("elapsed", elapsed),
	}

	switch kind {
	case KindSuccess:
		log.InfoContext(ctx, "transcription completed", append(attrs, slog.Int("text_len", len(res.Text)))...)
	case KindUnauthenticated, KindBadRequest, KindUnsupportedMediaType, KindPayloadTooLarge:
		log.WarnContext(ctx, "transcription rejected", append(attrs, slog.Int("status", res.Err.Status))...)
	default:
		log.ErrorContext(ctx, "transcription failed",
			append(attrs, slog.Int("status", res.Err.Status), slog.String("error", res.Err.Message))...)
	}
}
