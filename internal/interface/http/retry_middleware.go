package http

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/destiny/internal/infra/config"
)

const retryBodyLimit = 64 << 10 // birth records are small

var errBodyTooLarge = errors.New("request body exceeds retry limit")

// withRetry replays POST requests that failed with a transient status. Only
// collaborator outages (503) qualify; a computation error would repeat.
func withRetry(handler http.Handler, cfg config.RetryConfig, logger *slog.Logger) http.Handler {
	if !cfg.Enabled || cfg.MaxAttempts <= 1 {
		return handler
	}
	exclusions := make(map[string]struct{}, len(cfg.Exclude))
	for _, path := range cfg.Exclude {
		exclusions[path] = struct{}{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, skip := exclusions[r.URL.Path]; skip || r.Method != http.MethodPost {
			handler.ServeHTTP(w, r)
			return
		}
		body, err := readRequestBody(r)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, errBodyTooLarge) {
				status = http.StatusRequestEntityTooLarge
			}
			http.Error(w, err.Error(), status)
			return
		}

		for attempt := 1; ; attempt++ {
			recorder := newRetryRecorder()
			replay := r.Clone(r.Context())
			replay.Body = io.NopCloser(bytes.NewReader(body))
			replay.ContentLength = int64(len(body))

			handler.ServeHTTP(recorder, replay)
			if recorder.status != http.StatusServiceUnavailable || attempt >= cfg.MaxAttempts {
				recorder.flushTo(w)
				return
			}
			logger.Warn("transient failure, retrying request", "path", r.URL.Path, "status", recorder.status, "attempt", attempt)

			delay := cfg.BaseBackoff << (attempt - 1)
			select {
			case <-r.Context().Done():
				recorder.flushTo(w)
				return
			case <-time.After(delay):
			}
		}
	})
}

func readRequestBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	defer r.Body.Close()
	data, err := io.ReadAll(io.LimitReader(r.Body, retryBodyLimit+1))
	if err != nil {
		return nil, err
	}
	if len(data) > retryBodyLimit {
		return nil, errBodyTooLarge
	}
	return data, nil
}

// retryRecorder buffers one attempt so a failed attempt never reaches the client.
type retryRecorder struct {
	header http.Header
	body   bytes.Buffer
	status int
}

func newRetryRecorder() *retryRecorder {
	return &retryRecorder{header: make(http.Header), status: http.StatusOK}
}

func (r *retryRecorder) Header() http.Header { return r.header }

func (r *retryRecorder) WriteHeader(status int) { r.status = status }

func (r *retryRecorder) Write(b []byte) (int, error) { return r.body.Write(b) }

func (r *retryRecorder) flushTo(w http.ResponseWriter) {
	dst := w.Header()
	for k, values := range r.header {
		dst[k] = append([]string(nil), values...)
	}
	w.WriteHeader(r.status)
	if r.body.Len() > 0 {
		_, _ = w.Write(r.body.Bytes())
	}
}
