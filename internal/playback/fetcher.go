package playback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"chord-trainer/internal/platform/metrics"
)

// FetchErrorKind classifies clip download failures.
type FetchErrorKind int

const (
	KindNetwork FetchErrorKind = iota
	KindHTTPStatus
	KindEmptyBody
	KindCorruptPayload
	KindCancelled
)

func (k FetchErrorKind) String() string {
	switch k {
	case KindHTTPStatus:
		return "http_status"
	case KindEmptyBody:
		return "empty_body"
	case KindCorruptPayload:
		return "corrupt_payload"
	case KindCancelled:
		return "cancelled"
	default:
		return "network"
	}
}

// FetchError is a typed clip download failure. KindCancelled results from
// legitimate supersession and must never be surfaced to the user.
type FetchError struct {
	ID     ClipIdentifier
	Kind   FetchErrorKind
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Kind == KindHTTPStatus {
		return fmt.Sprintf("fetch %s: %s %d", e.ID, e.Kind, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.ID, e.Kind, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.ID, e.Kind)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsCancelled reports whether err is a fetch cancellation.
func IsCancelled(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == KindCancelled
}

// Payloads smaller than this cannot be a real audio container and are
// treated as corrupt.
const minClipBytes = 100

// DefaultFetchTimeout bounds a single clip download. The asset store applies
// no server-side limit, so without this a hung request would hold
// isLoading=true indefinitely.
const DefaultFetchTimeout = 10 * time.Second

// HTTPFetcher downloads clips from the asset store with a single GET per
// clip. It performs no retries; failure handling belongs to the engines.
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewHTTPFetcher returns a fetcher rooted at baseURL. timeout <= 0 falls back
// to DefaultFetchTimeout. Metrics may be nil to disable recording.
func NewHTTPFetcher(baseURL string, timeout time.Duration, log *slog.Logger, m *metrics.Metrics) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &HTTPFetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     log,
		metrics: m,
	}
}

// URL returns the deterministic asset URL for a clip.
func (f *HTTPFetcher) URL(id ClipIdentifier) string {
	return f.baseURL + "/" + id.AssetName()
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, id ClipIdentifier) ([]byte, error) {
	if f.metrics != nil {
		f.metrics.IncClipFetches()
	}

	data, err := f.fetch(ctx, id)
	if err != nil {
		if f.metrics != nil && !IsCancelled(err) {
			f.metrics.IncClipFetchFailures()
		}
		return nil, err
	}
	return data, nil
}

func (f *HTTPFetcher) fetch(ctx context.Context, id ClipIdentifier) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL(id), nil)
	if err != nil {
		return nil, &FetchError{ID: id, Kind: KindNetwork, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &FetchError{ID: id, Kind: KindCancelled, Err: ctx.Err()}
		}
		return nil, &FetchError{ID: id, Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{ID: id, Kind: KindHTTPStatus, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &FetchError{ID: id, Kind: KindCancelled, Err: ctx.Err()}
		}
		return nil, &FetchError{ID: id, Kind: KindNetwork, Err: err}
	}

	if len(data) == 0 {
		return nil, &FetchError{ID: id, Kind: KindEmptyBody}
	}
	if len(data) < minClipBytes {
		return nil, &FetchError{ID: id, Kind: KindCorruptPayload}
	}

	f.log.Debug("clip fetched",
		slog.String("clip", id.String()),
		slog.Int("bytes", len(data)))
	return data, nil
}
