package playback

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func clipBody() []byte {
	return bytes.Repeat([]byte{0xAB}, 4096)
}

func TestHTTPFetcher_success(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write(clipBody())
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL, 0, testLogger(), nil)
	data, err := f.Fetch(context.Background(), ClipIdentifier{StringE4, 12})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(data) != 4096 {
		t.Errorf("got %d bytes", len(data))
	}
	if gotPath != "/E4_fret12.m4a" {
		t.Errorf("asset path: got %q", gotPath)
	}
}

func TestHTTPFetcher_error_kinds(t *testing.T) {
	cases := []struct {
		name string
		h    http.HandlerFunc
		kind FetchErrorKind
	}{
		{"http_status", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}, KindHTTPStatus},
		{"empty_body", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}, KindEmptyBody},
		{"corrupt_payload", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("too small"))
		}, KindCorruptPayload},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.h)
			defer srv.Close()

			f := NewHTTPFetcher(srv.URL, 0, testLogger(), nil)
			_, err := f.Fetch(context.Background(), ClipIdentifier{StringA3, 2})

			var fe *FetchError
			if !errors.As(err, &fe) {
				t.Fatalf("expected FetchError, got %v", err)
			}
			if fe.Kind != tc.kind {
				t.Errorf("kind: got %v, want %v", fe.Kind, tc.kind)
			}
		})
	}
}

func TestHTTPFetcher_cancellation(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write(clipBody())
	}))
	defer srv.Close()
	defer close(release)

	f := NewHTTPFetcher(srv.URL, 0, testLogger(), nil)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		_, err := f.Fetch(ctx, ClipIdentifier{StringE2, 0})
		errCh <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !IsCancelled(err) {
			t.Errorf("expected cancelled fetch error, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("fetch did not return after cancellation")
	}
}

func TestHTTPFetcher_network_failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	f := NewHTTPFetcher(srv.URL, 0, testLogger(), nil)
	_, err := f.Fetch(context.Background(), ClipIdentifier{StringG3, 1})

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.Kind != KindNetwork {
		t.Errorf("kind: got %v, want network", fe.Kind)
	}
}
