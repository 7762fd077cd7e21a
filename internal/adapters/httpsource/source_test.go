package httpsource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func newServer(t *testing.T, heads *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/viewer/tesseract_trajectory.json":
			if r.Method == http.MethodHead {
				atomic.AddInt32(heads, 1)
			}
			w.Header().Set("ETag", `"v1"`)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"joint_names":["j1"],"trajectory":[[0,0]]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestProbeReturnsETag(t *testing.T) {
	var heads int32
	srv := newServer(t, &heads)

	src, err := NewWithClient(srv.URL+"/viewer", srv.Client())
	if err != nil {
		t.Fatalf("new source: %v", err)
	}
	tag, err := src.Probe(context.Background(), "./tesseract_trajectory.json")
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if tag != `"v1"` {
		t.Fatalf("expected etag \"v1\", got %q", tag)
	}
	if atomic.LoadInt32(&heads) != 1 {
		t.Fatalf("expected probe to use HEAD")
	}
}

func TestFetchReturnsBodyAndTag(t *testing.T) {
	var heads int32
	srv := newServer(t, &heads)
	src, _ := NewWithClient(srv.URL+"/viewer/", srv.Client())

	body, tag, err := src.Fetch(context.Background(), "tesseract_trajectory.json")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if tag != `"v1"` || len(body) == 0 {
		t.Fatalf("unexpected fetch result tag=%q body=%q", tag, body)
	}
	if atomic.LoadInt32(&heads) != 0 {
		t.Fatalf("fetch must not issue HEAD")
	}
}

func TestProbeStatusError(t *testing.T) {
	var heads int32
	srv := newServer(t, &heads)
	src, _ := NewWithClient(srv.URL, srv.Client())

	_, err := src.Probe(context.Background(), "missing.gltf")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if se.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", se.StatusCode)
	}
}

func TestNewRejectsBadBase(t *testing.T) {
	if _, err := New("", Options{}); err == nil {
		t.Fatalf("expected error for empty base url")
	}
	if _, err := New("ftp://example.com", Options{}); err == nil {
		t.Fatalf("expected error for non-http scheme")
	}
}

type flakyTransport struct {
	failures int
	calls    int
}

func (f *flakyTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("connection reset")
	}
	return &http.Response{StatusCode: http.StatusOK, Header: http.Header{"Etag": {`"x"`}}, Body: http.NoBody, Request: r}, nil
}

func TestTransportRetriesHead(t *testing.T) {
	base := &flakyTransport{failures: 2}
	tr := &Transport{Base: base, RetryMax: 2}

	req, _ := http.NewRequest(http.MethodHead, "http://example.com/scene.gltf", nil)
	resp, err := tr.RoundTrip(req)
	if err != nil {
		t.Fatalf("expected success after retries: %v", err)
	}
	resp.Body.Close()
	if base.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", base.calls)
	}
}

func TestTransportDoesNotRetryPost(t *testing.T) {
	base := &flakyTransport{failures: 1}
	tr := &Transport{Base: base, RetryMax: 2}

	req, _ := http.NewRequest(http.MethodPost, "http://example.com/command", http.NoBody)
	if _, err := tr.RoundTrip(req); err == nil {
		t.Fatalf("expected POST failure to surface")
	}
	if base.calls != 1 {
		t.Fatalf("expected a single attempt, got %d", base.calls)
	}
}
