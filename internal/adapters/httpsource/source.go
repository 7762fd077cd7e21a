// Package httpsource serves resources from an HTTP origin. Change probes use
// HEAD requests and the ETag header; bodies are only read by Fetch.
package httpsource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ghalamif/JointSync/internal/ports"
)

const defaultRetryMax = 2

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

type Options struct {
	RetryMax int
	// Timeout bounds a whole request; zero leaves it to the transport.
	Timeout time.Duration
}

type Source struct {
	base   *url.URL
	client *http.Client
}

func New(baseURL string, opts Options) (*Source, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("httpsource: base url is required")
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("httpsource: base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("httpsource: base url must be http or https, got %q", baseURL)
	}

	retry := opts.RetryMax
	if retry == 0 {
		retry = defaultRetryMax
	}
	return &Source{
		base: u,
		client: &http.Client{
			Transport: &Transport{Base: http.DefaultTransport, RetryMax: retry},
			Timeout:   opts.Timeout,
		},
	}, nil
}

// NewWithClient uses a caller-provided client, e.g. one from httptest.
func NewWithClient(baseURL string, c *http.Client) (*Source, error) {
	s, err := New(baseURL, Options{})
	if err != nil {
		return nil, err
	}
	s.client = c
	return s, nil
}

func (s *Source) Probe(ctx context.Context, resource string) (string, error) {
	resp, err := s.do(ctx, http.MethodHead, resource)
	if err != nil {
		return "", err
	}
	resp.Body.Close()
	return resp.Header.Get("ETag"), nil
}

func (s *Source) Fetch(ctx context.Context, resource string) ([]byte, string, error) {
	resp, err := s.do(ctx, http.MethodGet, resource)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", resource, err)
	}
	return body, resp.Header.Get("ETag"), nil
}

func (s *Source) do(ctx context.Context, method, resource string) (*http.Response, error) {
	target, err := s.resolve(resource)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &StatusError{URL: target, StatusCode: resp.StatusCode}
	}
	return resp, nil
}

func (s *Source) resolve(resource string) (string, error) {
	ref, err := url.Parse(resource)
	if err != nil {
		return "", fmt.Errorf("resource %q: %w", resource, err)
	}
	return s.base.ResolveReference(ref).String(), nil
}

var _ ports.ResourceSource = (*Source)(nil)
