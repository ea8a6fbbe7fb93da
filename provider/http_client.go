package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
)

const defaultTimeoutSeconds = 10

type HttpClient struct {
	inner *http.Client
}

// NewHttpClient builds a client with the per-call timeout taken from
// PROVIDER_TIMEOUT_SECONDS, falling back to 10s.
func NewHttpClient() HttpClient {
	seconds := defaultTimeoutSeconds
	if raw := os.Getenv("PROVIDER_TIMEOUT_SECONDS"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			seconds = parsed
		}
	}
	return NewHttpClientWithTimeout(time.Duration(seconds) * time.Second)
}

func NewHttpClientWithTimeout(timeout time.Duration) HttpClient {
	return HttpClient{inner: &http.Client{Timeout: timeout}}
}

// GetJSON issues one GET against endpoint with the encoded params and
// decodes the 2xx body into out. Network failure, non-2xx status and
// malformed JSON come back as ProviderError with distinct reasons; the
// upstream status and body are preserved for diagnosability.
func (c HttpClient) GetJSON(ctx context.Context, source Source, endpoint string, params url.Values, out interface{}) error {
	uri := endpoint
	if len(params) > 0 {
		uri += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return &ProviderError{Source: source, Reason: ReasonNetwork, Err: err}
	}
	resp, err := c.inner.Do(req)
	if err != nil {
		return &ProviderError{Source: source, Reason: ReasonNetwork, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ProviderError{Source: source, Reason: ReasonNetwork, Err: err}
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &ProviderError{Source: source, Reason: ReasonStatus, StatusCode: resp.StatusCode, Body: string(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &ProviderError{Source: source, Reason: ReasonDecode, StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}
