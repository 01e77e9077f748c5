package services

import (
	"compress/gzip"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"
)

// maxPageBytes bounds how much of a listing page is read into memory
const maxPageBytes = 8 << 20

// HTTPFetcher downloads listing pages directly, dressed up as a desktop browser
type HTTPFetcher struct {
	httpClient *http.Client
	userAgents []string
	attempt    atomic.Uint64
}

// NewHTTPFetcher creates a fetcher with browser-like TLS and header defaults
func NewHTTPFetcher(timeout time.Duration, userAgent string) *HTTPFetcher {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		IdleConnTimeout: 90 * time.Second,
	}

	userAgents := []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
	}
	if userAgent != "" {
		userAgents = append([]string{userAgent}, userAgents...)
	}

	return &HTTPFetcher{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		userAgents: userAgents,
	}
}

// NewHTTPFetcherWithClient is used by tests to point the fetcher at a local server
func NewHTTPFetcherWithClient(client *http.Client) *HTTPFetcher {
	f := NewHTTPFetcher(0, "")
	f.httpClient = client
	return f
}

func (f *HTTPFetcher) Name() string { return "direct_fetch" }

// FetchPage performs a single GET. Anything but 200 is a fetch failure so the
// chain can fall through to the next tier.
func (f *HTTPFetcher) FetchPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrFetchFailed, err)
	}

	f.setBrowserHeaders(req)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return "", fmt.Errorf("%w: failed to create gzip reader: %v", ErrFetchFailed, err)
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	body, err := io.ReadAll(io.LimitReader(reader, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("%w: failed to read body: %v", ErrFetchFailed, err)
	}

	return string(body), nil
}

// setBrowserHeaders sets realistic browser headers; ticketing sites block obvious bots
func (f *HTTPFetcher) setBrowserHeaders(req *http.Request) {
	n := f.attempt.Add(1) - 1
	userAgent := f.userAgents[n%uint64(len(f.userAgents))]

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9,en-US;q=0.8,en;q=0.7")
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")
	req.Header.Set("Referer", "https://www.google.com/")
}
