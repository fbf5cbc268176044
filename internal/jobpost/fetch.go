// Package jobpost imports job postings from marketplace links: it fetches
// the page, detects the platform, and extracts a title and description.
package jobpost

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// maxPageBytes caps how much of a page is read.
const maxPageBytes = 5 << 20

// Page is a fetched posting page.
type Page struct {
	URL        string
	HTML       string
	StatusCode int
}

// ValidateURL checks that rawURL is an absolute http(s) URL.
func ValidateURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, &Error{URL: rawURL, Message: "invalid URL", Cause: err}
	}
	return u, nil
}

// FetchPage downloads rawURL. A non-200 response still returns the Page
// alongside the error.
func FetchPage(ctx context.Context, rawURL string, opts *Options) (*Page, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	u, err := ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}
	guard := newAddressGuard(opts)
	if err := guard.checkHost(ctx, u.Hostname()); err != nil {
		return nil, &Error{URL: rawURL, Message: "host not allowed", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "bad request", Cause: err}
	}
	req.Header.Set("User-Agent", opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	transport := &http.Transport{
		DialContext:         guard.dialer(opts).DialContext,
		TLSHandshakeTimeout: opts.Timeout,
		ForceAttemptHTTP2:   true,
	}
	defer transport.CloseIdleConnections()

	client := &http.Client{Timeout: opts.Timeout, Transport: transport}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "reading page", Cause: err}
	}

	page := &Page{URL: rawURL, HTML: string(body), StatusCode: resp.StatusCode}
	if resp.StatusCode != http.StatusOK {
		return page, &Error{URL: rawURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return page, nil
}
