// Package swapi fetches paginated resources from the Star Wars API.
package swapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"swscroll/internal/domain"
)

// Resource names understood by ResourceURL
const (
	Starships = "starships"
	Species   = "species"
	People    = "people"
)

// FetchError is a network or HTTP failure while fetching a page
type FetchError struct {
	URL        string
	StatusCode int // 0 when the request never got a response
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("swapi: GET %s: HTTP %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("swapi: GET %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ErrUnexpectedStatus is wrapped by FetchError for non-2xx responses
var ErrUnexpectedStatus = errors.New("unexpected status")

// Client is a SWAPI HTTP client
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// New creates a client for baseURL, e.g. "https://swapi.dev/api/"
func New(baseURL string, timeout time.Duration) (*Client, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("swapi: invalid base url %q: %w", baseURL, err)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// ResourceURL returns the URL of page n of a resource listing
func (c *Client) ResourceURL(resource string, page int) string {
	u := c.baseURL.ResolveReference(&url.URL{Path: resource + "/"})
	if page > 1 {
		q := u.Query()
		q.Set("page", fmt.Sprint(page))
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// Resolve turns a cursor into an absolute URL. Absolute cursors are returned unchanged.
func (c *Client) Resolve(cursor string) (string, error) {
	ref, err := url.Parse(cursor)
	if err != nil {
		return "", fmt.Errorf("swapi: invalid cursor %q: %w", cursor, err)
	}
	return c.baseURL.ResolveReference(ref).String(), nil
}

// GetPage fetches one page at cursor
func (c *Client) GetPage(ctx context.Context, cursor string) (domain.RawPage, error) {
	var page domain.RawPage

	target, err := c.Resolve(cursor)
	if err != nil {
		return page, &FetchError{URL: cursor, Err: err}
	}

	reqID := uuid.NewString()
	log := logrus.WithFields(logrus.Fields{"component": "swapi", "request_id": reqID, "url": target})
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return page, &FetchError{URL: target, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warnf("request failed: %v", err)
		return page, &FetchError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Warnf("unexpected status %d", resp.StatusCode)
		return page, &FetchError{
			URL:        target,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %s", ErrUnexpectedStatus, strings.TrimSpace(string(body))),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return domain.RawPage{}, &FetchError{URL: target, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	log.WithField("elapsed", time.Since(start)).Debugf("fetched %d results", len(page.Results))
	return page, nil
}
