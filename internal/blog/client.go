// Package blog talks to the JSONPlaceholder blog API.
package blog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"swscroll/internal/domain"
)

// PageSize is the number of posts per page
const PageSize = 10

// FetchError is a network or HTTP failure talking to the blog API
type FetchError struct {
	Method     string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("blog: %s %s: HTTP %d: %v", e.Method, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("blog: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ErrUnexpectedStatus is wrapped by FetchError for non-2xx responses
var ErrUnexpectedStatus = errors.New("unexpected status")

// Client is a JSONPlaceholder client
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// NewClient creates a client for baseURL, e.g. "https://jsonplaceholder.typicode.com/"
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("blog: invalid base url %q: %w", baseURL, err)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{baseURL: u, httpClient: &http.Client{Timeout: timeout}}, nil
}

// FetchPosts returns page n (1-based) of posts
func (c *Client) FetchPosts(ctx context.Context, page int) ([]domain.Post, error) {
	q := url.Values{}
	q.Set("_limit", strconv.Itoa(PageSize))
	q.Set("_page", strconv.Itoa(page))

	var posts []domain.Post
	err := c.do(ctx, http.MethodGet, c.endpoint("posts", q), nil, &posts)
	return posts, err
}

// FetchComments returns the comments of a post
func (c *Client) FetchComments(ctx context.Context, postID int) ([]domain.Comment, error) {
	q := url.Values{}
	q.Set("postId", strconv.Itoa(postID))

	var comments []domain.Comment
	err := c.do(ctx, http.MethodGet, c.endpoint("comments", q), nil, &comments)
	return comments, err
}

// DeletePost deletes a post
func (c *Client) DeletePost(ctx context.Context, postID int) error {
	return c.do(ctx, http.MethodDelete, c.endpoint("posts/"+strconv.Itoa(postID), nil), nil, nil)
}

// UpdatePostTitle patches the title of a post and returns the updated post
func (c *Client) UpdatePostTitle(ctx context.Context, postID int, title string) (domain.Post, error) {
	body, err := json.Marshal(map[string]string{"title": title})
	if err != nil {
		return domain.Post{}, err
	}
	var post domain.Post
	err = c.do(ctx, http.MethodPatch, c.endpoint("posts/"+strconv.Itoa(postID), nil), body, &post)
	return post, err
}

func (c *Client) endpoint(path string, q url.Values) string {
	u := c.baseURL.ResolveReference(&url.URL{Path: path})
	if q != nil {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (c *Client) do(ctx context.Context, method, target string, body []byte, out any) error {
	reqID := uuid.NewString()
	log := logrus.WithFields(logrus.Fields{
		"component":  "blog",
		"request_id": reqID,
		"method":     method,
		"url":        target,
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return &FetchError{Method: method, URL: target, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warnf("request failed: %v", err)
		return &FetchError{Method: method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Warnf("unexpected status %d", resp.StatusCode)
		return &FetchError{
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %s", ErrUnexpectedStatus, strings.TrimSpace(string(msg))),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &FetchError{Method: method, URL: target, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	log.WithField("elapsed", time.Since(start)).Debug("request done")
	return nil
}
