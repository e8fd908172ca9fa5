package swapi

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"swscroll/internal/domain"
	"swscroll/internal/pager"
	"swscroll/internal/query"
)

// Source serves SWAPI pages to a pager through the query cache
type Source[T any] struct {
	client    *Client
	cache     *query.Client
	staleTime time.Duration
}

// NewSource creates a Source. cache may be nil, in which case every page is fetched.
func NewSource[T any](client *Client, cache *query.Client, staleTime time.Duration) *Source[T] {
	return &Source[T]{client: client, cache: cache, staleTime: staleTime}
}

// FetchPage implements pager.Fetcher
func (s *Source[T]) FetchPage(ctx context.Context, cursor string) (pager.Page[T], error) {
	target, err := s.client.Resolve(cursor)
	if err != nil {
		return pager.Page[T]{}, &FetchError{URL: cursor, Err: err}
	}

	var raw domain.RawPage
	if s.cache != nil {
		raw, err = query.Fetch(ctx, s.cache, query.Key("swapi", target), s.staleTime, func(ctx context.Context) (domain.RawPage, error) {
			return s.client.GetPage(ctx, target)
		})
	} else {
		raw, err = s.client.GetPage(ctx, target)
	}
	if err != nil {
		return pager.Page[T]{}, err
	}

	results := make([]T, 0, len(raw.Results))
	for i, msg := range raw.Results {
		var rec T
		if err := json.Unmarshal(msg, &rec); err != nil {
			return pager.Page[T]{}, &FetchError{URL: target, Err: fmt.Errorf("decode result %d: %w", i, err)}
		}
		results = append(results, rec)
	}

	return pager.Page[T]{
		Cursor:   target,
		Results:  results,
		Next:     raw.NextCursor(),
		Previous: raw.PreviousCursor(),
	}, nil
}

// NewPager builds a pager over resource starting at anchorPage
func NewPager[T any](client *Client, cache *query.Client, staleTime time.Duration, resource string, anchorPage int, opts pager.Options) *pager.Pager[T] {
	if opts.Name == "" {
		opts.Name = resource
	}
	return pager.New[T](NewSource[T](client, cache, staleTime), client.ResourceURL(resource, anchorPage), opts)
}
