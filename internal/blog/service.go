package blog

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"swscroll/internal/domain"
	"swscroll/internal/eventbus"
	"swscroll/internal/query"
)

// Service layers the query cache over Client. Posts are cached per page
// with the configured stale time; comments are always refetched.
type Service struct {
	client    *Client
	cache     *query.Client
	bus       eventbus.EventBus
	staleTime time.Duration
	maxPage   int
}

// NewService creates a Service. bus may be nil.
func NewService(client *Client, cache *query.Client, bus eventbus.EventBus, staleTime time.Duration, maxPage int) *Service {
	if maxPage <= 0 {
		maxPage = 10
	}
	return &Service{client: client, cache: cache, bus: bus, staleTime: staleTime, maxPage: maxPage}
}

// MaxPage is the last page the posts screen may show
func (s *Service) MaxPage() int { return s.maxPage }

// Posts returns page n of posts
func (s *Service) Posts(ctx context.Context, page int) ([]domain.Post, error) {
	if page < 1 || page > s.maxPage {
		return nil, fmt.Errorf("blog: page %d out of range 1..%d", page, s.maxPage)
	}
	return query.Fetch(ctx, s.cache, postsKey(page), s.staleTime, func(ctx context.Context) ([]domain.Post, error) {
		return s.client.FetchPosts(ctx, page)
	})
}

// PrefetchNext warms the page after current, if there is one
func (s *Service) PrefetchNext(ctx context.Context, current int) error {
	next := current + 1
	if next > s.maxPage {
		return nil
	}
	return s.cache.Prefetch(ctx, postsKey(next), s.staleTime, func(ctx context.Context) (any, error) {
		return s.client.FetchPosts(ctx, next)
	})
}

// Comments returns the comments of a post
func (s *Service) Comments(ctx context.Context, postID int) ([]domain.Comment, error) {
	return query.Fetch(ctx, s.cache, query.Key("comments", postID), 0, func(ctx context.Context) ([]domain.Comment, error) {
		return s.client.FetchComments(ctx, postID)
	})
}

// DeletePost deletes a post and drops every cached posts page
func (s *Service) DeletePost(ctx context.Context, postID int) error {
	err := s.client.DeletePost(ctx, postID)
	if err == nil {
		s.cache.InvalidatePrefix("posts/")
	}
	s.completed("delete", postID, err)
	return err
}

// UpdatePostTitle renames a post and rewrites it in the cached posts pages.
// The backend does not persist edits.
func (s *Service) UpdatePostTitle(ctx context.Context, postID int, title string) (domain.Post, error) {
	post, err := s.client.UpdatePostTitle(ctx, postID, title)
	if err == nil {
		s.patchCached(postID, title)
	}
	s.completed("update", postID, err)
	return post, err
}

func (s *Service) patchCached(postID int, title string) {
	for page := 1; page <= s.maxPage; page++ {
		v, ok := s.cache.GetData(postsKey(page))
		if !ok {
			continue
		}
		posts, ok := v.([]domain.Post)
		if !ok {
			continue
		}
		for i := range posts {
			if posts[i].ID != postID {
				continue
			}
			patched := append([]domain.Post(nil), posts...)
			patched[i].Title = title
			s.cache.SetData(postsKey(page), patched)
			return
		}
	}
}

func (s *Service) completed(kind string, postID int, err error) {
	log := logrus.WithFields(logrus.Fields{"component": "blog", "mutation": kind, "post_id": postID})
	if err != nil {
		log.Warnf("mutation failed: %v", err)
	} else {
		log.Info("mutation done")
	}
	if s.bus != nil {
		s.bus.Publish(domain.MutationCompletedEvent{Kind: kind, PostID: postID, Err: err})
	}
}

func postsKey(page int) string {
	return query.Key("posts", page)
}
