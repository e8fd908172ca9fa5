package blog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swscroll/internal/domain"
	"swscroll/internal/eventbus"
	"swscroll/internal/query"
)

type fakeBlog struct {
	mu       sync.Mutex
	requests map[string]int
	deleted  []int
	patched  map[int]string
}

func newFakeBlog(t *testing.T) (*fakeBlog, *httptest.Server) {
	t.Helper()
	fb := &fakeBlog{requests: make(map[string]int), patched: make(map[int]string)}
	mux := http.NewServeMux()
	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("_page"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("_limit"))
		fb.count(fmt.Sprintf("posts?%d", page))
		var posts []domain.Post
		for i := 0; i < limit; i++ {
			id := (page-1)*limit + i + 1
			posts = append(posts, domain.Post{UserID: 1, ID: id, Title: fmt.Sprintf("post %d", id)})
		}
		_ = json.NewEncoder(w).Encode(posts)
	})
	mux.HandleFunc("/posts/", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(r.URL.Path[len("/posts/"):])
		if err != nil {
			http.NotFound(w, r)
			return
		}
		fb.mu.Lock()
		defer fb.mu.Unlock()
		switch r.Method {
		case http.MethodDelete:
			fb.deleted = append(fb.deleted, id)
			fmt.Fprint(w, `{}`)
		case http.MethodPatch:
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			fb.patched[id] = body["title"]
			_ = json.NewEncoder(w).Encode(domain.Post{ID: id, Title: body["title"]})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/comments", func(w http.ResponseWriter, r *http.Request) {
		postID, _ := strconv.Atoi(r.URL.Query().Get("postId"))
		fb.count(fmt.Sprintf("comments?%d", postID))
		if postID == 99 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode([]domain.Comment{
			{PostID: postID, ID: 1, Email: "a@b.c", Body: "first"},
			{PostID: postID, ID: 2, Email: "d@e.f", Body: "second"},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return fb, srv
}

func (f *fakeBlog) count(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests[key]++
}

func (f *fakeBlog) hits(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[key]
}

func newTestService(t *testing.T, bus eventbus.EventBus) (*fakeBlog, *Service) {
	fb, srv := newFakeBlog(t)
	client, err := NewClient(srv.URL, time.Second)
	require.NoError(t, err)
	return fb, NewService(client, query.NewClient(time.Minute), bus, 5*time.Minute, 10)
}

func TestPostsAreCachedPerPage(t *testing.T) {
	fb, svc := newTestService(t, nil)
	ctx := context.Background()

	posts, err := svc.Posts(ctx, 2)
	require.NoError(t, err)
	require.Len(t, posts, PageSize)
	assert.Equal(t, 11, posts[0].ID)

	_, err = svc.Posts(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, fb.hits("posts?2"))
}

func TestPostsPageRange(t *testing.T) {
	_, svc := newTestService(t, nil)
	_, err := svc.Posts(context.Background(), 0)
	require.Error(t, err)
	_, err = svc.Posts(context.Background(), 11)
	require.Error(t, err)
}

func TestPrefetchNext(t *testing.T) {
	fb, svc := newTestService(t, nil)
	ctx := context.Background()

	require.NoError(t, svc.PrefetchNext(ctx, 3))
	assert.Equal(t, 1, fb.hits("posts?4"))

	_, err := svc.Posts(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, fb.hits("posts?4"))

	require.NoError(t, svc.PrefetchNext(ctx, 10))
	assert.Equal(t, 0, fb.hits("posts?11"))
}

func TestCommentsAreAlwaysRefetched(t *testing.T) {
	fb, svc := newTestService(t, nil)
	ctx := context.Background()

	comments, err := svc.Comments(ctx, 7)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, 7, comments[0].PostID)

	_, err = svc.Comments(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, fb.hits("comments?7"))
}

func TestCommentsHTTPError(t *testing.T) {
	_, svc := newTestService(t, nil)
	_, err := svc.Comments(context.Background(), 99)
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusInternalServerError, fe.StatusCode)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestMutationsInvalidatePostsAndPublish(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	events := make(chan domain.MutationCompletedEvent, 2)
	bus.Subscribe(eventbus.EventMutationCompleted, func(e eventbus.DomainEvent) {
		events <- e.(domain.MutationCompletedEvent)
	})

	fb, svc := newTestService(t, bus)
	ctx := context.Background()

	_, err := svc.Posts(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, svc.DeletePost(ctx, 3))
	post, err := svc.UpdatePostTitle(ctx, 4, "new title")
	require.NoError(t, err)
	assert.Equal(t, "new title", post.Title)

	_, err = svc.Posts(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, fb.hits("posts?1"))

	fb.mu.Lock()
	assert.Equal(t, []int{3}, fb.deleted)
	assert.Equal(t, "new title", fb.patched[4])
	fb.mu.Unlock()

	kinds := map[string]int{}
	for i := 0; i < 2; i++ {
		select {
		case ev := <-events:
			require.NoError(t, ev.Err)
			kinds[ev.Kind] = ev.PostID
		case <-time.After(2 * time.Second):
			t.Fatal("missing mutation event")
		}
	}
	assert.Equal(t, map[string]int{"delete": 3, "update": 4}, kinds)
}

func TestUpdateTitleRewritesCachedPage(t *testing.T) {
	fb, svc := newTestService(t, nil)
	ctx := context.Background()

	posts, err := svc.Posts(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "post 2", posts[1].Title)

	_, err = svc.UpdatePostTitle(ctx, 2, "renamed")
	require.NoError(t, err)

	posts, err = svc.Posts(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "renamed", posts[1].Title)
	assert.Equal(t, "post 1", posts[0].Title)
	assert.Equal(t, 1, fb.hits("posts?1"), "served from the patched cache")
}
