package ui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"swscroll/internal/autoscroll"
	"swscroll/internal/blog"
	"swscroll/internal/config"
	"swscroll/internal/domain"
	"swscroll/internal/eventbus"
	"swscroll/internal/query"
	"swscroll/internal/swapi"
	inputtypes "swscroll/internal/ui/input/types"
	"swscroll/internal/ui/views"
)

// fakeAPI serves three SWAPI pages per resource and a small blog
type fakeAPI struct {
	mu      sync.Mutex
	deleted []int
	patched map[int]string
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()
	api := &fakeAPI{patched: map[int]string{}}
	var srv *httptest.Server
	mux := http.NewServeMux()

	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		resource := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/"), "/")
		page := 1
		if p := r.URL.Query().Get("page"); p != "" {
			page, _ = strconv.Atoi(p)
		}
		if page < 1 || page > 3 {
			http.Error(w, `{"detail":"Not found"}`, http.StatusNotFound)
			return
		}
		link := func(n int) any {
			if n < 1 || n > 3 {
				return nil
			}
			return fmt.Sprintf("%s/api/%s/?page=%d", srv.URL, resource, n)
		}
		var results []map[string]any
		for i := 1; i <= 3; i++ {
			results = append(results, map[string]any{"name": fmt.Sprintf("%s-%d-%d", resource, page, i)})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"count": 9, "next": link(page + 1), "previous": link(page - 1), "results": results,
		})
	})

	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("_page"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("_limit"))
		if limit == 0 {
			limit = 10
		}
		var posts []domain.Post
		for i := 0; i < limit; i++ {
			id := (page-1)*limit + i + 1
			posts = append(posts, domain.Post{UserID: 1, ID: id, Title: fmt.Sprintf("post title %d", id), Body: "body"})
		}
		_ = json.NewEncoder(w).Encode(posts)
	})
	mux.HandleFunc("/posts/", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/posts/"))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		api.mu.Lock()
		defer api.mu.Unlock()
		switch r.Method {
		case http.MethodDelete:
			api.deleted = append(api.deleted, id)
			fmt.Fprint(w, `{}`)
		case http.MethodPatch:
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			api.patched[id] = body["title"]
			_ = json.NewEncoder(w).Encode(domain.Post{ID: id, Title: body["title"]})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/comments", func(w http.ResponseWriter, r *http.Request) {
		postID, _ := strconv.Atoi(r.URL.Query().Get("postId"))
		_ = json.NewEncoder(w).Encode([]domain.Comment{
			{PostID: postID, ID: 1, Email: "a@b.c", Body: fmt.Sprintf("comment on %d", postID)},
		})
	})

	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return api, srv
}

func newTestModel(t *testing.T, start inputtypes.Screen) (*Model, *fakeAPI) {
	t.Helper()
	api, srv := newFakeAPI(t)

	cfg := config.DefaultConfig()
	cfg.API.SwapiBase = srv.URL + "/api/"
	cfg.API.BlogBase = srv.URL + "/"

	sw, err := swapi.New(cfg.API.SwapiBase, time.Second)
	require.NoError(t, err)
	bc, err := blog.NewClient(cfg.API.BlogBase, time.Second)
	require.NoError(t, err)

	bus := eventbus.New()
	t.Cleanup(bus.Close)
	cache := query.NewClient(time.Minute)

	m := NewModel(Deps{
		Config: cfg,
		Bus:    bus,
		SWAPI:  sw,
		Blog:   blog.NewService(bc, cache, bus, time.Minute, cfg.Blog.MaxPostPage),
		Cache:  cache,
	}, start)
	t.Cleanup(m.Close)

	drive(t, m, m.Init())
	_, cmd := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	drive(t, m, cmd)
	return m, api
}

// drive feeds the messages produced by cmd back into the model until it settles
func drive(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	queue := execCmd(t, cmd)
	for i := 0; len(queue) > 0; i++ {
		require.Less(t, i, 200, "message loop did not settle")
		msg := queue[0]
		queue = queue[1:]
		if _, ok := msg.(spinner.TickMsg); ok {
			continue
		}
		_, next := m.Update(msg)
		queue = append(queue, execCmd(t, next)...)
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, m *Model, keys ...string) {
	t.Helper()
	for _, k := range keys {
		_, cmd := m.Update(keyMsg(k))
		drive(t, m, cmd)
	}
}

func mouse(t *testing.T, m *Model, x, y int, action tea.MouseAction, button tea.MouseButton) {
	t.Helper()
	m.View() // lays out the hit map
	_, cmd := m.Update(tea.MouseMsg{X: x, Y: y, Action: action, Button: button})
	drive(t, m, cmd)
}

func TestModelHomeMenu(t *testing.T) {
	m, _ := newTestModel(t, inputtypes.ScreenHome)
	require.Contains(t, m.View(), "Pick a list")

	press(t, m, "down")
	require.Equal(t, 1, m.homeIndex)

	press(t, m, "enter")
	require.Equal(t, inputtypes.ScreenSpecies, m.screen)
	require.Contains(t, m.View(), "species-1-1")
}

func TestModelScreenKeysAndBack(t *testing.T) {
	m, _ := newTestModel(t, inputtypes.ScreenHome)

	press(t, m, "3")
	require.Equal(t, inputtypes.ScreenPeople, m.screen)
	require.NotNil(t, m.feed)
	require.Contains(t, m.View(), "people-1-1")

	press(t, m, "esc")
	require.Equal(t, inputtypes.ScreenHome, m.screen)
	require.Nil(t, m.feed, "leaving a list closes its feed")
	require.Contains(t, m.View(), "Pick a list")
}

func TestModelStarshipsStartsAtAnchor(t *testing.T) {
	m, _ := newTestModel(t, inputtypes.ScreenStarships)

	// The prepended page is kept above the viewport
	require.Contains(t, m.View(), "starships-2-1")
	require.NotContains(t, m.View(), "starships-1-1")

	// A tall window shows both sentinels, so both neighbours load
	f, ok := m.feed.(*feed[domain.Starship])
	require.True(t, ok)
	records := f.pager.Records()
	require.Len(t, records, 9)
	require.Equal(t, "starships-1-1", records[0].Name)
	require.Equal(t, "starships-3-3", records[8].Name)

	snap := m.feed.Snapshot()
	require.False(t, snap.HasPrevious)
	require.False(t, snap.HasNext)
	require.Equal(t, 3, snap.Pages)
}

func TestModelHelpPopupSwallowsQuit(t *testing.T) {
	m, _ := newTestModel(t, inputtypes.ScreenHome)

	press(t, m, "?")
	require.True(t, m.showHelp)

	_, cmd := m.Update(keyMsg("q"))
	require.Nil(t, cmd, "q closes the popup instead of quitting")
	require.False(t, m.showHelp)

	press(t, m, "l")
	require.True(t, m.showLog)
	press(t, m, "esc")
	require.False(t, m.showLog)
}

func TestModelQuit(t *testing.T) {
	m, _ := newTestModel(t, inputtypes.ScreenStarships)

	_, cmd := m.Update(keyMsg("q"))
	require.Contains(t, execCmd(t, cmd), tea.Msg(tea.QuitMsg{}))
	require.Nil(t, m.feed, "quitting closes the feed")
}

func TestModelHoverArrowStartsAutoScroll(t *testing.T) {
	m, _ := newTestModel(t, inputtypes.ScreenStarships)
	f, ok := m.feed.(*feed[domain.Starship])
	require.True(t, ok)

	downY := views.HeaderRows + views.BodyRows(m.height) - 1
	mouse(t, m, views.PaddingLeft, downY, tea.MouseActionMotion, tea.MouseButtonNone)
	require.True(t, f.scroller.IsActive(autoscroll.Down))

	mouse(t, m, 50, 10, tea.MouseActionMotion, tea.MouseButtonNone)
	require.False(t, f.scroller.IsActive(autoscroll.Down), "leaving the arrow stops scrolling")
}

func TestModelClickHomeItemOpensPosts(t *testing.T) {
	m, _ := newTestModel(t, inputtypes.ScreenHome)

	mouse(t, m, views.PaddingLeft+2, views.HeaderRows+homeMenuOffset+3, tea.MouseActionPress, tea.MouseButtonLeft)
	require.Equal(t, inputtypes.ScreenPosts, m.screen)
	require.Contains(t, m.View(), "post title 1")
}

func TestModelPostsDetailAndBack(t *testing.T) {
	m, _ := newTestModel(t, inputtypes.ScreenPosts)

	press(t, m, "right")
	require.Contains(t, m.View(), "Page 2 of 10")

	mouse(t, m, views.PaddingLeft+2, views.HeaderRows+1, tea.MouseActionPress, tea.MouseButtonLeft)
	require.Contains(t, m.View(), "comment on 12")

	// esc closes the detail before leaving the screen
	press(t, m, "esc")
	require.Equal(t, inputtypes.ScreenPosts, m.screen)
	require.NotContains(t, m.View(), "comment on 12")
	press(t, m, "esc")
	require.Equal(t, inputtypes.ScreenHome, m.screen)
}

func TestModelDeletePostConfirm(t *testing.T) {
	m, api := newTestModel(t, inputtypes.ScreenPosts)

	press(t, m, "down", "x")
	require.Equal(t, inputtypes.ModeDeleteConfirm, m.inputHandler.CurrentMode())
	require.Contains(t, m.View(), "Delete post 'post title 2'? (y/n)")

	press(t, m, "y")
	require.Equal(t, inputtypes.ModeNormal, m.inputHandler.CurrentMode())
	require.Equal(t, "Deleted post 2", m.status)
	for _, post := range m.posts.posts {
		require.NotEqual(t, 2, post.ID)
	}

	api.mu.Lock()
	defer api.mu.Unlock()
	require.Equal(t, []int{2}, api.deleted)
}

func TestModelDeleteCancelled(t *testing.T) {
	m, api := newTestModel(t, inputtypes.ScreenPosts)

	press(t, m, "x", "n")
	require.Equal(t, inputtypes.ModeNormal, m.inputHandler.CurrentMode())
	require.Empty(t, m.status)

	api.mu.Lock()
	defer api.mu.Unlock()
	require.Empty(t, api.deleted)
}

func TestModelEditTitle(t *testing.T) {
	m, api := newTestModel(t, inputtypes.ScreenPosts)

	press(t, m, "t")
	require.Equal(t, inputtypes.ModeEditTitle, m.inputHandler.CurrentMode())
	require.Contains(t, m.View(), "New title: ")

	press(t, m, "!", "enter")
	require.Equal(t, "Updated title of post 1", m.status)
	require.Equal(t, "post title 1!", m.posts.Selected().Title)

	api.mu.Lock()
	defer api.mu.Unlock()
	require.Equal(t, "post title 1!", api.patched[1])
}

func TestModelViewJSONWithoutProgram(t *testing.T) {
	m, _ := newTestModel(t, inputtypes.ScreenSpecies)

	_, cmd := m.Update(keyMsg("v"))
	require.Nil(t, cmd)
	require.False(t, m.inPagerMode)
}
