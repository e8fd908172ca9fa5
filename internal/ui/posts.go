package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/paginator"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"swscroll/internal/blog"
	"swscroll/internal/domain"
	"swscroll/internal/ui/views"
)

// postsScreen is the numbered blog viewer with a detail pane
type postsScreen struct {
	ctx   context.Context
	svc   *blog.Service
	pages paginator.Model

	posts   []domain.Post
	loading bool
	err     error
	cursor  int

	detail          *domain.Post
	comments        []domain.Comment
	commentsLoading bool
	commentsErr     error

	width    int
	bodyRows int
}

func newPostsScreen(ctx context.Context, svc *blog.Service) *postsScreen {
	pg := paginator.New()
	pg.Type = paginator.Dots
	pg.PerPage = 1
	pg.SetTotalPages(svc.MaxPage())
	pg.ActiveDot = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Render("•")
	pg.InactiveDot = lipgloss.NewStyle().Foreground(lipgloss.Color("238")).Render("•")
	return &postsScreen{ctx: ctx, svc: svc, pages: pg, width: 80, bodyRows: 10}
}

// page is the 1-based page number shown
func (p *postsScreen) page() int { return p.pages.Page + 1 }

func (p *postsScreen) Start() tea.Cmd {
	return p.load()
}

func (p *postsScreen) load() tea.Cmd {
	p.loading = true
	p.err = nil
	page := p.page()
	return func() tea.Msg {
		posts, err := p.svc.Posts(p.ctx, page)
		return postsLoadedMsg{page: page, posts: posts, err: err}
	}
}

func (p *postsScreen) prefetch(page int) tea.Cmd {
	return func() tea.Msg {
		_ = p.svc.PrefetchNext(p.ctx, page)
		return nil
	}
}

// HandlePosts applies a page result; results for another page are dropped
func (p *postsScreen) HandlePosts(msg postsLoadedMsg) tea.Cmd {
	if msg.page != p.page() {
		return nil
	}
	p.loading = false
	p.err = msg.err
	if msg.err != nil {
		p.posts = nil
		return nil
	}
	p.posts = msg.posts
	p.cursor = min(p.cursor, max(len(p.posts)-1, 0))
	return p.prefetch(msg.page)
}

// PageBy moves |delta| pages within 1..MaxPage
func (p *postsScreen) PageBy(delta int) tea.Cmd {
	before := p.pages.Page
	switch {
	case delta < 0 && !p.pages.OnFirstPage():
		p.pages.PrevPage()
	case delta > 0 && !p.pages.OnLastPage():
		p.pages.NextPage()
	}
	if p.pages.Page == before {
		return nil
	}
	p.cursor = 0
	p.detail = nil
	return p.load()
}

func (p *postsScreen) Move(delta int) {
	if len(p.posts) == 0 {
		return
	}
	p.cursor = min(max(p.cursor+delta, 0), len(p.posts)-1)
}

func (p *postsScreen) Select(i int) {
	if i >= 0 && i < len(p.posts) {
		p.cursor = i
	}
}

// Selected returns the post under the cursor
func (p *postsScreen) Selected() *domain.Post {
	if p.cursor < 0 || p.cursor >= len(p.posts) {
		return nil
	}
	post := p.posts[p.cursor]
	return &post
}

// Open shows the selected post and loads its comments
func (p *postsScreen) Open() tea.Cmd {
	post := p.Selected()
	if post == nil {
		return nil
	}
	p.detail = post
	return p.loadComments(post.ID)
}

func (p *postsScreen) loadComments(id int) tea.Cmd {
	p.comments = nil
	p.commentsErr = nil
	p.commentsLoading = true
	return func() tea.Msg {
		comments, err := p.svc.Comments(p.ctx, id)
		return commentsLoadedMsg{postID: id, comments: comments, err: err}
	}
}

// Retry repeats whichever load failed
func (p *postsScreen) Retry() tea.Cmd {
	switch {
	case p.err != nil:
		return p.load()
	case p.commentsErr != nil && p.detail != nil:
		return p.loadComments(p.detail.ID)
	}
	return nil
}

// JSON returns the current page of posts
func (p *postsScreen) JSON() ([]byte, error) {
	return json.MarshalIndent(p.posts, "", "  ")
}

// CloseDetail hides the detail pane; false when it was not open
func (p *postsScreen) CloseDetail() bool {
	if p.detail == nil {
		return false
	}
	p.detail = nil
	return true
}

func (p *postsScreen) HandleComments(msg commentsLoadedMsg) {
	if p.detail == nil || p.detail.ID != msg.postID {
		return
	}
	p.commentsLoading = false
	p.comments = msg.comments
	p.commentsErr = msg.err
}

func (p *postsScreen) Delete() tea.Cmd {
	post := p.Selected()
	if post == nil {
		return nil
	}
	id := post.ID
	return func() tea.Msg {
		err := p.svc.DeletePost(p.ctx, id)
		return mutationDoneMsg{kind: "delete", postID: id, err: err}
	}
}

func (p *postsScreen) UpdateTitle(title string) tea.Cmd {
	post := p.Selected()
	title = strings.TrimSpace(title)
	if post == nil || title == "" || title == post.Title {
		return nil
	}
	id := post.ID
	return func() tea.Msg {
		updated, err := p.svc.UpdatePostTitle(p.ctx, id, title)
		if err == nil && updated.Title == "" {
			updated.Title = title
		}
		return mutationDoneMsg{kind: "update", postID: id, post: updated, err: err}
	}
}

// HandleMutation applies a finished mutation locally and returns a status line
func (p *postsScreen) HandleMutation(msg mutationDoneMsg) (string, views.StatusKind) {
	if msg.err != nil {
		return fmt.Sprintf("Failed to %s post %d: %v", msg.kind, msg.postID, msg.err), views.StatusError
	}
	switch msg.kind {
	case "delete":
		for i, post := range p.posts {
			if post.ID == msg.postID {
				p.posts = append(p.posts[:i:i], p.posts[i+1:]...)
				break
			}
		}
		p.cursor = min(p.cursor, max(len(p.posts)-1, 0))
		if p.detail != nil && p.detail.ID == msg.postID {
			p.detail = nil
		}
		return fmt.Sprintf("Deleted post %d", msg.postID), views.StatusSuccess
	case "update":
		for i := range p.posts {
			if p.posts[i].ID == msg.postID {
				p.posts[i].Title = msg.post.Title
			}
		}
		if p.detail != nil && p.detail.ID == msg.postID {
			p.detail.Title = msg.post.Title
		}
		return fmt.Sprintf("Updated title of post %d", msg.postID), views.StatusSuccess
	}
	return "", views.StatusInfo
}

func (p *postsScreen) Resize(width, bodyRows int) {
	p.width = width
	p.bodyRows = max(bodyRows, 1)
}

// ListRows is the number of body rows taken by post titles
func (p *postsScreen) ListRows() int {
	if p.err != nil || (p.loading && len(p.posts) == 0) {
		return 0
	}
	return len(p.posts)
}

func (p *postsScreen) IsLoading() bool {
	return p.loading || p.commentsLoading
}

func (p *postsScreen) View(styles *views.Styles, cards *views.CardRenderer) feedView {
	w := views.ContentWidth(p.width, false)
	var body []string

	switch {
	case p.err != nil:
		body = append(body, styles.StatusError.Render("Error fetching posts"), p.err.Error())
	case p.loading && len(p.posts) == 0:
		body = append(body, "Loading posts...")
	default:
		for i, post := range p.posts {
			body = append(body, cards.PostLine(post, i == p.cursor, w))
		}
	}

	body = append(body, "",
		fmt.Sprintf("Page %d of %d  %s", p.page(), p.pages.TotalPages, p.pages.View()),
		"")

	if p.detail != nil {
		body = append(body, styles.CardName.Render(p.detail.Title))
		wrapped := lipgloss.NewStyle().Width(w).Render(strings.ReplaceAll(p.detail.Body, "\n", " "))
		body = append(body, strings.Split(wrapped, "\n")...)
		body = append(body, "", styles.Subtitle.Render("Comments"))
		switch {
		case p.commentsLoading:
			body = append(body, "Loading comments...")
		case p.commentsErr != nil:
			body = append(body, styles.StatusError.Render("Error fetching comments"), p.commentsErr.Error())
		default:
			for _, c := range p.comments {
				body = append(body, cards.Comment(c, w))
			}
		}
	}

	if len(body) > p.bodyRows {
		body = body[:p.bodyRows]
	}
	return feedView{
		debug: fmt.Sprintf("page: %d/%d · posts: %d", p.page(), p.pages.TotalPages, len(p.posts)),
		body:  body,
	}
}
