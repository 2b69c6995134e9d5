package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/existflow/inkwell/internal/api"
	"github.com/existflow/inkwell/internal/apperr"
	"github.com/existflow/inkwell/internal/model"
)

// fakeAPI is a scriptable platform client for store tests. Each method
// either runs the configured func or falls back to a benign default.
type fakeAPI struct {
	listFn    func(params api.ListParams) (*api.PostsPage, error)
	getFn     func(id string) (*model.Post, error)
	likeFn    func(postID string) (bool, error)
	comments  int
	listCalls []api.ListParams
}

func (f *fakeAPI) ListPosts(ctx context.Context, params api.ListParams) (*api.PostsPage, error) {
	f.listCalls = append(f.listCalls, params)
	if f.listFn != nil {
		return f.listFn(params)
	}
	return &api.PostsPage{CurrentPage: params.Page, TotalPages: 1}, nil
}

func (f *fakeAPI) GetPost(ctx context.Context, id string) (*model.Post, error) {
	if f.getFn != nil {
		return f.getFn(id)
	}
	return nil, apperr.New(apperr.KindNotFound, "post not found")
}

func (f *fakeAPI) CreatePost(ctx context.Context, input api.PostInput) (*model.Post, error) {
	return &model.Post{ID: "created", Title: input.Title, Content: input.Content, Status: input.Status}, nil
}

func (f *fakeAPI) UpdatePost(ctx context.Context, id string, input api.PostInput) (*model.Post, error) {
	return &model.Post{ID: id, Title: input.Title, Content: input.Content, Status: input.Status}, nil
}

func (f *fakeAPI) DeletePost(ctx context.Context, id string) error { return nil }

func (f *fakeAPI) ToggleLike(ctx context.Context, postID string) (bool, error) {
	if f.likeFn != nil {
		return f.likeFn(postID)
	}
	return true, nil
}

func (f *fakeAPI) AddComment(ctx context.Context, postID, content string) (*model.Comment, error) {
	f.comments++
	return &model.Comment{ID: fmt.Sprintf("c%d", f.comments), Content: content}, nil
}

func (f *fakeAPI) EditComment(ctx context.Context, postID, commentID, content string) (*model.Comment, error) {
	return &model.Comment{ID: commentID, Content: content}, nil
}

func (f *fakeAPI) DeleteComment(ctx context.Context, postID, commentID string) error { return nil }

func pageOf(posts ...model.Post) *api.PostsPage {
	return &api.PostsPage{
		Data:        posts,
		CurrentPage: 1,
		TotalPages:  1,
		TotalPosts:  len(posts),
	}
}

func post(id string) model.Post {
	return model.Post{ID: id, Title: "post " + id, Status: model.StatusPublished}
}

// newLoadedStore returns a store with the given posts already fetched
func newLoadedStore(t *testing.T, f *fakeAPI, posts ...model.Post) *Store {
	t.Helper()
	if f.listFn == nil {
		page := pageOf(posts...)
		f.listFn = func(api.ListParams) (*api.PostsPage, error) { return page, nil }
	}
	s := New(f, func() string { return "me" })
	if err := s.FetchPosts(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	return s
}

func TestFetchReplacesPage(t *testing.T) {
	f := &fakeAPI{}
	pages := map[int]*api.PostsPage{
		1: {Data: []model.Post{post("a"), post("b")}, CurrentPage: 1, TotalPages: 2, TotalPosts: 3},
		2: {Data: []model.Post{post("c")}, CurrentPage: 2, TotalPages: 2, TotalPosts: 3},
	}
	f.listFn = func(params api.ListParams) (*api.PostsPage, error) {
		return pages[params.Page], nil
	}

	s := New(f, nil)
	if err := s.FetchPosts(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got := s.Posts(); len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("page 1 = %+v", got)
	}
	if s.Status() != StatusSucceeded {
		t.Fatalf("status = %v", s.Status())
	}

	// Page 2 replaces the slice wholesale, no merging
	s.SetPage(2)
	if err := s.FetchPosts(context.Background()); err != nil {
		t.Fatalf("fetch page 2: %v", err)
	}
	got := s.Posts()
	if len(got) != 1 || got[0].ID != "c" {
		t.Fatalf("page 2 = %+v", got)
	}
	if p := s.Pagination(); p.CurrentPage != 2 || p.TotalPages != 2 || p.TotalPosts != 3 {
		t.Fatalf("pagination = %+v", p)
	}
}

func TestFetchRequestsPublishedOnly(t *testing.T) {
	f := &fakeAPI{}
	s := New(f, nil)
	if err := s.FetchPosts(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(f.listCalls) != 1 {
		t.Fatalf("list calls = %d", len(f.listCalls))
	}
	params := f.listCalls[0]
	if params.Status != model.StatusPublished {
		t.Fatalf("status param = %q", params.Status)
	}
	if params.Page != 1 || params.Limit != DefaultPageSize {
		t.Fatalf("params = %+v", params)
	}
}

func TestFilterChangeResetsPage(t *testing.T) {
	s := New(&fakeAPI{}, nil)
	s.SetPage(5)

	s.SetCategory("tech")
	if p := s.Pagination(); p.CurrentPage != 1 {
		t.Fatalf("after SetCategory page = %d", p.CurrentPage)
	}

	s.SetPage(3)
	s.SetTags([]string{"go"})
	if p := s.Pagination(); p.CurrentPage != 1 {
		t.Fatalf("after SetTags page = %d", p.CurrentPage)
	}

	s.SetPage(3)
	s.SetSearch("term")
	if p := s.Pagination(); p.CurrentPage != 1 {
		t.Fatalf("after SetSearch page = %d", p.CurrentPage)
	}

	s.SetPage(3)
	s.ClearFilters()
	if p := s.Pagination(); p.CurrentPage != 1 {
		t.Fatalf("after ClearFilters page = %d", p.CurrentPage)
	}
	if f := s.ActiveFilters(); f.Category != "" || len(f.Tags) != 0 || f.Search != "" {
		t.Fatalf("filters not cleared: %+v", f)
	}
}

func TestFailedFetchKeepsPreviousPage(t *testing.T) {
	f := &fakeAPI{}
	fail := false
	page := pageOf(post("a"), post("b"))
	f.listFn = func(api.ListParams) (*api.PostsPage, error) {
		if fail {
			return nil, apperr.New(apperr.KindNetwork, "connection refused")
		}
		return page, nil
	}

	s := New(f, nil)
	if err := s.FetchPosts(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	fail = true
	if err := s.FetchPosts(context.Background()); err == nil {
		t.Fatalf("expected fetch error")
	}

	// Stale data stays visible under the error banner
	if got := s.Posts(); len(got) != 2 {
		t.Fatalf("posts after failure = %d, want 2", len(got))
	}
	if s.Status() != StatusFailed {
		t.Fatalf("status = %v", s.Status())
	}
	if s.Err() == "" {
		t.Fatalf("expected recorded error")
	}

	// Recovery clears the error
	fail = false
	if err := s.FetchPosts(context.Background()); err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if s.Status() != StatusSucceeded || s.Err() != "" {
		t.Fatalf("status = %v err = %q", s.Status(), s.Err())
	}
}

func TestStaleFetchDiscarded(t *testing.T) {
	f := &fakeAPI{}
	started := make(chan struct{})
	release := make(chan struct{})
	first := true
	f.listFn = func(params api.ListParams) (*api.PostsPage, error) {
		if first {
			first = false
			close(started)
			<-release
			return pageOf(post("old")), nil
		}
		return pageOf(post("new")), nil
	}

	s := New(f, nil)

	done := make(chan error, 1)
	go func() { done <- s.FetchPosts(context.Background()) }()
	<-started

	// Second fetch wins the race and owns the state
	if err := s.FetchPosts(context.Background()); err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first fetch: %v", err)
	}

	got := s.Posts()
	if len(got) != 1 || got[0].ID != "new" {
		t.Fatalf("posts = %+v, want the newer page", got)
	}
}

func TestViewingSurvivesPageReplacement(t *testing.T) {
	f := &fakeAPI{}
	f.getFn = func(id string) (*model.Post, error) {
		p := post(id)
		return &p, nil
	}
	pages := []*api.PostsPage{pageOf(post("a"), post("b")), pageOf(post("c"))}
	n := 0
	f.listFn = func(api.ListParams) (*api.PostsPage, error) {
		page := pages[n]
		if n < len(pages)-1 {
			n++
		}
		return page, nil
	}

	s := New(f, nil)
	if err := s.FetchPosts(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if err := s.FetchPost(context.Background(), "a"); err != nil {
		t.Fatalf("open: %v", err)
	}

	// The next page no longer contains "a"; the detail slot keeps it
	if err := s.FetchPosts(context.Background()); err != nil {
		t.Fatalf("fetch 2: %v", err)
	}
	if v := s.Viewing(); v == nil || v.ID != "a" {
		t.Fatalf("viewing = %+v, want post a", v)
	}

	s.ClearViewing()
	if s.Viewing() != nil {
		t.Fatalf("viewing should be empty")
	}
}

func TestToggleLikeFollowsServerVerdict(t *testing.T) {
	f := &fakeAPI{}
	liked := false
	f.likeFn = func(string) (bool, error) {
		liked = !liked
		return liked, nil
	}

	s := newLoadedStore(t, f, post("a"))

	for i := 0; i < 2; i++ {
		nowLiked, err := s.ToggleLike(context.Background(), "a")
		if err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
		wantLiked := i%2 == 0
		if nowLiked != wantLiked {
			t.Fatalf("toggle %d returned %v", i, nowLiked)
		}
		got := s.Posts()[0]
		if got.LikedBy("me") != wantLiked {
			t.Fatalf("toggle %d: LikedBy = %v", i, got.LikedBy("me"))
		}
		if wantLiked && len(got.Likes) != 1 {
			t.Fatalf("likes = %v, want exactly one entry", got.Likes)
		}
	}
}

func TestToggleLikeDeduplicates(t *testing.T) {
	f := &fakeAPI{}
	// Server insists liked=true even when the local set already has it
	f.likeFn = func(string) (bool, error) { return true, nil }

	p := post("a")
	p.Likes = []string{"me"}
	s := newLoadedStore(t, f, p)

	if _, err := s.ToggleLike(context.Background(), "a"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got := s.Posts()[0].Likes; len(got) != 1 {
		t.Fatalf("likes = %v, want a single entry", got)
	}
}

func TestLikeCompletingAfterRefetchPatchesNewEntity(t *testing.T) {
	f := &fakeAPI{}
	f.listFn = func(api.ListParams) (*api.PostsPage, error) { return pageOf(post("a")), nil }

	started := make(chan struct{})
	release := make(chan struct{})
	f.likeFn = func(string) (bool, error) {
		close(started)
		<-release
		return true, nil
	}

	s := New(f, func() string { return "me" })
	if err := s.FetchPosts(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := s.ToggleLike(context.Background(), "a")
		done <- err
	}()
	<-started

	// A refetch replaces the entity while the like is in flight; the
	// completion must land on whatever copy now carries the id
	if err := s.FetchPosts(context.Background()); err != nil {
		t.Fatalf("refetch: %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("toggle: %v", err)
	}

	if got := s.Posts()[0]; !got.LikedBy("me") {
		t.Fatalf("like lost across page replacement: %+v", got)
	}
}

func TestToggleLikeNetworkFailureLeavesStateUntouched(t *testing.T) {
	f := &fakeAPI{}
	f.likeFn = func(string) (bool, error) {
		return false, apperr.New(apperr.KindNetwork, "connection refused")
	}

	s := newLoadedStore(t, f, post("a"))
	if _, err := s.ToggleLike(context.Background(), "a"); err == nil {
		t.Fatalf("expected toggle error")
	}
	if got := s.Posts()[0].Likes; len(got) != 0 {
		t.Fatalf("likes changed on a failed request: %v", got)
	}
}

func TestCommentVisibleFromBothViews(t *testing.T) {
	f := &fakeAPI{}
	f.getFn = func(id string) (*model.Post, error) {
		p := post(id)
		return &p, nil
	}

	pages := []*api.PostsPage{pageOf(post("a"))}
	f.listFn = func(api.ListParams) (*api.PostsPage, error) { return pages[0], nil }

	s := New(f, func() string { return "me" })
	if err := s.FetchPosts(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if err := s.FetchPost(context.Background(), "a"); err != nil {
		t.Fatalf("open: %v", err)
	}

	if err := s.AddComment(context.Background(), "a", "first"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.AddComment(context.Background(), "a", "second"); err != nil {
		t.Fatalf("add: %v", err)
	}

	// Newest first, and the list and the detail view agree
	listed := s.Posts()[0]
	viewed := s.Viewing()
	if len(listed.Comments) != 2 || listed.Comments[0].Content != "second" {
		t.Fatalf("listed comments = %+v", listed.Comments)
	}
	if len(viewed.Comments) != 2 || viewed.Comments[0].Content != "second" {
		t.Fatalf("viewed comments = %+v", viewed.Comments)
	}

	// Edit one comment and both views see the new content
	id := listed.Comments[1].ID
	if err := s.EditComment(context.Background(), "a", id, "first, revised"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if got := s.Viewing().Comments[1].Content; got != "first, revised" {
		t.Fatalf("viewed content = %q", got)
	}
	if got := s.Posts()[0].Comments[1].Content; got != "first, revised" {
		t.Fatalf("listed content = %q", got)
	}
}

func TestEmptyCommentRejectedLocally(t *testing.T) {
	f := &fakeAPI{}
	s := newLoadedStore(t, f, post("a"))

	before := f.comments
	for _, content := range []string{"", "   ", "\t\n"} {
		err := s.AddComment(context.Background(), "a", content)
		if !apperr.IsKind(err, apperr.KindValidation) {
			t.Fatalf("content %q: err = %v, want validation", content, err)
		}
	}
	if f.comments != before {
		t.Fatalf("blank comments reached the network")
	}

	if err := s.EditComment(context.Background(), "a", "c1", "  "); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("edit blank: err = %v", err)
	}
}

func TestMissingCommentIDIsSilentNoOp(t *testing.T) {
	f := &fakeAPI{}
	s := newLoadedStore(t, f, post("a"))
	if err := s.AddComment(context.Background(), "a", "hello"); err != nil {
		t.Fatalf("add: %v", err)
	}

	// Neither edit nor delete of an unknown id errors or disturbs state
	if err := s.EditComment(context.Background(), "a", "no-such-id", "new"); err != nil {
		t.Fatalf("edit missing: %v", err)
	}
	if err := s.DeleteComment(context.Background(), "a", "no-such-id"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if got := s.Posts()[0].Comments; len(got) != 1 || got[0].Content != "hello" {
		t.Fatalf("comments = %+v", got)
	}
}

func TestDeleteCommentRemovesExactlyOne(t *testing.T) {
	f := &fakeAPI{}
	s := newLoadedStore(t, f, post("a"))
	for _, content := range []string{"one", "two", "three"} {
		if err := s.AddComment(context.Background(), "a", content); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	target := s.Posts()[0].Comments[1].ID
	if err := s.DeleteComment(context.Background(), "a", target); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got := s.Posts()[0].Comments
	if len(got) != 2 {
		t.Fatalf("comments = %d, want 2", len(got))
	}
	for _, c := range got {
		if c.ID == target {
			t.Fatalf("deleted comment still present")
		}
	}
}

func TestCreatePostPrepends(t *testing.T) {
	f := &fakeAPI{}
	s := newLoadedStore(t, f, post("a"), post("b"))

	created, err := s.CreatePost(context.Background(), api.PostInput{Title: "fresh", Content: "body"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got := s.Posts()
	if len(got) != 3 || got[0].ID != created.ID {
		t.Fatalf("posts = %+v, want new post first", got)
	}
	if p := s.Pagination(); p.TotalPosts != 3 {
		t.Fatalf("totalPosts = %d", p.TotalPosts)
	}
}

func TestUpdatePostReplacesCachedCopy(t *testing.T) {
	f := &fakeAPI{}
	s := newLoadedStore(t, f, post("a"))

	if _, err := s.UpdatePost(context.Background(), "a", api.PostInput{Title: "renamed", Content: "body"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := s.Posts()[0].Title; got != "renamed" {
		t.Fatalf("title = %q", got)
	}

	// Updating a post not on this page must not add it to the page
	if _, err := s.UpdatePost(context.Background(), "elsewhere", api.PostInput{Title: "x", Content: "y"}); err != nil {
		t.Fatalf("update absent: %v", err)
	}
	if got := s.Posts(); len(got) != 1 {
		t.Fatalf("posts = %d, want 1", len(got))
	}
}

func TestDeletePostRemovesEverywhere(t *testing.T) {
	f := &fakeAPI{}
	f.getFn = func(id string) (*model.Post, error) {
		p := post(id)
		return &p, nil
	}
	s := newLoadedStore(t, f, post("a"), post("b"))
	if err := s.FetchPost(context.Background(), "b"); err != nil {
		t.Fatalf("open: %v", err)
	}

	if err := s.DeletePost(context.Background(), "b"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got := s.Posts()
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("posts = %+v", got)
	}
	if s.Viewing() != nil {
		t.Fatalf("viewing should clear when its post is deleted")
	}
	if p := s.Pagination(); p.TotalPosts != 1 {
		t.Fatalf("totalPosts = %d", p.TotalPosts)
	}
}

func TestSelectorsReturnDetachedCopies(t *testing.T) {
	f := &fakeAPI{}
	p := post("a")
	p.Tags = []string{"go"}
	s := newLoadedStore(t, f, p)

	got := s.Posts()
	got[0].Title = "mutated"
	got[0].Tags[0] = "mutated"

	if fresh := s.Posts()[0]; fresh.Title == "mutated" || fresh.Tags[0] == "mutated" {
		t.Fatalf("selector leaked store-owned state")
	}
}
