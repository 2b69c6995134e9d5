package store

import (
	"context"
	"sync"

	"github.com/existflow/inkwell/internal/api"
	"github.com/existflow/inkwell/internal/model"
)

// Status is the request lifecycle of the posts collection
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// DefaultPageSize matches the platform's default list page
const DefaultPageSize = 6

// API is the slice of the platform client the store drives
type API interface {
	ListPosts(ctx context.Context, params api.ListParams) (*api.PostsPage, error)
	GetPost(ctx context.Context, id string) (*model.Post, error)
	CreatePost(ctx context.Context, input api.PostInput) (*model.Post, error)
	UpdatePost(ctx context.Context, id string, input api.PostInput) (*model.Post, error)
	DeletePost(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, postID string) (bool, error)
	AddComment(ctx context.Context, postID, content string) (*model.Comment, error)
	EditComment(ctx context.Context, postID, commentID, content string) (*model.Comment, error)
	DeleteComment(ctx context.Context, postID, commentID string) error
}

// Filters narrow the server-side post listing
type Filters struct {
	Category string
	Tags     []string
	Search   string
}

// Pagination is the server-reported paging window
type Pagination struct {
	CurrentPage int
	TotalPages  int
	TotalPosts  int
}

// Store caches one server page of posts plus the post currently being
// read. Posts are normalized: the entity map is the single copy of
// each post, and both the page list and the viewing slot are ids into
// it, so a like or comment applied to an entity is visible from every
// view at once.
//
// All mutation funnels through the methods below. Network calls run
// outside the lock; the resulting transition is applied under it, so
// interleaved completions always land on whatever entity currently
// carries the id (or nowhere, when the id is gone).
type Store struct {
	mu            sync.Mutex
	api           API
	currentUserID func() string
	pageSize      int

	entities map[string]*model.Post
	list     []string
	viewing  string

	status     Status
	err        string
	page       int
	totalPages int
	totalPosts int
	filters    Filters

	// fetchSeq is the latest issued list-fetch sequence number;
	// completions from earlier fetches are discarded.
	fetchSeq uint64
}

// New creates a store. currentUserID supplies the logged-in user's id
// for like bookkeeping; it may return "" when anonymous.
func New(apiClient API, currentUserID func() string) *Store {
	if currentUserID == nil {
		currentUserID = func() string { return "" }
	}
	return &Store{
		api:           apiClient,
		currentUserID: currentUserID,
		pageSize:      DefaultPageSize,
		entities:      make(map[string]*model.Post),
		status:        StatusIdle,
		page:          1,
	}
}

// SetPageSize overrides the listing page size
func (s *Store) SetPageSize(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > 0 {
		s.pageSize = n
	}
}

// SetCategory sets the category filter and resets to page 1.
// No fetch happens here; the consumer triggers it, which leaves room
// to debounce rapid filter changes.
func (s *Store) SetCategory(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.Category = category
	s.page = 1
}

// SetTags sets the tag filter and resets to page 1
func (s *Store) SetTags(tags []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.Tags = append([]string(nil), tags...)
	s.page = 1
}

// SetSearch sets the search term and resets to page 1
func (s *Store) SetSearch(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.Search = term
	s.page = 1
}

// ClearFilters resets category, tags, search and the page
func (s *Store) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = Filters{}
	s.page = 1
}

// SetPage sets the page for the next fetch. The store does not clamp;
// the consumer clamps to [1, TotalPages] before calling.
func (s *Store) SetPage(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = n
}

// Posts returns the current page in order. The copies are detached
// from store state.
func (s *Store) Posts() []model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Post, 0, len(s.list))
	for _, id := range s.list {
		if p, ok := s.entities[id]; ok {
			out = append(out, p.Clone())
		}
	}
	return out
}

// Viewing returns a copy of the post in the detail slot, or nil
func (s *Store) Viewing() *model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.entities[s.viewing]; ok {
		c := p.Clone()
		return &c
	}
	return nil
}

// Status returns the listing request lifecycle state
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Err returns the last listing error message, empty when none
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Pagination returns the current paging window
func (s *Store) Pagination() Pagination {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Pagination{CurrentPage: s.page, TotalPages: s.totalPages, TotalPosts: s.totalPosts}
}

// ActiveFilters returns a copy of the current filters
func (s *Store) ActiveFilters() Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.filters
	f.Tags = append([]string(nil), s.filters.Tags...)
	return f
}

// entity returns the live post for id, nil when not held anywhere
func (s *Store) entity(id string) *model.Post {
	return s.entities[id]
}
