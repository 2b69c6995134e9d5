package store

import (
	"context"

	"github.com/existflow/inkwell/internal/api"
	"github.com/existflow/inkwell/internal/logger"
	"github.com/existflow/inkwell/internal/model"
)

// FetchPosts loads the page selected by the current page and filters.
// The server response replaces the page wholesale; the store never
// merges or re-filters client-side. A failed fetch keeps the previous
// page visible and records the error, so the UI can show stale data
// under a banner instead of blanking.
//
// Fetches are sequence-numbered at initiation. A completion that is
// no longer the latest issued fetch is dropped, so a slow response
// for an old filter can never overwrite a newer page.
func (s *Store) FetchPosts(ctx context.Context) error {
	s.mu.Lock()
	s.fetchSeq++
	seq := s.fetchSeq
	params := api.ListParams{
		Page:     s.page,
		Limit:    s.pageSize,
		Status:   model.StatusPublished,
		Category: s.filters.Category,
		Tags:     append([]string(nil), s.filters.Tags...),
		Search:   s.filters.Search,
	}
	s.status = StatusLoading
	s.err = ""
	s.mu.Unlock()

	resp, err := s.api.ListPosts(ctx, params)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.fetchSeq {
		// Superseded by a newer fetch; its completion owns the state
		logger.Debug("Discarded stale post fetch", logger.F("seq", seq))
		return nil
	}

	if err != nil {
		s.status = StatusFailed
		s.err = err.Error()
		return err
	}

	entities := make(map[string]*model.Post, len(resp.Data))
	list := make([]string, 0, len(resp.Data))
	for i := range resp.Data {
		p := resp.Data[i]
		entities[p.ID] = &p
		list = append(list, p.ID)
	}
	// The post being read survives page replacement unless the new
	// page carries a fresher copy of it
	if s.viewing != "" {
		if _, ok := entities[s.viewing]; !ok {
			if old := s.entities[s.viewing]; old != nil {
				entities[s.viewing] = old
			}
		}
	}

	s.entities = entities
	s.list = list
	s.page = resp.CurrentPage
	s.totalPages = resp.TotalPages
	s.totalPosts = resp.TotalPosts
	s.status = StatusSucceeded
	return nil
}

// FetchPost loads a single post into the detail slot. Unlike the
// comment mutators, a missing id here is the primary target of the
// operation and the not-found error is surfaced.
func (s *Store) FetchPost(ctx context.Context, id string) error {
	post, err := s.api.GetPost(ctx, id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entities[post.ID] = post
	s.viewing = post.ID
	return nil
}

// ClearViewing empties the detail slot
func (s *Store) ClearViewing() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewing = ""
}

// CreatePost creates a post and prepends it to the current page.
// The page is not refetched: the new post may not match the active
// filters, which is accepted until the next refresh.
func (s *Store) CreatePost(ctx context.Context, input api.PostInput) (*model.Post, error) {
	post, err := s.api.CreatePost(ctx, input)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.entities[post.ID] = post
	s.list = append([]string{post.ID}, s.list...)
	s.totalPosts++
	s.mu.Unlock()

	logger.Info("Post created", logger.F("id", post.ID))
	c := post.Clone()
	return &c, nil
}

// UpdatePost updates a post and replaces the cached copy, if the
// store holds one. A post on another page is a no-op here; its next
// fetch returns the fresh copy anyway.
func (s *Store) UpdatePost(ctx context.Context, id string, input api.PostInput) (*model.Post, error) {
	post, err := s.api.UpdatePost(ctx, id, input)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if existing := s.entity(id); existing != nil {
		*existing = *post
	}
	s.mu.Unlock()

	c := post.Clone()
	return &c, nil
}

// DeletePost deletes a post after server confirmation, removing it
// from the page and the detail slot
func (s *Store) DeletePost(ctx context.Context, id string) error {
	if err := s.api.DeletePost(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, listed := range s.list {
		if listed == id {
			s.list = append(s.list[:i], s.list[i+1:]...)
			break
		}
	}
	delete(s.entities, id)
	if s.viewing == id {
		s.viewing = ""
	}
	if s.totalPosts > 0 {
		s.totalPosts--
	}

	logger.Info("Post deleted", logger.F("id", id))
	return nil
}
