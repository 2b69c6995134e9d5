package store

import (
	"context"
	"strings"

	"github.com/existflow/inkwell/internal/apperr"
	"github.com/existflow/inkwell/internal/model"
)

// ToggleLike flips the current user's like on a post. The request
// goes out first; the likes set changes only on a confirmed response,
// following the server's liked verdict. Because the entity map holds
// one copy per post, the page list and the detail view can never
// disagree on the count.
func (s *Store) ToggleLike(ctx context.Context, postID string) (bool, error) {
	liked, err := s.api.ToggleLike(ctx, postID)
	if err != nil {
		return false, err
	}

	userID := s.currentUserID()

	s.mu.Lock()
	defer s.mu.Unlock()

	post := s.entity(postID)
	if post == nil || userID == "" {
		// The post left the cache while the request was in flight
		return liked, nil
	}

	if liked {
		if !post.LikedBy(userID) {
			post.Likes = append(post.Likes, userID)
		}
	} else {
		for i, id := range post.Likes {
			if id == userID {
				post.Likes = append(post.Likes[:i], post.Likes[i+1:]...)
				break
			}
		}
	}
	return liked, nil
}

// AddComment posts a comment and prepends the server's canonical copy
// to the post's comment sequence. Empty or whitespace-only content is
// rejected before any network traffic.
func (s *Store) AddComment(ctx context.Context, postID, content string) error {
	if strings.TrimSpace(content) == "" {
		return apperr.Validation("comment cannot be empty")
	}

	comment, err := s.api.AddComment(ctx, postID, content)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if post := s.entity(postID); post != nil {
		post.Comments = append([]model.Comment{*comment}, post.Comments...)
	}
	return nil
}

// EditComment replaces a comment's content with the server's updated
// copy. A comment id that is no longer present is a silent no-op: a
// concurrent delete may have raced the edit, and tolerating that is
// what keeps these mutations safe under reordering.
func (s *Store) EditComment(ctx context.Context, postID, commentID, content string) error {
	if strings.TrimSpace(content) == "" {
		return apperr.Validation("comment cannot be empty")
	}

	updated, err := s.api.EditComment(ctx, postID, commentID, content)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	post := s.entity(postID)
	if post == nil {
		return nil
	}
	for i := range post.Comments {
		if post.Comments[i].ID == commentID {
			post.Comments[i].Content = updated.Content
			post.Comments[i].UpdatedAt = updated.UpdatedAt
			break
		}
	}
	return nil
}

// DeleteComment removes a comment by id; absent ids are a silent
// no-op, same as EditComment.
func (s *Store) DeleteComment(ctx context.Context, postID, commentID string) error {
	if err := s.api.DeleteComment(ctx, postID, commentID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	post := s.entity(postID)
	if post == nil {
		return nil
	}
	for i := range post.Comments {
		if post.Comments[i].ID == commentID {
			post.Comments = append(post.Comments[:i], post.Comments[i+1:]...)
			break
		}
	}
	return nil
}
