package model

import "time"

// Post statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Category groups posts under a display name and a URL slug
type Category struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Comment is a single comment on a post
type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Post represents a blog post as served by the platform API.
// Comments are ordered newest-first; Likes holds user ids, each at
// most once.
type Post struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Excerpt       string    `json:"excerpt,omitempty"`
	Category      Category  `json:"category"`
	Tags          []string  `json:"tags,omitempty"`
	Status        string    `json:"status"`
	Author        User      `json:"author"`
	FeaturedImage string    `json:"featuredImage,omitempty"`
	Likes         []string  `json:"likes,omitempty"`
	Comments      []Comment `json:"comments,omitempty"`
	Views         int       `json:"views"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// LikedBy reports whether userID is in the post's likes. Derived on
// every call, never cached.
func (p *Post) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// IsPublished returns true if the post is visible to readers
func (p *Post) IsPublished() bool {
	return p.Status == StatusPublished
}

// Clone returns a deep copy of the post so callers cannot mutate
// store-owned state through returned values.
func (p *Post) Clone() Post {
	out := *p
	if p.Tags != nil {
		out.Tags = append([]string(nil), p.Tags...)
	}
	if p.Likes != nil {
		out.Likes = append([]string(nil), p.Likes...)
	}
	if p.Comments != nil {
		out.Comments = append([]Comment(nil), p.Comments...)
	}
	return out
}
