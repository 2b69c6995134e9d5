package demo

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/existflow/inkwell/internal/model"
)

// seed loads a demo account and a few published posts so the client
// has something to browse right away. Password for the demo account
// is "demo-password".
func (s *Server) seed() {
	hash, _ := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
	author := model.User{
		ID:        uuid.NewString(),
		Username:  "demo",
		Email:     "demo@inkwell.local",
		FirstName: "Demo",
		LastName:  "Author",
		Role:      "author",
		CreatedAt: time.Now().UTC(),
	}
	s.users[author.Email] = &account{user: author, hash: hash}

	seedPosts := []struct {
		title, excerpt, content string
		category                model.Category
		tags                    []string
	}{
		{
			title:    "Getting started with terminal blogging",
			excerpt:  "Why a blog client belongs in your terminal.",
			content:  "Publishing from the place you already live in, the shell, removes most of the friction between a thought and a post.",
			category: model.Category{Name: "Tooling", Slug: "tooling"},
			tags:     []string{"cli", "workflow"},
		},
		{
			title:    "Structuring long-form posts",
			excerpt:  "Excerpts, tags, and categories that actually help readers.",
			content:  "An excerpt is a promise. Keep it shorter than the idea it trails and the click-through earns itself.",
			category: model.Category{Name: "Writing", Slug: "writing"},
			tags:     []string{"writing"},
		},
		{
			title:    "Draft early, publish late",
			excerpt:  "Local drafts as a thinking tool.",
			content:  "A draft that lives on your own disk costs nothing to abandon, which is exactly what makes it worth starting.",
			category: model.Category{Name: "Writing", Slug: "writing"},
			tags:     []string{"writing", "workflow"},
		},
	}

	base := time.Now().UTC().Add(-72 * time.Hour)
	for i, sp := range seedPosts {
		created := base.Add(time.Duration(i) * time.Hour)
		p := &model.Post{
			ID:        uuid.NewString(),
			Title:     sp.title,
			Content:   sp.content,
			Excerpt:   sp.excerpt,
			Category:  sp.category,
			Tags:      sp.tags,
			Status:    model.StatusPublished,
			Author:    author,
			CreatedAt: created,
			UpdatedAt: created,
		}
		s.posts[p.ID] = p
		s.order = append([]string{p.ID}, s.order...)
	}
}
