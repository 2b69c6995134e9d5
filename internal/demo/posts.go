package demo

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/existflow/inkwell/internal/model"
)

const defaultLimit = 6

func (s *Server) handleListPosts(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = defaultLimit
	}
	status := c.QueryParam("status")
	category := strings.ToLower(c.QueryParam("category"))
	search := strings.ToLower(c.QueryParam("search"))
	var tags []string
	if raw := c.QueryParam("tags"); raw != "" {
		tags = strings.Split(raw, ",")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []model.Post
	for _, id := range s.order {
		p := s.posts[id]
		if status != "" && p.Status != status {
			continue
		}
		if category != "" && strings.ToLower(p.Category.Slug) != category &&
			strings.ToLower(p.Category.Name) != category {
			continue
		}
		if !hasAllTags(p, tags) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Excerpt), search) {
			continue
		}
		matched = append(matched, p.Clone())
	}

	total := len(matched)
	totalPages := (total + limit - 1) / limit
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":        matched[start:end],
		"totalPages":  totalPages,
		"currentPage": page,
		"totalPosts":  total,
	})
}

func hasAllTags(p *model.Post, tags []string) bool {
	for _, want := range tags {
		found := false
		for _, have := range p.Tags {
			if strings.EqualFold(have, want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (s *Server) handleGetPost(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[c.Param("id")]
	if !ok {
		return message(c, http.StatusNotFound, "post not found")
	}
	p.Views++
	return c.JSON(http.StatusOK, map[string]interface{}{"data": p.Clone()})
}

// bindPostForm reads the multipart post fields shared by create and
// update. An attached featured image is recorded by filename only;
// the demo server has no file storage.
func bindPostForm(c echo.Context, p *model.Post) error {
	if title := c.FormValue("title"); title != "" {
		p.Title = title
	}
	if content := c.FormValue("content"); content != "" {
		p.Content = content
	}
	if excerpt := c.FormValue("excerpt"); excerpt != "" {
		p.Excerpt = excerpt
	}
	if status := c.FormValue("status"); status != "" {
		p.Status = status
	}
	if raw := c.FormValue("category"); raw != "" {
		var cat model.Category
		if err := json.Unmarshal([]byte(raw), &cat); err != nil {
			return message(c, http.StatusBadRequest, "invalid category")
		}
		p.Category = cat
	}
	if form, err := c.MultipartForm(); err == nil {
		if tags, ok := form.Value["tags[]"]; ok {
			p.Tags = tags
		}
		if files, ok := form.File["featuredImage"]; ok && len(files) > 0 {
			p.FeaturedImage = files[0].Filename
		}
	}
	return nil
}

func (s *Server) handleCreatePost(c echo.Context) error {
	userID := c.Get("user_id").(string)

	s.mu.Lock()
	author := s.userByID(userID)
	s.mu.Unlock()
	if author == nil {
		return message(c, http.StatusUnauthorized, "unknown user")
	}

	now := time.Now().UTC()
	p := &model.Post{
		ID:        uuid.NewString(),
		Status:    model.StatusPublished,
		Author:    *author,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := bindPostForm(c, p); err != nil {
		return err
	}
	if p.Title == "" || p.Content == "" {
		return message(c, http.StatusBadRequest, "title and content are required")
	}

	s.mu.Lock()
	s.posts[p.ID] = p
	s.order = append([]string{p.ID}, s.order...)
	s.mu.Unlock()

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    p.Clone(),
	})
}

func (s *Server) handleUpdatePost(c echo.Context) error {
	userID := c.Get("user_id").(string)

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[c.Param("id")]
	if !ok {
		return message(c, http.StatusNotFound, "post not found")
	}
	if p.Author.ID != userID {
		return message(c, http.StatusForbidden, "only the author can edit this post")
	}
	if err := bindPostForm(c, p); err != nil {
		return err
	}
	p.UpdatedAt = time.Now().UTC()

	return c.JSON(http.StatusOK, map[string]interface{}{"data": p.Clone()})
}

func (s *Server) handleDeletePost(c echo.Context) error {
	userID := c.Get("user_id").(string)
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return message(c, http.StatusNotFound, "post not found")
	}
	if p.Author.ID != userID {
		return message(c, http.StatusForbidden, "only the author can delete this post")
	}

	delete(s.posts, id)
	for i, ordered := range s.order {
		if ordered == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{})
}

func (s *Server) handleToggleLike(c echo.Context) error {
	userID := c.Get("user_id").(string)

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[c.Param("id")]
	if !ok {
		return message(c, http.StatusNotFound, "post not found")
	}

	liked := true
	for i, id := range p.Likes {
		if id == userID {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			liked = false
			break
		}
	}
	if liked {
		p.Likes = append(p.Likes, userID)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"liked":   liked,
	})
}

func (s *Server) handleAddComment(c echo.Context) error {
	userID := c.Get("user_id").(string)

	var req struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "invalid request")
	}
	if strings.TrimSpace(req.Content) == "" {
		return message(c, http.StatusBadRequest, "comment cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[c.Param("id")]
	if !ok {
		return message(c, http.StatusNotFound, "post not found")
	}
	user := s.userByID(userID)
	if user == nil {
		return message(c, http.StatusUnauthorized, "unknown user")
	}

	now := time.Now().UTC()
	comment := model.Comment{
		ID:        uuid.NewString(),
		Content:   req.Content,
		User:      *user,
		CreatedAt: now,
		UpdatedAt: now,
	}
	p.Comments = append([]model.Comment{comment}, p.Comments...)

	return c.JSON(http.StatusCreated, map[string]interface{}{"data": comment})
}

func (s *Server) handleEditComment(c echo.Context) error {
	userID := c.Get("user_id").(string)

	var req struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "invalid request")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[c.Param("id")]
	if !ok {
		return message(c, http.StatusNotFound, "post not found")
	}
	for i := range p.Comments {
		if p.Comments[i].ID == c.Param("commentId") {
			if p.Comments[i].User.ID != userID {
				return message(c, http.StatusForbidden, "only the author can edit this comment")
			}
			p.Comments[i].Content = req.Content
			p.Comments[i].UpdatedAt = time.Now().UTC()
			return c.JSON(http.StatusOK, map[string]interface{}{"data": p.Comments[i]})
		}
	}
	return message(c, http.StatusNotFound, "comment not found")
}

func (s *Server) handleDeleteComment(c echo.Context) error {
	userID := c.Get("user_id").(string)

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[c.Param("id")]
	if !ok {
		return message(c, http.StatusNotFound, "post not found")
	}
	for i := range p.Comments {
		if p.Comments[i].ID == c.Param("commentId") {
			if p.Comments[i].User.ID != userID {
				return message(c, http.StatusForbidden, "only the author can delete this comment")
			}
			p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
			return c.JSON(http.StatusOK, map[string]interface{}{})
		}
	}
	return message(c, http.StatusNotFound, "comment not found")
}

func (s *Server) handleStats(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	published := 0
	comments := 0
	likes := 0
	for _, p := range s.posts {
		if p.IsPublished() {
			published++
		}
		comments += len(p.Comments)
		likes += len(p.Likes)
	}

	stats := []map[string]string{
		{"label": "Active users", "value": strconv.Itoa(len(s.users))},
		{"label": "Blog posts published", "value": strconv.Itoa(published)},
		{"label": "Comments", "value": strconv.Itoa(comments)},
		{"label": "Likes", "value": strconv.Itoa(likes)},
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": stats})
}
