package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/existflow/inkwell/internal/model"
)

// ListParams are the query parameters for listing posts
type ListParams struct {
	Page     int
	Limit    int
	Status   string
	Category string
	Tags     []string
	Search   string
}

// PostsPage is one server-side page of posts with pagination totals
type PostsPage struct {
	Data        []model.Post `json:"data"`
	TotalPages  int          `json:"totalPages"`
	CurrentPage int          `json:"currentPage"`
	TotalPosts  int          `json:"totalPosts"`
}

// PostInput holds the fields for creating or updating a post.
// FeaturedImage is a local file path; when set, the file is attached
// as a multipart part.
type PostInput struct {
	Title         string
	Content       string
	Excerpt       string
	Category      *model.Category
	Tags          []string
	Status        string
	FeaturedImage string
}

// Stat is one dashboard statistic row
type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ListPosts fetches one page of posts matching the given filters
func (c *Client) ListPosts(ctx context.Context, params ListParams) (*PostsPage, error) {
	q := url.Values{}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Status != "" {
		q.Set("status", params.Status)
	}
	if params.Category != "" {
		q.Set("category", strings.ToLower(params.Category))
	}
	if len(params.Tags) > 0 {
		q.Set("tags", strings.Join(params.Tags, ","))
	}
	if params.Search != "" {
		q.Set("search", params.Search)
	}

	var out PostsPage
	if err := c.doJSON(ctx, http.MethodGet, "/posts?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPost fetches a single post by id
func (c *Client) GetPost(ctx context.Context, id string) (*model.Post, error) {
	var out struct {
		Data model.Post `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/posts/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// CreatePost creates a post. The request is multipart form data
// because a featured image may be attached.
func (c *Client) CreatePost(ctx context.Context, input PostInput) (*model.Post, error) {
	var out struct {
		Success bool       `json:"success"`
		Data    model.Post `json:"data"`
	}
	if err := c.doMultipart(ctx, http.MethodPost, "/posts", input, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// UpdatePost updates a post by id, multipart like CreatePost
func (c *Client) UpdatePost(ctx context.Context, id string, input PostInput) (*model.Post, error) {
	var out struct {
		Data model.Post `json:"data"`
	}
	if err := c.doMultipart(ctx, http.MethodPut, "/posts/"+id, input, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// DeletePost deletes a post by id
func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/posts/"+id, nil, nil)
}

// ToggleLike flips the current user's like on a post. The returned
// bool is the server's verdict: true when the post is now liked.
func (c *Client) ToggleLike(ctx context.Context, postID string) (bool, error) {
	var out struct {
		Success bool `json:"success"`
		Liked   bool `json:"liked"`
	}
	if err := c.doJSON(ctx, http.MethodPut, "/posts/"+postID+"/like", nil, &out); err != nil {
		return false, err
	}
	return out.Liked, nil
}

// AddComment posts a comment and returns the server's canonical copy
func (c *Client) AddComment(ctx context.Context, postID, content string) (*model.Comment, error) {
	body := map[string]string{"content": content}
	var out struct {
		Data model.Comment `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/posts/"+postID+"/comments", body, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// EditComment replaces a comment's content and returns the updated copy
func (c *Client) EditComment(ctx context.Context, postID, commentID, content string) (*model.Comment, error) {
	body := map[string]string{"content": content}
	var out struct {
		Data model.Comment `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodPut, "/posts/"+postID+"/comments/"+commentID, body, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// DeleteComment deletes a comment by id
func (c *Client) DeleteComment(ctx context.Context, postID, commentID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/posts/"+postID+"/comments/"+commentID, nil, nil)
}

// GetStats fetches the dashboard engagement statistics
func (c *Client) GetStats(ctx context.Context) ([]Stat, error) {
	var out struct {
		Data []Stat `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/stats", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// doMultipart encodes a PostInput as multipart form data and sends it
func (c *Client) doMultipart(ctx context.Context, method, path string, input PostInput, out interface{}) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := writePostForm(w, input); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.do(req, out)
}

// writePostForm fills the multipart writer with the post fields.
// Tags go out as a repeated "tags[]" field and the category as a JSON
// string, matching what the platform API expects.
func writePostForm(w *multipart.Writer, input PostInput) error {
	_ = w.WriteField("title", input.Title)
	_ = w.WriteField("content", input.Content)
	if input.Excerpt != "" {
		_ = w.WriteField("excerpt", input.Excerpt)
	}
	if input.Status != "" {
		_ = w.WriteField("status", input.Status)
	}
	if input.Category != nil {
		data, err := json.Marshal(input.Category)
		if err != nil {
			return fmt.Errorf("failed to encode category: %w", err)
		}
		_ = w.WriteField("category", string(data))
	}
	for _, tag := range input.Tags {
		_ = w.WriteField("tags[]", tag)
	}

	if input.FeaturedImage != "" {
		file, err := os.Open(input.FeaturedImage)
		if err != nil {
			return fmt.Errorf("failed to open image: %w", err)
		}
		defer file.Close()

		part, err := w.CreateFormFile("featuredImage", filepath.Base(input.FeaturedImage))
		if err != nil {
			return fmt.Errorf("failed to create image part: %w", err)
		}
		if _, err := io.Copy(part, file); err != nil {
			return fmt.Errorf("failed to attach image: %w", err)
		}
	}
	return nil
}
