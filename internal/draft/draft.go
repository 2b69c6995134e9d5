package draft

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/existflow/inkwell/internal/api"
	"github.com/existflow/inkwell/internal/model"
)

// Draft is an unpublished post composition kept locally until it is
// published through the platform API
type Draft struct {
	ID            string
	Title         string
	Content       string
	Excerpt       string
	Category      model.Category
	Tags          []string
	FeaturedImage string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Store wraps the local SQLite draft database
type Store struct {
	db *sql.DB
}

// DefaultPath returns the default database path (~/.inkwell/drafts.db)
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".inkwell", "drafts.db"), nil
}

// Open opens or creates the draft database
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

// OpenDefault opens the database at the default path
func OpenDefault() (*Store, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return Open(path)
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	const schema = `
CREATE TABLE IF NOT EXISTS drafts (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    excerpt TEXT DEFAULT '',
    category_name TEXT DEFAULT '',
    category_slug TEXT DEFAULT '',
    tags TEXT DEFAULT '',
    featured_image TEXT DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// Save inserts a new draft or updates an existing one. A draft
// without an id gets one assigned.
func (s *Store) Save(d *Draft) error {
	now := time.Now().UTC()
	if d.ID == "" {
		d.ID = uuid.NewString()
		d.CreatedAt = now
	}
	d.UpdatedAt = now

	_, err := s.db.Exec(`
		INSERT INTO drafts (id, title, content, excerpt, category_name, category_slug, tags, featured_image, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, content=excluded.content, excerpt=excluded.excerpt,
			category_name=excluded.category_name, category_slug=excluded.category_slug,
			tags=excluded.tags, featured_image=excluded.featured_image, updated_at=excluded.updated_at`,
		d.ID, d.Title, d.Content, d.Excerpt, d.Category.Name, d.Category.Slug,
		strings.Join(d.Tags, ","), d.FeaturedImage,
		d.CreatedAt.Format(time.RFC3339), d.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// Get returns a draft by id
func (s *Store) Get(id string) (*Draft, error) {
	row := s.db.QueryRow(`
		SELECT id, title, content, excerpt, category_name, category_slug, tags, featured_image, created_at, updated_at
		FROM drafts WHERE id = ?`, id)
	d, err := scanDraft(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("draft %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	return d, nil
}

// List returns all drafts, newest first
func (s *Store) List() ([]Draft, error) {
	rows, err := s.db.Query(`
		SELECT id, title, content, excerpt, category_name, category_slug, tags, featured_image, created_at, updated_at
		FROM drafts ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	var drafts []Draft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}
		drafts = append(drafts, *d)
	}
	return drafts, rows.Err()
}

// Delete removes a draft by id
func (s *Store) Delete(id string) error {
	if _, err := s.db.Exec(`DELETE FROM drafts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

// Input converts the draft to the API payload for publishing
func (d *Draft) Input(status string) api.PostInput {
	var category *model.Category
	if d.Category.Name != "" {
		c := d.Category
		category = &c
	}
	return api.PostInput{
		Title:         d.Title,
		Content:       d.Content,
		Excerpt:       d.Excerpt,
		Category:      category,
		Tags:          d.Tags,
		Status:        status,
		FeaturedImage: d.FeaturedImage,
	}
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanDraft(row scannable) (*Draft, error) {
	var d Draft
	var tags, createdAt, updatedAt string
	err := row.Scan(&d.ID, &d.Title, &d.Content, &d.Excerpt,
		&d.Category.Name, &d.Category.Slug, &tags, &d.FeaturedImage,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if tags != "" {
		d.Tags = strings.Split(tags, ",")
	}
	d.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	d.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &d, nil
}
