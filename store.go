package errorsignal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/emersonmde/errorsignal/site"
)

const postColumns = `slug, title, date, tags, summary, content, published`

// Post sources. Imported rows are replaced wholesale on every import;
// editor rows are only ever changed from the admin pages.
const (
	sourceFile  = "file"
	sourceAdmin = "admin"
)

// Store persists posts in SQLite. Posts imported from markdown and posts
// written in the admin editor share one table keyed by slug.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("errorsignal: create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("errorsignal: open database: %w", err)
	}
	// WAL lets page renders read while an import writes; busy_timeout makes
	// writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("errorsignal: configure database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("errorsignal: migrate: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    slug TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    date TEXT NOT NULL,
    tags TEXT NOT NULL,
    summary TEXT NOT NULL,
    content TEXT NOT NULL,
    published INTEGER NOT NULL DEFAULT 1,
    source TEXT NOT NULL DEFAULT 'admin'
);
CREATE INDEX IF NOT EXISTS posts_date ON posts (date DESC);
`)
	if err != nil {
		return err
	}
	return s.addColumn("source", `TEXT NOT NULL DEFAULT 'admin'`)
}

// addColumn adds a column to posts when a database predates it.
func (s *Store) addColumn(name, decl string) error {
	var n int
	if err := s.db.QueryRow(`SELECT count(*) FROM pragma_table_info('posts') WHERE name = ?`, name).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err := s.db.Exec(`ALTER TABLE posts ADD COLUMN ` + name + ` ` + decl)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (site.Post, error) {
	var p site.Post
	var tags string
	var published int
	if err := row.Scan(&p.Slug, &p.Title, &p.Date, &tags, &p.Summary, &p.Content, &published); err != nil {
		return site.Post{}, err
	}
	p.Tags = ParseTags(tags)
	p.Link = "/blog/" + p.Slug + "/"
	p.Published = published == 1
	return p, nil
}

func (s *Store) queryPosts(query string, args ...any) ([]site.Post, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []site.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ListPosts returns all published posts ordered by date descending.
// If tag is non-empty, results are filtered to posts containing that tag.
func (s *Store) ListPosts(tag string) ([]site.Post, error) {
	if tag == "" {
		return s.queryPosts(`SELECT ` + postColumns + ` FROM posts WHERE published = 1 ORDER BY date DESC, slug`)
	}
	return s.queryPosts(`SELECT `+postColumns+` FROM posts WHERE published = 1 AND instr(tags, ',' || ? || ',') > 0 ORDER BY date DESC, slug`,
		normalizeTag(tag))
}

// ListAllPosts returns every post (published and drafts) ordered by date descending.
func (s *Store) ListAllPosts() ([]site.Post, error) {
	return s.queryPosts(`SELECT ` + postColumns + ` FROM posts ORDER BY date DESC, slug`)
}

// ListTags returns a sorted, deduplicated slice of all tags from published posts.
func (s *Store) ListTags() ([]string, error) {
	rows, err := s.db.Query(`SELECT tags FROM posts WHERE published = 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, err
		}
		for _, t := range ParseTags(tags) {
			set[t] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	result := make([]string, 0, len(set))
	for t := range set {
		result = append(result, t)
	}
	sort.Strings(result)
	return result, nil
}

// GetPost returns a single published post by slug, or ErrNotFound.
func (s *Store) GetPost(slug string) (site.Post, error) {
	return scanPost(s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE slug = ? AND published = 1`, slug))
}

// GetPostAny returns a post by slug regardless of published status (for admin).
func (s *Store) GetPostAny(slug string) (site.Post, error) {
	return scanPost(s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE slug = ?`, slug))
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func savePost(db execer, p site.Post, source string) error {
	tags := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		if t = normalizeTag(t); t != "" {
			tags = append(tags, t)
		}
	}
	published := 0
	if p.Published {
		published = 1
	}
	_, err := db.Exec(`INSERT OR REPLACE INTO posts (`+postColumns+`, source) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Slug, p.Title, p.Date, ","+strings.Join(tags, ",")+",", p.Summary, p.Content, published, source)
	return err
}

// SavePost upserts a post written in the admin editor. Tags are normalized
// to lowercase.
func (s *Store) SavePost(p site.Post) error {
	if err := savePost(s.db, p, sourceAdmin); err != nil {
		return fmt.Errorf("errorsignal: save post %q: %w", p.Slug, err)
	}
	return nil
}

// SavePosts makes posts the complete imported set in one transaction:
// each is upserted, and previously imported posts missing from posts are
// deleted. Editor posts are kept. Either everything lands or nothing does.
func (s *Store) SavePosts(posts []site.Post) error {
	slugs := make([]string, 0, len(posts))
	for _, p := range posts {
		slugs = append(slugs, p.Slug)
	}
	keep, err := json.Marshal(slugs)
	if err != nil {
		return fmt.Errorf("errorsignal: encode slugs: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("errorsignal: begin import: %w", err)
	}
	for _, p := range posts {
		if err := savePost(tx, p, sourceFile); err != nil {
			tx.Rollback()
			return fmt.Errorf("errorsignal: save post %q: %w", p.Slug, err)
		}
	}
	if _, err := tx.Exec(`DELETE FROM posts WHERE source = ? AND slug NOT IN (SELECT value FROM json_each(?))`,
		sourceFile, string(keep)); err != nil {
		tx.Rollback()
		return fmt.Errorf("errorsignal: prune import: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("errorsignal: commit import: %w", err)
	}
	return nil
}

// DeletePost removes a post by slug.
func (s *Store) DeletePost(slug string) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE slug = ?`, slug)
	return err
}

// ParseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
