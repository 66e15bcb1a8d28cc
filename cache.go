package errorsignal

import (
	"database/sql"
	"sync"
	"time"

	"github.com/emersonmde/errorsignal/site"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = sql.ErrNoRows

// snapshot is one immutable load of the published posts, with indexes.
// Readers share it without copying; a reload replaces it wholesale.
type snapshot struct {
	posts  []site.Post // newest first
	tags   []string
	bySlug map[string]int
	byTag  map[string][]int
	taken  time.Time
}

func newSnapshot(posts []site.Post, tags []string, at time.Time) *snapshot {
	s := &snapshot{
		posts:  posts,
		tags:   tags,
		bySlug: make(map[string]int, len(posts)),
		byTag:  make(map[string][]int),
		taken:  at,
	}
	for i, p := range posts {
		s.bySlug[p.Slug] = i
		for _, t := range p.Tags {
			t = normalizeTag(t)
			s.byTag[t] = append(s.byTag[t], i)
		}
	}
	return s
}

// PostCache keeps the published posts in memory for ttl. Drafts never
// enter it; the admin pages read the store directly.
type PostCache struct {
	store *Store
	ttl   time.Duration
	now   func() time.Time

	mu   sync.RWMutex
	snap *snapshot
}

// NewPostCache creates a PostCache backed by the given Store.
func NewPostCache(s *Store, ttl time.Duration) *PostCache {
	return &PostCache{store: s, ttl: ttl, now: time.Now}
}

func (c *PostCache) fresh(s *snapshot) bool {
	return s != nil && c.now().Sub(s.taken) < c.ttl
}

// Invalidate drops the snapshot; the next read reloads from the store.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.snap = nil
	c.mu.Unlock()
}

// current returns a fresh snapshot, reloading under the write lock when the
// held one has expired. Concurrent readers that lose the race reuse the
// winner's load.
func (c *PostCache) current() (*snapshot, error) {
	c.mu.RLock()
	s := c.snap
	c.mu.RUnlock()
	if c.fresh(s) {
		return s, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fresh(c.snap) {
		return c.snap, nil
	}
	posts, err := c.store.ListPosts("")
	if err != nil {
		return nil, err
	}
	tags, err := c.store.ListTags()
	if err != nil {
		return nil, err
	}
	c.snap = newSnapshot(posts, tags, c.now())
	return c.snap, nil
}

// ListPosts returns published posts, newest first, optionally filtered by tag.
func (c *PostCache) ListPosts(tag string) ([]site.Post, error) {
	s, err := c.current()
	if err != nil {
		return nil, err
	}
	if tag == "" {
		return s.posts, nil
	}
	idx := s.byTag[normalizeTag(tag)]
	out := make([]site.Post, 0, len(idx))
	for _, i := range idx {
		out = append(out, s.posts[i])
	}
	return out, nil
}

// ListTags returns all unique tags from published posts.
func (c *PostCache) ListTags() ([]string, error) {
	s, err := c.current()
	if err != nil {
		return nil, err
	}
	return s.tags, nil
}

// GetPost returns a single published post by slug.
func (c *PostCache) GetPost(slug string) (site.Post, error) {
	s, err := c.current()
	if err != nil {
		return site.Post{}, err
	}
	i, ok := s.bySlug[slug]
	if !ok {
		return site.Post{}, ErrNotFound
	}
	return s.posts[i], nil
}

// Neighbours returns the posts published just before (older) and just after
// (newer) slug. Either is nil at the ends of the list.
func (c *PostCache) Neighbours(slug string) (older, newer *site.Post, err error) {
	s, err := c.current()
	if err != nil {
		return nil, nil, err
	}
	i, ok := s.bySlug[slug]
	if !ok {
		return nil, nil, ErrNotFound
	}
	if i+1 < len(s.posts) {
		p := s.posts[i+1]
		older = &p
	}
	if i > 0 {
		p := s.posts[i-1]
		newer = &p
	}
	return older, newer, nil
}
