// Package content turns a directory of markdown posts with YAML frontmatter
// into site posts, and renders post bodies to sanitised HTML.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/adrg/frontmatter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/emersonmde/errorsignal/site"
)

// ErrMissingDate is returned for a post whose frontmatter has no usable date.
var ErrMissingDate = errors.New("content: post has no date")

// excerptLength is the rune budget for summaries derived from the body.
const excerptLength = 160

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02 15:04:05",
	"January 2, 2006",
}

type matter struct {
	Title       string   `yaml:"title"`
	Date        string   `yaml:"date"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
	Draft       bool     `yaml:"draft"`
	Slug        string   `yaml:"slug"`
}

// LoadDir reads every *.md file under dir, newest first. Slugs must be unique.
func LoadDir(dir string) ([]site.Post, error) {
	var posts []site.Post
	seen := make(map[string]string)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}
		post, err := ParseFile(path)
		if err != nil {
			return err
		}
		if prev, ok := seen[post.Slug]; ok {
			return fmt.Errorf("content: slug %q used by both %s and %s", post.Slug, prev, path)
		}
		seen[post.Slug] = path
		posts = append(posts, post)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].Date != posts[j].Date {
			return posts[i].Date > posts[j].Date
		}
		return posts[i].Slug < posts[j].Slug
	})
	return posts, nil
}

// ParseFile reads a single markdown post.
func ParseFile(path string) (site.Post, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return site.Post{}, fmt.Errorf("content: read %s: %w", path, err)
	}
	post, err := Parse(raw, defaultSlug(path))
	if err != nil {
		return site.Post{}, fmt.Errorf("content: %s: %w", path, err)
	}
	return post, nil
}

// Parse decodes frontmatter and body. fallbackSlug is used when the
// frontmatter names no slug.
func Parse(raw []byte, fallbackSlug string) (site.Post, error) {
	var m matter
	body, err := frontmatter.Parse(bytes.NewReader(raw), &m)
	if err != nil {
		return site.Post{}, fmt.Errorf("parse frontmatter: %w", err)
	}

	slug := site.Slugify(m.Slug)
	if slug == "" {
		slug = site.Slugify(fallbackSlug)
	}
	if slug == "" {
		return site.Post{}, errors.New("post has no slug")
	}

	date, err := normalizeDate(m.Date)
	if err != nil {
		return site.Post{}, err
	}

	title := strings.TrimSpace(m.Title)
	if title == "" {
		title = TitleFromSlug(slug)
	}

	content := strings.TrimSpace(string(body))
	summary := strings.TrimSpace(m.Description)
	if summary == "" {
		summary = Excerpt(content, excerptLength)
	}

	var tags []string
	for _, t := range m.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	return site.Post{
		Title:     title,
		Date:      date,
		Tags:      tags,
		Summary:   summary,
		Link:      "/blog/" + slug + "/",
		Slug:      slug,
		Content:   content,
		Published: !m.Draft,
	}, nil
}

// defaultSlug is the file's base name, or its directory's name for index.md.
func defaultSlug(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if strings.EqualFold(base, "index") {
		return filepath.Base(filepath.Dir(path))
	}
	return base
}

func normalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrMissingDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("content: unrecognised date %q", s)
}

// TitleFromSlug turns "hello-world" into "Hello World".
func TitleFromSlug(slug string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(slug, "-", " "))
}

// Excerpt returns the first prose of a markdown body, cut to about n runes
// on a word boundary. Headings, fences, images and list markers are skipped.
func Excerpt(md string, n int) string {
	var words []string
	inFence := false
	for _, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence || trimmed == "" || strings.HasPrefix(trimmed, "#") ||
			strings.HasPrefix(trimmed, "![") || strings.HasPrefix(trimmed, "<") {
			continue
		}
		trimmed = strings.TrimLeft(trimmed, "-*>+ ")
		words = append(words, strings.Fields(stripInline(trimmed))...)
	}
	text := strings.Join(words, " ")
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:n])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}

var inlineReplacer = strings.NewReplacer("**", "", "__", "", "`", "", "*", "", "[", "", "]", "")

// stripInline drops emphasis markers and link targets.
func stripInline(s string) string {
	for {
		i := strings.Index(s, "](")
		if i < 0 {
			break
		}
		j := strings.IndexByte(s[i:], ')')
		if j < 0 {
			break
		}
		s = s[:i+1] + s[i+j+1:]
	}
	return inlineReplacer.Replace(s)
}
