package views

import (
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/emersonmde/errorsignal/site"
)

// PostURL is the site-relative address of a post page.
func PostURL(env Env, slug string) string {
	return env.URL("/blog/" + url.PathEscape(slug) + "/")
}

// TagURL is the home page filtered to one tag.
func TagURL(env Env, tag string) string {
	return env.URL("/") + "?tag=" + url.QueryEscape(tag)
}

// RelatedPosts returns posts that share at least one tag with current.
func RelatedPosts(current site.Post, posts []site.Post) []site.Post {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		tag := strings.ToLower(strings.TrimSpace(t))
		if tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	var related []site.Post
	for _, p := range posts {
		if p.Slug == current.Slug {
			continue
		}
		for _, t := range p.Tags {
			tag := strings.ToLower(strings.TrimSpace(t))
			if _, ok := tagSet[tag]; ok {
				related = append(related, p)
				break
			}
		}
	}
	return related
}

// tagClass returns the CSS classes for a tag pill.
func tagClass(active bool) string {
	if active {
		return "tag tag-active"
	}
	return "tag"
}

// JoinTags formats a tag slice as a comma-separated string for form fields.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// FormatDate renders a YYYY-MM-DD date as "January 02, 2006". Unparseable
// input is returned unchanged.
func FormatDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("January 02, 2006")
}

// WebsiteJSONLD produces a Schema.org WebSite block from the site metadata.
func WebsiteJSONLD(env Env) string {
	name, _ := env.Metadata.SiteTitle()
	base, _ := env.Metadata.URL()
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     name,
		"url":      site.BuildURL(base+env.PathPrefix, "/"),
	}
	if desc, ok := env.Metadata.SiteDescription(); ok {
		data["description"] = desc
	}
	if author, ok := env.Metadata.AuthorName(); ok {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJSONLD produces a Schema.org BlogPosting block for a post.
func BlogPostingJSONLD(env Env, post site.Post) string {
	base, _ := env.Metadata.URL()
	postURL := site.BuildURL(base+env.PathPrefix, "blog", post.Slug)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Summary,
		"datePublished": post.Date,
		"url":           postURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if name, ok := env.Metadata.SiteTitle(); ok {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  name,
		}
	}
	if author, ok := env.Metadata.AuthorName(); ok {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  author,
		}
	}
	if len(post.Tags) > 0 {
		data["keywords"] = strings.Join(post.Tags, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
