// Package site holds the read-only data shared by every page of the blog:
// the site metadata document, per-render page context, and posts.
package site

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoMetadata is returned when the metadata document lacks site.siteMetadata.
// Components assume metadata is present, so this is checked once at load time.
var ErrNoMetadata = errors.New("site: metadata document has no site.siteMetadata")

// Metadata mirrors { site: { siteMetadata: { ... } } } from the metadata file.
// All fields are optional; read them through the accessor methods.
type Metadata struct {
	Title       *string `yaml:"title"`
	Description *string `yaml:"description"`
	SiteURL     *string `yaml:"siteUrl"`
	Social      *Social `yaml:"social"`
	Author      *Author `yaml:"author"`
}

// Social holds outbound profile handles and URLs.
type Social struct {
	Twitter *string `yaml:"twitter"`
	GitHub  *string `yaml:"github"`
	Website *string `yaml:"website"`
}

// Author describes the site owner shown in the bio.
type Author struct {
	Name    *string `yaml:"name"`
	Summary *string `yaml:"summary"`
}

type document struct {
	Site *struct {
		SiteMetadata *Metadata `yaml:"siteMetadata"`
	} `yaml:"site"`
}

// Parse decodes a metadata document.
func Parse(r io.Reader) (Metadata, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Metadata{}, ErrNoMetadata
		}
		return Metadata{}, fmt.Errorf("site: decode metadata: %w", err)
	}
	if doc.Site == nil || doc.Site.SiteMetadata == nil {
		return Metadata{}, ErrNoMetadata
	}
	return *doc.Site.SiteMetadata, nil
}

// Load reads and decodes the metadata document at path.
func Load(path string) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("site: open metadata: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// SiteTitle reports the site title and whether one is set.
func (m Metadata) SiteTitle() (string, bool) { return present(m.Title) }

// SiteDescription reports the default page description.
func (m Metadata) SiteDescription() (string, bool) { return present(m.Description) }

// URL reports the canonical site URL without a trailing slash.
func (m Metadata) URL() (string, bool) {
	u, ok := present(m.SiteURL)
	return strings.TrimSuffix(u, "/"), ok
}

// TwitterHandle reports the social handle as written in the metadata.
func (m Metadata) TwitterHandle() (string, bool) {
	if m.Social == nil {
		return "", false
	}
	return present(m.Social.Twitter)
}

// GitHubURL reports an explicit code-hosting profile URL.
func (m Metadata) GitHubURL() (string, bool) {
	if m.Social == nil {
		return "", false
	}
	return present(m.Social.GitHub)
}

// WebsiteURL reports an explicit personal site URL.
func (m Metadata) WebsiteURL() (string, bool) {
	if m.Social == nil {
		return "", false
	}
	return present(m.Social.Website)
}

// AuthorName reports the author's display name.
func (m Metadata) AuthorName() (string, bool) {
	if m.Author == nil {
		return "", false
	}
	return present(m.Author.Name)
}

// AuthorSummary reports the author's tagline.
func (m Metadata) AuthorSummary() (string, bool) {
	if m.Author == nil {
		return "", false
	}
	return present(m.Author.Summary)
}

// present treats nil and empty strings alike.
func present(p *string) (string, bool) {
	if p == nil || *p == "" {
		return "", false
	}
	return *p, true
}
