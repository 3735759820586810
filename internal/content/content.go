// Package content is the read-only index of blog post metadata and project
// cards that the site pages list next to the planner.
package content

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed data/index.yaml
var dataFS embed.FS

// Post is the listing metadata of one blog post.
type Post struct {
	Title   string    `yaml:"title"`
	Slug    string    `yaml:"slug"`
	Date    time.Time `yaml:"date"`
	Tags    []string  `yaml:"tags"`
	Draft   bool      `yaml:"draft"`
	Summary string    `yaml:"summary"`
}

// Project is a card on the home page.
type Project struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Href        string `yaml:"href,omitempty"`
	ImgSrc      string `yaml:"imgSrc,omitempty"`
}

// Index holds every known post, drafts included, and the project cards.
type Index struct {
	Posts    []Post    `yaml:"posts"`
	Projects []Project `yaml:"projects"`
}

// Load parses a YAML index from r.
func Load(r io.Reader) (*Index, error) {
	var idx Index
	if err := yaml.NewDecoder(r).Decode(&idx); err != nil {
		if err == io.EOF {
			return &idx, nil
		}
		return nil, fmt.Errorf("failed to parse content index: %w", err)
	}

	for i, p := range idx.Posts {
		if p.Title == "" || p.Slug == "" {
			return nil, fmt.Errorf("post %d is missing a title or slug", i)
		}
	}
	return &idx, nil
}

// LoadFS parses the YAML index at path inside fsys.
func LoadFS(fsys fs.FS, path string) (*Index, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open content index %s: %w", path, err)
	}
	defer f.Close()

	return Load(f)
}

// Default returns the index compiled into the binary.
func Default() (*Index, error) {
	return LoadFS(dataFS, "data/index.yaml")
}

// Find returns the post with the given slug.
func (idx *Index) Find(slug string) (Post, bool) {
	for _, p := range idx.Posts {
		if p.Slug == slug {
			return p, true
		}
	}
	return Post{}, false
}
