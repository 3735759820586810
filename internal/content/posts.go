package content

import (
	"sort"
	"strings"
	"unicode"

	"github.com/iwvelando/arr-planner/pkg/datetime"
)

// Published drops drafts when production is true. Outside production every
// post is listed. The result is a new slice.
func Published(posts []Post, production bool) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if production && p.Draft {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SortPosts orders posts newest day first, then by title. posts is not
// modified.
func SortPosts(posts []Post) []Post {
	out := make([]Post, len(posts))
	copy(out, posts)
	sort.SliceStable(out, func(i, j int) bool {
		if datetime.Newer(out[i].Date, out[j].Date) {
			return true
		}
		if datetime.Newer(out[j].Date, out[i].Date) {
			return false
		}
		return out[i].Title < out[j].Title
	})
	return out
}

// Page is one slice of a paginated listing. CurrentPage is 1-based.
type Page struct {
	Posts       []Post
	CurrentPage int
	TotalPages  int
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.CurrentPage > 1 }

// HasNext reports whether a following page exists.
func (p Page) HasNext() bool { return p.CurrentPage < p.TotalPages }

// Paginate returns page number page of posts. Pages outside
// [1, TotalPages] clamp to the nearest valid page; an empty listing has zero
// total pages and reports page 1.
func Paginate(posts []Post, page, perPage int) Page {
	if perPage < 1 {
		perPage = 1
	}
	total := (len(posts) + perPage - 1) / perPage

	if page > total {
		page = total
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * perPage
	if start > len(posts) {
		start = len(posts)
	}
	end := start + perPage
	if end > len(posts) {
		end = len(posts)
	}

	return Page{Posts: posts[start:end], CurrentPage: page, TotalPages: total}
}

// TagSlug converts a tag to its URL form: lowercased, punctuation removed,
// and each space replaced with a hyphen ("Go & Gin" -> "go--gin").
func TagSlug(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		switch {
		case r == ' ':
			b.WriteRune('-')
		case r == '-' || r == '_':
			b.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TagLabel is the display text of a tag: words joined by hyphens.
func TagLabel(text string) string {
	return strings.Join(strings.Split(text, " "), "-")
}

// TagCount is the number of posts carrying one tag slug.
type TagCount struct {
	Slug  string
	Label string
	Count int
}

// TagCounts tallies tags by slug, most used first and then alphabetically.
// The label is taken from the first spelling seen.
func TagCounts(posts []Post) []TagCount {
	bySlug := map[string]*TagCount{}
	var order []string
	for _, p := range posts {
		for _, tag := range p.Tags {
			slug := TagSlug(tag)
			if slug == "" {
				continue
			}
			tc, ok := bySlug[slug]
			if !ok {
				tc = &TagCount{Slug: slug, Label: TagLabel(tag)}
				bySlug[slug] = tc
				order = append(order, slug)
			}
			tc.Count++
		}
	}

	out := make([]TagCount, 0, len(order))
	for _, slug := range order {
		out = append(out, *bySlug[slug])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Slug < out[j].Slug
	})
	return out
}

// ByTag returns the posts carrying a tag whose slug is slug.
func ByTag(posts []Post, slug string) []Post {
	var out []Post
	for _, p := range posts {
		for _, tag := range p.Tags {
			if TagSlug(tag) == slug {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
