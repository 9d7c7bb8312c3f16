package store

import "time"

// Article is a normalized news record, regardless of which source produced it.
type Article struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Content        string `json:"content"`
	URL            string `json:"url"`
	ImageURL       string `json:"image_url,omitempty"`
	PublishedAt    string `json:"published_at"`
	PublishedDate  string `json:"published_date,omitempty"`
	Source         Source `json:"source"`
	Author         string `json:"author,omitempty"`
	HasFullContent bool   `json:"has_full_content"`
}

// Source contains provenance of an article.
type Source struct {
	Name string `json:"name"`
}

// Preview returns a teaser for the article, preferring the full body
// when the source delivered one.
func (a Article) Preview(maxLength int) string {
	if a.HasFullContent && a.Content != "" {
		return Truncate(a.Content, maxLength)
	}
	return Truncate(a.Description, maxLength)
}

// Truncate cuts s to at most max runes, appending an ellipsis marker
// when it actually cut something.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

// Bookmark is an article saved by the user, identified by its URL.
type Bookmark struct {
	Article
	SavedAt time.Time `json:"saved_at"`
}
