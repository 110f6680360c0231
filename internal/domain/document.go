package domain

// Document is one entry of a local search corpus (fixture, bleve, SQLite FTS5 loader).
type Document struct {
	ID      string   `json:"id"`
	Title   string   `json:"title,omitempty"`
	Content string   `json:"content"`
	Path    string   `json:"path,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// ToHit converts the document into a hit with the given score.
func (d Document) ToHit(score float64) Hit {
	title := d.Title
	if title == "" {
		title = ExtractTitle(d.Content)
	}
	return Hit{ID: d.ID, Title: title, Content: d.Content, Path: d.Path, Score: score}
}
