package query

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/searchcompare/internal/domain"
)

// DefaultMaxLength bounds query length when no explicit limit is configured.
const DefaultMaxLength = 256

// Query is a validated, trimmed search query.
// It is passed verbatim to every provider; syntax escaping is each adapter's concern.
type Query struct {
	text string
}

// Parse trims raw and validates it. maxLen <= 0 disables the length bound.
func Parse(raw string, maxLen int) (Query, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Query{}, fmt.Errorf("%w: query required", domain.ErrInvalidQuery)
	}
	if maxLen > 0 && utf8.RuneCountInString(text) > maxLen {
		return Query{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidQuery, maxLen)
	}
	return Query{text: text}, nil
}

// String returns the query text.
func (q Query) String() string { return q.text }
