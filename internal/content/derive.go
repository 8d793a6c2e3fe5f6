package content

import (
	"regexp"
	"strings"

	"github.com/blog-cms-api/internal/models"
)

const (
	// excerptLimit is the maximum number of characters taken from the
	// excerpt candidate before the ellipsis marker is appended
	excerptLimit = 200

	// wordsPerMinute is the reading speed used for read-time estimation
	wordsPerMinute = 200
)

var (
	invalidSlugChars = regexp.MustCompile(`[^a-z0-9 -]`)
	whitespaceRun    = regexp.MustCompile(`\s+`)
	hyphenRun        = regexp.MustCompile(`-+`)
)

// Slugify derives a URL-safe slug from a title: lowercase, strip everything
// outside [a-z0-9 -], collapse whitespace runs to a single hyphen, collapse
// hyphen runs, trim leading/trailing hyphens. Stable under reapplication.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = invalidSlugChars.ReplaceAllString(s, "")
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = hyphenRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Excerpt builds the stored excerpt from a candidate: the first 200
// characters plus an ellipsis marker. The marker is appended whenever the
// candidate is non-empty, whether or not truncation occurred. An empty
// candidate yields the empty string, not an omitted field.
func Excerpt(candidate string) string {
	if candidate == "" {
		return ""
	}
	runes := []rune(candidate)
	if len(runes) > excerptLimit {
		runes = runes[:excerptLimit]
	}
	return string(runes) + "..."
}

// ReadTime estimates reading minutes: word count divided by 200, rounded
// up. Zero words yields zero minutes.
func ReadTime(fullText string) int {
	words := strings.Fields(fullText)
	if len(words) == 0 {
		return 0
	}
	return (len(words) + wordsPerMinute - 1) / wordsPerMinute
}

// Derived holds the recomputed fields for one article's content
type Derived struct {
	Excerpt  string
	ReadTime int
}

// Derive recomputes excerpt and read time from the given content. Callers
// must write the result in the same persistence operation as the content
// itself so a reader never sees new content with a stale pair.
func Derive(blocks []models.ContentBlock, doc *models.EditorDocument) Derived {
	return Derived{
		Excerpt:  Excerpt(ExcerptCandidate(blocks, doc)),
		ReadTime: ReadTime(ExtractText(blocks, doc)),
	}
}
