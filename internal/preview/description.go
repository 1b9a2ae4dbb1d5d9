// Package preview builds the server-rendered documents served to social
// media crawlers: description resolution with fallbacks and the Open
// Graph/Twitter meta-tag HTML for articles and the default site page.
package preview

import (
	"strings"
	"unicode/utf8"

	"github.com/bloomiox/resusbih/internal/domain"
)

// maxDescriptionRunes is the number of characters taken from full content
// when no short description was authored.
const maxDescriptionRunes = 150

// truncationSuffix marks a description cut at exactly maxDescriptionRunes.
const truncationSuffix = "..."

// ResolveDescription produces a single-line description for an article.
// Authored short descriptions are frequently empty, so it falls back to a
// truncated excerpt of the full content, and finally to the generic text.
// The result is always non-empty and the function is deterministic.
func ResolveDescription(a domain.ArticleSummary, generic string) string {
	if s := strings.TrimSpace(a.ShortDescription); s != "" {
		return s
	}

	if strings.TrimSpace(a.FullContent) != "" {
		runes := []rune(a.FullContent)
		if len(runes) > maxDescriptionRunes {
			runes = runes[:maxDescriptionRunes]
		}
		s := strings.TrimSpace(strings.ReplaceAll(string(runes), "\n", " "))
		// An excerpt that still measures exactly the cut length was truncated
		// mid-text; signal that to the reader.
		if utf8.RuneCountInString(s) == maxDescriptionRunes {
			s += truncationSuffix
		}
		return s
	}

	return generic
}
