// Package classify decides how an incoming request should be answered:
// passed through to the SPA origin or served a rendered article preview.
package classify

import (
	"net/url"
	"strconv"
	"strings"
)

// Kind is the outcome of classifying a request.
type Kind int

const (
	// NotArticle means the request does not name a valid article and should
	// be passed through unmodified.
	NotArticle Kind = iota
	// ArticleForHuman means an ordinary client requested an article page.
	ArticleForHuman
	// ArticleForBot means a known crawler requested an article page.
	ArticleForBot
)

// String returns the classification kind as a log-friendly label.
func (k Kind) String() string {
	switch k {
	case ArticleForHuman:
		return "article_for_human"
	case ArticleForBot:
		return "article_for_bot"
	default:
		return "not_article"
	}
}

// Classification is the per-request result. ArticleID is only meaningful when
// Kind is ArticleForHuman or ArticleForBot.
type Classification struct {
	Kind      Kind
	ArticleID int64
}

// Detector classifies requests against a fixed crawler allow-list.
// Matching is case-insensitive substring containment, not a regex grammar.
type Detector struct {
	param    string
	patterns []string
}

// NewDetector creates a Detector for the given article query parameter and
// crawler substring list. Patterns are lowercased once at construction.
func NewDetector(articleParam string, patterns []string) *Detector {
	lowered := make([]string, len(patterns))
	for i, p := range patterns {
		lowered[i] = strings.ToLower(p)
	}
	return &Detector{param: articleParam, patterns: lowered}
}

// Classify inspects the request query and User-Agent. It is a pure function
// of its inputs.
//
// A missing, non-numeric, or non-positive article id classifies as NotArticle
// so malformed links fall back to normal SPA serving. An absent User-Agent
// classifies as non-bot.
func (d *Detector) Classify(query url.Values, userAgent string) Classification {
	raw := query.Get(d.param)
	if raw == "" {
		return Classification{Kind: NotArticle}
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return Classification{Kind: NotArticle}
	}

	if d.isBot(userAgent) {
		return Classification{Kind: ArticleForBot, ArticleID: id}
	}
	return Classification{Kind: ArticleForHuman, ArticleID: id}
}

func (d *Detector) isBot(userAgent string) bool {
	if userAgent == "" {
		return false
	}
	ua := strings.ToLower(userAgent)
	for _, pattern := range d.patterns {
		if strings.Contains(ua, pattern) {
			return true
		}
	}
	return false
}
