package classify_test

import (
	"net/url"
	"testing"

	"github.com/bloomiox/resusbih/internal/classify"
)

var testPatterns = []string{
	"facebookexternalhit",
	"twitterbot",
	"linkedinbot",
	"whatsapp",
	"googlebot",
	"bingbot",
}

func newDetector() *classify.Detector {
	return classify.NewDetector("article", testPatterns)
}

func TestClassify_KnownBots(t *testing.T) {
	d := newDetector()
	query := url.Values{"article": []string{"9"}}

	agents := []string{
		"facebookexternalhit/1.1 (+http://www.facebook.com/externalhit_uatext.php)",
		"TWITTERBOT/1.0",
		"Mozilla/5.0 (compatible; LinkedInBot/1.0)",
		"WhatsApp/2.23.2",
		"Googlebot/2.1 (+http://www.google.com/bot.html)",
		"Mozilla/5.0 (compatible; bingbot/2.0)",
	}

	for _, ua := range agents {
		c := d.Classify(query, ua)
		if c.Kind != classify.ArticleForBot {
			t.Errorf("UA %q: got %v, want ArticleForBot", ua, c.Kind)
		}
		if c.ArticleID != 9 {
			t.Errorf("UA %q: got article id %d, want 9", ua, c.ArticleID)
		}
	}
}

func TestClassify_OrdinaryBrowser(t *testing.T) {
	d := newDetector()
	query := url.Values{"article": []string{"9"}}
	ua := "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0 Safari/537.36"

	c := d.Classify(query, ua)
	if c.Kind != classify.ArticleForHuman {
		t.Fatalf("got %v, want ArticleForHuman", c.Kind)
	}
	if c.ArticleID != 9 {
		t.Fatalf("got article id %d, want 9", c.ArticleID)
	}
}

func TestClassify_MissingUserAgentIsNotBot(t *testing.T) {
	d := newDetector()
	query := url.Values{"article": []string{"3"}}

	c := d.Classify(query, "")
	if c.Kind != classify.ArticleForHuman {
		t.Fatalf("got %v, want ArticleForHuman for empty UA", c.Kind)
	}
}

func TestClassify_NoArticleParam(t *testing.T) {
	d := newDetector()

	c := d.Classify(url.Values{}, "Googlebot/2.1")
	if c.Kind != classify.NotArticle {
		t.Fatalf("got %v, want NotArticle when param absent", c.Kind)
	}
}

func TestClassify_MalformedArticleID(t *testing.T) {
	d := newDetector()

	cases := []string{"abc", "-4", "0", "9.5", "9abc", ""}
	for _, raw := range cases {
		query := url.Values{"article": []string{raw}}
		c := d.Classify(query, "Googlebot/2.1")
		if c.Kind != classify.NotArticle {
			t.Errorf("id %q: got %v, want NotArticle", raw, c.Kind)
		}
	}
}

func TestClassify_PatternsAreCaseInsensitive(t *testing.T) {
	d := classify.NewDetector("article", []string{"FacebookExternalHit"})
	query := url.Values{"article": []string{"1"}}

	c := d.Classify(query, "facebookexternalhit/1.1")
	if c.Kind != classify.ArticleForBot {
		t.Fatalf("got %v, want ArticleForBot for mixed-case pattern", c.Kind)
	}
}
