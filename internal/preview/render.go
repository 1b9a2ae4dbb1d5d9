package preview

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/bloomiox/resusbih/internal/domain"
)

// fallbackTitle labels an article whose title is missing upstream.
const fallbackTitle = "Novost"

// SiteMeta is the static site descriptor used for article-independent tags
// and for the default document. Read-only after startup.
type SiteMeta struct {
	URL                string
	Name               string
	DefaultTitle       string
	DefaultDescription string
	DefaultImage       string
	Locale             string
	TwitterHandle      string
	Section            string
	GenericDescription string
	// ArticleRoute and ArticleParam form the canonical article URL:
	// {URL}{ArticleRoute}?{ArticleParam}={id}
	ArticleRoute string
	ArticleParam string
}

// articlePage is the template input for an article preview document.
type articlePage struct {
	Title        string
	Description  string
	Image        string
	CanonicalURL string
	PublishedAt  string
	Site         SiteMeta
}

// defaultPage is the template input for the default site document.
type defaultPage struct {
	Site SiteMeta
}

// Renderer builds complete HTML documents for crawlers. Interpolated text is
// escaped by the template engine, so stored content cannot inject markup.
type Renderer struct {
	site       SiteMeta
	articleTpl *template.Template
	defaultTpl *template.Template
}

// NewRenderer parses the preview templates against the given site metadata.
func NewRenderer(site SiteMeta) (*Renderer, error) {
	articleTpl, err := template.New("article").Parse(articleDocument)
	if err != nil {
		return nil, fmt.Errorf("parse article template: %w", err)
	}
	defaultTpl, err := template.New("default").Parse(defaultDocument)
	if err != nil {
		return nil, fmt.Errorf("parse default template: %w", err)
	}
	return &Renderer{site: site, articleTpl: articleTpl, defaultTpl: defaultTpl}, nil
}

// CanonicalURL returns the authoritative public URL for an article id.
func (r *Renderer) CanonicalURL(articleID int64) string {
	return fmt.Sprintf("%s%s?%s=%d",
		r.site.URL, r.site.ArticleRoute, r.site.ArticleParam, articleID)
}

// RenderArticle builds the preview document for a found article. Every
// optional field has a default, so the call never fails on missing content.
func (r *Renderer) RenderArticle(a domain.ArticleSummary) (string, error) {
	title := strings.TrimSpace(a.Title)
	if title == "" {
		title = fallbackTitle
	}

	image := a.ImageURL
	if image == "" {
		image = r.site.DefaultImage
	}

	published := a.PublishedAt
	if published.IsZero() {
		published = time.Now().UTC()
	}

	page := articlePage{
		Title:        title,
		Description:  ResolveDescription(a, r.site.GenericDescription),
		Image:        image,
		CanonicalURL: r.CanonicalURL(a.ID),
		PublishedAt:  published.UTC().Format(time.RFC3339),
		Site:         r.site,
	}

	var sb strings.Builder
	if err := r.articleTpl.Execute(&sb, page); err != nil {
		return "", fmt.Errorf("render article document: %w", err)
	}
	return sb.String(), nil
}

// RenderDefault builds the site-level document served when no article was
// found or when the request named no article at all.
func (r *Renderer) RenderDefault() (string, error) {
	var sb strings.Builder
	if err := r.defaultTpl.Execute(&sb, defaultPage{Site: r.site}); err != nil {
		return "", fmt.Errorf("render default document: %w", err)
	}
	return sb.String(), nil
}

// articleDocument carries the full crawler-facing markup for one article:
// meta tags in the head, a visible fallback body for non-JS clients, and an
// immediate redirect to the canonical URL for ordinary browsers.
const articleDocument = `<!DOCTYPE html>
<html lang="hr">
  <head>
    <meta charset="UTF-8" />
    <link rel="icon" type="image/png" href="{{.Site.DefaultImage}}" />
    <meta name="viewport" content="width=device-width, initial-scale=1.0" />
    <title>{{.Title}} | {{.Site.Name}}</title>

    <meta name="description" content="{{.Description}}" />
    <meta name="author" content="{{.Site.Name}}" />

    <meta property="og:title" content="{{.Title}} | {{.Site.Name}}" />
    <meta property="og:description" content="{{.Description}}" />
    <meta property="og:image" content="{{.Image}}" />
    <meta property="og:image:secure_url" content="{{.Image}}" />
    <meta property="og:url" content="{{.CanonicalURL}}" />
    <meta property="og:type" content="article" />
    <meta property="og:site_name" content="{{.Site.Name}}" />
    <meta property="og:locale" content="{{.Site.Locale}}" />

    <meta name="twitter:card" content="summary_large_image" />
    <meta name="twitter:title" content="{{.Title}} | {{.Site.Name}}" />
    <meta name="twitter:description" content="{{.Description}}" />
    <meta name="twitter:image" content="{{.Image}}" />
    <meta name="twitter:site" content="{{.Site.TwitterHandle}}" />

    <meta property="article:published_time" content="{{.PublishedAt}}" />
    <meta property="article:author" content="{{.Site.Name}}" />
    <meta property="article:section" content="{{.Site.Section}}" />

    <link rel="canonical" href="{{.CanonicalURL}}" />
    <meta name="robots" content="index, follow" />

    <script>window.location.replace("{{.CanonicalURL}}");</script>
    <noscript>
      <meta http-equiv="refresh" content="0; url={{.CanonicalURL}}" />
    </noscript>

    <style>
      body {
        font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
        background: #F8F9FA;
        margin: 0;
        padding: 20px;
        display: flex;
        align-items: center;
        justify-content: center;
        min-height: 100vh;
        color: #133d7d;
      }
      .container {
        text-align: center;
        background: white;
        padding: 40px;
        border-radius: 12px;
        box-shadow: 0 4px 12px rgba(0,0,0,0.1);
        max-width: 500px;
      }
      .logo { width: 60px; height: 60px; margin: 0 auto 20px; }
      h1 { margin: 0 0 10px; font-size: 24px; }
      p { margin: 0 0 20px; color: #666; line-height: 1.5; }
      .spinner {
        border: 3px solid #f3f3f3;
        border-top: 3px solid #133d7d;
        border-radius: 50%;
        width: 30px;
        height: 30px;
        animation: spin 1s linear infinite;
        margin: 20px auto;
      }
      @keyframes spin { 0% { transform: rotate(0deg); } 100% { transform: rotate(360deg); } }
      .link { color: #133d7d; text-decoration: none; font-weight: 600; }
      .link:hover { text-decoration: underline; }
    </style>
  </head>
  <body>
    <div class="container">
      <img src="{{.Site.DefaultImage}}" alt="{{.Site.Name}} Logo" class="logo" />
      <h1>{{.Title}}</h1>
      <p>{{.Description}}</p>
      <div class="spinner"></div>
      <p>Učitavanje članka...</p>
      <a href="{{.CanonicalURL}}" class="link">Kliknite ovdje ako se stranica ne učita automatski</a>
    </div>
  </body>
</html>
`

// defaultDocument is the site-level fallback served when the article was not
// found, carrying the site defaults instead of article data.
const defaultDocument = `<!DOCTYPE html>
<html lang="hr">
  <head>
    <meta charset="UTF-8" />
    <link rel="icon" type="image/png" href="{{.Site.DefaultImage}}" />
    <meta name="viewport" content="width=device-width, initial-scale=1.0" />
    <title>{{.Site.DefaultTitle}}</title>

    <meta name="description" content="{{.Site.DefaultDescription}}" />

    <meta property="og:title" content="{{.Site.DefaultTitle}}" />
    <meta property="og:description" content="{{.Site.DefaultDescription}}" />
    <meta property="og:image" content="{{.Site.DefaultImage}}" />
    <meta property="og:url" content="{{.Site.URL}}" />
    <meta property="og:type" content="website" />
    <meta property="og:site_name" content="{{.Site.Name}}" />

    <meta name="twitter:card" content="summary_large_image" />
    <meta name="twitter:title" content="{{.Site.DefaultTitle}}" />
    <meta name="twitter:description" content="{{.Site.DefaultDescription}}" />
    <meta name="twitter:image" content="{{.Site.DefaultImage}}" />

    <script>window.location.replace("{{.Site.URL}}");</script>
    <noscript>
      <meta http-equiv="refresh" content="0; url={{.Site.URL}}" />
    </noscript>
  </head>
  <body>
    <p>Redirecting to <a href="{{.Site.URL}}">{{.Site.Name}}</a>...</p>
  </body>
</html>
`
