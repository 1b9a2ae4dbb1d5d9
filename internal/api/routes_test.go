package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bloomiox/resusbih/internal/api"
	"github.com/bloomiox/resusbih/internal/classify"
	"github.com/bloomiox/resusbih/internal/config"
	"github.com/bloomiox/resusbih/internal/domain"
	"github.com/bloomiox/resusbih/internal/handler"
	"github.com/bloomiox/resusbih/internal/logger"
	"github.com/bloomiox/resusbih/internal/preview"
	"github.com/bloomiox/resusbih/internal/proxy"
	"github.com/bloomiox/resusbih/internal/store"
)

type fixedStore struct {
	article *domain.ArticleSummary
}

func (s *fixedStore) GetArticle(_ context.Context, _ int64) (*domain.ArticleSummary, error) {
	if s.article == nil {
		return nil, store.ErrNotFound
	}
	return s.article, nil
}

// newTestServer wires the full route table against an httptest SPA origin.
func newTestServer(t *testing.T, articles store.ArticleStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("origin:" + r.URL.Path))
	}))
	t.Cleanup(origin.Close)

	originURL, err := url.Parse(origin.URL)
	if err != nil {
		t.Fatalf("parse origin url: %v", err)
	}

	cfg := &config.Config{}
	config.SetDefaults(cfg)
	cfg.Upstream.URL = origin.URL

	log := logger.NewNop()
	passthrough := proxy.New(originURL, log)

	renderer, err := preview.NewRenderer(preview.SiteMeta{
		URL:                cfg.Site.URL,
		Name:               cfg.Site.Name,
		DefaultTitle:       cfg.Site.DefaultTitle,
		DefaultDescription: cfg.Site.DefaultDescription,
		DefaultImage:       cfg.Site.DefaultImage,
		Locale:             cfg.Site.Locale,
		TwitterHandle:      cfg.Site.TwitterHandle,
		Section:            cfg.Site.Section,
		GenericDescription: cfg.Site.GenericDescription,
		ArticleRoute:       cfg.Preview.Route,
		ArticleParam:       cfg.Preview.ArticleParam,
	})
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}

	previewHandler := handler.NewPreviewHandler(
		classify.NewDetector(cfg.Preview.ArticleParam, cfg.Bots.AllPatterns()),
		articles,
		renderer,
		passthrough,
		log,
		time.Second,
		false,
	)

	r := gin.New()
	api.SetupRoutes(r, cfg, previewHandler, passthrough)
	return r
}

func TestRoutes_Health(t *testing.T) {
	r := newTestServer(t, &fixedStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode health body: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status: got %q", body["status"])
	}
}

func TestRoutes_UnknownPathProxied(t *testing.T) {
	r := newTestServer(t, &fixedStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/assets/app.js", http.NoBody)
	// httptest requests have a non-cancellable context, which sends
	// httputil.ReverseProxy down the legacy http.CloseNotifier path and
	// panics on the plain ResponseRecorder. A cancellable context keeps
	// the proxy on the context-based path.
	ctx, cancel := context.WithCancel(req.Context())
	defer cancel()
	req = req.WithContext(ctx)
	r.ServeHTTP(w, req)

	if w.Body.String() != "origin:/assets/app.js" {
		t.Fatalf("expected proxied response, got %q", w.Body.String())
	}
}

func TestRoutes_PreviewRouteServesBots(t *testing.T) {
	articles := &fixedStore{article: &domain.ArticleSummary{
		ID:    9,
		Title: "Važna obavijest",
	}}
	r := newTestServer(t, articles)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/news?article=9", http.NoBody)
	req.Header.Set("User-Agent", "Twitterbot/1.0")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `og:type" content="article"`) {
		t.Error("expected article preview document")
	}
}
