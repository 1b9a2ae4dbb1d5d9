package proxy_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/bloomiox/resusbih/internal/logger"
	"github.com/bloomiox/resusbih/internal/proxy"
)

func TestPassthrough_ForwardsRequest(t *testing.T) {
	var gotPath, gotQuery, gotUA string
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotUA = r.UserAgent()
		w.Header().Set("X-Origin", "spa")
		_, _ = w.Write([]byte("bundle"))
	}))
	defer origin.Close()

	target, err := url.Parse(origin.URL)
	if err != nil {
		t.Fatalf("parse origin url: %v", err)
	}

	p := proxy.New(target, logger.NewNop())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/news?article=abc", http.NoBody)
	req.Header.Set("User-Agent", "Mozilla/5.0")
	p.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "bundle" {
		t.Errorf("body: got %q", w.Body.String())
	}
	if w.Header().Get("X-Origin") != "spa" {
		t.Error("origin headers must be preserved")
	}
	if gotPath != "/news" || gotQuery != "article=abc" {
		t.Errorf("forwarded URL: got %q?%q", gotPath, gotQuery)
	}
	if gotUA != "Mozilla/5.0" {
		t.Errorf("forwarded UA: got %q", gotUA)
	}
}

func TestPassthrough_UpstreamDown(t *testing.T) {
	target, err := url.Parse("http://127.0.0.1:1")
	if err != nil {
		t.Fatalf("parse target: %v", err)
	}

	p := proxy.New(target, logger.NewNop())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/assets/app.js", http.NoBody)
	p.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 for dead upstream, got %d", w.Code)
	}
}
