// Package handler holds the HTTP handlers of the preview gateway.
package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bloomiox/resusbih/internal/classify"
	"github.com/bloomiox/resusbih/internal/logger"
	"github.com/bloomiox/resusbih/internal/preview"
	"github.com/bloomiox/resusbih/internal/store"
)

// Cache lifetimes advertised to intermediaries and crawlers.
const (
	articleCacheControl = "public, max-age=3600"
	defaultCacheControl = "public, max-age=300"
)

const htmlContentType = "text/html; charset=UTF-8"

// PreviewHandler is the dispatcher for article-detail requests: it
// classifies the caller, looks the article up once, and answers with a
// rendered preview document or passes the request through to the origin.
// Every failure mode degrades to pass-through; the handler never surfaces an
// error page of its own.
type PreviewHandler struct {
	detector      *classify.Detector
	articles      store.ArticleStore
	renderer      *preview.Renderer
	passthrough   http.Handler
	log           logger.Logger
	lookupTimeout time.Duration
	alwaysRender  bool
}

// NewPreviewHandler creates a PreviewHandler with the given collaborators.
// When alwaysRender is set, ordinary browsers get the preview document too
// instead of being passed through to the SPA origin.
func NewPreviewHandler(
	detector *classify.Detector,
	articles store.ArticleStore,
	renderer *preview.Renderer,
	passthrough http.Handler,
	log logger.Logger,
	lookupTimeout time.Duration,
	alwaysRender bool,
) *PreviewHandler {
	return &PreviewHandler{
		detector:      detector,
		articles:      articles,
		renderer:      renderer,
		passthrough:   passthrough,
		log:           log,
		lookupTimeout: lookupTimeout,
		alwaysRender:  alwaysRender,
	}
}

// Handle serves one article-detail request. Terminal after one transition.
func (h *PreviewHandler) Handle(c *gin.Context) {
	ua := c.Request.UserAgent()
	cls := h.detector.Classify(c.Request.URL.Query(), ua)

	switch cls.Kind {
	case classify.NotArticle:
		h.passThrough(c, "not_article", ua, 0)
	case classify.ArticleForHuman:
		if h.alwaysRender {
			h.servePreview(c, cls.ArticleID, ua)
			return
		}
		h.passThrough(c, "human", ua, cls.ArticleID)
	case classify.ArticleForBot:
		h.servePreview(c, cls.ArticleID, ua)
	}
}

// servePreview performs the single bounded lookup and renders the article or
// default document. Lookup and render failures both degrade to pass-through.
func (h *PreviewHandler) servePreview(c *gin.Context, articleID int64, ua string) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.lookupTimeout)
	defer cancel()

	article, err := h.articles.GetArticle(ctx, articleID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		html, renderErr := h.renderer.RenderDefault()
		if renderErr != nil {
			h.log.Error("Default document render failed", logger.Error(renderErr))
			h.passThrough(c, "render_error", ua, articleID)
			return
		}
		h.log.Info("Serving default preview",
			logger.Int64("article_id", articleID),
			logger.String("user_agent", ua),
		)
		c.Header("Cache-Control", defaultCacheControl)
		c.Data(http.StatusOK, htmlContentType, []byte(html))

	case err != nil:
		// A transient backend outage must never break the public page.
		h.log.Warn("Article lookup failed, passing through",
			logger.Int64("article_id", articleID),
			logger.Error(err),
		)
		h.passThrough(c, "lookup_error", ua, articleID)

	default:
		html, renderErr := h.renderer.RenderArticle(*article)
		if renderErr != nil {
			h.log.Error("Article document render failed",
				logger.Int64("article_id", articleID),
				logger.Error(renderErr),
			)
			h.passThrough(c, "render_error", ua, articleID)
			return
		}
		h.log.Info("Serving article preview",
			logger.Int64("article_id", articleID),
			logger.String("user_agent", ua),
		)
		c.Header("Cache-Control", articleCacheControl)
		c.Header("X-Article-Id", fmt.Sprintf("%d", articleID))
		c.Data(http.StatusOK, htmlContentType, []byte(html))
	}
}

// passThrough forwards the request unmodified to the SPA origin.
func (h *PreviewHandler) passThrough(c *gin.Context, reason, ua string, articleID int64) {
	fields := []logger.Field{
		logger.String("reason", reason),
		logger.String("path", c.Request.URL.Path),
		logger.String("user_agent", ua),
	}
	if articleID > 0 {
		fields = append(fields, logger.Int64("article_id", articleID))
	}
	h.log.Info("Passing request through", fields...)

	h.passthrough.ServeHTTP(c.Writer, c.Request)
	c.Abort()
}
