// Package proxy forwards non-preview traffic to the SPA/static origin.
package proxy

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/bloomiox/resusbih/internal/logger"
)

// Passthrough forwards requests unmodified to the upstream origin. It is the
// terminal path for ordinary browsers, non-article requests, and every
// failure mode of the preview responder.
type Passthrough struct {
	proxy *httputil.ReverseProxy
	log   logger.Logger
}

// New creates a Passthrough targeting the given origin URL.
func New(target *url.URL, log logger.Logger) *Passthrough {
	rp := httputil.NewSingleHostReverseProxy(target)
	rp.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Error("Upstream request failed",
			logger.String("path", r.URL.Path),
			logger.Error(err),
		)
		w.WriteHeader(http.StatusBadGateway)
	}
	return &Passthrough{proxy: rp, log: log}
}

// ServeHTTP implements http.Handler.
func (p *Passthrough) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.proxy.ServeHTTP(w, r)
}
