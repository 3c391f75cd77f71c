package dispatch

import (
	"net/http"

	"github.com/dispatchkit/router/exchange"
	"github.com/dispatchkit/router/pattern"
	"github.com/dispatchkit/router/router"
)

// PathPatternBuilder delegates to a router.Builder[exchange.Handler]
// (spec §4.7).
type PathPatternBuilder struct {
	inner *router.Builder[exchange.Handler]
}

// NewPathPatternBuilder returns an empty PathPatternBuilder.
func NewPathPatternBuilder() *PathPatternBuilder {
	return &PathPatternBuilder{inner: router.NewBuilder[exchange.Handler]()}
}

// Add registers h for pattern p.
func (b *PathPatternBuilder) Add(p *pattern.Pattern, h exchange.Handler) error {
	return b.inner.Add(p, h)
}

// Build finalizes the PathPatternHandler, using cmp (or the default
// specificity order, when nil) to order variable patterns.
func (b *PathPatternBuilder) Build(cmp func(a, b *pattern.Pattern) int) *PathPatternHandler {
	return &PathPatternHandler{router: b.inner.Build(cmp)}
}

// PathPatternHandler forwards requests through a PathRouter, attaching
// the matched pattern and captured variables to the exchange on a hit
// (spec §4.7).
type PathPatternHandler struct {
	router *router.Router[exchange.Handler]
}

// Handle implements exchange.Handler.
func (h *PathPatternHandler) Handle(ex exchange.Exchange) {
	match, ok := h.router.Find(ex.RelativePath())
	if !ok {
		ex.SetStatus(http.StatusNotFound)
		return
	}

	ex.SetAttachment(exchange.PathMatchAttachment, exchange.PathMatch{
		Pattern:   match.Pattern.Source(),
		Variables: match.Variables.Map(),
	})
	match.Value.Handle(ex)
}
