package dispatch

import (
	"net/http"
	"sort"
	"strings"

	"github.com/dispatchkit/router/exchange"
	"github.com/dispatchkit/router/mediatype"
)

// AcceptBuilder accumulates (media type, handler) producer registrations
// before Build produces an immutable AcceptHandler.
type AcceptBuilder struct {
	entries []mediaTypeEntry
}

// NewAcceptBuilder returns an empty AcceptBuilder.
func NewAcceptBuilder() *AcceptBuilder {
	return &AcceptBuilder{}
}

// Add registers h as a producer of mt.
func (b *AcceptBuilder) Add(mt mediatype.MediaType, h exchange.Handler) {
	b.entries = append(b.entries, mediaTypeEntry{mt: mt, handler: h})
}

// Build finalizes the AcceptHandler, ordering producers most-specific
// first for dispatch scanning.
func (b *AcceptBuilder) Build() *AcceptHandler {
	entries := make([]mediaTypeEntry, len(b.entries))
	copy(entries, b.entries)
	sort.SliceStable(entries, func(i, j int) bool {
		return mediatype.Compare(entries[i].mt, entries[j].mt) > 0
	})
	return &AcceptHandler{producers: entries}
}

// AcceptHandler dispatches on the request Accept header (spec §4.4):
// picks the first registered producer compatible with the
// most-preferred acceptable media type, and arranges for Content-Type to
// be set to the producer's media type at commit time.
type AcceptHandler struct {
	producers []mediaTypeEntry
}

// Handle implements exchange.Handler.
func (h *AcceptHandler) Handle(ex exchange.Exchange) {
	ex.AddHeader("Vary", "Accept")

	accepted, err := mediatype.ParseAccept(firstHeader(ex, "Accept"))
	if err != nil {
		accepted = nil
	}

	for _, a := range accepted {
		for _, p := range h.producers {
			if mediatype.Compatible(a.MediaType, p.mt) {
				producer := p.mt
				ex.OnCommit(func(ex exchange.Exchange) {
					decorateContentType(ex, producer)
				})
				p.handler.Handle(ex)
				return
			}
		}
	}

	ex.SetStatus(http.StatusNotAcceptable)
}

// decorateContentType sets the response Content-Type to mt unless one of
// the exception conditions of spec §4.4 holds at commit time.
func decorateContentType(ex exchange.Exchange, mt mediatype.MediaType) {
	if mt.Type == "*" || mt.Subtype == "*" {
		return
	}
	if len(ex.ResponseHeader("Content-Type")) > 0 {
		return
	}
	if ex.Exception() != nil {
		return
	}
	status := ex.Status()
	if status == http.StatusNoContent {
		return
	}
	if ex.ContentLength() == 0 && (status < 200 || status >= 300) {
		return
	}
	ex.SetHeader("Content-Type", mt.String())
}

func firstHeader(ex exchange.Exchange, name string) string {
	values := ex.Header(name)
	if len(values) == 0 {
		return ""
	}
	return strings.Join(values, ", ")
}
