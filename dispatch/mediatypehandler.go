package dispatch

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/dispatchkit/router/exchange"
	"github.com/dispatchkit/router/mediatype"
)

type mediaTypeEntry struct {
	mt      mediatype.MediaType
	handler exchange.Handler
}

// MediaTypeBuilder accumulates (media type, handler) registrations before
// Build produces an immutable MediaTypeHandler.
type MediaTypeBuilder struct {
	seen    map[string]bool
	entries []mediaTypeEntry
}

// NewMediaTypeBuilder returns an empty MediaTypeBuilder.
func NewMediaTypeBuilder() *MediaTypeBuilder {
	return &MediaTypeBuilder{seen: make(map[string]bool)}
}

// Add registers h for mt. Adding the same media type twice is a
// build-time conflict (spec §4.5).
func (b *MediaTypeBuilder) Add(mt mediatype.MediaType, h exchange.Handler) error {
	key := mt.String()
	if b.seen[key] {
		return fmt.Errorf("dispatch: conflict: media type %q already registered", key)
	}
	b.seen[key] = true
	b.entries = append(b.entries, mediaTypeEntry{mt: mt, handler: h})
	return nil
}

// Build finalizes the MediaTypeHandler, ordering entries most-specific
// first so dispatch always prefers the narrowest match.
func (b *MediaTypeBuilder) Build() *MediaTypeHandler {
	entries := make([]mediaTypeEntry, len(b.entries))
	copy(entries, b.entries)
	sort.SliceStable(entries, func(i, j int) bool {
		return mediatype.Compare(entries[i].mt, entries[j].mt) > 0
	})
	return &MediaTypeHandler{entries: entries}
}

// MediaTypeHandler dispatches on request Content-Type (spec §4.5):
// forwards to the most specific registered handler m such that
// request.Is(m), or responds 415 if none matches.
type MediaTypeHandler struct {
	entries []mediaTypeEntry
}

// Handle implements exchange.Handler.
func (h *MediaTypeHandler) Handle(ex exchange.Exchange) {
	req := wildcardMediaType()
	if values := ex.Header("Content-Type"); len(values) > 0 {
		if mt, err := mediatype.Parse(values[0]); err == nil {
			req = mt
		}
	}

	for _, e := range h.entries {
		if mediatype.Is(req, e.mt) {
			e.handler.Handle(ex)
			return
		}
	}

	ex.SetStatus(http.StatusUnsupportedMediaType)
}

func wildcardMediaType() mediatype.MediaType {
	return mediatype.MediaType{Type: "*", Subtype: "*", Params: map[string][]string{}}
}
