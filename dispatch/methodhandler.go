// Package dispatch implements the four request-dispatching handlers built
// atop exchange.Exchange: by HTTP method, by request Content-Type, by
// Accept header, and by path pattern, plus a handful of small
// response-mutating wrappers (spec §4.4-§4.8).
package dispatch

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/dispatchkit/router/exchange"
)

// MethodBuilder accumulates per-method handlers before Build produces an
// immutable MethodHandler.
type MethodBuilder struct {
	handlers map[string]exchange.Handler
}

// NewMethodBuilder returns an empty MethodBuilder.
func NewMethodBuilder() *MethodBuilder {
	return &MethodBuilder{handlers: make(map[string]exchange.Handler)}
}

// Add registers h for method. Registering the same method twice is a
// build-time conflict, consistent with the router and media-type
// builders' conflict policy.
func (b *MethodBuilder) Add(method string, h exchange.Handler) error {
	if _, exists := b.handlers[method]; exists {
		return fmt.Errorf("dispatch: conflict: method %q already registered", method)
	}
	b.handlers[method] = h
	return nil
}

// Build finalizes the MethodHandler.
func (b *MethodBuilder) Build() *MethodHandler {
	handlers := make(map[string]exchange.Handler, len(b.handlers))
	for k, v := range b.handlers {
		handlers[k] = v
	}

	methods := make([]string, 0, len(handlers))
	for m := range handlers {
		methods = append(methods, m)
	}
	methods = append(methods, http.MethodOptions)
	if _, ok := handlers[http.MethodGet]; ok {
		methods = append(methods, http.MethodHead)
	}
	sort.Strings(methods)
	allow := dedupJoin(methods)

	return &MethodHandler{handlers: handlers, allow: allow}
}

func dedupJoin(sorted []string) string {
	out := make([]string, 0, len(sorted))
	for i, m := range sorted {
		if i > 0 && sorted[i-1] == m {
			continue
		}
		out = append(out, m)
	}
	return strings.Join(out, ", ")
}

// MethodHandler dispatches on request method (spec §4.6): forwards to the
// registered handler for the method, synthesizes OPTIONS and HEAD, and
// responds 405 with an Allow header otherwise.
type MethodHandler struct {
	handlers map[string]exchange.Handler
	allow    string
}

// Handle implements exchange.Handler.
func (h *MethodHandler) Handle(ex exchange.Exchange) {
	method := ex.Method()

	if inner, ok := h.handlers[method]; ok {
		inner.Handle(ex)
		return
	}

	if method == http.MethodOptions {
		ex.SetHeader("Allow", h.allow)
		ex.SetStatus(http.StatusOK)
		return
	}

	if method == http.MethodHead {
		if inner, ok := h.handlers[http.MethodGet]; ok {
			inner.Handle(ex)
			return
		}
	}

	ex.SetHeader("Allow", h.allow)
	ex.SetStatus(http.StatusMethodNotAllowed)
}
