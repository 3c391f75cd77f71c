package exchange

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// httpExchange is the net/http-backed Exchange implementation. It buffers
// status, headers, and body so that OnCommit hooks run before any byte of
// the real response is written, including after a recovered handler
// exception — a plain http.ResponseWriter offers no such hook itself.
type httpExchange struct {
	req *http.Request

	status int
	header http.Header
	body   bytes.Buffer

	attachments map[any]any
	hooks       []func(Exchange)
	err         error
}

// NewHTTPExchange wraps r in an Exchange that accumulates a response for
// later delivery through Commit.
func NewHTTPExchange(r *http.Request) Exchange {
	return &httpExchange{
		req:         r,
		status:      http.StatusOK,
		header:      make(http.Header),
		attachments: make(map[any]any),
	}
}

func (e *httpExchange) Method() string              { return e.req.Method }
func (e *httpExchange) RelativePath() string        { return e.req.URL.Path }
func (e *httpExchange) Header(name string) []string { return e.req.Header.Values(name) }

func (e *httpExchange) Query(name string) []string {
	return e.req.URL.Query()[name]
}

func (e *httpExchange) Attachment(key any) (any, bool) {
	v, ok := e.attachments[key]
	return v, ok
}

func (e *httpExchange) SetAttachment(key any, value any) {
	e.attachments[key] = value
}

func (e *httpExchange) SetStatus(code int) { e.status = code }

func (e *httpExchange) Status() int { return e.status }

func (e *httpExchange) SetHeader(name string, values ...string) {
	e.header.Del(name)
	for _, v := range values {
		e.header.Add(name, v)
	}
}

func (e *httpExchange) AddHeader(name, value string) {
	e.header.Add(name, value)
}

func (e *httpExchange) ResponseHeader(name string) []string {
	return e.header.Values(name)
}

func (e *httpExchange) Write(p []byte) (int, error) {
	return e.body.Write(p)
}

func (e *httpExchange) OnCommit(hook func(Exchange)) {
	e.hooks = append(e.hooks, hook)
}

func (e *httpExchange) ContentLength() int { return e.body.Len() }

func (e *httpExchange) Exception() error { return e.err }

func (e *httpExchange) SetException(err error) { e.err = err }

// Commit runs the registered hooks in order, then delivers the buffered
// status, headers, and body to w. A HEAD request's body is suppressed per
// the method semantics MethodHandler synthesizes it under (spec §4.6).
func (e *httpExchange) Commit(w http.ResponseWriter) {
	for _, h := range e.hooks {
		h(e)
	}

	hdr := w.Header()
	for k, v := range e.header {
		hdr[k] = v
	}
	w.WriteHeader(e.status)

	if e.req.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(e.body.Bytes())
}

// Serve adapts a dispatch Handler to http.HandlerFunc. A panic raised
// while h runs is captured as the Exchange's recorded exception (wrapped
// with a stack trace via github.com/pkg/errors) rather than crashing the
// server, and OnCommit hooks still run on that path.
func Serve(h Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ex := NewHTTPExchange(r).(*httpExchange)

		func() {
			defer func() {
				if rec := recover(); rec != nil {
					if err, ok := rec.(error); ok {
						ex.err = errors.WithStack(err)
					} else {
						ex.err = errors.WithStack(fmt.Errorf("%v", rec))
					}
				}
			}()
			h.Handle(ex)
		}()

		ex.Commit(w)
	}
}
