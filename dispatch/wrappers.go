package dispatch

import (
	"github.com/dispatchkit/router/exchange"
	"github.com/dispatchkit/router/mediatype"
	"github.com/dispatchkit/router/routerlog"
)

// DefaultToUtf8 wraps inner with a pre-commit hook that rewrites a
// text-like Content-Type lacking a charset parameter to carry
// charset=utf-8 (spec §4.8). Any other Content-Type, or none, is left
// unchanged.
func DefaultToUtf8(inner exchange.Handler) exchange.Handler {
	return exchange.HandlerFunc(func(ex exchange.Exchange) {
		ex.OnCommit(func(ex exchange.Exchange) {
			values := ex.ResponseHeader("Content-Type")
			if len(values) != 1 {
				return
			}

			mt, err := mediatype.Parse(values[0])
			if err != nil {
				return
			}
			if !isTextLike(mt) {
				return
			}
			if _, ok := mt.Params["charset"]; ok {
				return
			}

			mt.Params["charset"] = []string{"utf-8"}
			ex.SetHeader("Content-Type", mt.String())
		})

		inner.Handle(ex)
	})
}

func isTextLike(mt mediatype.MediaType) bool {
	return mt.Type == "text" || (mt.Type == "application" && mt.Subtype == "javascript")
}

// FixedResponseBody returns a Handler that writes body on every request.
// body is shared read-only across all concurrent callers; Write never
// mutates it.
func FixedResponseBody(body []byte) exchange.Handler {
	return exchange.HandlerFunc(func(ex exchange.Exchange) {
		_, _ = ex.Write(body)
	})
}

// ExceptionLogging wraps inner with a pre-commit hook that logs the
// request method, path, and stack trace whenever the exchange carries a
// recorded handler exception (spec §4.8).
func ExceptionLogging(inner exchange.Handler, log routerlog.Logger) exchange.Handler {
	return exchange.HandlerFunc(func(ex exchange.Exchange) {
		ex.OnCommit(func(ex exchange.Exchange) {
			err := ex.Exception()
			if err == nil {
				return
			}
			log.Errorf("%s %s: %+v", ex.Method(), ex.RelativePath(), err)
		})

		inner.Handle(ex)
	})
}
