/*
This command provides a small executable demonstrating the router core:
a path-pattern-routed, method- and Accept-dispatched HTTP server with one
fixed-body demo endpoint.

For the list of command line options, run:

	routerd -help
*/
package main

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/dispatchkit/router/dispatch"
	"github.com/dispatchkit/router/exchange"
	"github.com/dispatchkit/router/mediatype"
	"github.com/dispatchkit/router/pattern"
	"github.com/dispatchkit/router/routerconfig"
	"github.com/dispatchkit/router/routerlog"
)

func main() {
	cfg := routerconfig.NewConfig()
	if err := cfg.Parse(); err != nil {
		log.Fatalf("Error processing config: %s", err)
	}

	if err := routerlog.SetLevel(cfg.ApplicationLog); err != nil {
		log.Fatalf("Error setting log level: %s", err)
	}

	handler, err := buildHandler(cfg)
	if err != nil {
		log.Fatalf("Error building handler graph: %s", err)
	}

	log.Infof("listening on %s", cfg.Address)
	if err := http.ListenAndServe(cfg.Address, exchange.Serve(handler)); err != nil {
		log.Fatal(err)
	}
}

// buildHandler wires the demo endpoint graph: a path router dispatching
// to a method handler, which in turn dispatches by Accept header to a
// fixed-body producer, with exception logging and UTF-8 defaulting
// applied around the whole thing.
func buildHandler(cfg *routerconfig.Config) (exchange.Handler, error) {
	body := []byte(cfg.FixedBody)
	if len(body) == 0 {
		body = []byte("ok")
	}

	textPlain := mediatype.MediaType{Type: "text", Subtype: "plain", Params: map[string][]string{}}

	accept := dispatch.NewAcceptBuilder()
	accept.Add(textPlain, dispatch.FixedResponseBody(body))

	methods := dispatch.NewMethodBuilder()
	if err := methods.Add(http.MethodGet, accept.Build()); err != nil {
		return nil, err
	}

	paths := dispatch.NewPathPatternBuilder()
	healthPattern, err := pattern.Parse("/health")
	if err != nil {
		return nil, err
	}
	if err := paths.Add(healthPattern, methods.Build()); err != nil {
		return nil, err
	}

	root := paths.Build(nil)
	return dispatch.DefaultToUtf8(dispatch.ExceptionLogging(root, routerlog.Default())), nil
}
