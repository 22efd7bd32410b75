package gateway

import (
	"context"
	"encoding/json"
	"strings"

	"fleetgate-hq/fleetgate/pkg/upstream"
)

// call bundles everything one dispatch sees: the resolved endpoint
// descriptor, the parsed parameters, the inbound method and the per-request
// client set.
type call struct {
	method   string
	endpoint string
	params   *Params
	clients  *upstream.ClientSet
}

// vin is the leading path segment of the endpoint descriptor.
func (c *call) vin() string {
	return segment(c.endpoint, 0)
}

type handlerFunc func(ctx context.Context, c *call) (json.RawMessage, error)

type matchFunc func(endpoint string) bool

// route is one row of a family's dispatch table. Rows are evaluated in
// declared order and the first match wins, so specific literal matches must
// precede generic shape-based ones. An empty method matches any method.
type route struct {
	name   string
	method string
	match  matchFunc
	handle handlerFunc
}

func exact(s string) matchFunc {
	return func(endpoint string) bool { return endpoint == s }
}

func suffix(s string) matchFunc {
	return func(endpoint string) bool { return strings.HasSuffix(endpoint, s) }
}

func contains(s string) matchFunc {
	return func(endpoint string) bool { return strings.Contains(endpoint, s) }
}

// findRoute returns the first route in declared order accepting the method
// and matching the endpoint descriptor.
func findRoute(routes []route, method, endpoint string) (*route, bool) {
	for i := range routes {
		r := &routes[i]
		if r.method != "" && r.method != method {
			continue
		}
		if r.match(endpoint) {
			return r, true
		}
	}
	return nil, false
}

// dispatch finds the first matching route and runs it. No match reports the
// unmatched endpoint in a 404 carrying the family's label.
func dispatch(ctx context.Context, routes []route, label string, c *call) (json.RawMessage, error) {
	r, ok := findRoute(routes, c.method, c.endpoint)
	if !ok {
		return nil, notFound("%s endpoint not found: %s", label, c.endpoint)
	}
	return r.handle(ctx, c)
}
