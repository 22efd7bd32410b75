package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Params carries the request's inputs after parsing: the query string with
// repeated keys preserved in order, and the decoded JSON body object for
// body-bearing methods.
type Params struct {
	Query url.Values
	Body  map[string]any
}

// maxBodySize bounds inbound JSON bodies. Commands carry tiny payloads.
const maxBodySize = 1 << 20

// parseParams parses the query string and, for POST/PUT/PATCH, the JSON
// body. A non-empty body requires Content-Type application/json and must
// decode to a JSON object; anything else is a 400 before dispatch.
func parseParams(r *http.Request) (*Params, error) {
	p := &Params{Query: r.URL.Query()}

	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return p, nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return nil, badRequest("Invalid JSON body: %v", err)
	}
	if len(body) == 0 {
		return p, nil
	}

	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return nil, badRequest("unsupported content type: %s", contentType)
	}

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, badRequest("Invalid JSON body: expected a JSON object")
		}
		return nil, badRequest("Invalid JSON body: %v", err)
	}

	p.Body = decoded
	return p, nil
}

// QueryDefault returns the first value for key, or def when absent.
func (p *Params) QueryDefault(key, def string) string {
	if v := p.Query.Get(key); v != "" {
		return v
	}
	return def
}

// BodyInt extracts an integer field from the body, coercing JSON numbers and
// numeric strings. The second return reports presence, the error a present
// but non-coercible value.
func (p *Params) BodyInt(key string) (int, bool, error) {
	raw, ok := p.Body[key]
	if !ok {
		return 0, false, nil
	}

	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, true, badRequest("Parameter %q must be an integer", key)
		}
		return int(v), true, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, true, badRequest("Parameter %q must be an integer", key)
		}
		return n, true, nil
	default:
		return 0, true, badRequest("Parameter %q must be an integer", key)
	}
}

// pathSuffix strips a known prefix plus surrounding slashes from the path,
// yielding the endpoint descriptor used for route matching. For a path
// outside the prefix it returns "".
func pathSuffix(path, prefix string) string {
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	return strings.Trim(strings.TrimPrefix(path, prefix), "/")
}

// segment returns the i-th slash-separated segment of the descriptor, or ""
// when out of range.
func segment(endpoint string, i int) string {
	parts := strings.Split(endpoint, "/")
	if i < 0 || i >= len(parts) {
		return ""
	}
	return parts[i]
}
