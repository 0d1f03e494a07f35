package proxy

import "net/http"

// allowedHeaders defines the HTTP headers permitted to pass through to the API.
// Authorization is deliberately absent: the transport attaches the session's
// own token, so a client cannot act under another identity.
var allowedHeaders = map[string]bool{
	"Content-Type":    true,
	"Content-Length":  true,
	"Accept":          true,
	"Accept-Encoding": true,
	"Accept-Language": true,
	"X-Request-Id":    true,

	// W3C Trace Context for distributed tracing correlation.
	"Traceparent": true,
	"Tracestate":  true,
}

// filterHeaders drops every header not in allowedHeaders, in place.
func filterHeaders(h http.Header) {
	for key := range h {
		if !allowedHeaders[http.CanonicalHeaderKey(key)] {
			delete(h, key)
		}
	}
}
