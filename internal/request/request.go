// Package request normalizes the inbound event shapes (API Gateway REST v1,
// HTTP API v2 and plain net/http requests) into one Request before dispatch.
package request

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

// Request is the canonical inbound request seen by the handler.
type Request struct {
	Method          string
	Path            string
	Headers         Headers
	Query           map[string]string
	Body            string
	IsBase64Encoded bool
	// SourceIP is the caller address reported by the platform, if any.
	SourceIP string
}

// Headers is a case-insensitive header map.
type Headers map[string]string

// NewHeaders copies src, canonicalizing every key.
func NewHeaders(src map[string]string) Headers {
	h := make(Headers, len(src))
	for k, v := range src {
		h[http.CanonicalHeaderKey(k)] = v
	}
	return h
}

// Get returns the value for key regardless of case.
func (h Headers) Get(key string) string {
	if h == nil {
		return ""
	}
	if v, ok := h[http.CanonicalHeaderKey(key)]; ok {
		return v
	}
	for k, v := range h {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

// HasBody reports whether the request carried a body at all.
func (r *Request) HasBody() bool {
	return r.Body != ""
}

// DecodedBody returns the raw body bytes, decoding base64 transport encoding.
func (r *Request) DecodedBody() ([]byte, error) {
	if !r.IsBase64Encoded {
		return []byte(r.Body), nil
	}
	b, err := base64.StdEncoding.DecodeString(r.Body)
	if err != nil {
		return nil, fmt.Errorf("decode base64 body: %w", err)
	}
	return b, nil
}

// ContentType returns the media type of the body without parameters.
func (r *Request) ContentType() string {
	ct := r.Headers.Get("Content-Type")
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

// ClientIP prefers the platform source IP and falls back to X-Forwarded-For.
func (r *Request) ClientIP() string {
	if r.SourceIP != "" {
		return r.SourceIP
	}
	return r.Headers.Get("X-Forwarded-For")
}

// UserAgent returns the User-Agent header.
func (r *Request) UserAgent() string {
	return r.Headers.Get("User-Agent")
}
