package request

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

// eventProbe holds just enough of an event to tell REST v1 from HTTP API v2.
type eventProbe struct {
	HTTPMethod     *string `json:"httpMethod"`
	RequestContext struct {
		HTTP *struct {
			Method string `json:"method"`
		} `json:"http"`
	} `json:"requestContext"`
}

// FromEvent decodes a raw Lambda event. An event matching neither layout
// yields a Request with an empty Method.
func FromEvent(raw json.RawMessage) (Request, error) {
	var probe eventProbe
	if err := json.Unmarshal(raw, &probe); err != nil {
		return Request{}, fmt.Errorf("decode event: %w", err)
	}
	switch {
	case probe.HTTPMethod != nil:
		var ev events.APIGatewayProxyRequest
		if err := json.Unmarshal(raw, &ev); err != nil {
			return Request{}, fmt.Errorf("decode rest event: %w", err)
		}
		return FromProxyV1(ev), nil
	case probe.RequestContext.HTTP != nil:
		var ev events.APIGatewayV2HTTPRequest
		if err := json.Unmarshal(raw, &ev); err != nil {
			return Request{}, fmt.Errorf("decode http api event: %w", err)
		}
		return FromHTTPV2(ev), nil
	default:
		return Request{Headers: Headers{}}, nil
	}
}

// FromProxyV1 converts an API Gateway REST (payload v1) event.
func FromProxyV1(ev events.APIGatewayProxyRequest) Request {
	return Request{
		Method:          strings.ToUpper(ev.HTTPMethod),
		Path:            ev.Path,
		Headers:         NewHeaders(ev.Headers),
		Query:           ev.QueryStringParameters,
		Body:            ev.Body,
		IsBase64Encoded: ev.IsBase64Encoded,
		SourceIP:        ev.RequestContext.Identity.SourceIP,
	}
}

// FromHTTPV2 converts an API Gateway HTTP API (payload v2) event.
func FromHTTPV2(ev events.APIGatewayV2HTTPRequest) Request {
	return Request{
		Method:          strings.ToUpper(ev.RequestContext.HTTP.Method),
		Path:            ev.RawPath,
		Headers:         NewHeaders(ev.Headers),
		Query:           ev.QueryStringParameters,
		Body:            ev.Body,
		IsBase64Encoded: ev.IsBase64Encoded,
		SourceIP:        ev.RequestContext.HTTP.SourceIP,
	}
}

// FromHTTP converts a net/http request, used by the local server.
func FromHTTP(r *http.Request) (Request, error) {
	headers := make(Headers, len(r.Header))
	for k, v := range r.Header {
		headers[k] = strings.Join(v, ",")
	}
	query := make(map[string]string)
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			query[k] = v[0]
		}
	}
	var body []byte
	if r.Body != nil {
		var err error
		body, err = io.ReadAll(r.Body)
		if err != nil {
			return Request{}, fmt.Errorf("read body: %w", err)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return Request{
		Method:   strings.ToUpper(r.Method),
		Path:     r.URL.Path,
		Headers:  headers,
		Query:    query,
		Body:     string(body),
		SourceIP: host,
	}, nil
}
