package request

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaders_GetIsCaseInsensitive(t *testing.T) {
	h := NewHeaders(map[string]string{"x-forwarded-for": "1.2.3.4", "USER-AGENT": "ua"})

	assert.Equal(t, "1.2.3.4", h.Get("X-Forwarded-For"))
	assert.Equal(t, "ua", h.Get("user-agent"))
	assert.Empty(t, h.Get("Referer"))

	var nilHeaders Headers
	assert.Empty(t, nilHeaders.Get("User-Agent"))
}

func TestRequest_ClientIP(t *testing.T) {
	r := Request{Headers: NewHeaders(map[string]string{"X-Forwarded-For": "198.51.100.1"})}
	assert.Equal(t, "198.51.100.1", r.ClientIP())

	r.SourceIP = "203.0.113.5"
	assert.Equal(t, "203.0.113.5", r.ClientIP())

	assert.Empty(t, (&Request{}).ClientIP())
}

func TestRequest_DecodedBody(t *testing.T) {
	plain := Request{Body: `{"a":1}`}
	b, err := plain.DecodedBody()
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(b))

	encoded := Request{Body: "eyJhIjoxfQ==", IsBase64Encoded: true}
	b, err = encoded.DecodedBody()
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(b))

	bad := Request{Body: "!!", IsBase64Encoded: true}
	_, err = bad.DecodedBody()
	assert.Error(t, err)
}

func TestRequest_ContentType(t *testing.T) {
	r := Request{Headers: NewHeaders(map[string]string{"content-type": "Application/JSON; charset=utf-8"})}
	assert.Equal(t, "application/json", r.ContentType())
}

func TestFromEvent_RESTv1(t *testing.T) {
	raw := `{"httpMethod":"post","path":"/contact","headers":{"User-Agent":"ua"},` +
		`"queryStringParameters":{"ref":"home"},"requestContext":{"identity":{"sourceIp":"203.0.113.5"}},` +
		`"body":"{}","isBase64Encoded":false}`

	req, err := FromEvent(json.RawMessage(raw))

	require.NoError(t, err)
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "/contact", req.Path)
	assert.Equal(t, "home", req.Query["ref"])
	assert.Equal(t, "203.0.113.5", req.SourceIP)
	assert.Equal(t, "ua", req.UserAgent())
	assert.Equal(t, "{}", req.Body)
}

func TestFromEvent_HTTPv2(t *testing.T) {
	raw := `{"version":"2.0","rawPath":"/contact","headers":{"user-agent":"ua"},` +
		`"requestContext":{"http":{"method":"OPTIONS","sourceIp":"192.0.2.7"}}}`

	req, err := FromEvent(json.RawMessage(raw))

	require.NoError(t, err)
	assert.Equal(t, "OPTIONS", req.Method)
	assert.Equal(t, "/contact", req.Path)
	assert.Equal(t, "192.0.2.7", req.SourceIP)
	assert.Equal(t, "ua", req.UserAgent())
}

func TestFromEvent_UnknownLayout(t *testing.T) {
	req, err := FromEvent(json.RawMessage(`{"requestContext":{}}`))
	require.NoError(t, err)
	assert.Empty(t, req.Method)

	_, err = FromEvent(json.RawMessage(`[]`))
	assert.Error(t, err)
}

func TestFromProxyV1_MissingIdentity(t *testing.T) {
	req := FromProxyV1(events.APIGatewayProxyRequest{
		HTTPMethod: "GET",
		Headers:    map[string]string{"X-Forwarded-For": "198.51.100.1"},
	})
	assert.Equal(t, "198.51.100.1", req.ClientIP())
}

func TestFromHTTP(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/contact?ref=home", strings.NewReader(`{"fname":"Jo"}`))
	r.Header.Set("Content-Type", "application/json")
	r.RemoteAddr = "10.0.0.1:5555"

	req, err := FromHTTP(r)

	require.NoError(t, err)
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "/contact", req.Path)
	assert.Equal(t, "home", req.Query["ref"])
	assert.Equal(t, `{"fname":"Jo"}`, req.Body)
	assert.Equal(t, "10.0.0.1", req.SourceIP)
	assert.Equal(t, "application/json", req.ContentType())
}
