package response

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/labstack/echo/v4"
)

// Response is the canonical handler output, convertible to an API Gateway
// response or written to an echo context.
type Response struct {
	StatusCode      int
	Headers         map[string]string
	Body            string
	IsBase64Encoded bool
}

// Message is the success response shape.
type Message struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// APIError is the error response shape.
type APIError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// corsHeaders returns a fresh header set permitting any origin.
func corsHeaders(contentType string) map[string]string {
	return map[string]string{
		echo.HeaderContentType:               contentType,
		echo.HeaderAccessControlAllowOrigin:  "*",
		echo.HeaderAccessControlAllowHeaders: "Content-Type",
		echo.HeaderAccessControlAllowMethods: "OPTIONS,POST,GET",
	}
}

// JSON sends status with v marshalled as the body.
func JSON(status int, v any) Response {
	body, err := json.Marshal(v)
	if err != nil {
		return InternalError("Internal error", err.Error())
	}
	return Response{
		StatusCode: status,
		Headers:    corsHeaders(echo.MIMEApplicationJSON),
		Body:       string(body),
	}
}

// HTML sends a 200 with an HTML page.
func HTML(page string) Response {
	return Response{StatusCode: http.StatusOK, Headers: corsHeaders(echo.MIMETextHTML), Body: page}
}

// OK sends a 200 message.
func OK(message, id string) Response {
	return JSON(http.StatusOK, Message{Message: message, ID: id})
}

// NoContent sends 204 with CORS headers and no body.
func NoContent() Response {
	return Response{StatusCode: http.StatusNoContent, Headers: corsHeaders(echo.MIMEApplicationJSON)}
}

// Error sends a JSON error.
func Error(status int, message, details string) Response {
	return JSON(status, APIError{Error: message, Details: details})
}

// BadRequest sends 400.
func BadRequest(message string) Response {
	return Error(http.StatusBadRequest, message, "")
}

// MethodNotAllowed sends 405.
func MethodNotAllowed() Response {
	return Error(http.StatusMethodNotAllowed, "Method Not Allowed", "")
}

// InternalError sends 500 with message and error detail.
func InternalError(message, details string) Response {
	return Error(http.StatusInternalServerError, message, details)
}

// ToProxy converts r for API Gateway. HTTP API v2 accepts the same shape.
func (r Response) ToProxy() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode:      r.StatusCode,
		Headers:         r.Headers,
		Body:            r.Body,
		IsBase64Encoded: r.IsBase64Encoded,
	}
}

// Write sends r through an echo context.
func (r Response) Write(c echo.Context) error {
	h := c.Response().Header()
	for k, v := range r.Headers {
		h.Set(k, v)
	}
	if r.Body == "" {
		return c.NoContent(r.StatusCode)
	}
	return c.Blob(r.StatusCode, r.Headers[echo.HeaderContentType], []byte(r.Body))
}
