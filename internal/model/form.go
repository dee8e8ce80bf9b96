package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ContactForm is the payload posted by the contact page. Field order matters:
// validation reports the first missing field in declaration order.
type ContactForm struct {
	FName   string `json:"fname" validate:"required"`
	LName   string `json:"lname" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// ContactFormFromMap reads the four form fields out of a decoded JSON object.
// Scalars are stringified, absent ones stay empty. Objects and arrays are not
// text and read as empty, so validation reports them as missing. Every value
// is trimmed.
func ContactFormFromMap(m map[string]any) ContactForm {
	return ContactForm{
		FName:   fieldString(m["fname"]),
		LName:   fieldString(m["lname"]),
		Email:   fieldString(m["email"]),
		Message: fieldString(m["message"]),
	}
}

func fieldString(v any) string {
	switch t := v.(type) {
	case nil, map[string]any, []any:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return strings.TrimSpace(t.String())
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
