package model

import (
	"encoding/json"
	"time"
)

// CreatedAtLayout is the timestamp layout stored with every submission
// (RFC 3339, microsecond precision, explicit +00:00 offset).
const CreatedAtLayout = "2006-01-02T15:04:05.000000-07:00"

// DefaultSource tags submissions coming from the public contact page.
const DefaultSource = "contactus.html"

// Submission is one validated contact-form entry.
type Submission struct {
	ID        string `json:"id" dynamodbav:"id" db:"id"`
	CreatedAt string `json:"createdAt" dynamodbav:"createdAt" db:"created_at"`
	FName     string `json:"fname" dynamodbav:"fname" db:"fname"`
	LName     string `json:"lname" dynamodbav:"lname" db:"lname"`
	Email     string `json:"email" dynamodbav:"email" db:"email"`
	Message   string `json:"message" dynamodbav:"message" db:"message"`
	Source    string `json:"source" dynamodbav:"source" db:"source"`
	IP        string `json:"ip" dynamodbav:"ip" db:"ip"`
	UserAgent string `json:"userAgent" dynamodbav:"userAgent" db:"user_agent"`
}

// NewSubmission builds a Submission from an already trimmed form.
func NewSubmission(id string, now time.Time, form ContactForm, source, ip, userAgent string) *Submission {
	return &Submission{
		ID:        id,
		CreatedAt: now.UTC().Format(CreatedAtLayout),
		FName:     form.FName,
		LName:     form.LName,
		Email:     form.Email,
		Message:   form.Message,
		Source:    source,
		IP:        ip,
		UserAgent: userAgent,
	}
}

// Notification is the subset of a Submission sent to subscribers.
type Notification struct {
	ID        string `json:"id"`
	CreatedAt string `json:"createdAt"`
	Email     string `json:"email"`
	FName     string `json:"fname"`
	LName     string `json:"lname"`
}

// Notification returns the subscriber-facing view of s.
func (s *Submission) Notification() Notification {
	return Notification{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		Email:     s.Email,
		FName:     s.FName,
		LName:     s.LName,
	}
}

// JSON returns the archive representation of s.
func (s *Submission) JSON() ([]byte, error) {
	return json.Marshal(s)
}
