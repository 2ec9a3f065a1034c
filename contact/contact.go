// Package contact submits the landing page's contact form to an external
// HTTP endpoint.
package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Status is what the contact section shows after a submission.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusSending Status = "sending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

var (
	// ErrFailed is returned for any network error or non-2xx response.
	ErrFailed = errors.New("contact: submission failed")
	// ErrInvalid is returned by Validate.
	ErrInvalid = errors.New("contact: invalid submission")
)

// Submission is the JSON body posted to the endpoint. name, email and
// message are always present; the rest are optional form fields.
type Submission struct {
	Name       string   `json:"name" form:"name"`
	Email      string   `json:"email" form:"email"`
	Message    string   `json:"message" form:"message"`
	Phone      string   `json:"phone,omitempty" form:"phone"`
	Company    string   `json:"company,omitempty" form:"company"`
	Recipients []string `json:"recipients,omitempty" form:"-"`
}

// Field returns the value of a named form field.
func (s Submission) Field(name string) string {
	switch name {
	case "name":
		return s.Name
	case "email":
		return s.Email
	case "message":
		return s.Message
	case "phone":
		return s.Phone
	case "company":
		return s.Company
	}
	return ""
}

// Trim trims surrounding whitespace from every field.
func (s *Submission) Trim() {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.Message = strings.TrimSpace(s.Message)
	s.Phone = strings.TrimSpace(s.Phone)
	s.Company = strings.TrimSpace(s.Company)
}

// Validate checks the always-required fields and any extra required ones.
func (s Submission) Validate(required ...string) error {
	for _, name := range append([]string{"name", "email", "message"}, required...) {
		if strings.TrimSpace(s.Field(name)) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalid, name)
		}
	}
	if !strings.Contains(s.Email, "@") {
		return fmt.Errorf("%w: email %q", ErrInvalid, s.Email)
	}
	return nil
}

// Client posts submissions to Endpoint.
type Client struct {
	Endpoint string
	HTTP     *http.Client
}

// NewClient returns a Client using http.DefaultClient.
func NewClient(endpoint string) *Client {
	return &Client{Endpoint: endpoint, HTTP: http.DefaultClient}
}

// Submit posts sub as JSON. Any 2xx response is success; anything else,
// including a network error, wraps ErrFailed. There is no retry.
func (c *Client) Submit(ctx context.Context, sub Submission) error {
	if c.Endpoint == "" {
		return fmt.Errorf("%w: no endpoint configured", ErrFailed)
	}
	body, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailed, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrFailed, resp.StatusCode)
	}
	return nil
}
