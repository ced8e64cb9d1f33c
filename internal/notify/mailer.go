// Package notify delivers lead notification emails to business owners. The
// lead API publishes lead.created events; the worker in cmd/notify-worker
// consumes them and sends one email per lead through Sendgrid.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bizlink/leadgen-backend/pkg/config"
	pkgerrors "github.com/bizlink/leadgen-backend/pkg/errors"
)

const mailSendPath = "/v3/mail/send"

// Email is a single outbound message. Only plain-text bodies are sent.
type Email struct {
	ToEmail string
	ToName  string
	Subject string
	Text    string
}

// Mailer sends email through the Sendgrid v3 mail send endpoint.
type Mailer struct {
	apiKey string
	from   string

	// Overridable in tests only.
	httpClient *http.Client
	baseURL    string
}

// NewMailer validates the Sendgrid configuration and returns a ready client.
func NewMailer(cfg config.SendgridConfig) (*Mailer, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("sendgrid api key required")
	}
	if strings.TrimSpace(cfg.DefaultFrom) == "" {
		return nil, fmt.Errorf("sendgrid from address required")
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = "https://api.sendgrid.com"
	}
	return &Mailer{
		apiKey:     cfg.APIKey,
		from:       cfg.DefaultFrom,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    base,
	}, nil
}

type emailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type personalization struct {
	To []emailAddress `json:"to"`
}

type mailContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type mailSendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             emailAddress      `json:"from"`
	Subject          string            `json:"subject"`
	Content          []mailContent     `json:"content"`
}

// Send posts the email to Sendgrid and reports any non-2xx response as a
// dependency error.
func (m *Mailer) Send(ctx context.Context, email Email) error {
	if strings.TrimSpace(email.ToEmail) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient email required")
	}
	if strings.TrimSpace(email.Subject) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email subject required")
	}

	wire := mailSendRequest{
		Personalizations: []personalization{{
			To: []emailAddress{{Email: email.ToEmail, Name: email.ToName}},
		}},
		From:    emailAddress{Email: m.from},
		Subject: email.Subject,
		Content: []mailContent{{Type: "text/plain", Value: email.Text}},
	}

	body, err := json.Marshal(wire)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding mail request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+mailSendPath, bytes.NewReader(body))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building mail request")
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sending mail")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("sendgrid returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))))
	}
	return nil
}
