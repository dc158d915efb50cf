package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"
)

const brevoAPI = "https://api.brevo.com/v3/smtp/email"

// BrevoSendRequest matches the Brevo API v3 transactional email body.
type BrevoSendRequest struct {
	Sender      BrevoContact   `json:"sender"`
	To          []BrevoContact `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
	TextContent string         `json:"textContent,omitempty"`
}

type BrevoContact struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// EmailNotifier mails operators through Brevo (Sendinblue). An empty APIKey or
// recipient list makes it a no-op.
type EmailNotifier struct {
	APIKey   string
	MailFrom string
	To       []string
	Renderer *Renderer
	Endpoint string
	Client   *http.Client
}

func (n *EmailNotifier) from() string {
	if n.MailFrom != "" {
		return n.MailFrom
	}
	return "noreply@offerings.local"
}

func (n *EmailNotifier) endpoint() string {
	if n.Endpoint != "" {
		return n.Endpoint
	}
	return brevoAPI
}

func (n *EmailNotifier) Notify(ctx context.Context, e Event) error {
	if n.APIKey == "" || len(n.To) == 0 {
		return nil
	}
	if n.Renderer == nil {
		return fmt.Errorf("email notifier has no renderer")
	}
	subject, text, err := n.Renderer.Render(e)
	if err != nil {
		return err
	}
	body := BrevoSendRequest{
		Sender:      BrevoContact{Email: n.from(), Name: "Marketplace"},
		Subject:     subject,
		HTMLContent: emailLayout(subject, text, e.ReviewURL),
		TextContent: text,
	}
	for _, to := range n.To {
		body.To = append(body.To, BrevoContact{Email: to})
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint(), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", n.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if n.Client == nil {
		n.Client = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := n.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("brevo send failed: status %d", resp.StatusCode)
	}
	return nil
}

// emailLayout wraps the rendered text in a minimal HTML shell.
func emailLayout(subject, text, reviewURL string) string {
	var lines strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fmt.Fprintf(&lines, "<p style=\"margin:0 0 12px 0;font-size:15px;line-height:1.5;\">%s</p>\n", html.EscapeString(line))
	}
	button := ""
	if reviewURL != "" {
		button = fmt.Sprintf(`<a href="%s" style="display:inline-block;background:#007473;color:#ffffff;padding:10px 28px;border-radius:6px;text-decoration:none;font-weight:600;">Revisar</a>`, html.EscapeString(reviewURL))
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="es">
<head><meta charset="UTF-8"><title>%s</title></head>
<body style="margin:0;padding:32px 0;background:#F3F4F6;font-family:-apple-system,'Segoe UI',Roboto,Helvetica,Arial,sans-serif;color:#1F2937;">
  <table role="presentation" width="600" align="center" style="background:#FFFFFF;border-radius:8px;padding:32px;">
    <tr><td>
      <h1 style="font-size:20px;margin:0 0 20px 0;">%s</h1>
      %s
      %s
    </td></tr>
  </table>
</body>
</html>`, html.EscapeString(subject), html.EscapeString(subject), lines.String(), button)
}
