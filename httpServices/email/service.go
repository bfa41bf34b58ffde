package email

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"
)

const brevoAPI = "https://api.brevo.com/v3/smtp/email"

var fromPattern = regexp.MustCompile(`^(.*)<(.+)>$`)

// Client sends transactional email through the Brevo HTTP API.
// One attempt per message, bounded timeout, no retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	from       string
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL: brevoAPI,
		apiKey:  os.Getenv("BREVO_API_KEY"),
		from:    os.Getenv("EMAIL_FROM"),
	}
}

// Send delivers a single HTML email
func (c *Client) Send(to, subject, htmlBody string) error {
	if c.apiKey == "" || c.from == "" {
		return errors.New("BREVO_API_KEY or EMAIL_FROM is not set")
	}

	// EMAIL_FROM supports both "Name <addr>" and a bare address
	sender := brevoSender{Name: c.from, Email: c.from}
	if m := fromPattern.FindStringSubmatch(c.from); m != nil {
		sender = brevoSender{Name: strings.TrimSpace(m[1]), Email: strings.TrimSpace(m[2])}
	}

	body, err := json.Marshal(brevoEmailRequest{
		Sender:      sender,
		To:          []brevoRecipient{{Email: to}},
		Subject:     subject,
		HTMLContent: htmlBody,
	})
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequest(http.MethodPost, c.baseURL, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("brevo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.New("Brevo API returned non-OK status: " + resp.Status)
	}

	return nil
}

// SendOTPEmail delivers a one-time verification code. The plaintext code is
// only ever part of this outbound message, never persisted.
func (c *Client) SendOTPEmail(to, code string) error {
	subject := "Tu código OTP"
	html := fmt.Sprintf(`
    <div style="font-family:system-ui,Arial,sans-serif">
      <h2>Tu código de verificación</h2>
      <p>Usa este código para continuar:</p>
      <div style="font-size:28px;font-weight:700;letter-spacing:4px">%s</div>
      <p style="color:#666">Caduca en 5 minutos. Si no fuiste tú, ignora este correo.</p>
    </div>`, code)
	return c.Send(to, subject, html)
}
