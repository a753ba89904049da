// Package email sends transactional emails for scan allowance events.
package email

import (
	"fmt"

	"github.com/resendlabs/resend-go"

	"github.com/nutrisight/nutrisight-go/internal/config"
)

// Sender delivers scan allowance notifications. A nil Sender is valid and
// means email delivery is disabled.
type Sender interface {
	SendLowScanEmail(toEmail string, scansLeft int) error
}

// ResendClient sends emails through the Resend API.
type ResendClient struct {
	client      *resend.Client
	fromEmail   string
	fromName    string
	frontendURL string
}

func NewResendClient(cfg *config.Config) *ResendClient {
	if cfg.ResendAPIKey == "" {
		return nil
	}
	return &ResendClient{
		client:      resend.NewClient(cfg.ResendAPIKey),
		fromEmail:   cfg.EmailFrom,
		fromName:    cfg.EmailFromName,
		frontendURL: cfg.FrontendURL,
	}
}

// SendLowScanEmail picks the message tier from the remaining count:
// exhausted, critically low (5 or fewer), or a plain heads-up.
func (c *ResendClient) SendLowScanEmail(toEmail string, scansLeft int) error {
	subject, html := lowScanContent(scansLeft, c.frontendURL)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{toEmail},
		Subject: subject,
		Html:    html,
	}

	if _, err := c.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send low scan email: %w", err)
	}
	return nil
}

func lowScanContent(scansLeft int, frontendURL string) (subject, html string) {
	upgradeLink := frontendURL + "/upgrade"

	switch {
	case scansLeft <= 0:
		subject = "You're out of free scans"
		html = fmt.Sprintf(`<h2>You've used all your free scans</h2>
<p>Your free scan allowance is used up. Upgrade to Premium to keep analyzing food labels without limits.</p>
<p><a href="%s">Upgrade to Premium</a></p>`, upgradeLink)
	case scansLeft <= 5:
		subject = fmt.Sprintf("Only %d scans left", scansLeft)
		html = fmt.Sprintf(`<h2>Your scans are running low</h2>
<p>You have %d scans remaining. Upgrade to Premium for unlimited scans and deeper analysis.</p>
<p><a href="%s">Upgrade to Premium</a></p>`, scansLeft, upgradeLink)
	default:
		subject = fmt.Sprintf("%d scans remaining", scansLeft)
		html = fmt.Sprintf(`<h2>Heads up on your scan balance</h2>
<p>You have %d scans remaining on your free plan.</p>
<p><a href="%s">See Premium plans</a></p>`, scansLeft, upgradeLink)
	}
	return subject, html
}
