package services

import (
	"fmt"
	"html"
	"log"
	"strings"

	"legal_office_go/config"
	"legal_office_go/models"

	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// SendEmail sends an email using Resend API
func SendEmail(cfg *config.Config, email *Email) error {
	// In test mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	client := resend.NewClient(cfg.ResendAPIKey)
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
	}
	if email.HTMLBody != "" {
		params.Html = email.HTMLBody
	}
	if email.TextBody != "" {
		params.Text = email.TextBody
	}
	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %v", err)
	}
	log.Printf("Email sent via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// BuildDocketDigestEmail assembles the daily digest listing the cases with
// unread updates. Cases are expected with DocketUpdates preloaded; only
// unread entries are rendered.
func BuildDocketDigestEmail(toEmail string, firmName string, cases []models.CaseRecord) *Email {
	var textBody strings.Builder
	var htmlBody strings.Builder

	total := 0
	for _, c := range cases {
		total += c.UnreadUpdateCount
	}

	textBody.WriteString(fmt.Sprintf("Olá,\n\nHá %d movimentação(ões) não lida(s) em %d processo(s) acompanhado(s) por %s:\n\n",
		total, len(cases), firmName))
	htmlBody.WriteString(fmt.Sprintf("<h2>Movimentações processuais</h2><p>Há <strong>%d</strong> movimentação(ões) não lida(s) em %d processo(s).</p>",
		total, len(cases)))

	for _, c := range cases {
		textBody.WriteString(fmt.Sprintf("• %s", c.CaseNumber))
		if c.Court != "" {
			textBody.WriteString(" — " + c.Court)
		}
		textBody.WriteString("\n")

		htmlBody.WriteString(fmt.Sprintf("<h3>%s</h3><ul>", html.EscapeString(c.CaseNumber)))
		for _, u := range c.DocketUpdates {
			if u.Read {
				continue
			}
			line := u.Description
			if u.Category != "" {
				line = u.Category + ": " + line
			}
			textBody.WriteString(fmt.Sprintf("    %s  %s\n", u.OccurredAt.Format("02/01/2006"), line))
			htmlBody.WriteString(fmt.Sprintf("<li><em>%s</em> %s</li>",
				u.OccurredAt.Format("02/01/2006"), html.EscapeString(line)))
		}
		textBody.WriteString("\n")
		htmlBody.WriteString("</ul>")
	}

	subject := fmt.Sprintf("%d nova(s) movimentação(ões) nos seus processos", total)
	return &Email{
		To:       []string{toEmail},
		Subject:  subject,
		TextBody: textBody.String(),
		HTMLBody: htmlBody.String(),
	}
}

// SendDocketDigest sends the digest to the firm's notification address. Firms
// without an address or without unread updates are skipped.
func SendDocketDigest(cfg *config.Config, firm *models.Firm, cases []models.CaseRecord) error {
	if firm.NotifyEmail == "" {
		return nil
	}
	withUnread := make([]models.CaseRecord, 0, len(cases))
	for _, c := range cases {
		if c.UnreadUpdateCount > 0 {
			withUnread = append(withUnread, c)
		}
	}
	if len(withUnread) == 0 {
		return nil
	}
	return SendEmail(cfg, BuildDocketDigestEmail(firm.NotifyEmail, firm.Name, withUnread))
}

// logEmailToConsole logs email details in test mode
func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\nEMAIL (test mode - not actually sent)\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	log.Printf("Subject: %s", email.Subject)
	log.Printf("\n--- TEXT BODY ---\n%s", email.TextBody)
	log.Printf("%s\n", separator)
}
