// Package mail implements the outbound email collaborator over SMTP.
package mail

import (
	"bytes"
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	portssvc "github.com/jmcduran/requisition_mgmt_app/internal/core/ports/services"
	"github.com/jmcduran/requisition_mgmt_app/internal/platform/config"
)

// SMTPNotifier sends notification emails through a configured SMTP relay.
type SMTPNotifier struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPNotifier builds a notifier from application configuration.
func NewSMTPNotifier(cfg *config.Config) *SMTPNotifier {
	return &SMTPNotifier{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
	}
}

var _ portssvc.Notifier = (*SMTPNotifier)(nil)

// Send delivers one email. The context bounds the whole dial-and-send
// exchange; callers decide what to do with a failure.
func (n *SMTPNotifier) Send(ctx context.Context, to, subject, textBody, htmlBody string, attachments []portssvc.Attachment) error {
	if n.host == "" {
		return fmt.Errorf("smtp host not configured")
	}

	msg := gomail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return fmt.Errorf("invalid sender address %q: %w", n.from, err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address %q: %w", to, err)
	}
	msg.Subject(subject)
	if htmlBody != "" {
		msg.SetBodyString(gomail.TypeTextHTML, htmlBody)
		if textBody != "" {
			msg.AddAlternativeString(gomail.TypeTextPlain, textBody)
		}
	} else {
		msg.SetBodyString(gomail.TypeTextPlain, textBody)
	}
	for _, att := range attachments {
		msg.AttachReader(att.Filename, bytes.NewReader(att.Content), gomail.WithFileContentType(gomail.ContentType(att.MIMEType)))
	}

	opts := []gomail.Option{
		gomail.WithPort(n.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(n.username),
		gomail.WithPassword(n.password),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	client, err := gomail.NewClient(n.host, opts...)
	if err != nil {
		return fmt.Errorf("failed to build smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}
