package notifications

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"eventhub/internal/shared/config"
	"eventhub/pkg/logger"
)

// Sender delivers a resolved notification to its recipient
type Sender interface {
	Send(ctx context.Context, notification *Notification) error
}

// NewSender returns an SMTP sender when SMTP is configured and a logging
// sender otherwise.
func NewSender(cfg config.EmailConfig, log *logger.Logger) Sender {
	if cfg.SMTPHost == "" || cfg.SMTPUsername == "" {
		log.Warn("SMTP not configured, notifications will only be logged")
		return NewLogSender(log)
	}
	return NewSMTPSender(cfg, log)
}

// SMTPSender sends plain/HTML multipart mail over STARTTLS
type SMTPSender struct {
	config config.EmailConfig
	log    *logger.Logger
}

func NewSMTPSender(cfg config.EmailConfig, log *logger.Logger) *SMTPSender {
	return &SMTPSender{config: cfg, log: log}
}

func (s *SMTPSender) Send(ctx context.Context, notification *Notification) error {
	if notification.RecipientEmail == "" {
		return fmt.Errorf("notification %s has no recipient email", notification.ID)
	}

	htmlBody, textBody := renderContent(notification)
	message := s.buildMessage(notification.RecipientEmail, notification.Subject, htmlBody, textBody)

	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)
	if err := s.sendWithSTARTTLS(addr, auth, notification.RecipientEmail, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.log.InfoContext(ctx, "email sent", "type", notification.Type, "to", notification.RecipientEmail)
	return nil
}

func (s *SMTPSender) sendWithSTARTTLS(addr string, auth smtp.Auth, to string, message []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Quit()

	if err = client.StartTLS(&tls.Config{ServerName: s.config.SMTPHost}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}
	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("failed to authenticate: %w", err)
	}
	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return w.Close()
}

func (s *SMTPSender) buildMessage(to, subject, htmlBody, textBody string) []byte {
	boundary := "boundary_" + strconv.FormatInt(time.Now().UnixNano(), 10)

	var b strings.Builder
	fmt.Fprintf(&b, "From: EventHub <%s>\r\n", s.config.FromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary)

	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n", boundary, textBody)
	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s\r\n", boundary, htmlBody)
	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}

// LogSender writes notifications to the log instead of mailing them
type LogSender struct {
	log *logger.Logger
}

func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(ctx context.Context, notification *Notification) error {
	_, text := renderContent(notification)
	s.log.InfoContext(ctx, "notification",
		"type", notification.Type,
		"to", notification.RecipientEmail,
		"subject", notification.Subject,
		"body", text,
	)
	return nil
}

// renderContent returns the HTML and text bodies for a notification
func renderContent(n *Notification) (string, string) {
	name := n.RecipientName
	if name == "" {
		name = "there"
	}

	var line string
	switch n.Type {
	case NotificationTypeTicketPurchased:
		line = fmt.Sprintf("Your %v %v ticket(s) for %v are confirmed. Ticket code: %s.",
			n.Data["quantity"], n.Data["ticket_type"], n.Data["event_title"], n.TicketCode)
	case NotificationTypeRefundRequested:
		line = fmt.Sprintf("A refund was requested for ticket %s. Reason: %v.", n.TicketCode, n.Data["reason"])
	case NotificationTypeRefundApproved:
		line = fmt.Sprintf("Your refund request for ticket %s was approved.", n.TicketCode)
	case NotificationTypeRefundRejected:
		line = fmt.Sprintf("Your refund request for ticket %s was rejected.", n.TicketCode)
	default:
		line = "You have a new notification."
	}

	text := fmt.Sprintf("Hi %s,\n\n%s\n\nEventHub", name, line)
	html := fmt.Sprintf("<h2>%s</h2><p>Hi %s,</p><p>%s</p><p>EventHub</p>", n.Subject, name, line)
	return html, text
}
