package notification

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"mime"
	"net"
	"net/smtp"
	"path/filepath"
	"strings"

	"github.com/senecapartners/seneca-cms-backend/config"
)

// EmailSender implements Channel using SMTP with STARTTLS.
type EmailSender struct {
	Host         string
	Port         string
	Username     string
	Password     string
	FromName     string
	FromAddr     string
	To           []string
	TemplatePath string
}

func NewEmailSender(cfg *config.Config) *EmailSender {
	return &EmailSender{
		Host:         cfg.SMTPHost,
		Port:         cfg.SMTPPort,
		Username:     cfg.SMTPUsername,
		Password:     cfg.SMTPPassword,
		FromName:     cfg.SMTPFromName,
		FromAddr:     cfg.SMTPFromEmail,
		To:           cfg.AdminEmails,
		TemplatePath: filepath.Join("templates", "new_application.html"),
	}
}

// Configured reports whether there is a server and at least one recipient.
func (e *EmailSender) Configured() bool {
	return e.Host != "" && e.FromAddr != "" && len(e.To) > 0
}

func (e *EmailSender) Name() string { return "email" }

func (e *EmailSender) Recipients() []string { return e.To }

func (e *EmailSender) Send(ctx context.Context, msg Message) error {
	message, err := e.buildMessage(msg)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%s", e.Host, e.Port)
	log.Printf("📤 Sending email to %v via %s", e.To, addr)
	if err := e.sendMailWithTLS(ctx, addr, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	log.Printf("✅ Email sent to %v", e.To)
	return nil
}

// buildMessage renders the HTML template and prepends the headers.
func (e *EmailSender) buildMessage(msg Message) ([]byte, error) {
	tmpl, err := template.ParseFiles(e.TemplatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse email template: %w", err)
	}

	var htmlBody bytes.Buffer
	err = tmpl.Execute(&htmlBody, map[string]interface{}{
		"Subject": msg.Subject,
		"Lines":   strings.Split(strings.TrimSpace(msg.Body), "\n"),
		"Lead":    msg.Lead,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render email template: %w", err)
	}

	headers := [][2]string{
		{"From", fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", e.FromName), e.FromAddr)},
		{"To", strings.Join(e.To, ", ")},
		{"Subject", mime.QEncoding.Encode("utf-8", msg.Subject)},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/html; charset=\"UTF-8\""},
	}

	var b strings.Builder
	for _, h := range headers {
		b.WriteString(h[0] + ": " + h[1] + "\r\n")
	}
	b.WriteString("\r\n" + htmlBody.String())
	return []byte(b.String()), nil
}

func (e *EmailSender) sendMailWithTLS(ctx context.Context, addr string, message []byte) error {
	tlsConfig := &tls.Config{ServerName: e.Host}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to dial SMTP server: %w", err)
	}
	// net/smtp has no context support: bound every read and write by the
	// deadline and drop the connection on cancellation.
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			conn.Close()
			return fmt.Errorf("failed to set SMTP deadline: %w", err)
		}
	}
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	client, err := smtp.NewClient(conn, e.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to greet SMTP server: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err = client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if e.Username != "" {
		auth := smtp.PlainAuth("", e.Username, e.Password, e.Host)
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}
	}

	if err = client.Mail(e.FromAddr); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, recipient := range e.To {
		if err = client.Rcpt(recipient); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", recipient, err)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = writer.Write(message); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = writer.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}

	return client.Quit()
}
