package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/ess-hr/ess-backend-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// EmailService defines the interface for sending workflow emails
type EmailService interface {
	SendRequestSubmitted(to string, data RequestEmailData) error
	SendApprovalNeeded(to string, data RequestEmailData) error
	SendStatusChanged(to string, data RequestEmailData) error
}

// RequestEmailData feeds all three templates; leave-only fields stay
// empty for loan emails and vice versa.
type RequestEmailData struct {
	RecipientName string
	RequesterName string
	RequestKind   string // "leave" or "loan"
	Reference     string
	Status        string
	LeaveType     string
	LeaveDays     int64
	StartDate     string
	EndDate       string
	AmountLabel   string
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
	}, nil
}

// SendRequestSubmitted confirms a new submission to its requester
func (s *emailServiceImpl) SendRequestSubmitted(to string, data RequestEmailData) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "request_submitted.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, fmt.Sprintf("Your %s request %s has been submitted", data.RequestKind, data.Reference), body.String())
}

// SendApprovalNeeded tells an approver a request is waiting on them
func (s *emailServiceImpl) SendApprovalNeeded(to string, data RequestEmailData) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "approval_needed.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, fmt.Sprintf("A %s request from %s needs your approval", data.RequestKind, data.RequesterName), body.String())
}

// SendStatusChanged tells a requester their request moved
func (s *emailServiceImpl) SendStatusChanged(to string, data RequestEmailData) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "status_changed.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, fmt.Sprintf("Your %s request %s is now %s", data.RequestKind, data.Reference, data.Status), body.String())
}

func (s *emailServiceImpl) sendHTML(to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := smtp.SendMail(addr, auth, from, []string{to}, message)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// Wait before retrying (exponential backoff: 1s, 2s, 4s)
		if attempt < maxRetries {
			time.Sleep(time.Duration(1<<(attempt-1)) * time.Second)
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
