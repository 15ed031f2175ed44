package mailer

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"
	"github.com/zmi-time/zmi-backend-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// Mailer defines the interface for sending notification emails
type Mailer interface {
	SendMonthClosed(ctx context.Context, to, tenantName, month string, employeeCount int, closedBy, reason string) error
	SendMonthReopened(ctx context.Context, to, tenantName, month, reason, reopenedBy string) error
	SendExportReady(ctx context.Context, to, tenantName, interfaceName, month string, lineCount int) error
}

type mailerImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
}

// NewMailer creates a new mailer instance
func NewMailer(cfg config.SMTPConfig) (Mailer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse mail templates: %w", err)
	}

	return &mailerImpl{
		cfg:       cfg,
		templates: tmpl,
	}, nil
}

type monthClosedData struct {
	TenantName    string
	Month         string
	EmployeeCount int
	ClosedBy      string
	Reason        string
}

// SendMonthClosed notifies payroll recipients that an accounting month was closed
func (m *mailerImpl) SendMonthClosed(ctx context.Context, to, tenantName, month string, employeeCount int, closedBy, reason string) error {
	data := monthClosedData{
		TenantName:    tenantName,
		Month:         month,
		EmployeeCount: employeeCount,
		ClosedBy:      closedBy,
		Reason:        reason,
	}
	return m.send(ctx, to, fmt.Sprintf("Month %s closed for %s", month, tenantName), "month_closed.html", data)
}

type monthReopenedData struct {
	TenantName string
	Month      string
	Reason     string
	ReopenedBy string
}

// SendMonthReopened notifies payroll recipients that a closed month was reopened
func (m *mailerImpl) SendMonthReopened(ctx context.Context, to, tenantName, month, reason, reopenedBy string) error {
	data := monthReopenedData{
		TenantName: tenantName,
		Month:      month,
		Reason:     reason,
		ReopenedBy: reopenedBy,
	}
	return m.send(ctx, to, fmt.Sprintf("Month %s reopened for %s", month, tenantName), "month_reopened.html", data)
}

type exportReadyData struct {
	TenantName    string
	InterfaceName string
	Month         string
	LineCount     int
}

// SendExportReady notifies recipients that a payroll export file is ready for download
func (m *mailerImpl) SendExportReady(ctx context.Context, to, tenantName, interfaceName, month string, lineCount int) error {
	data := exportReadyData{
		TenantName:    tenantName,
		InterfaceName: interfaceName,
		Month:         month,
		LineCount:     lineCount,
	}
	return m.send(ctx, to, fmt.Sprintf("Export %s for %s is ready", interfaceName, month), "export_ready.html", data)
}

func (m *mailerImpl) send(ctx context.Context, to, subject, templateName string, data interface{}) error {
	// Skip sending if SMTP is not configured
	if m.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(m.cfg.FromName, m.cfg.From); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}
	msg.Subject(subject)

	tmpl := m.templates.Lookup(templateName)
	if tmpl == nil {
		return fmt.Errorf("mail template not found: %s", templateName)
	}
	if err := msg.SetBodyHTMLTemplate(tmpl, data); err != nil {
		return fmt.Errorf("failed to render mail body: %w", err)
	}

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}
	defer client.Close()

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := client.DialAndSendWithContext(ctx, msg)
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
