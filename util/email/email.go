package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
)

// Mailer sends HTML email through a plain SMTP relay.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewMailer(host string, port int, username, password, from string) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// Send delivers a single HTML message. An empty from falls back to the
// mailer's configured sender.
func (m *Mailer) Send(from, to, subject, htmlBody string) error {
	if from == "" {
		from = m.from
	}
	if to == "" {
		return fmt.Errorf("recipient address is required")
	}

	var msg strings.Builder
	msg.WriteString("From: " + from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := smtp.SendMail(addr, auth, from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

// ReportAlert is the data rendered into the admin alert template.
type ReportAlert struct {
	Title        string
	ReportID     string
	IssueType    string
	IssueAddress string
	Status       string
	CreatedAt    string
}

const reportAlertTemplate = `<html>
<body style="font-family: sans-serif;">
  <h2>{{.Title}}</h2>
  <table cellpadding="4">
    <tr><td><strong>Report</strong></td><td>{{.ReportID}}</td></tr>
    <tr><td><strong>Issue</strong></td><td>{{.IssueType}}</td></tr>
    <tr><td><strong>Location</strong></td><td>{{.IssueAddress}}</td></tr>
    <tr><td><strong>Status</strong></td><td>{{.Status}}</td></tr>
    <tr><td><strong>Submitted</strong></td><td>{{.CreatedAt}}</td></tr>
  </table>
  <p>Open the staff dashboard to review this report.</p>
</body>
</html>`

var reportAlertTmpl = template.Must(template.New("report_alert").Parse(reportAlertTemplate))

// SendReportAlert renders and delivers the admin alert email for a report.
func (m *Mailer) SendReportAlert(from, to, subject string, alert ReportAlert) error {
	var body bytes.Buffer
	if err := reportAlertTmpl.Execute(&body, alert); err != nil {
		return fmt.Errorf("failed to render report alert: %w", err)
	}
	return m.Send(from, to, subject, body.String())
}
