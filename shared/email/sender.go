package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"scriptforge/internal/models"
	"scriptforge/shared/config"
)

// ScriptReport is the payload of a script-delivery email.
type ScriptReport struct {
	Script         models.GeneratedScript
	ReportPath     string
	ScriptPath     string
	VideosAnalyzed int
	VideosFound    int
}

type Sender struct {
	config *config.EmailConfig
}

func NewSender(cfg *config.EmailConfig) *Sender {
	return &Sender{
		config: cfg,
	}
}

// SendScriptReport emails the outcome of a finished pipeline run.
func (s *Sender) SendScriptReport(report *ScriptReport) error {
	if report == nil {
		return fmt.Errorf("report cannot be nil")
	}

	subject := fmt.Sprintf("Script ready: %s (%d min, quality %d/100)",
		report.Script.SEOTitle,
		report.Script.EstimatedDurationMinutes,
		report.Script.EstimatedQualityScore)

	body, err := s.generateEmailBody(report)
	if err != nil {
		return fmt.Errorf("failed to generate email body: %w", err)
	}

	return s.SendHTML(subject, body)
}

// SendHTML sends an email with custom HTML content
func (s *Sender) SendHTML(subject, htmlBody string) error {
	return s.sendViaSMTP(subject, htmlBody)
}

func (s *Sender) sendViaSMTP(subject, body string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.SMTPServer)

	to := []string{s.config.ToEmail}
	msg := []byte(fmt.Sprintf(`To: %s
From: %s
Subject: %s
MIME-Version: 1.0
Content-Type: text/html; charset=UTF-8

%s`, s.config.ToEmail, s.config.FromEmail, subject, body))

	addr := fmt.Sprintf("%s:%d", s.config.SMTPServer, s.config.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.FromEmail, to, msg)
}

var emailTemplate = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; max-width: 640px; margin: 0 auto;">
  <h2>🎬 {{.Script.SEOTitle}}</h2>
  <p>{{.Script.SEODescription}}</p>
  <table cellpadding="6" style="border-collapse: collapse;">
    <tr><td><b>Topic</b></td><td>{{.Script.SynthesisTopic}}</td></tr>
    <tr><td><b>Estimated duration</b></td><td>{{.Script.EstimatedDurationMinutes}} min ({{.Script.WordCount}} words)</td></tr>
    <tr><td><b>Quality estimate</b></td><td>{{.Script.EstimatedQualityScore}}/100</td></tr>
    <tr><td><b>Reference videos</b></td><td>{{.VideosAnalyzed}} analyzed of {{.VideosFound}} found</td></tr>
  </table>
  {{if .ScriptPath}}<p>Script saved to <code>{{.ScriptPath}}</code></p>{{end}}
  {{if .ReportPath}}<p>Pattern report saved to <code>{{.ReportPath}}</code></p>{{end}}
  <p style="color: #888; font-size: 12px;">Generated {{.Script.GeneratedAt.Format "Jan 2, 2006 15:04"}}</p>
</body>
</html>`))

func (s *Sender) generateEmailBody(report *ScriptReport) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, report); err != nil {
		return "", err
	}
	return buf.String(), nil
}
