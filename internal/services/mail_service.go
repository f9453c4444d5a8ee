package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	"time"
)

type MailServiceInterface interface {
	SendActivityMail(to, subject, body, ctaText, ctaURL string) error
}

// SMTPConfig holds SMTP + branding config.
type SMTPConfig struct {
	Host       string // e.g. "smtp.gmail.com"
	Port       int    // 587 (STARTTLS) or 465 (SMTPS)
	Username   string
	Password   string
	From       string // envelope from, e.g. "no-reply@yourapp.com"
	FromName   string
	UseSSL     bool // true for SMTPS 465

	AppName    string
	AppBaseURL string
}

type smtpMailService struct {
	cfg     SMTPConfig
	htmlTpl *template.Template
}

func NewSMTPMailService(cfg SMTPConfig) (MailServiceInterface, error) {
	tpl, err := template.New("activityHTML").Parse(activityHTMLTemplate)
	if err != nil {
		return nil, err
	}
	return &smtpMailService{cfg: cfg, htmlTpl: tpl}, nil
}

type mailData struct {
	Title     string
	Intro     string
	ButtonURL string
	ButtonTxt string
	AppName   string
	Year      int
}

func (s *smtpMailService) SendActivityMail(to, subject, body, ctaText, ctaURL string) error {
	link := strings.TrimRight(s.cfg.AppBaseURL, "/") + ctaURL

	var html bytes.Buffer
	err := s.htmlTpl.Execute(&html, mailData{
		Title:     subject,
		Intro:     body,
		ButtonURL: link,
		ButtonTxt: ctaText,
		AppName:   s.cfg.AppName,
		Year:      time.Now().Year(),
	})
	if err != nil {
		return err
	}

	return s.send(to, subject, html.String())
}

func (s *smtpMailService) send(to, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", s.cfg.FromName, s.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	if !s.cfg.UseSSL {
		return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, msg.Bytes())
	}

	// SMTPS: TLS from the first byte, no STARTTLS negotiation.
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.cfg.Host})
	if err != nil {
		return err
	}
	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return err
	}
	if err := client.Mail(s.cfg.From); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg.Bytes()); err != nil {
		return err
	}
	return w.Close()
}

const activityHTMLTemplate = `<!doctype html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width,initial-scale=1">
  <title>{{.Title}}</title>
</head>
<body style="margin:0;padding:0;background:#f5f7fa;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,Helvetica,Arial,sans-serif;">
  <div style="max-width:600px;margin:0 auto;padding:40px 16px;">
    <div style="background:#ffffff;border-radius:12px;overflow:hidden;box-shadow:0 4px 16px rgba(0,0,0,0.08);">
      <div style="padding:24px 32px;border-bottom:1px solid #e5e9f0;">
        <span style="font-weight:700;font-size:20px;color:#2563eb;">{{.AppName}}</span>
      </div>
      <div style="padding:32px;">
        <h1 style="margin:0 0 16px;font-size:24px;color:#0f172a;">{{.Title}}</h1>
        <p style="margin:0 0 24px;font-size:15px;line-height:1.6;color:#334155;white-space:pre-line;">{{.Intro}}</p>
        {{if .ButtonURL}}
        <a href="{{.ButtonURL}}" style="display:inline-block;padding:12px 24px;background:#2563eb;color:#ffffff;border-radius:8px;text-decoration:none;font-weight:600;">{{.ButtonTxt}}</a>
        {{end}}
      </div>
      <div style="padding:16px 32px;border-top:1px solid #e5e9f0;font-size:12px;color:#94a3b8;">
        &copy; {{.Year}} {{.AppName}}
      </div>
    </div>
  </div>
</body>
</html>`
