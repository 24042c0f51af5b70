package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"net/url"
	"strings"
	texttemplate "text/template"
	"time"

	"go.uber.org/zap"
	"roadtrip/internal/config"
)

type IMailService interface {
	SendTripInvitation(to, inviterName, tripName string, tripID string) error
}

// SMTPConfig holds SMTP + branding config.
type SMTPConfig struct {
	Host     string
	Port     int // 587 uses STARTTLS, 465 implicit TLS
	Username string
	Password string
	From     string
	FromName string

	AppName    string
	AppBaseURL string
}

func SMTPConfigFrom(cfg *config.Config) SMTPConfig {
	return SMTPConfig{
		Host:       cfg.SMTPHost,
		Port:       cfg.SMTPPort,
		Username:   cfg.SMTPUsername,
		Password:   cfg.SMTPPassword,
		From:       cfg.SMTPFrom,
		FromName:   "Road Trip Planner",
		AppName:    "Road Trip Planner",
		AppBaseURL: cfg.AppBaseURL,
	}
}

type smtpMailService struct {
	cfg     SMTPConfig
	htmlTpl *template.Template
	textTpl *texttemplate.Template
}

func NewSMTPMailService(cfg SMTPConfig) IMailService {
	return &smtpMailService{
		cfg:     cfg,
		htmlTpl: template.Must(template.New("inviteHTML").Parse(inviteHTMLTemplate)),
		textTpl: texttemplate.Must(texttemplate.New("inviteText").Parse(inviteTextTemplate)),
	}
}

// NewMailService picks SMTP delivery when a host is configured and a logging
// stand-in otherwise.
func NewMailService(cfg *config.Config, log *zap.Logger) IMailService {
	if strings.TrimSpace(cfg.SMTPHost) == "" {
		return &logMailService{log: log.Named("mail")}
	}
	return NewSMTPMailService(SMTPConfigFrom(cfg))
}

type EmailData struct {
	Title     string
	Intro     string
	ButtonURL string
	ButtonTxt string
	AppName   string
	Year      int
}

func tripLink(baseURL, tripID string) string {
	return fmt.Sprintf("%s/trips/%s", strings.TrimRight(baseURL, "/"), url.PathEscape(tripID))
}

func invitationData(appName, baseURL, inviterName, tripName, tripID string) EmailData {
	return EmailData{
		Title:     fmt.Sprintf("You're invited to %s", tripName),
		Intro:     fmt.Sprintf("%s added you to the road trip %q. Open it to plan stops together in real time.", inviterName, tripName),
		ButtonURL: tripLink(baseURL, tripID),
		ButtonTxt: "Open trip",
		AppName:   appName,
		Year:      time.Now().Year(),
	}
}

func (s *smtpMailService) SendTripInvitation(to, inviterName, tripName string, tripID string) error {
	data := invitationData(s.cfg.AppName, s.cfg.AppBaseURL, inviterName, tripName, tripID)
	html, text, err := s.renderEmail(data)
	if err != nil {
		return err
	}
	return s.send(to, data.Title, html, text)
}

const inviteHTMLTemplate = `<!doctype html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <style>
    body { margin: 0; padding: 0; background: #f8fafc; color: #0f172a; font-family: -apple-system, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; }
    .container { max-width: 600px; margin: 40px auto; background: #ffffff; border-radius: 16px; overflow: hidden; }
    .header { padding: 24px 32px; font-weight: 700; color: #2563eb; text-transform: uppercase; }
    .hero { padding: 8px 32px 32px; }
    .btn { display: inline-block; padding: 14px 28px; background: #2563eb; color: #ffffff !important; text-decoration: none; border-radius: 12px; font-weight: 600; }
    .footer { padding: 20px 32px; color: #64748b; font-size: 13px; text-align: center; background: #f8fafc; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">{{.AppName}}</div>
    <div class="hero">
      <h1>{{.Title}}</h1>
      <p>{{.Intro}}</p>
      {{if .ButtonURL}}<p><a class="btn" href="{{.ButtonURL}}">{{.ButtonTxt}}</a></p>
      <p>{{.ButtonURL}}</p>{{end}}
    </div>
    <div class="footer">© {{.Year}} {{.AppName}}</div>
  </div>
</body>
</html>`

const inviteTextTemplate = `{{.Title}}

{{.Intro}}

{{if .ButtonURL}}Open this link:
{{.ButtonURL}}
{{end}}
{{.AppName}} (c) {{.Year}}
`

func (s *smtpMailService) renderEmail(data EmailData) (html string, text string, err error) {
	var hb, tb bytes.Buffer

	if err = s.htmlTpl.Execute(&hb, data); err != nil {
		return "", "", err
	}
	if err = s.textTpl.Execute(&tb, data); err != nil {
		return "", "", err
	}
	return hb.String(), tb.String(), nil
}

func (s *smtpMailService) buildMessage(to, subject, htmlBody, textBody string) []byte {
	boundary := fmt.Sprintf("mixed_%d", time.Now().UnixNano())

	var msg bytes.Buffer
	write := func(format string, a ...any) { _, _ = msg.WriteString(fmt.Sprintf(format, a...)) }

	write("From: %s\r\n", s.formatFromHeader())
	write("To: %s\r\n", to)
	write("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject))
	write("Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	write("MIME-Version: 1.0\r\n")
	write("Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	write("\r\n")

	write("--%s\r\n", boundary)
	write("Content-Type: text/plain; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", textBody)

	write("--%s\r\n", boundary)
	write("Content-Type: text/html; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", htmlBody)

	write("--%s--\r\n", boundary)
	return msg.Bytes()
}

func (s *smtpMailService) send(to, subject, htmlBody, textBody string) error {
	msg := s.buildMessage(to, subject, htmlBody, textBody)
	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))
	tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}

	var conn net.Conn
	var err error
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	if s.cfg.Port == 465 {
		conn, err = tls.DialWithDialer(dialer, "tcp", addr, tlsCfg)
	} else {
		conn, err = dialer.Dial("tcp", addr)
	}
	if err != nil {
		return err
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()

	if s.cfg.Port != 465 {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err = c.StartTLS(tlsCfg); err != nil {
				return err
			}
		}
	}

	if s.cfg.Username != "" {
		if err = c.Auth(smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)); err != nil {
			return err
		}
	}
	if err = c.Mail(s.cfg.From); err != nil {
		return err
	}
	if err = c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}

func (s *smtpMailService) formatFromHeader() string {
	name := strings.TrimSpace(s.cfg.FromName)
	if name == "" {
		return s.cfg.From
	}
	return fmt.Sprintf("%s <%s>", mime.BEncoding.Encode("UTF-8", name), s.cfg.From)
}

// logMailService is used when no SMTP host is configured.
type logMailService struct {
	log *zap.Logger
}

func (l *logMailService) SendTripInvitation(to, inviterName, tripName string, tripID string) error {
	l.log.Info("trip invitation (smtp disabled)",
		zap.String("to", to),
		zap.String("inviter", inviterName),
		zap.String("trip", tripName),
		zap.String("trip_id", tripID),
	)
	return nil
}
