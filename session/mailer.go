package session

import (
	"fmt"
	"net/smtp"

	"github.com/sirupsen/logrus"
)

type Mailer interface {
	SendMagicLink(to, link string) error
}

type SMTPMailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func (m *SMTPMailer) SendMagicLink(to, link string) error {
	subject := "Your sign-in link"
	body := fmt.Sprintf(`Hello,

Tap the link below to verify your email and continue with your order:

%s

The link is valid for 15 minutes and can be used once. If you did not
request it, you can safely ignore this email.
`, link)

	headers := map[string]string{
		"From":         m.From,
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/plain; charset=UTF-8",
	}

	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + body

	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
	addr := fmt.Sprintf("%s:%s", m.Host, m.Port)

	return smtp.SendMail(addr, auth, m.From, []string{to}, []byte(message))
}

// LogMailer is the development fallback when SMTP is not configured.
type LogMailer struct{}

func (LogMailer) SendMagicLink(to, link string) error {
	logrus.Infof("magic link for %s: %s", to, link)
	return nil
}
