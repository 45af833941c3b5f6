package mailer

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Sender delivers a plain-text email.
type Sender interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

type Config struct {
	Host       string
	Port       string
	User       string
	Password   string
	From       string
	TLSEnabled bool
}

// New returns an SMTP sender, or a sender that only logs when SMTP is not configured.
func New(cfg Config) Sender {
	if cfg.Host == "" || cfg.Port == "" {
		log.Warn("smtp is not configured, notification emails will only be logged")
		return noop{}
	}
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	return &smtpSender{cfg: cfg, send: smtp.SendMail, sendTLS: smtp.SendMailTLS}
}

type sendFunc func(addr string, a sasl.Client, from string, to []string, r io.Reader) error

type smtpSender struct {
	cfg     Config
	send    sendFunc
	sendTLS sendFunc
}

func (s *smtpSender) Send(ctx context.Context, to []string, subject, body string) error {
	if len(to) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth sasl.Client
	if s.cfg.User != "" {
		auth = sasl.NewPlainClient("", s.cfg.User, s.cfg.Password)
	}
	msg := strings.NewReader(Compose(s.cfg.From, to, subject, body, time.Now()))
	addr := s.cfg.Host + ":" + s.cfg.Port

	var err error
	if s.cfg.TLSEnabled {
		err = s.sendTLS(addr, auth, s.cfg.From, to, msg)
	} else {
		err = s.send(addr, auth, s.cfg.From, to, msg)
	}
	if err != nil {
		return errors.Wrapf(err, "send mail %q", subject)
	}
	log.WithFields(log.Fields{"to": to, "subject": subject}).Info("email sent")
	return nil
}

// Compose renders an RFC 5322 message with a UTF-8 text body.
func Compose(from string, to []string, subject, body string, date time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	fmt.Fprintf(&b, "Date: %s\r\n", date.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	b.WriteString("\r\n")
	return b.String()
}

type noop struct{}

func (noop) Send(_ context.Context, to []string, subject, _ string) error {
	log.WithFields(log.Fields{"to": to, "subject": subject}).Info("email not sent, smtp is not configured")
	return nil
}
