package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"

	"github.com/jordan-wright/email"
)

// SMTPDispatcher sends email through an SMTP relay.
type SMTPDispatcher struct {
	host string
	port int
	user string
	pass string
	ssl  bool

	// sendFunc is swapped in tests to capture outgoing mail.
	sendFunc func(e *email.Email) error
}

// NewSMTPDispatcher creates a dispatcher that relays through the given SMTP
// server. ssl selects implicit TLS (port 465 style) over STARTTLS.
func NewSMTPDispatcher(host string, port int, user, pass string, ssl bool) *SMTPDispatcher {
	d := &SMTPDispatcher{
		host: host,
		port: port,
		user: user,
		pass: pass,
		ssl:  ssl,
	}
	d.sendFunc = d.smtpSend
	return d
}

func (d *SMTPDispatcher) smtpSend(e *email.Email) error {
	addr := net.JoinHostPort(d.host, strconv.Itoa(d.port))
	auth := smtp.PlainAuth("", d.user, d.pass, d.host)

	if d.ssl {
		// SendWithTLS dereferences the config for its ServerName, so it must
		// never be nil.
		return e.SendWithTLS(addr, auth, d.tlsConfig())
	}
	return e.Send(addr, auth)
}

func (d *SMTPDispatcher) tlsConfig() *tls.Config {
	return &tls.Config{ServerName: d.host}
}

// Send relays the message over SMTP. The context is checked before dialing;
// the SMTP library itself does not support cancellation mid-send.
func (d *SMTPDispatcher) Send(ctx context.Context, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = msg.From
	e.To = []string{msg.To}
	if msg.ReplyTo != "" {
		e.ReplyTo = []string{msg.ReplyTo}
	}
	e.Subject = msg.Subject
	if msg.Text != "" {
		e.Text = []byte(msg.Text)
	}
	if msg.HTML != "" {
		e.HTML = []byte(msg.HTML)
	}

	if err := d.sendFunc(e); err != nil {
		return &ProviderError{Message: fmt.Sprintf("smtp send failed: %v", err)}
	}
	return nil
}

var _ Dispatcher = (*SMTPDispatcher)(nil)
