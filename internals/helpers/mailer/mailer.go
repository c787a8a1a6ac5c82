package mailer

import (
	"errors"
	"log"

	"github.com/resend/resend-go/v2"

	"coursedig_backend/internals/configs"
)

// Message is one outbound transactional email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
	From    string // optional, defaults to MAIL_FROM
}

// Mailer sends transactional email. Notification paths call SendAsync and
// never surface failures to the caller; registration calls Send because the
// verification email there must not silently fail.
type Mailer interface {
	Send(msg Message) error
}

var ErrMailerDisabled = errors.New("mailer: no API key configured")

// =======================================================
// Resend implementation
// =======================================================

type ResendMailer struct {
	client *resend.Client
	from   string
}

// NewMailerFromEnv returns a disabled mailer when RESEND_API_KEY is absent;
// callers keep working, sends become logged warnings.
func NewMailerFromEnv() Mailer {
	if configs.ResendAPIKey == "" {
		return &DisabledMailer{}
	}
	return &ResendMailer{
		client: resend.NewClient(configs.ResendAPIKey),
		from:   configs.MailFrom,
	}
}

func (m *ResendMailer) Send(msg Message) error {
	from := msg.From
	if from == "" {
		from = m.from
	}
	_, err := m.client.Emails.Send(&resend.SendEmailRequest{
		From:    from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	})
	return err
}

// SendAsync fires the message on a goroutine and only logs on failure.
// Best-effort by contract: the caller's primary persistence path must never
// block on or roll back because of email.
func SendAsync(m Mailer, msg Message) {
	go func() {
		if err := m.Send(msg); err != nil {
			log.Printf("[MAILER] send to=%s subject=%q failed: %v", msg.To, msg.Subject, err)
		}
	}()
}

// =======================================================
// Disabled mailer (missing config degrades gracefully)
// =======================================================

type DisabledMailer struct{}

func (m *DisabledMailer) Send(msg Message) error {
	log.Printf("[MAILER] disabled, skipping send to=%s subject=%q", msg.To, msg.Subject)
	return ErrMailerDisabled
}
