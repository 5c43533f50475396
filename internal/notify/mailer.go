// Copyright (c) 2026 Tipon. All rights reserved.
// Author: dev@tipon.events

package notify

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/tipon-events/tipon/internal/core/registration"
)

// Mailer sends the confirmation email over plain SMTP.
type Mailer struct {
	host     string
	port     int
	from     string
	password string
	logger   *slog.Logger
}

func NewMailer(host string, port int, from, password string, logger *slog.Logger) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		from:     from,
		password: password,
		logger:   logger,
	}
}

// SendConfirmation emails the contact person their transaction id. Callers
// treat a failure as retryable.
func (mailer *Mailer) SendConfirmation(confirmation registration.Confirmation) error {
	if confirmation.EmailAddress == "" {
		mailer.logger.Warn("confirmation has no email address, skipping",
			slog.String("trans_id", confirmation.TransID),
		)
		return nil
	}

	subject := fmt.Sprintf("Registration received: %s", confirmation.TransID)
	body := confirmationBody(confirmation)

	var message strings.Builder
	fmt.Fprintf(&message, "From: %s\r\n", mailer.from)
	fmt.Fprintf(&message, "To: %s\r\n", confirmation.EmailAddress)
	fmt.Fprintf(&message, "Subject: %s\r\n", subject)
	message.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	message.WriteString(body)

	addr := fmt.Sprintf("%s:%d", mailer.host, mailer.port)
	var auth smtp.Auth
	if mailer.password != "" {
		auth = smtp.PlainAuth("", mailer.from, mailer.password, mailer.host)
	}

	if err := smtp.SendMail(addr, auth, mailer.from, []string{confirmation.EmailAddress}, []byte(message.String())); err != nil {
		return fmt.Errorf("send confirmation email to %s: %w", confirmation.EmailAddress, err)
	}

	mailer.logger.Info("confirmation email sent",
		slog.String("trans_id", confirmation.TransID),
		slog.String("email", confirmation.EmailAddress),
	)
	return nil
}

func confirmationBody(confirmation registration.Confirmation) string {
	var body strings.Builder
	fmt.Fprintf(&body, "Good day %s,\n\n", confirmation.ContactPerson)
	fmt.Fprintf(&body, "Your registration for %s has been received.\n\n", confirmation.Scope)
	fmt.Fprintf(&body, "Transaction ID: %s\n", confirmation.TransID)
	fmt.Fprintf(&body, "Participants:   %d\n\n", confirmation.Participants)
	body.WriteString("Keep the transaction id. You will need it to upload your proof of payment and to check your registration status.\n\nThank you,\nThe Tipon Team\n")
	return body.String()
}
