package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/apexshine/detailbooking/config"
	"github.com/apexshine/detailbooking/internal/kafka"
)

type Sender interface {
	Send(ctx context.Context, event kafka.BookingEvent) error
}

// SMTPSender delivers booking notifications via unauthenticated SMTP
// (Mailpit-compatible in development, a relay in production).
type SMTPSender struct {
	addr string
	from string
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	from := strings.TrimSpace(cfg.From)
	if from == "" {
		from = "no-reply@apexshine-detailing.local"
	}
	return &SMTPSender{addr: cfg.Addr(), from: from}
}

func (s *SMTPSender) Send(ctx context.Context, event kafka.BookingEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	subject, body := composeMessage(event)
	msg := buildMessage(s.from, event.CustomerEmail, subject, body)
	return smtp.SendMail(s.addr, nil, s.from, []string{event.CustomerEmail}, []byte(msg))
}

func composeMessage(event kafka.BookingEvent) (subject, body string) {
	switch event.Type {
	case "booking_confirmed":
		subject = "Your detailing appointment is confirmed"
	case "booking_cancelled":
		subject = "Your detailing appointment was cancelled"
	case "booking_completed":
		subject = "Thank you for visiting Apex Shine"
	default:
		subject = "We received your detailing appointment request"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", event.CustomerName)
	fmt.Fprintf(&b, "Booking reference: %s\n", event.BookingID)
	fmt.Fprintf(&b, "Package: %s (%s, %s)\n", event.PackageName, event.ServiceCategory, event.VehicleSize)
	fmt.Fprintf(&b, "Appointment: %s at %s\n", event.AppointmentDate, event.AppointmentTime)
	fmt.Fprintf(&b, "Total: %s\n", formatCents(event.TotalPriceCents))
	fmt.Fprintf(&b, "Status: %s\n\n", event.Status)
	b.WriteString("If anything looks wrong, reply to this email or call the studio.\n")
	return subject, b.String()
}

func buildMessage(from, to, subject, body string) string {
	// Minimal RFC 5322 message; enough for Mailpit and most SMTP relays.
	return fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		from, to, subject, body,
	)
}

func formatCents(c int64) string {
	return fmt.Sprintf("$%d.%02d", c/100, c%100)
}

var _ Sender = (*SMTPSender)(nil)
