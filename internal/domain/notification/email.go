package notification

import (
	"context"
	"fmt"
	"strings"

	"beautybook/internal/pkg/mailer"
)

// EmailSink mails the client about each booking event.
type EmailSink struct {
	sender mailer.Sender
}

func NewEmailSink(sender mailer.Sender) *EmailSink {
	return &EmailSink{sender: sender}
}

func (s *EmailSink) Name() string { return "email" }

func (s *EmailSink) Send(ctx context.Context, ev Event) error {
	if ev.ClientEmail == "" {
		return nil
	}
	subject, body := renderEmail(ev)
	return s.sender.Send(ctx, ev.ClientEmail, subject, body)
}

func renderEmail(ev Event) (string, string) {
	var subject, lead string
	switch ev.Type {
	case TypeBookingCreated:
		subject = fmt.Sprintf("Booking %s received", ev.BookingCode)
		lead = "Your booking has been received and is waiting for the salon."
	case TypeBookingConfirmed:
		subject = fmt.Sprintf("Booking %s confirmed", ev.BookingCode)
		lead = "The salon has confirmed your booking."
	case TypeBookingCompleted:
		subject = fmt.Sprintf("Receipt for booking %s", ev.BookingCode)
		lead = "Thank you for your visit. Here is your receipt."
	case TypeBookingCancelled:
		subject = fmt.Sprintf("Booking %s cancelled", ev.BookingCode)
		lead = "Your booking has been cancelled."
	default:
		subject = fmt.Sprintf("Booking %s updated", ev.BookingCode)
		lead = "Your booking has been updated."
	}

	var b strings.Builder
	if ev.ClientName != "" {
		fmt.Fprintf(&b, "Hello, %s!\n\n", ev.ClientName)
	}
	b.WriteString(lead)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Booking code: %s\n", ev.BookingCode)
	fmt.Fprintf(&b, "Salon: %s\n", ev.SalonName)
	fmt.Fprintf(&b, "Service: %s\n", ev.ServiceName)
	if ev.SpecialistName != "" {
		fmt.Fprintf(&b, "Specialist: %s\n", ev.SpecialistName)
	}
	fmt.Fprintf(&b, "When: %s %s\n", ev.Date, ev.Time)
	if ev.PaymentMethod == "visit" {
		b.WriteString("Paid with: 1 package visit\n")
	} else {
		fmt.Fprintf(&b, "Paid with: %d BP\n", ev.Price)
	}
	if ev.RefundNote != "" {
		fmt.Fprintf(&b, "Refund: %s\n", ev.RefundNote)
	}
	return subject, b.String()
}
