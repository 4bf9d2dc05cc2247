package email

import (
	"strings"
	"testing"

	"github.com/apexshine/detailbooking/internal/kafka"
	"github.com/stretchr/testify/assert"
)

func TestComposeMessage_Created(t *testing.T) {
	event := kafka.BookingEvent{
		Type:            "booking_created",
		BookingID:       "b1",
		ServiceCategory: "auto",
		PackageName:     "Signature",
		VehicleSize:     "sedan",
		TotalPriceCents: 25000,
		AppointmentDate: "2026-03-03",
		AppointmentTime: "10:00 AM",
		CustomerName:    "Jane Doe",
		Status:          "pending",
	}

	subject, body := composeMessage(event)

	assert.Contains(t, subject, "received")
	assert.Contains(t, body, "Jane Doe")
	assert.Contains(t, body, "Signature")
	assert.Contains(t, body, "2026-03-03 at 10:00 AM")
	assert.Contains(t, body, "$250.00")
}

func TestComposeMessage_SubjectsByType(t *testing.T) {
	cases := map[string]string{
		"booking_created":   "received",
		"booking_confirmed": "confirmed",
		"booking_cancelled": "cancelled",
		"booking_completed": "Thank you",
	}

	for eventType, want := range cases {
		subject, _ := composeMessage(kafka.BookingEvent{Type: eventType})
		assert.Contains(t, subject, want, "type %s", eventType)
	}
}

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("from@x.test", "to@y.test", "Subject line", "body text")

	assert.True(t, strings.HasPrefix(msg, "From: from@x.test\r\n"))
	assert.Contains(t, msg, "To: to@y.test\r\n")
	assert.Contains(t, msg, "Subject: Subject line\r\n")
	assert.True(t, strings.HasSuffix(msg, "body text\r\n"))
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "$250.00", formatCents(25000))
	assert.Equal(t, "$0.05", formatCents(5))
	assert.Equal(t, "$19.99", formatCents(1999))
}
