package email

import (
	"testing"
	"time"

	"github.com/ridewise/ridewise/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReceipt() BookingReceipt {
	return BookingReceipt{
		UserEmail:   "rider@example.com",
		UserName:    "Rider",
		BookingID:   "RIDE123456",
		BikeName:    "Electric Bike",
		PickupDate:  "2026-03-02",
		PickupTime:  "09:30",
		Duration:    "2 hours",
		Total:       "₹160",
		BookedAt:    time.Date(2026, time.March, 1, 18, 0, 0, 0, time.UTC),
		RideWiseURL: "https://ride.example.com",
	}
}

func TestGenerateEmailBody(t *testing.T) {
	body, err := generateEmailBody(testReceipt())
	require.NoError(t, err)

	assert.Contains(t, body, "Receipt #RIDE123456")
	assert.Contains(t, body, "Electric Bike")
	assert.Contains(t, body, "₹160")
	assert.Contains(t, body, "01 Mar 2026 18:00")
	assert.Contains(t, body, "https://ride.example.com/rental")
}

func TestGenerateEmailBody_EscapesInput(t *testing.T) {
	r := testReceipt()
	r.UserName = "<script>alert(1)</script>"

	body, err := generateEmailBody(r)
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
}

func TestSendBookingReceipt_Disabled(t *testing.T) {
	n := New(&config.EmailConfig{Enabled: false})
	assert.False(t, n.Enabled())
	assert.NoError(t, n.SendBookingReceipt(testReceipt()))

	assert.False(t, New(nil).Enabled())
}

func TestSendBookingReceipt_NoAddress(t *testing.T) {
	n := New(&config.EmailConfig{Enabled: true, SMTPHost: "127.0.0.1", SMTPPort: 1})
	r := testReceipt()
	r.UserEmail = ""
	assert.NoError(t, n.SendBookingReceipt(r))
}

func TestSendBookingReceipt_ConnectError(t *testing.T) {
	n := New(&config.EmailConfig{Enabled: true, SMTPHost: "127.0.0.1", SMTPPort: 1, FromEmail: "noreply@example.com"})
	err := n.SendBookingReceipt(testReceipt())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to SMTP server")
}
