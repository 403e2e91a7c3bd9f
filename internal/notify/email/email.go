package email

import (
	"bytes"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ridewise/ridewise/internal/config"
	mail "github.com/xhit/go-simple-mail/v2"
)

// NotificationService sends booking receipts by email.
type NotificationService struct {
	config *config.EmailConfig
}

// BookingReceipt contains the data for a booking receipt email.
type BookingReceipt struct {
	UserEmail   string
	UserName    string
	BookingID   string
	BikeName    string
	PickupDate  string
	PickupTime  string
	Duration    string
	Total       string
	BookedAt    time.Time
	RideWiseURL string
}

// New creates a new email notification service.
func New(cfg *config.EmailConfig) *NotificationService {
	return &NotificationService{
		config: cfg,
	}
}

// Enabled reports whether receipts are actually sent.
func (n *NotificationService) Enabled() bool {
	return n.config != nil && n.config.Enabled
}

// SendBookingReceipt emails a booking receipt to the user.
func (n *NotificationService) SendBookingReceipt(receipt BookingReceipt) error {
	if !n.Enabled() {
		log.Debug("Email notifications are disabled, skipping receipt")
		return nil
	}

	if receipt.UserEmail == "" {
		log.Warn("User email is empty, skipping receipt", "user", receipt.UserName)
		return nil
	}

	subject := fmt.Sprintf("[RideWise] Booking %s confirmed", receipt.BookingID)

	body, err := generateEmailBody(receipt)
	if err != nil {
		return fmt.Errorf("failed to generate email body: %w", err)
	}

	return n.sendEmail(receipt.UserEmail, subject, body)
}

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.New("").ParseFS(templatesFS, "templates/*.html"))

func generateEmailBody(receipt BookingReceipt) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "receipt.html", receipt); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (n *NotificationService) sendEmail(to, subject, body string) error {
	server := mail.NewSMTPClient()
	server.Host = n.config.SMTPHost
	server.Port = n.config.SMTPPort
	server.Username = n.config.Username
	server.Password = n.config.Password

	switch {
	case n.config.UseSSL:
		server.Encryption = mail.EncryptionSSLTLS
	case n.config.UseTLS:
		server.Encryption = mail.EncryptionSTARTTLS
	default:
		server.Encryption = mail.EncryptionNone
	}

	if n.config.InsecureSkipVerify {
		server.TLSConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	server.KeepAlive = false
	server.ConnectTimeout = 10 * time.Second
	server.SendTimeout = 10 * time.Second

	smtpClient, err := server.Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer func() {
		if closeErr := smtpClient.Close(); closeErr != nil {
			log.Warn("Failed to close SMTP client", "error", closeErr)
		}
	}()

	fromName := n.config.FromName
	if fromName == "" {
		fromName = "RideWise"
	}

	email := mail.NewMSG()
	email.SetFrom(fmt.Sprintf("%s <%s>", fromName, n.config.FromEmail))
	email.AddTo(to)
	email.SetSubject(subject)
	email.SetBody(mail.TextHTML, body)

	if err := email.Send(smtpClient); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Info("Booking receipt sent", "to", to, "subject", subject)
	return nil
}
