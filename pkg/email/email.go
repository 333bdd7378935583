package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
)

type EmailService struct {
	smtpHost     string
	smtpPort     string
	smtpUsername string
	smtpPassword string
	fromEmail    string
	fromName     string
	appURL       string
}

type PasswordResetData struct {
	ResetLink   string
	UserEmail   string
	ExpiryHours int
}

type BookingConfirmationData struct {
	BookingID      string
	CustomerName   string
	CarName        string
	PickupDate     string
	ReturnDate     string
	PickupLocation string
	ReturnLocation string
	TotalDays      int
	Total          float64
	BookingsLink   string
}

var passwordResetTmpl = template.Must(template.New("password_reset").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Password Reset Request</h2>
  <p>We received a request to reset the password for <strong>{{.UserEmail}}</strong>.</p>
  <p><a href="{{.ResetLink}}" style="background: #2563eb; color: #fff; padding: 10px 20px; text-decoration: none; border-radius: 4px;">Reset Password</a></p>
  <p>This link expires in {{.ExpiryHours}} hours. If you did not request a reset, you can ignore this email.</p>
</body>
</html>`))

var bookingConfirmationTmpl = template.Must(template.New("booking_confirmation").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Booking Confirmed</h2>
  <p>Hi {{.CustomerName}}, your rental is confirmed.</p>
  <table style="border-collapse: collapse;">
    <tr><td style="padding: 4px 12px 4px 0;"><strong>Booking ID</strong></td><td>{{.BookingID}}</td></tr>
    <tr><td style="padding: 4px 12px 4px 0;"><strong>Car</strong></td><td>{{.CarName}}</td></tr>
    <tr><td style="padding: 4px 12px 4px 0;"><strong>Pickup</strong></td><td>{{.PickupDate}} at {{.PickupLocation}}</td></tr>
    <tr><td style="padding: 4px 12px 4px 0;"><strong>Return</strong></td><td>{{.ReturnDate}} at {{.ReturnLocation}}</td></tr>
    <tr><td style="padding: 4px 12px 4px 0;"><strong>Days</strong></td><td>{{.TotalDays}}</td></tr>
    <tr><td style="padding: 4px 12px 4px 0;"><strong>Total</strong></td><td>KES {{printf "%.2f" .Total}}</td></tr>
  </table>
  <p><a href="{{.BookingsLink}}">View your bookings</a></p>
</body>
</html>`))

func NewEmailService(smtpHost, smtpPort, smtpUsername, smtpPassword, fromEmail, fromName, appURL string) *EmailService {
	return &EmailService{
		smtpHost:     smtpHost,
		smtpPort:     smtpPort,
		smtpUsername: smtpUsername,
		smtpPassword: smtpPassword,
		fromEmail:    fromEmail,
		fromName:     fromName,
		appURL:       appURL,
	}
}

func (s *EmailService) SendPasswordResetEmail(to, resetToken string) error {
	resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.appURL, resetToken)

	data := PasswordResetData{
		ResetLink:   resetLink,
		UserEmail:   to,
		ExpiryHours: 24,
	}

	var body bytes.Buffer
	if err := passwordResetTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	subject := "Password Reset Request - Car Rental"
	message := s.buildEmailMessage(to, subject, body.String())

	if err := s.sendEmail(to, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func (s *EmailService) SendBookingConfirmationEmail(to string, data BookingConfirmationData) error {
	if data.BookingsLink == "" {
		data.BookingsLink = s.appURL + "/my-bookings"
	}

	var body bytes.Buffer
	if err := bookingConfirmationTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	subject := fmt.Sprintf("Booking Confirmed - %s", data.CarName)
	message := s.buildEmailMessage(to, subject, body.String())

	if err := s.sendEmail(to, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func (s *EmailService) buildEmailMessage(to, subject, htmlBody string) []byte {
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)

	headers := make(map[string]string)
	headers["From"] = from
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	message := ""
	for k, v := range headers {
		message += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	message += "\r\n" + htmlBody

	return []byte(message)
}

func (s *EmailService) sendEmail(to string, message []byte) error {
	auth := smtp.PlainAuth("", s.smtpUsername, s.smtpPassword, s.smtpHost)

	tlsConfig := &tls.Config{
		InsecureSkipVerify: false,
		ServerName:         s.smtpHost,
	}

	addr := fmt.Sprintf("%s:%s", s.smtpHost, s.smtpPort)

	// For port 587 (TLS), use STARTTLS
	conn, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	if err = conn.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if err = conn.Auth(auth); err != nil {
		return fmt.Errorf("failed to authenticate: %w", err)
	}

	if err = conn.Mail(s.fromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	if err = conn.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := conn.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	_, err = w.Write(message)
	if err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	err = w.Close()
	if err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}

	return conn.Quit()
}
