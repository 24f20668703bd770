package utils

import (
	"encoding/base64"
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

// smtpConfig reads SMTP settings from env. Empty fields mean "not configured"
// and the mailer falls back to mock sends (log only) for dev environments.
type smtpConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	FromName string
}

func loadSMTPConfig() smtpConfig {
	return smtpConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     os.Getenv("SMTP_PORT"),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		FromName: EnvOrDefault("SMTP_FROM_NAME", "Hotel Reception"),
	}
}

func (c smtpConfig) configured() bool {
	return c.Host != "" && c.Port != "" && c.Username != "" && c.Password != ""
}

func sanitizeHeader(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\r\n", " ")
}

// sendMail delivers a multipart text+HTML message, with an optional
// attachment. When SMTP is not configured it logs the send instead.
func sendMail(recipient, subject, plainBody, htmlBody string, attachment []byte, attachmentName string) error {
	cfg := loadSMTPConfig()

	if !cfg.configured() {
		log.Printf("[MOCK EMAIL] to:%s subject:%q attachment:%s", recipient, subject, attachmentName)
		return nil
	}

	subject = sanitizeHeader(subject)
	from := fmt.Sprintf("%s <%s>", cfg.FromName, cfg.Username)
	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)

	boundary := "----=_HOTEL_PMS_BOUNDARY"

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", recipient)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	msg.WriteString(plainBody)
	msg.WriteString("\r\n")

	if htmlBody != "" {
		fmt.Fprintf(&msg, "--%s\r\n", boundary)
		msg.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
		msg.WriteString(htmlBody)
		msg.WriteString("\r\n")
	}

	if len(attachment) > 0 {
		fmt.Fprintf(&msg, "--%s\r\n", boundary)
		fmt.Fprintf(&msg, "Content-Type: text/html; name=%q\r\n", attachmentName)
		msg.WriteString("Content-Transfer-Encoding: base64\r\n")
		fmt.Fprintf(&msg, "Content-Disposition: attachment; filename=%q\r\n\r\n", attachmentName)
		msg.WriteString(base64.StdEncoding.EncodeToString(attachment))
		msg.WriteString("\r\n")
	}

	fmt.Fprintf(&msg, "--%s--\r\n", boundary)

	return smtp.SendMail(addr, auth, cfg.Username, []string{recipient}, []byte(msg.String()))
}

// SendBookingPendingEmail tells a self-service guest their request is waiting
// for staff confirmation.
func SendBookingPendingEmail(to, ref, roomNumber, checkIn, checkOut string) error {
	subject := fmt.Sprintf("Booking Request Received — %s", ref)
	plain := fmt.Sprintf(
		"We received your booking request.\n\nReference: %s\nRoom: %s\nCheck-In: %s\nCheck-Out: %s\n\nWe will confirm it shortly.\n",
		ref, roomNumber, checkIn, checkOut,
	)
	return sendMail(to, subject, plain, "", nil, "")
}

func SendBookingConfirmedEmail(to, ref, roomNumber, checkIn, checkOut string) error {
	subject := fmt.Sprintf("Booking Confirmed — %s", ref)
	plain := fmt.Sprintf(
		"Your booking is confirmed.\n\nReference: %s\nRoom: %s\nCheck-In: %s\nCheck-Out: %s\n\nWe look forward to your stay.\n",
		ref, roomNumber, checkIn, checkOut,
	)
	return sendMail(to, subject, plain, "", nil, "")
}

func SendCheckInKeyEmail(to, ref, key, expiry string) error {
	subject := fmt.Sprintf("Your Room Key — %s", ref)
	plain := fmt.Sprintf(
		"You are checked in.\n\nReference: %s\nKey code: %s\nValid until: %s\n\nKeep this code private.\n",
		ref, key, expiry,
	)
	return sendMail(to, subject, plain, "", nil, "")
}

// SendInvoiceEmail attaches the rendered invoice document.
func SendInvoiceEmail(to, number string, document []byte) error {
	subject := fmt.Sprintf("Invoice %s", number)
	plain := fmt.Sprintf("Please find invoice %s attached.\n", number)
	attachName := fmt.Sprintf("invoice-%s.html", strings.ToLower(strings.ReplaceAll(number, "/", "-")))
	return sendMail(to, subject, plain, "", document, attachName)
}
