// Package mailer is the notification collaborator. Sends are best-effort;
// callers decide whether a failure matters.
package mailer

import (
	"fmt"
	"net/smtp"
)

// Mailer sends transactional mail for the application.
type Mailer interface {
	// SendOTP sends the email verification code to a freshly registered user
	SendOTP(email, username, otp string) error

	// SendWelcome confirms a successful verification
	SendWelcome(email, username string) error

	// SendInvitation sends a project invitation link carrying the token
	SendInvitation(email, token, projectTitle, inviterName string) error
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	host        string
	port        string
	username    string
	password    string
	from        string
	frontendURL string
}

// NewSMTPMailer creates a new SMTPMailer.
func NewSMTPMailer(host, port, username, password, from, frontendURL string) *SMTPMailer {
	return &SMTPMailer{
		host:        host,
		port:        port,
		username:    username,
		password:    password,
		from:        from,
		frontendURL: frontendURL,
	}
}

func (m *SMTPMailer) send(to, subject, body string) error {
	if m.password == "" {
		return fmt.Errorf("smtp password is not configured")
	}

	message := []byte("Subject: " + subject + "\r\n" +
		"From: " + m.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n" +
		body + "\r\n")

	auth := smtp.PlainAuth("", m.username, m.password, m.host)

	if err := smtp.SendMail(m.host+":"+m.port, auth, m.username, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// SendOTP sends the email verification code
func (m *SMTPMailer) SendOTP(email, username, otp string) error {
	body := fmt.Sprintf(
		"<p>Welcome %s!</p>"+
			"<p>Your TaskFlow verification code is:</p>"+
			"<h2>%s</h2>"+
			"<p>The code expires in 10 minutes. If you didn't create an account, ignore this email.</p>",
		username, otp,
	)
	return m.send(email, "Verify your TaskFlow account", body)
}

// SendWelcome confirms a successful verification
func (m *SMTPMailer) SendWelcome(email, username string) error {
	body := fmt.Sprintf(
		"<p>Hi %s,</p>"+
			"<p>Your email has been verified and your TaskFlow account is active.</p>"+
			"<p><a href=\"%s/login\">Log in to TaskFlow</a></p>",
		username, m.frontendURL,
	)
	return m.send(email, "Welcome to TaskFlow", body)
}

// SendInvitation sends a project invitation link
func (m *SMTPMailer) SendInvitation(email, token, projectTitle, inviterName string) error {
	body := fmt.Sprintf(
		"<p>%s invited you to join the project <strong>%s</strong> on TaskFlow.</p>"+
			"<p><a href=\"%s/invitations/%s\">Accept the invitation</a></p>"+
			"<p>The invitation expires in 7 days.</p>",
		inviterName, projectTitle, m.frontendURL, token,
	)
	return m.send(email, fmt.Sprintf("You've been invited to %s", projectTitle), body)
}
