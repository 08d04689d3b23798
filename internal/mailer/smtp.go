package mailer

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPMailer sends reset emails through an SMTP relay.
type SMTPMailer struct {
	dialer    *gomail.Dialer
	from      string
	clientURL string
}

// NewSMTPMailer creates a mailer. clientURL is the SPA base URL the reset
// link points at.
func NewSMTPMailer(host string, port int, username, password, from, clientURL string) *SMTPMailer {
	return &SMTPMailer{
		dialer:    gomail.NewDialer(host, port, username, password),
		from:      from,
		clientURL: clientURL,
	}
}

// SendResetEmail implements Mailer. The send runs in its own goroutine so the
// caller's context deadline bounds it; gomail itself has no context support.
func (m *SMTPMailer) SendResetEmail(ctx context.Context, to, resetToken string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Password Reset Request")
	msg.SetBody("text/html", resetEmailBody(m.resetURL(resetToken)))

	errc := make(chan error, 1)
	go func() {
		errc <- m.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("failed to send reset email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("reset email send aborted: %w", ctx.Err())
	}
}

func (m *SMTPMailer) resetURL(token string) string {
	return fmt.Sprintf("%s/reset-password?token=%s", m.clientURL, token)
}

func resetEmailBody(resetURL string) string {
	return fmt.Sprintf(`
    <div style="max-width: 480px; margin: 0 auto; font-family: Arial, sans-serif; padding: 24px;">
      <h2 style="color: #10b981; margin-bottom: 16px;">Password Reset</h2>
      <p style="color: #333; line-height: 1.6;">
        You requested a password reset for your Crop Price Predictor account.
      </p>
      <p style="color: #333; line-height: 1.6;">
        Click the button below to set a new password. This link expires in <strong>1 hour</strong>.
      </p>
      <div style="text-align: center; margin: 32px 0;">
        <a href="%[1]s"
           style="background: linear-gradient(to right, #10b981, #16a34a); color: white; padding: 12px 32px; border-radius: 8px; text-decoration: none; font-weight: bold; display: inline-block;">
          Reset Password
        </a>
      </div>
      <p style="color: #666; font-size: 13px; line-height: 1.5;">
        If you didn't request this, you can safely ignore this email. Your password won't change.
      </p>
      <hr style="border: none; border-top: 1px solid #eee; margin: 24px 0;" />
      <p style="color: #999; font-size: 12px;">
        If the button doesn't work, copy and paste this link:<br />
        <a href="%[1]s" style="color: #10b981;">%[1]s</a>
      </p>
    </div>`, resetURL)
}
