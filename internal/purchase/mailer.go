package purchase

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// Mailer delivers the post-purchase access code email.
type Mailer interface {
	SendAccessCode(ctx context.Context, email, code string) error
}

var ErrMailerNotConfigured = errors.New("email service not configured")

type ResendMailer struct {
	client      *resend.Client
	from        string
	checkoutURL string
}

func NewResendMailer(apiKey, from, checkoutURL string) *ResendMailer {
	if apiKey == "" {
		return &ResendMailer{from: from, checkoutURL: checkoutURL}
	}
	return &ResendMailer{client: resend.NewClient(apiKey), from: from, checkoutURL: checkoutURL}
}

func (m *ResendMailer) SendAccessCode(ctx context.Context, email, code string) error {
	if m.client == nil {
		return ErrMailerNotConfigured
	}
	_, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{email},
		Subject: "Your Quiz Platform Access Code",
		Html:    accessCodeHTML(code, m.checkoutURL),
	})
	if err != nil {
		return fmt.Errorf("send access code email: %w", err)
	}
	return nil
}

func accessCodeHTML(code, platformURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;background-color:#171719;font-family:'Segoe UI',Tahoma,Geneva,Verdana,sans-serif;">
  <table width="100%%" cellpadding="0" cellspacing="0" style="background-color:#171719;padding:40px 20px;">
    <tr><td align="center">
      <table width="600" cellpadding="0" cellspacing="0" style="background-color:#1e1e21;border-radius:12px;overflow:hidden;">
        <tr><td style="padding:40px 30px;">
          <h2 style="color:#ffffff;margin:0 0 20px;font-size:24px;">Thank You for Your Purchase!</h2>
          <p style="color:#cbd5e1;font-size:16px;line-height:1.6;margin:0 0 30px;">
            Your payment was successful. Here's your access code to unlock the platform:
          </p>
          <div style="background-color:#252528;border:2px solid #f85f00;border-radius:8px;padding:25px;text-align:center;margin:30px 0;">
            <p style="color:#94a3b8;font-size:14px;margin:0 0 10px;text-transform:uppercase;letter-spacing:1px;">Your Access Code</p>
            <p style="color:#f85f00;font-size:32px;font-weight:700;margin:0;letter-spacing:3px;font-family:monospace;">%s</p>
          </div>
          <ol style="color:#cbd5e1;font-size:16px;line-height:1.8;margin:0 0 30px;padding-left:20px;">
            <li>Go to <a href="%s" style="color:#f85f00;text-decoration:none;">the platform</a></li>
            <li>Enter the access code above</li>
            <li>Start practicing!</li>
          </ol>
          <table width="100%%" cellpadding="0" cellspacing="0"><tr><td align="center" style="padding:20px 0;">
            <a href="%s" style="background-color:#f85f00;color:#ffffff;padding:16px 40px;text-decoration:none;border-radius:8px;font-weight:600;font-size:16px;display:inline-block;">ACCESS THE PLATFORM</a>
          </td></tr></table>
        </td></tr>
      </table>
    </td></tr>
  </table>
</body>
</html>`, code, platformURL, platformURL)
}
