package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/go-otp-auth/internal/domain"
)

const (
	SignupSubject = "Your Verification Code"
	ResetSubject  = "Password Reset Code"

	// ResetPath is appended to the app base URL in the reset email link.
	ResetPath = "/reset-password"
)

type mailer interface {
	SendEmail(ctx context.Context, msg domain.EmailMessage) error
}

// EmailNotifier renders verification emails and hands them to a mail transport.
type EmailNotifier struct {
	mailer  mailer
	baseURL string
}

func NewEmailNotifier(m mailer, appBaseURL string) *EmailNotifier {
	return &EmailNotifier{mailer: m, baseURL: strings.TrimRight(appBaseURL, "/")}
}

type signupView struct {
	Name string
	Code string
}

type resetView struct {
	Code string
	Link string
}

var (
	signupTmpl = template.Must(template.New("signup").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Verify your email</h2>
  <p>Hello{{if .Name}} {{.Name}}{{end}},</p>
  <p>Use the code below to finish creating your account:</p>
  <p style="font-size: 28px; font-weight: bold; letter-spacing: 4px;">{{.Code}}</p>
  <p>This code will expire in 10 minutes.</p>
  <p>If you did not sign up, you can ignore this email.</p>
</body>
</html>`))

	resetTmpl = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Reset your password</h2>
  <p>Your password reset code is:</p>
  <p style="font-size: 28px; font-weight: bold; letter-spacing: 4px;">{{.Code}}</p>
  <p>Enter it on the <a href="{{.Link}}">reset password page</a>.</p>
  <p>This code will expire in 10 minutes.</p>
  <p>If you did not request a reset, you can ignore this email.</p>
</body>
</html>`))
)

// SendSignupCode emails a signup verification code to the address being registered.
func (n *EmailNotifier) SendSignupCode(ctx context.Context, to, name, code string) error {
	html, err := render(signupTmpl, signupView{Name: name, Code: code})
	if err != nil {
		return err
	}
	return n.mailer.SendEmail(ctx, domain.EmailMessage{
		To:      to,
		Subject: SignupSubject,
		HTML:    html,
		Text:    fmt.Sprintf("Your verification code is %s. It will expire in 10 minutes.", code),
	})
}

// SendResetCode emails a password reset code together with a link to the reset page.
func (n *EmailNotifier) SendResetCode(ctx context.Context, to, code string) error {
	link := n.baseURL + ResetPath
	html, err := render(resetTmpl, resetView{Code: code, Link: link})
	if err != nil {
		return err
	}
	return n.mailer.SendEmail(ctx, domain.EmailMessage{
		To:      to,
		Subject: ResetSubject,
		HTML:    html,
		Text:    fmt.Sprintf("Your password reset code is %s. Reset your password at %s. It will expire in 10 minutes.", code, link),
	})
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s email: %w", t.Name(), err)
	}
	return buf.String(), nil
}
