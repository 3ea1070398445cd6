package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
)

// Mailer renders the warehouse email templates and hands the result to
// a Provider for delivery.
type Mailer struct {
	provider Provider
	cfg      Config
}

func NewMailer(provider Provider, cfg Config) *Mailer {
	return &Mailer{provider: provider, cfg: cfg}
}

var (
	verifyTmpl = template.Must(template.New("verify").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 520px; margin: 0 auto;">
  <h2>Verify your email</h2>
  <p>Hi {{.Name}},</p>
  <p>Confirm your email address to activate your Palboti account.</p>
  <p><a href="{{.Link}}" style="display:inline-block;padding:10px 20px;background:#2563eb;color:#fff;text-decoration:none;border-radius:4px;">Verify email</a></p>
  <p>If the button does not work, open this link:<br>{{.Link}}</p>
  <p>If you did not create an account, you can ignore this message.</p>
</div>`))

	resetTmpl = template.Must(template.New("reset").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 520px; margin: 0 auto;">
  <h2>Reset your password</h2>
  <p>Hi {{.Name}},</p>
  <p>We received a request to reset the password for your account.</p>
  <p><a href="{{.Link}}" style="display:inline-block;padding:10px 20px;background:#2563eb;color:#fff;text-decoration:none;border-radius:4px;">Reset password</a></p>
  <p>The link expires in {{.TTL}}. If you did not request this, ignore this message and your password will stay unchanged.</p>
</div>`))

	resetDoneTmpl = template.Must(template.New("resetDone").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 520px; margin: 0 auto;">
  <h2>Password changed</h2>
  <p>Hi {{.Name}},</p>
  <p>The password for your Palboti account was changed successfully.</p>
  <p>If this was not you, reset your password immediately and contact support.</p>
</div>`))

	welcomeTmpl = template.Must(template.New("welcome").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 520px; margin: 0 auto;">
  <h2>Welcome to Palboti Smart Warehouse</h2>
  <p>Hi {{.Name}},</p>
  <p>Your account is ready. Log in to start tracking robots, products and warehouse tasks.</p>
  <p><a href="{{.Link}}">Open the dashboard</a></p>
</div>`))

	robotAlertTmpl = template.Must(template.New("robotAlert").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 520px; margin: 0 auto;">
  <h2>Robot status alert</h2>
  <p>Robot <b>{{.RobotName}}</b> reported status <b>{{.Status}}</b> at {{.Location}} (charge {{.Charge}}).</p>
</div>`))
)

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s template: %w", t.Name(), err)
	}
	return buf.String(), nil
}

func (m *Mailer) SendVerificationEmail(ctx context.Context, to, name, token string) error {
	html, err := render(verifyTmpl, map[string]string{
		"Name": name,
		"Link": fmt.Sprintf("%s/verify-email?token=%s", m.cfg.ClientURL, token),
	})
	if err != nil {
		return err
	}
	return m.provider.Send(ctx, Message{To: to, Subject: "Verify your email", HTML: html})
}

func (m *Mailer) SendPasswordResetEmail(ctx context.Context, to, name, token, ttl string) error {
	html, err := render(resetTmpl, map[string]string{
		"Name": name,
		"Link": fmt.Sprintf("%s/reset-password?token=%s", m.cfg.ClientURL, token),
		"TTL":  ttl,
	})
	if err != nil {
		return err
	}
	return m.provider.Send(ctx, Message{To: to, Subject: "Reset your password", HTML: html})
}

func (m *Mailer) SendPasswordResetSuccess(ctx context.Context, to, name string) error {
	html, err := render(resetDoneTmpl, map[string]string{"Name": name})
	if err != nil {
		return err
	}
	return m.provider.Send(ctx, Message{To: to, Subject: "Your password was changed", HTML: html})
}

func (m *Mailer) SendWelcomeEmail(ctx context.Context, to, name string) error {
	html, err := render(welcomeTmpl, map[string]string{
		"Name": name,
		"Link": m.cfg.ClientURL,
	})
	if err != nil {
		return err
	}
	return m.provider.Send(ctx, Message{To: to, Subject: "Welcome to Palboti Smart Warehouse", HTML: html})
}

func (m *Mailer) SendRobotStatusAlert(ctx context.Context, to, robotName, status, location, charge string) error {
	html, err := render(robotAlertTmpl, map[string]string{
		"RobotName": robotName,
		"Status":    status,
		"Location":  location,
		"Charge":    charge,
	})
	if err != nil {
		return err
	}
	return m.provider.Send(ctx, Message{To: to, Subject: fmt.Sprintf("Robot %s is %s", robotName, status), HTML: html})
}
