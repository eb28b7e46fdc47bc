package mailer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/go-user-identity/pkg/mailer"
)

func TestRenderWelcome(t *testing.T) {
	r := mailer.Render(mailer.EmailJob{
		Template: "welcome",
		Data:     map[string]any{"name": "Linh", "app_name": "Acme"},
	})
	assert.Equal(t, "Welcome to Acme", r.Subject)
	assert.Contains(t, r.Text, "Hi Linh")
	assert.Contains(t, r.HTML, "Acme Team")
}

func TestRenderLoginNotification(t *testing.T) {
	r := mailer.Render(mailer.EmailJob{
		Template: "login_notification",
		Data:     map[string]any{"name": "Linh", "logged_in_at": "2026-01-02T15:04:05Z", "ip": "203.0.113.9"},
	})
	assert.Contains(t, r.Subject, "New login")
	assert.Contains(t, r.Text, "2026-01-02T15:04:05Z")
	assert.Contains(t, r.Text, "203.0.113.9")
}

func TestRenderDeactivation(t *testing.T) {
	r := mailer.Render(mailer.EmailJob{
		Template: "account_deactivated",
		Data:     map[string]any{"name": "Linh", "reason": "cleanup"},
	})
	assert.Contains(t, r.Text, "Reason: cleanup")
	assert.Contains(t, r.Text, "Contact support if")

	r = mailer.Render(mailer.EmailJob{
		Template: "account_deactivated",
		Data:     map[string]any{"name": "Linh", "support_url": "https://support.example.com"},
	})
	assert.Contains(t, r.Text, "Contact support at https://support.example.com")
}

func TestRenderDefaults(t *testing.T) {
	r := mailer.Render(mailer.EmailJob{Template: "unknown"})
	assert.Contains(t, r.Subject, "Notification")
	assert.Contains(t, r.Text, "Hi there")
}
