package mailer

import "fmt"

// Rendered holds the output of a template render pass.
type Rendered struct {
	Subject string
	Text    string
	HTML    string
}

func dataString(data map[string]any, key string) string {
	if v, ok := data[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprint(v)
	}
	return ""
}

// Render builds a subject and body for the given job.
// Unknown templates fall back to a neutral notification message.
func Render(job EmailJob) Rendered {
	name := dataString(job.Data, "name")
	if name == "" {
		name = "there"
	}
	app := dataString(job.Data, "app_name")
	if app == "" {
		app = "User Identity"
	}

	switch job.Template {
	case "welcome":
		return Rendered{
			Subject: fmt.Sprintf("Welcome to %s", app),
			Text:    fmt.Sprintf("Hi %s,\n\nYour account has been created. You can sign in with your email address.\n\nThanks,\n%s Team", name, app),
			HTML:    fmt.Sprintf("<p>Hi %s,</p><p>Your account has been created. You can sign in with your email address.</p><p>Thanks,<br>%s Team</p>", name, app),
		}
	case "login_notification":
		at := dataString(job.Data, "logged_in_at")
		ip := dataString(job.Data, "ip")
		text := fmt.Sprintf("Hi %s,\n\nA new login to your account was detected", name)
		if at != "" {
			text += " at " + at
		}
		if ip != "" {
			text += " from " + ip
		}
		text += ".\n\nIf this was not you, please change your password immediately."
		return Rendered{
			Subject: fmt.Sprintf("New login to your %s account", app),
			Text:    text,
		}
	case "account_deactivated":
		reason := dataString(job.Data, "reason")
		text := fmt.Sprintf("Hi %s,\n\nYour account has been deactivated.", name)
		if reason != "" {
			text += "\nReason: " + reason
		}
		if support := dataString(job.Data, "support_url"); support != "" {
			text += "\n\nContact support at " + support + " if you believe this is a mistake."
		} else {
			text += "\n\nContact support if you believe this is a mistake."
		}
		return Rendered{
			Subject: fmt.Sprintf("Your %s account was deactivated", app),
			Text:    text,
		}
	case "email_verification":
		code := dataString(job.Data, "code")
		return Rendered{
			Subject: fmt.Sprintf("Verify your %s email", app),
			Text:    fmt.Sprintf("Hi %s,\n\nYour verification code is %s. It expires in 15 minutes.", name, code),
		}
	default:
		return Rendered{
			Subject: fmt.Sprintf("Notification from %s", app),
			Text:    fmt.Sprintf("Hi %s,\n\nYou have a new notification from %s.", name, app),
		}
	}
}
