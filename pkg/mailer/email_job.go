package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Text/HTML are given directly, or Template names one of the
// built-in templates rendered with Data.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // see Render for the known template names
	Data     map[string]any `json:"data,omitempty"`
}
