package email

import "context"

// Message is a fully rendered outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Provider delivers rendered messages. Implementations must be safe for
// concurrent use; the services send mail from goroutines.
type Provider interface {
	Send(ctx context.Context, msg Message) error
}

// Config for the SMTP provider.
type Config struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
	// ClientURL is the frontend base used inside action links.
	ClientURL string
}
