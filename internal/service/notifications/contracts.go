package notifications

import "context"

// Mail is one outbound message.
type Mail struct {
	To      []string
	Subject string
	Body    string
}

// Mailer delivers outbound mail.
type Mailer interface {
	Send(ctx context.Context, m Mail) error
}
