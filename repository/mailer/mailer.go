package mailer

import "context"

type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer is the notification collaborator. Sends are best-effort; callers
// never roll back state on a failed send.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}
