// Package email sends transactional mail (mandal invites).
package email

import "context"

// Message is one outbound email.
type Message struct {
	To      []string
	From    string
	Subject string
	HTML    string
}

// Sender delivers messages via an external provider.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
