// Package mailer composes and dispatches the transactional emails sent for
// each accepted contact submission.
package mailer

import "context"

// Message is one outbound email. Text and HTML are alternatives: the owner
// notification is plain text, the auto-reply is HTML.
type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

// Dispatcher sends a single email. Implementations do not retry or batch; a
// failed send is the caller's error to surface.
type Dispatcher interface {
	Send(ctx context.Context, msg *Message) error
}

// ProviderError carries the provider-supplied failure message so handlers can
// surface it verbatim.
type ProviderError struct {
	Message string
}

func (e *ProviderError) Error() string {
	return e.Message
}
