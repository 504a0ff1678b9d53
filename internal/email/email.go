package email

// Message is a single outgoing email.
type Message struct {
	To      []string
	Subject string
	Body    string
}

// Provider sends transactional mail. Send failures never roll back the
// business operation that triggered them; callers log and continue.
type Provider interface {
	Send(msg *Message) error
	Close() error
}
