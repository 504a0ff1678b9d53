package email

import "sync"

// NoopProvider records messages instead of sending them. Used when SMTP
// is not configured and in tests.
type NoopProvider struct {
	mu   sync.Mutex
	sent []Message
}

func NewNoopProvider() *NoopProvider {
	return &NoopProvider{}
}

func (p *NoopProvider) Send(msg *Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, *msg)
	return nil
}

func (p *NoopProvider) Close() error {
	return nil
}

// Sent returns a copy of everything recorded so far.
func (p *NoopProvider) Sent() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Message, len(p.sent))
	copy(out, p.sent)
	return out
}
