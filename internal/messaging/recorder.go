package messaging

import (
	"context"
	"sync"
)

// Recorder is an in-process Client that keeps published messages and replays
// them to Consume. It backs tests and single-process runs.
type Recorder struct {
	mu       sync.Mutex
	topic    string
	messages []Message
}

// NewRecorder returns an empty Recorder for topic.
func NewRecorder(topic string) *Recorder {
	return &Recorder{topic: topic}
}

func (r *Recorder) Publish(_ context.Context, event string, key []byte, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{
		Topic:   r.topic,
		Key:     append([]byte(nil), key...),
		Value:   append([]byte(nil), value...),
		Headers: map[string]string{EventHeader: event},
		Offset:  int64(len(r.messages)),
	})
	return nil
}

// Consume delivers recorded messages in order, then blocks until ctx ends.
func (r *Recorder) Consume(ctx context.Context, handler Handler) error {
	for _, msg := range r.Messages() {
		if err := handler(ctx, msg); err != nil {
			return err
		}
	}
	<-ctx.Done()
	return ctx.Err()
}

func (r *Recorder) Topic() string { return r.topic }

func (r *Recorder) Enabled() bool { return true }

// Messages returns a copy of the published messages.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

// Events returns the event types published so far.
func (r *Recorder) Events() []string {
	msgs := r.Messages()
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Event()
	}
	return out
}
