package app

import (
	"io"
	"log/slog"
	"sync"

	"wordduel/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixedIDs returns the given IDs in order, repeating the last one
func fixedIDs(ids ...string) IDGenerator {
	var mu sync.Mutex
	i := 0
	return IDGeneratorFunc(func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		id := ids[i]
		if i < len(ids)-1 {
			i++
		}
		return id, nil
	})
}

type fakeClient struct {
	id string

	mu       sync.Mutex
	received []domain.Notification
	closed   bool
}

func newFakeClient(id string) *fakeClient {
	return &fakeClient{id: id}
}

func (c *fakeClient) Send(n domain.Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.received = append(c.received, n)
	return nil
}

func (c *fakeClient) GetID() string { return c.id }

func (c *fakeClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeClient) messages() []domain.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Notification(nil), c.received...)
}

func (c *fakeClient) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.received = nil
}

// last returns the most recent notification, nil if none
func (c *fakeClient) last() domain.Notification {
	msgs := c.messages()
	if len(msgs) == 0 {
		return nil
	}
	return msgs[len(msgs)-1]
}
