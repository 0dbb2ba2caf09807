// Package chat maintains an append-only conversation log over an asking
// backend.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/csv-analyst/backend/internal/models"
)

// ErrEmptyQuestion is returned when a submission is blank after trimming.
var ErrEmptyQuestion = errors.New("question is empty")

// Asker answers a free-form question about the loaded dataset.
type Asker interface {
	Ask(ctx context.Context, query string) (string, error)
}

// Conversation is an append-only message log. Submissions are serialized,
// so replies land in the order questions were asked.
type Conversation struct {
	mu       sync.Mutex
	asker    Asker
	messages []models.ChatMessage
}

// NewConversation creates a conversation over the given backend.
func NewConversation(asker Asker) *Conversation {
	return &Conversation{asker: asker}
}

// Submit records the user's question, asks the backend, and records the
// reply. A blank question is rejected without touching the log. When the
// backend fails, the error text is recorded as the reply so the exchange
// stays visible, and the error is returned.
func (c *Conversation) Submit(ctx context.Context, query string) (models.ChatMessage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.ChatMessage{}, ErrEmptyQuestion
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.append(models.SenderUser, query)

	answer, err := c.asker.Ask(ctx, query)
	if err != nil {
		reply := c.append(models.SenderAssistant, "Error: "+err.Error())
		return reply, err
	}
	return c.append(models.SenderAssistant, answer), nil
}

func (c *Conversation) append(sender models.Sender, text string) models.ChatMessage {
	msg := models.ChatMessage{Sender: sender, Text: text, At: time.Now()}
	c.messages = append(c.messages, msg)
	return msg
}

// Messages returns a copy of the log in order.
func (c *Conversation) Messages() []models.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of logged messages.
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}
