package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/csv-analyst/backend/internal/models"
)

type stubAsker struct {
	answer string
	err    error
	calls  int
}

func (s *stubAsker) Ask(ctx context.Context, query string) (string, error) {
	s.calls++
	return s.answer, s.err
}

func TestConversation_Submit(t *testing.T) {
	asker := &stubAsker{answer: "42 rows"}
	conv := NewConversation(asker)

	reply, err := conv.Submit(context.Background(), "how many rows?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Sender != models.SenderAssistant || reply.Text != "42 rows" {
		t.Errorf("unexpected reply: %+v", reply)
	}

	msgs := conv.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Sender != models.SenderUser || msgs[0].Text != "how many rows?" {
		t.Errorf("unexpected user entry: %+v", msgs[0])
	}
	if msgs[1].Sender != models.SenderAssistant {
		t.Errorf("unexpected assistant entry: %+v", msgs[1])
	}
}

func TestConversation_BlankInput(t *testing.T) {
	tests := []string{"", "   ", "\n\t"}

	for _, input := range tests {
		asker := &stubAsker{answer: "nope"}
		conv := NewConversation(asker)

		_, err := conv.Submit(context.Background(), input)
		if !errors.Is(err, ErrEmptyQuestion) {
			t.Errorf("Submit(%q): expected ErrEmptyQuestion, got %v", input, err)
		}
		if asker.calls != 0 {
			t.Errorf("Submit(%q): expected no backend calls, got %d", input, asker.calls)
		}
		if conv.Len() != 0 {
			t.Errorf("Submit(%q): expected empty log, got %d entries", input, conv.Len())
		}
	}
}

func TestConversation_BackendError(t *testing.T) {
	asker := &stubAsker{err: errors.New("server unreachable")}
	conv := NewConversation(asker)

	reply, err := conv.Submit(context.Background(), "anything?")
	if err == nil {
		t.Fatal("expected error")
	}

	// The failed exchange stays in the log.
	msgs := conv.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if reply.Sender != models.SenderAssistant {
		t.Errorf("expected assistant error entry, got %+v", reply)
	}
	if reply.Text != "Error: server unreachable" {
		t.Errorf("unexpected error entry text: %q", reply.Text)
	}
}

func TestConversation_TrimsQuestion(t *testing.T) {
	asker := &stubAsker{answer: "ok"}
	conv := NewConversation(asker)

	if _, err := conv.Submit(context.Background(), "  padded?  "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := conv.Messages()[0].Text; got != "padded?" {
		t.Errorf("expected trimmed question, got %q", got)
	}
}
