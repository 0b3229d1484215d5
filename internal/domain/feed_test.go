package domain_test

import (
	"testing"

	"github.com/PabloGalante/pairview/internal/domain"
)

func TestFeedAppendPreservesOrder(t *testing.T) {
	feed := domain.NewFeed()

	if !feed.IsEmpty() {
		t.Fatalf("new feed should be empty")
	}

	feed.Append(domain.Message{ID: "a", Text: "first", Timestamp: "10:00"})
	feed.Append(domain.Message{ID: "b", Text: "second", Timestamp: "10:01"})

	if feed.IsEmpty() {
		t.Fatalf("feed with messages reported empty")
	}

	msgs := feed.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Text != "first" || msgs[1].Text != "second" {
		t.Fatalf("messages out of order: %+v", msgs)
	}
}

func TestFeedMessagesReturnsCopy(t *testing.T) {
	feed := domain.NewFeed()
	feed.Append(domain.Message{ID: "a", Text: "original", Timestamp: "10:00"})

	msgs := feed.Messages()
	msgs[0].Text = "mutated"

	if feed.Messages()[0].Text != "original" {
		t.Fatalf("Messages must return a copy, not the backing slice")
	}
}
