package chat_test

import (
	"context"
	"errors"
	"testing"

	chatmodel "github.com/zhouzirui/agent-swarm/backend/internal/model/chat"
	chat "github.com/zhouzirui/agent-swarm/backend/internal/service/chat"
)

func TestServiceRecordExchange(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	if err := svc.RecordExchange(ctx, "u1", "I can't sign in", "Here are some steps", "support"); err != nil {
		t.Fatalf("RecordExchange err: %v", err)
	}

	got, err := svc.LoadTranscript(ctx, "u1")
	if err != nil {
		t.Fatalf("LoadTranscript err: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if got[0].Sender != chatmodel.SenderUser || got[1].Sender != chatmodel.SenderAssistant {
		t.Fatalf("unexpected sender order: %s, %s", got[0].Sender, got[1].Sender)
	}
	if got[1].Category != "support" {
		t.Fatalf("unexpected category: %s", got[1].Category)
	}
	if got[0].ID == "" || got[0].ID == got[1].ID {
		t.Fatalf("expected distinct message ids, got %q and %q", got[0].ID, got[1].ID)
	}
}

func TestServiceLoadTranscriptNotFound(t *testing.T) {
	svc := chat.NewService()

	if _, err := svc.LoadTranscript(context.Background(), "missing"); !errors.Is(err, chat.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestServiceSaveMessageRequiresUser(t *testing.T) {
	svc := chat.NewService()

	if _, err := svc.SaveMessage(context.Background(), chatmodel.Message{Content: "x"}); !errors.Is(err, chat.ErrUserRequired) {
		t.Fatalf("expected ErrUserRequired, got %v", err)
	}
}
