package services

import (
	"context"
	"strings"
	"testing"
)

func TestMatchReply(t *testing.T) {
	tests := []struct {
		message  string
		wantPart string
	}{
		{"How do I book a property?", "minimum of 30 days"},
		{"I need to cancel", "cancel"},
		{"what does the deposit cost?", "one month's rent"},
		{"I want to list my apartment", "Add Property"},
		{"when will my place be approved?", "reviewed within one business day"},
		{"I forgot my password", "Forgot Password"},
		{"hello there", "Hello!"},
		{"asdfghjkl", "not sure"},
		// Keywords only match whole words, not substrings of other words
		{"what is this?", "not sure"},
		{"okay then", "not sure"},
		{"is my reservation confirmed", "minimum of 30 days"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got := MatchReply(tt.message)
			if !strings.Contains(got, tt.wantPart) {
				t.Errorf("MatchReply(%q) = %q, want it to contain %q", tt.message, got, tt.wantPart)
			}
		})
	}
}

func TestHandleMessageAssignsSession(t *testing.T) {
	svc := NewChatbotService(nil)

	reply, err := svc.HandleMessage(context.Background(), "", "hello")
	if err != nil {
		t.Fatalf("HandleMessage() = %v", err)
	}
	if reply.SessionID == "" {
		t.Error("expected a generated session id")
	}
	if reply.Reply == "" {
		t.Error("expected a reply")
	}

	// An existing session id is kept
	again, err := svc.HandleMessage(context.Background(), reply.SessionID, "hello again")
	if err != nil {
		t.Fatalf("HandleMessage() = %v", err)
	}
	if again.SessionID != reply.SessionID {
		t.Errorf("session id changed: %s -> %s", reply.SessionID, again.SessionID)
	}
}

func TestHandleMessageRejectsEmptyMessage(t *testing.T) {
	svc := NewChatbotService(nil)

	_, err := svc.HandleMessage(context.Background(), "", "   ")
	if err == nil {
		t.Fatal("HandleMessage() = nil, want error")
	}
	derr, ok := AsDomainError(err)
	if !ok || derr.Code != CodeValidation {
		t.Errorf("HandleMessage() error = %v, want %s", err, CodeValidation)
	}
}

func TestHistoryWithoutRedis(t *testing.T) {
	svc := NewChatbotService(nil)

	history, err := svc.History(context.Background(), "some-session")
	if err != nil {
		t.Fatalf("History() = %v", err)
	}
	if len(history) != 0 {
		t.Errorf("History() = %v, want empty", history)
	}
}
