package services

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	chatSessionTTL    = 24 * time.Hour
	chatHistoryLimit  = 50
	chatSessionPrefix = "chatbot:session:"
)

// ChatMessage is one turn of a chatbot conversation
type ChatMessage struct {
	Role      string    `json:"role"` // "user" or "bot"
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatReply is the response to one chatbot message
type ChatReply struct {
	SessionID string `json:"sessionId"`
	Reply     string `json:"reply"`
}

// chatRule pairs trigger keywords with a canned answer. First match wins.
type chatRule struct {
	keywords []string
	reply    string
}

var chatRules = []chatRule{
	{
		keywords: []string{"book", "booking", "reserve", "reservation", "rent a"},
		reply: "To book a property, open its detail page and pick your check-in and check-out dates. " +
			"Rentals run for a minimum of 30 days and the deposit equals one month's rent. " +
			"The owner will confirm or decline your request and you'll be notified by email.",
	},
	{
		keywords: []string{"cancel", "cancellation"},
		reply: "You can cancel a booking while it is still pending from the My Bookings page. " +
			"Once the owner confirms, contact them directly to arrange a cancellation.",
	},
	{
		keywords: []string{"price", "cost", "deposit", "payment", "pay"},
		reply: "Rent is charged per 30-day month and any partial month is billed in full. " +
			"The deposit equals one month's rent and is due when the owner confirms your booking.",
	},
	{
		keywords: []string{"list", "sell", "post my", "add my", "upload"},
		reply: "To list a property, sign in and use the Add Property form. " +
			"New listings are reviewed by our team and go live once approved.",
	},
	{
		keywords: []string{"approve", "approved", "approval", "review", "pending"},
		reply: "Listings are reviewed within one business day. " +
			"You'll see the approval status on your dashboard and we'll email you if a listing is rejected.",
	},
	{
		keywords: []string{"agent", "broker"},
		reply:    "You can browse our partner agents on the Agents page and reach out to them directly for viewings and advice.",
	},
	{
		keywords: []string{"password", "login", "sign in", "account"},
		reply: "If you can't sign in, use the Forgot Password link on the login page. " +
			"We'll email you a reset code that is valid for 15 minutes.",
	},
	{
		keywords: []string{"contact", "support", "help", "human"},
		reply:    "You can reach our support team through the Contact page and we'll get back to you by email.",
	},
	{
		keywords: []string{"hello", "hi", "hey"},
		reply:    "Hello! I can help with bookings, listings, pricing, and account questions. What would you like to know?",
	},
}

const chatFallbackReply = "I'm not sure about that one. I can help with bookings, listing a property, " +
	"pricing, and account questions, or you can reach our team via the Contact page."

// ChatbotService answers scripted questions and keeps per-session history in
// redis. A nil redis client disables history but keeps the bot answering.
type ChatbotService struct {
	redis *redis.Client
}

// NewChatbotService creates a chatbot service
func NewChatbotService(rdb *redis.Client) *ChatbotService {
	return &ChatbotService{redis: rdb}
}

var chatWordSplit = regexp.MustCompile(`[^a-z0-9']+`)

// MatchReply resolves a message to a scripted answer. Keywords match whole
// words so "hi" does not fire inside "this" or "pay" inside "okay".
func MatchReply(message string) string {
	words := chatWordSplit.Split(strings.ToLower(message), -1)
	normalized := " " + strings.Join(words, " ") + " "
	for _, rule := range chatRules {
		for _, kw := range rule.keywords {
			if strings.Contains(normalized, " "+kw+" ") {
				return rule.reply
			}
		}
	}
	return chatFallbackReply
}

// HandleMessage answers one message, creating a session when sessionID is
// empty, and appends both turns to the session history.
func (s *ChatbotService) HandleMessage(ctx context.Context, sessionID, message string) (*ChatReply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, newDomainError(CodeValidation, "Message is required")
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	reply := MatchReply(message)
	now := time.Now()

	s.appendHistory(ctx, sessionID,
		ChatMessage{Role: "user", Text: message, Timestamp: now},
		ChatMessage{Role: "bot", Text: reply, Timestamp: now},
	)

	return &ChatReply{SessionID: sessionID, Reply: reply}, nil
}

// History returns the stored conversation for a session, oldest first
func (s *ChatbotService) History(ctx context.Context, sessionID string) ([]ChatMessage, error) {
	if s.redis == nil {
		return []ChatMessage{}, nil
	}

	raw, err := s.redis.LRange(ctx, chatSessionPrefix+sessionID, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	messages := make([]ChatMessage, 0, len(raw))
	for _, item := range raw {
		var msg ChatMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (s *ChatbotService) appendHistory(ctx context.Context, sessionID string, messages ...ChatMessage) {
	if s.redis == nil {
		return
	}

	key := chatSessionPrefix + sessionID
	pipe := s.redis.Pipeline()
	for _, msg := range messages {
		data, err := json.Marshal(msg)
		if err != nil {
			continue
		}
		pipe.RPush(ctx, key, data)
	}
	pipe.LTrim(ctx, key, -chatHistoryLimit, -1)
	pipe.Expire(ctx, key, chatSessionTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		// History is best effort; the reply still goes out.
		return
	}
}
