// Package assistant holds the scripted "AI" demos: a small-talk chatbot, a
// trivia host and a text analyzer. Replies come from fixed tables.
package assistant

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode/utf8"
)

const (
	// MaxMessages is how many transcript lines a conversation keeps.
	MaxMessages = 100
	// MaxMessageLength caps one user message, in characters.
	MaxMessageLength = 2000
)

var (
	ErrEmptyMessage   = errors.New("message is empty")
	ErrMessageTooLong = fmt.Errorf("message is longer than %d characters", MaxMessageLength)
)

// Responder produces a reply for one user message.
type Responder interface {
	Reply(input string) string
}

// Role is who wrote a message.
type Role string

const (
	User Role = "user"
	AI   Role = "ai"
)

// Message is one line of the transcript.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Conversation is a transcript with a responder. It is not safe for concurrent use.
type Conversation struct {
	responder Responder
	messages  []Message
}

// NewConversation starts an empty transcript.
func NewConversation(r Responder) *Conversation {
	return &Conversation{responder: r}
}

// Send records input and the reply to it. Only the newest MaxMessages
// lines are kept.
func (c *Conversation) Send(input string) (Message, error) {
	if strings.TrimSpace(input) == "" {
		return Message{}, ErrEmptyMessage
	}
	if utf8.RuneCountInString(input) > MaxMessageLength {
		return Message{}, ErrMessageTooLong
	}
	reply := Message{Role: AI, Content: c.responder.Reply(input)}
	c.messages = append(c.messages, Message{Role: User, Content: input}, reply)
	if over := len(c.messages) - MaxMessages; over > 0 {
		c.messages = append(c.messages[:0], c.messages[over:]...)
	}
	return reply, nil
}

// Reset clears the transcript.
func (c *Conversation) Reset() { c.messages = nil }

// Messages returns a copy of the transcript.
func (c *Conversation) Messages() []Message {
	return append([]Message(nil), c.messages...)
}

// Chatbot answers a few keywords and otherwise picks a canned reply.
type Chatbot struct {
	rng *rand.Rand
}

func NewChatbot(rng *rand.Rand) *Chatbot { return &Chatbot{rng: rng} }

var cannedReplies = []string{
	"That's an interesting question! Let me think about that...",
	"Based on my analysis, I would say that's quite fascinating!",
	"I understand what you're asking. Here's my perspective...",
	"Great question! The answer involves several factors...",
	"Let me help you with that. Consider this approach...",
}

func (b *Chatbot) Reply(input string) string {
	in := strings.ToLower(input)
	switch {
	case strings.Contains(in, "hello"):
		return "Hello! I'm your AI assistant. How can I help you today?"
	case strings.Contains(in, "how are you"):
		return "I'm functioning optimally! Ready to assist you with any questions."
	case strings.Contains(in, "weather"):
		return "I'd need access to weather APIs to provide real-time weather data. Currently showing demo responses."
	}
	return cannedReplies[b.rng.IntN(len(cannedReplies))]
}
