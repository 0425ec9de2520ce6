// Package model defines the core domain models used throughout the application.
package model

// Role identifies which side of the conversation produced a message.
type Role string

// Message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MessageType discriminates the two assistant message variants.
type MessageType string

// Assistant message types.
const (
	TypeQuestion MessageType = "question"
	TypeResult   MessageType = "result"
)

// Message is one entry in a conversation thread. User messages carry only
// Content; assistant messages carry either a clarifying Question or a ranked
// Results slice with optional Analysis, selected by Type.
type Message struct {
	Role     Role
	Type     MessageType
	Content  string
	Question string
	Analysis string
	Results  []ClassificationResult
}

// NewUserMessage creates the locally-appended message for a user turn.
func NewUserMessage(content string) Message {
	return Message{
		Role:    RoleUser,
		Content: content,
	}
}

// NewQuestionMessage creates an assistant message asking for clarification.
func NewQuestionMessage(question string) Message {
	return Message{
		Role:     RoleAssistant,
		Type:     TypeQuestion,
		Question: question,
	}
}

// NewResultMessage creates an assistant message carrying ranked candidates.
// The slice order is the backend's ranking and must be preserved as-is.
func NewResultMessage(results []ClassificationResult, analysis string) Message {
	return Message{
		Role:     RoleAssistant,
		Type:     TypeResult,
		Results:  results,
		Analysis: analysis,
	}
}

// IsUser reports whether the message was authored by the user.
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}
