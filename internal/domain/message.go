package domain

import "strings"

// Message roles understood by the completion endpoint.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one entry of a role-tagged conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SystemMessage returns a system message, or false if prompt is blank.
func SystemMessage(prompt string) (ChatMessage, bool) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return ChatMessage{}, false
	}
	return ChatMessage{Role: RoleSystem, Content: prompt}, true
}
