package tools

import (
	"context"
	"fmt"

	"github.com/supalytic/supagent/store"
)

// NoConversationHistory is the sentinel returned when no row exists for the
// requested conversation.
const NoConversationHistory = "No conversation history found."

// NewConversationMemory builds the conversation_memory tool. Persistence is
// delegated entirely to the conversation store; nothing is cached locally.
func NewConversationMemory(conversations store.ConversationStore) *Tool {
	return New("conversation_memory").
		Description("Save or retrieve conversation history by conversation ID. "+
			"Use 'save' to persist a message, 'retrieve' to read it back later.").
		Schema(ObjectSchema(map[string]interface{}{
			"action":          StringEnumProperty("Memory action to perform", "save", "retrieve"),
			"conversation_id": StringProperty("Identifier of the conversation"),
			"message":         StringProperty("Message content to save (save only)"),
		}, "action", "conversation_id")).
		Handler(func(ctx context.Context, args map[string]interface{}) string {
			action, _ := stringArg(args, "action")
			conversationID, _ := stringArg(args, "conversation_id")
			if conversationID == "" {
				return "Error: 'conversation_id' must be a non-empty string."
			}

			switch action {
			case "save":
				message, ok := stringArg(args, "message")
				if !ok || message == "" {
					return "Error: 'message' is required for the save action."
				}
				if err := conversations.SaveConversation(ctx, conversationID, message); err != nil {
					return fmt.Sprintf("Error saving conversation: %v", err)
				}
				return fmt.Sprintf("Conversation %s saved.", conversationID)

			case "retrieve":
				message, found, err := conversations.GetConversation(ctx, conversationID)
				if err != nil {
					return fmt.Sprintf("Error retrieving conversation: %v", err)
				}
				if !found {
					return NoConversationHistory
				}
				return message

			default:
				return fmt.Sprintf("Error: unsupported action %q. Supported: save, retrieve.", action)
			}
		})
}
