package dto

// Server-to-client frame types.
const (
	FrameTypeNotification = "notification"
	FrameTypeChatMessage  = "chat_message"
)

// NotificationFrame is pushed over the socket after a notification row is
// durably written.
type NotificationFrame struct {
	Type string                `json:"type"`
	Data *NotificationResponse `json:"data"`
}

func NewNotificationFrame(n *NotificationResponse) *NotificationFrame {
	return &NotificationFrame{Type: FrameTypeNotification, Data: n}
}

// ChatMessageFrame is pushed to the receiver of a relayed chat message.
type ChatMessageFrame struct {
	Type    string           `json:"type"`
	Message *MessageResponse `json:"message"`
}

func NewChatMessageFrame(m *MessageResponse) *ChatMessageFrame {
	return &ChatMessageFrame{Type: FrameTypeChatMessage, Message: m}
}
