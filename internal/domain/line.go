package domain

import "time"

// LineEventType represents the type of webhook event from LINE
type LineEventType string

const (
	// LineEventTypeMessage - Message event
	LineEventTypeMessage LineEventType = "message"
	// LineEventTypeFollow - Follow event
	LineEventTypeFollow LineEventType = "follow"
	// LineEventTypeUnfollow - Unfollow event
	LineEventTypeUnfollow LineEventType = "unfollow"
)

// LineMessageType represents the type of message
type LineMessageType string

const (
	// LineMessageTypeText - Text message
	LineMessageTypeText LineMessageType = "text"
	// LineMessageTypeImage - Image message
	LineMessageTypeImage LineMessageType = "image"
	// LineMessageTypeSticker - Sticker message
	LineMessageTypeSticker LineMessageType = "sticker"
)

// LineSourceType represents the source type of the event
type LineSourceType string

const (
	// LineSourceTypeUser - User source
	LineSourceTypeUser LineSourceType = "user"
	// LineSourceTypeGroup - Group source
	LineSourceTypeGroup LineSourceType = "group"
	// LineSourceTypeRoom - Room source
	LineSourceTypeRoom LineSourceType = "room"
)

// LineWebhookEvent represents a LINE webhook event
type LineWebhookEvent struct {
	ID         string
	Type       LineEventType
	Timestamp  time.Time
	Source     LineSource
	ReplyToken string
	Message    *LineMessage
}

// SessionKey is the preference-store key for the conversation the event belongs to.
// Group and room conversations share one session per group or room.
func (e LineWebhookEvent) SessionKey() string {
	switch e.Source.Type {
	case LineSourceTypeGroup:
		return "line:group:" + e.Source.GroupID
	case LineSourceTypeRoom:
		return "line:room:" + e.Source.RoomID
	default:
		return "line:user:" + e.Source.UserID
	}
}

// LineSource represents the source of the event
type LineSource struct {
	Type    LineSourceType
	UserID  string
	GroupID string
	RoomID  string
}

// LineMessage represents a message from LINE
type LineMessage struct {
	ID   string
	Type LineMessageType
	Text string
}

type (
	// LineWebhookRequest - batch of events delivered by one webhook call
	LineWebhookRequest struct {
		Events []LineWebhookEvent
	}

	// LineReplyMessageRequest - reply through a reply token
	LineReplyMessageRequest struct {
		ReplyToken string
		Messages   []LineOutgoingMessage
	}

	// LinePushMessageRequest - push to a user, group or room id
	LinePushMessageRequest struct {
		To       string
		Messages []LineOutgoingMessage
	}

	// LineOutgoingMessage - message sent to LINE
	LineOutgoingMessage struct {
		Type LineMessageType
		Text string
	}

	// LineMessageResponse - outcome of a send
	LineMessageResponse struct {
		Status  string
		Message string
	}
)

// LineTextMessage builds a single text message
func LineTextMessage(text string) LineOutgoingMessage {
	return LineOutgoingMessage{Type: LineMessageTypeText, Text: text}
}
