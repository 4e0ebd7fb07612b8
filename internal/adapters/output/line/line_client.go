package line

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"jobmatch-assistant/internal/domain"

	"github.com/google/uuid"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/sirupsen/logrus"
)

// LINE messaging limits
const (
	maxMessagesPerRequest = 5
	maxTextRunes          = 5000
)

var errNoMessages = errors.New("no valid messages to send")

// messagingAPI is the part of the LINE SDK client the adapter uses
type messagingAPI interface {
	ReplyMessage(replyMessageRequest *messaging_api.ReplyMessageRequest) (*messaging_api.ReplyMessageResponse, error)
	PushMessage(pushMessageRequest *messaging_api.PushMessageRequest, xLineRetryKey string) (*messaging_api.PushMessageResponse, error)
}

// LineClientAdapter struct - Output adapter for LINE messaging platform
type LineClientAdapter struct {
	client messagingAPI
}

// NewLineClientAdapter func - Creates new LINE client adapter
func NewLineClientAdapter(channelToken string) (*LineClientAdapter, error) {
	client, err := messaging_api.NewMessagingApiAPI(channelToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create LINE messaging API client: %w", err)
	}

	return &LineClientAdapter{
		client: client,
	}, nil
}

// ReplyMessage - Sends reply messages to LINE user via reply token
func (a *LineClientAdapter) ReplyMessage(request domain.LineReplyMessageRequest) (*domain.LineMessageResponse, error) {
	messages, err := convertMessages(request.Messages)
	if err != nil {
		return nil, err
	}

	_, err = a.client.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: request.ReplyToken,
		Messages:   messages,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send reply message: %w", err)
	}

	logrus.Debugf("Sent reply message with token: %s", request.ReplyToken)

	return &domain.LineMessageResponse{
		Status:  "success",
		Message: "Reply message sent successfully",
	}, nil
}

// PushMessage - Sends push messages with a fresh retry key so LINE can de-duplicate resends
func (a *LineClientAdapter) PushMessage(request domain.LinePushMessageRequest) (*domain.LineMessageResponse, error) {
	messages, err := convertMessages(request.Messages)
	if err != nil {
		return nil, err
	}

	_, err = a.client.PushMessage(&messaging_api.PushMessageRequest{
		To:       request.To,
		Messages: messages,
	}, uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("failed to send push message: %w", err)
	}

	logrus.Infof("Sent push message to: %s", request.To)

	return &domain.LineMessageResponse{
		Status:  "success",
		Message: "Push message sent successfully",
	}, nil
}

func convertMessages(in []domain.LineOutgoingMessage) ([]messaging_api.MessageInterface, error) {
	messages := make([]messaging_api.MessageInterface, 0, len(in))
	for _, msg := range in {
		if len(messages) == maxMessagesPerRequest {
			logrus.Warnf("Dropping LINE messages beyond the first %d", maxMessagesPerRequest)
			break
		}
		lineMsg, err := convertToLineMessage(msg)
		if err != nil {
			logrus.Errorf("Failed to convert message: %v", err)
			continue
		}
		messages = append(messages, lineMsg)
	}

	if len(messages) == 0 {
		return nil, errNoMessages
	}
	return messages, nil
}

func convertToLineMessage(msg domain.LineOutgoingMessage) (messaging_api.MessageInterface, error) {
	switch msg.Type {
	case domain.LineMessageTypeText:
		if msg.Text == "" {
			return nil, errors.New("empty text message")
		}
		return &messaging_api.TextMessage{
			Text: truncateRunes(msg.Text, maxTextRunes),
		}, nil

	default:
		return nil, fmt.Errorf("unsupported message type: %s", msg.Type)
	}
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
