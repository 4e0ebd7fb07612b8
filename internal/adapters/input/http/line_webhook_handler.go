package http

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"jobmatch-assistant/internal/domain"
	"jobmatch-assistant/internal/ports/input"

	"github.com/gofiber/fiber/v2"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"github.com/sirupsen/logrus"
)

// LineWebhookHandler struct - Primary/Driving adapter for LINE webhook
type LineWebhookHandler struct {
	service       input.LineWebhookService
	channelSecret string
}

// NewLineWebhookHandler func - Creates new LINE webhook handler
func NewLineWebhookHandler(service input.LineWebhookService, channelSecret string) *LineWebhookHandler {
	return &LineWebhookHandler{
		service:       service,
		channelSecret: channelSecret,
	}
}

// HandleWebhook func - Handles incoming LINE webhook requests
// @Summary LINE Webhook
// @Description Handles webhook events from LINE Messaging API
// @Tags LINE
// @Accept application/json
// @Produce json
// @Success 200 {object} ResponseBody
// @Failure 400 {object} ResponseBody
// @Failure 401 {object} ResponseBody
// @Router /webhook/line [post]
func (h *LineWebhookHandler) HandleWebhook(c *fiber.Ctx) error {
	// The LINE SDK verifies signatures on a net/http request
	httpReq, err := http.NewRequestWithContext(c.UserContext(), http.MethodPost, "/webhook/line", bytes.NewReader(c.Body()))
	if err != nil {
		logrus.Errorf("Failed to create http request: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
	}
	c.Request().Header.VisitAll(func(key, value []byte) {
		httpReq.Header.Set(string(key), string(value))
	})

	cb, err := webhook.ParseRequest(h.channelSecret, httpReq)
	if err != nil {
		logrus.Warnf("Failed to parse webhook request: %v", err)
		if errors.Is(err, webhook.ErrInvalidSignature) {
			return c.Status(fiber.StatusUnauthorized).JSON(ResponseBody{Status: Unauthorized})
		}
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}

	domainEvents := make([]domain.LineWebhookEvent, 0, len(cb.Events))
	for _, event := range cb.Events {
		if domainEvent := convertToDomainEvent(event); domainEvent != nil {
			domainEvents = append(domainEvents, *domainEvent)
		}
	}

	if err := h.service.HandleWebhook(c.UserContext(), domain.LineWebhookRequest{Events: domainEvents}); err != nil {
		logrus.Errorf("Failed to handle webhook: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
	}

	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success})
}

// convertToDomainEvent - Converts LINE SDK event to domain event
func convertToDomainEvent(event webhook.EventInterface) *domain.LineWebhookEvent {
	switch e := event.(type) {
	case webhook.MessageEvent:
		return convertMessageEvent(e)
	case webhook.FollowEvent:
		return &domain.LineWebhookEvent{
			ID:         e.WebhookEventId,
			Type:       domain.LineEventTypeFollow,
			Timestamp:  time.UnixMilli(e.Timestamp),
			ReplyToken: e.ReplyToken,
			Source:     convertSource(e.Source),
		}
	case webhook.UnfollowEvent:
		return &domain.LineWebhookEvent{
			ID:        e.WebhookEventId,
			Type:      domain.LineEventTypeUnfollow,
			Timestamp: time.UnixMilli(e.Timestamp),
			Source:    convertSource(e.Source),
		}
	default:
		logrus.Debugf("Ignoring LINE event type: %T", event)
		return nil
	}
}

func convertMessageEvent(event webhook.MessageEvent) *domain.LineWebhookEvent {
	domainEvent := &domain.LineWebhookEvent{
		ID:         event.WebhookEventId,
		Type:       domain.LineEventTypeMessage,
		Timestamp:  time.UnixMilli(event.Timestamp),
		ReplyToken: event.ReplyToken,
		Source:     convertSource(event.Source),
	}

	switch msg := event.Message.(type) {
	case webhook.TextMessageContent:
		domainEvent.Message = &domain.LineMessage{ID: msg.Id, Type: domain.LineMessageTypeText, Text: msg.Text}
	case webhook.StickerMessageContent:
		domainEvent.Message = &domain.LineMessage{ID: msg.Id, Type: domain.LineMessageTypeSticker}
	case webhook.ImageMessageContent:
		domainEvent.Message = &domain.LineMessage{ID: msg.Id, Type: domain.LineMessageTypeImage}
	default:
		logrus.Warnf("Unsupported message type: %T", msg)
		return nil
	}

	return domainEvent
}

func convertSource(source webhook.SourceInterface) domain.LineSource {
	switch s := source.(type) {
	case webhook.UserSource:
		return domain.LineSource{Type: domain.LineSourceTypeUser, UserID: s.UserId}
	case webhook.GroupSource:
		return domain.LineSource{Type: domain.LineSourceTypeGroup, UserID: s.UserId, GroupID: s.GroupId}
	case webhook.RoomSource:
		return domain.LineSource{Type: domain.LineSourceTypeRoom, UserID: s.UserId, RoomID: s.RoomId}
	default:
		return domain.LineSource{}
	}
}
