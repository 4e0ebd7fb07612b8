package application

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"jobmatch-assistant/internal/domain"
	"jobmatch-assistant/internal/ports/input"
	"jobmatch-assistant/internal/ports/output"

	"github.com/sirupsen/logrus"
)

const (
	lineHelpText = "Tell me what job you are looking for, e.g. " +
		"\"Data Analyst intern in the Bay Area, remote OK, at least $30/hr\".\n\n" +
		"Commands:\n/help - Show this message\n/about - About this bot\n" +
		"/prefs - Show what I know about your search\n/clear - Start a new search"
	lineAboutText   = "Job match assistant\nI collect your preferences over a few messages and rank matching roles."
	lineWelcomeText = "Welcome! I can help you find matching roles.\n\nType /help to see how to talk to me."
	lineClearedText = "Your search preferences have been cleared. What role are you looking for?"
	lineNonTextText = "I can only read text messages. Please describe the job you are looking for."
)

// LineWebhookService struct - Application service turning LINE messages into turns
type LineWebhookService struct {
	lineClient output.LineClient
	turns      input.TurnService
	sessions   input.SessionService
}

// NewLineWebhookService func - Creates new LINE webhook service
func NewLineWebhookService(lineClient output.LineClient, turns input.TurnService, sessions input.SessionService) *LineWebhookService {
	return &LineWebhookService{
		lineClient: lineClient,
		turns:      turns,
		sessions:   sessions,
	}
}

// HandleWebhook func - Use case: Handle incoming webhook events from LINE
func (s *LineWebhookService) HandleWebhook(ctx context.Context, request domain.LineWebhookRequest) error {
	for _, event := range request.Events {
		logrus.Infof("Received LINE event: type=%s, source=%s, userID=%s",
			event.Type, event.Source.Type, event.Source.UserID)

		switch event.Type {
		case domain.LineEventTypeMessage:
			if err := s.handleMessageEvent(ctx, event); err != nil {
				logrus.Errorf("Failed to handle message event: %v", err)
				return err
			}

		case domain.LineEventTypeFollow:
			if err := s.handleFollowEvent(event); err != nil {
				logrus.Errorf("Failed to handle follow event: %v", err)
				return err
			}

		case domain.LineEventTypeUnfollow:
			s.handleUnfollowEvent(ctx, event)

		default:
			logrus.Infof("Unhandled event type: %s", event.Type)
		}
	}

	return nil
}

// handleMessageEvent - routes commands and free text
func (s *LineWebhookService) handleMessageEvent(ctx context.Context, event domain.LineWebhookEvent) error {
	if event.Message == nil {
		return nil
	}

	var reply string
	if event.Message.Type != domain.LineMessageTypeText {
		reply = lineNonTextText
	} else {
		text := strings.TrimSpace(event.Message.Text)
		switch {
		case text == "":
			return nil
		case strings.HasPrefix(text, "/"):
			reply = s.handleCommand(ctx, text, event.SessionKey())
		default:
			reply = s.turns.ProcessTurn(ctx, event.SessionKey(), text).AssistantReply
		}
	}

	if event.ReplyToken == "" {
		return nil
	}

	replyReq := domain.LineReplyMessageRequest{
		ReplyToken: event.ReplyToken,
		Messages:   []domain.LineOutgoingMessage{domain.LineTextMessage(reply)},
	}
	if _, err := s.lineClient.ReplyMessage(replyReq); err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}

	return nil
}

// handleCommand - Business logic for command processing
func (s *LineWebhookService) handleCommand(ctx context.Context, text, sessionKey string) string {
	parts := strings.Fields(text)
	command := strings.ToLower(parts[0])

	switch command {
	case "/help":
		return lineHelpText

	case "/about":
		return lineAboutText

	case "/clear":
		if err := s.sessions.ResetSession(ctx, sessionKey); err != nil {
			logrus.Errorf("Failed to reset session %s: %v", sessionKey, err)
			return domain.FailedTurnReply
		}
		return lineClearedText

	case "/prefs":
		pref, err := s.sessions.GetPreference(ctx, sessionKey)
		if err != nil {
			logrus.Errorf("Failed to read session %s: %v", sessionKey, err)
			return domain.FailedTurnReply
		}
		return DescribePreference(pref)

	default:
		return fmt.Sprintf("Unknown command: %s\nType /help for available commands", command)
	}
}

// handleFollowEvent - Business logic for follow events
func (s *LineWebhookService) handleFollowEvent(event domain.LineWebhookEvent) error {
	logrus.Infof("User followed: userID=%s", event.Source.UserID)

	welcomeMsg := domain.LinePushMessageRequest{
		To:       event.Source.UserID,
		Messages: []domain.LineOutgoingMessage{domain.LineTextMessage(lineWelcomeText)},
	}

	if _, err := s.lineClient.PushMessage(welcomeMsg); err != nil {
		return fmt.Errorf("failed to send welcome message: %w", err)
	}

	return nil
}

// handleUnfollowEvent - forgets the user's session
func (s *LineWebhookService) handleUnfollowEvent(ctx context.Context, event domain.LineWebhookEvent) {
	logrus.Infof("User unfollowed: userID=%s", event.Source.UserID)
	if err := s.sessions.ResetSession(ctx, event.SessionKey()); err != nil {
		logrus.Warnf("Failed to reset session of unfollowed user %s: %v", event.Source.UserID, err)
	}
}

// DescribePreference renders a preference as one "field: value" line per field
func DescribePreference(p domain.Preference) string {
	str := func(v *string) string {
		if v == nil || strings.TrimSpace(*v) == "" {
			return "-"
		}
		return *v
	}
	num := func(v *int) string {
		if v == nil {
			return "-"
		}
		return strconv.Itoa(*v)
	}
	remote := "-"
	if p.Remote != nil {
		remote = strconv.FormatBool(*p.Remote)
	}
	unit := string(p.SalaryUnit)
	if unit == "" {
		unit = "-"
	}
	employment := string(p.EmploymentType)
	if employment == "" {
		employment = "-"
	}
	skills := "-"
	if len(p.Skills) > 0 {
		skills = strings.Join(p.Skills, ", ")
	}

	lines := []string{
		"Your current search:",
		"role: " + str(p.Role),
		"location: " + str(p.Location),
		"salary: " + num(p.SalaryMin) + " to " + num(p.SalaryMax) + " per " + unit,
		"employment type: " + employment,
		"domain: " + str(p.Domain),
		"seniority: " + str(p.Seniority),
		"remote: " + remote,
		"skills: " + skills,
	}
	return strings.Join(lines, "\n")
}
