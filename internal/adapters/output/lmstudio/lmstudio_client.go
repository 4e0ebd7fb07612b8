package lmstudio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"jobmatch-assistant/configs"
	"jobmatch-assistant/internal/domain"
	"jobmatch-assistant/internal/ports/output"

	"github.com/sirupsen/logrus"
)

var _ output.LMStudioClient = (*LMStudioClientAdapter)(nil)

const (
	defaultBaseURL = "http://localhost:1234"
	defaultTimeout = 60 * time.Second

	generateSystemPrompt = "You are a precise information extraction engine. Answer with JSON only."
)

// RetryPolicy controls retries of transient failures
type RetryPolicy struct {
	Attempts     int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// DefaultRetryPolicy keeps a turn responsive while riding out a model reload
var DefaultRetryPolicy = RetryPolicy{
	Attempts:     3,
	InitialDelay: 500 * time.Millisecond,
	MaxDelay:     5 * time.Second,
}

const backoffMultiplier = 2

// LMStudioClientAdapter struct - Output adapter for LM Studio's OpenAI-compatible API
type LMStudioClientAdapter struct {
	httpClient  *http.Client
	baseURL     string
	configModel string
	timeout     time.Duration
	retry       RetryPolicy

	cachedModel string
	modelMu     sync.RWMutex
}

// Option customizes the adapter
type Option func(*LMStudioClientAdapter)

// WithRetryPolicy replaces the retry policy
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(a *LMStudioClientAdapter) {
		if policy.Attempts > 0 {
			a.retry = policy
		}
	}
}

// NewLMStudioClientAdapter func - Creates new LM Studio client adapter
func NewLMStudioClientAdapter(config configs.LMStudio, opts ...Option) (*LMStudioClientAdapter, error) {
	baseURL := strings.TrimSuffix(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := time.Duration(config.Timeout) * time.Second
	if config.Timeout <= 0 {
		timeout = defaultTimeout
	}

	adapter := &LMStudioClientAdapter{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL:     baseURL,
		configModel: config.Model,
		timeout:     timeout,
		retry:       DefaultRetryPolicy,
	}
	for _, opt := range opts {
		opt(adapter)
	}

	logrus.Infof("LM Studio client adapter initialized with base URL: %s, timeout: %v", baseURL, timeout)

	return adapter, nil
}

// retryWithBackoff executes an operation with exponential backoff retry logic
func (a *LMStudioClientAdapter) retryWithBackoff(ctx context.Context, operation func() (*http.Response, error)) (*http.Response, error) {
	var lastErr error
	delay := a.retry.InitialDelay

	for attempt := 1; attempt <= a.retry.Attempts; attempt++ {
		resp, err := operation()

		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, contextError(ctx)
			}
			if !isTransientError(err) {
				return nil, err
			}
			lastErr = err
			logrus.Warnf("LM Studio request attempt %d/%d failed with error: %v, retrying in %v", attempt, a.retry.Attempts, err, delay)

		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return resp, nil

		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return nil, fmt.Errorf("%w: status %d - %s", domain.ErrInvalidRequest, resp.StatusCode, string(body))

		default:
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			lastErr = fmt.Errorf("server error: status %d - %s", resp.StatusCode, string(body))
			logrus.Warnf("LM Studio request attempt %d/%d failed with status %d, retrying in %v", attempt, a.retry.Attempts, resp.StatusCode, delay)
		}

		if attempt < a.retry.Attempts {
			select {
			case <-ctx.Done():
				return nil, contextError(ctx)
			case <-time.After(delay):
			}

			delay *= backoffMultiplier
			if delay > a.retry.MaxDelay {
				delay = a.retry.MaxDelay
			}
		}
	}

	return nil, fmt.Errorf("%w: %v after %d attempts", domain.ErrLMStudioUnavailable, lastErr, a.retry.Attempts)
}

func contextError(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrLMStudioTimeout, ctx.Err())
	}
	return fmt.Errorf("context cancelled: %w", ctx.Err())
}

// isTransientError reports network failures worth retrying
func isTransientError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{"connection refused", "connection reset", "no such host", "network is unreachable"} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// ListModels queries the /v1/models endpoint to retrieve available models from LM Studio
func (a *LMStudioClientAdapter) ListModels(ctx context.Context) ([]domain.ModelInfo, error) {
	url := fmt.Sprintf("%s/v1/models", a.baseURL)

	resp, err := a.retryWithBackoff(ctx, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		return a.httpClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	defer resp.Body.Close()

	var modelsResp modelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&modelsResp); err != nil {
		return nil, fmt.Errorf("failed to parse models response: %w", err)
	}

	models := make([]domain.ModelInfo, len(modelsResp.Data))
	for i, m := range modelsResp.Data {
		models[i] = domain.ModelInfo{
			ID:      m.ID,
			Object:  m.Object,
			OwnedBy: m.OwnedBy,
		}
	}

	logrus.Debugf("Listed %d models from LM Studio", len(models))

	return models, nil
}

// getModel returns the configured model, or the first served model, cached after the first call
func (a *LMStudioClientAdapter) getModel(ctx context.Context) (string, error) {
	a.modelMu.RLock()
	if a.cachedModel != "" {
		model := a.cachedModel
		a.modelMu.RUnlock()
		return model, nil
	}
	a.modelMu.RUnlock()

	a.modelMu.Lock()
	defer a.modelMu.Unlock()

	if a.cachedModel != "" {
		return a.cachedModel, nil
	}

	if a.configModel != "" {
		a.cachedModel = a.configModel
		logrus.Infof("Using configured LM Studio model: %s", a.cachedModel)
		return a.cachedModel, nil
	}

	models, err := a.ListModels(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get models for selection: %w", err)
	}
	if len(models) == 0 {
		return "", fmt.Errorf("%w: no models available in LM Studio", domain.ErrLMStudioUnavailable)
	}

	a.cachedModel = models[0].ID
	logrus.Infof("Selected first available model: %s", a.cachedModel)

	return a.cachedModel, nil
}

// ChatCompletion sends a non-streaming chat completion request to LM Studio
func (a *LMStudioClientAdapter) ChatCompletion(ctx context.Context, request domain.ChatCompletionRequest) (*domain.ChatCompletionResponse, error) {
	model, err := a.getModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get model: %w", err)
	}
	if request.Model != nil && *request.Model != "" {
		model = *request.Model
	}

	reqBody := chatCompletionAPIRequest{
		Model:       model,
		Messages:    make([]chatMessageAPI, len(request.Messages)),
		Stream:      false,
		Temperature: request.Temperature,
	}
	for i, msg := range request.Messages {
		reqBody.Messages[i] = chatMessageAPI{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/chat/completions", a.baseURL)

	resp, err := a.retryWithBackoff(ctx, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return a.httpClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send chat completion request: %w", err)
	}
	defer resp.Body.Close()

	var apiResp chatCompletionAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to parse chat completion response: %w", err)
	}
	if len(apiResp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", domain.ErrEmptyCompletion)
	}

	response := &domain.ChatCompletionResponse{
		Content:          apiResp.Choices[0].Message.Content,
		Model:            apiResp.Model,
		PromptTokens:     apiResp.Usage.PromptTokens,
		CompletionTokens: apiResp.Usage.CompletionTokens,
		TotalTokens:      apiResp.Usage.TotalTokens,
	}

	logrus.Debugf("Chat completion successful, model: %s, tokens: %d", response.Model, response.TotalTokens)

	return response, nil
}

// Generate sends one user prompt with a deterministic temperature
func (a *LMStudioClientAdapter) Generate(ctx context.Context, prompt string) (string, error) {
	temperature := 0.0
	resp, err := a.ChatCompletion(ctx, domain.ChatCompletionRequest{
		Messages: []domain.ChatMessage{
			{Role: domain.ChatMessageRoleSystem, Content: generateSystemPrompt},
			{Role: domain.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: &temperature,
	})
	if err != nil {
		return "", err
	}

	content := strings.TrimSpace(resp.Content)
	if content == "" {
		return "", domain.ErrEmptyCompletion
	}
	return content, nil
}

// API request/response structures for LM Studio's OpenAI-compatible API

type chatMessageAPI struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionAPIRequest struct {
	Model       string           `json:"model"`
	Messages    []chatMessageAPI `json:"messages"`
	Stream      bool             `json:"stream"`
	Temperature *float64         `json:"temperature,omitempty"`
}

type chatChoiceAPI struct {
	Index        int            `json:"index"`
	Message      chatMessageAPI `json:"message"`
	FinishReason string         `json:"finish_reason"`
}

type usageAPI struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type chatCompletionAPIResponse struct {
	ID      string          `json:"id"`
	Object  string          `json:"object"`
	Created int64           `json:"created"`
	Model   string          `json:"model"`
	Choices []chatChoiceAPI `json:"choices"`
	Usage   usageAPI        `json:"usage"`
}

type modelAPI struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	OwnedBy string `json:"owned_by"`
}

type modelsResponse struct {
	Object string     `json:"object"`
	Data   []modelAPI `json:"data"`
}
