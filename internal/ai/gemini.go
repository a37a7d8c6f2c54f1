package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"taskboss/internal/model"
)

// GeminiProvider implements Provider on the Gemini API.
type GeminiProvider struct {
	client *genai.Client
}

func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiProvider{client: client}, nil
}

func (p *GeminiProvider) Complete(ctx context.Context, modelName, prompt string) (string, error) {
	resp, err := p.client.Models.GenerateContent(ctx, modelName, genai.Text(prompt), nil)
	if err != nil {
		return "", wrapGeminiError(modelName, err)
	}
	return responseText(modelName, resp)
}

func (p *GeminiProvider) CompleteChat(ctx context.Context, modelName, systemPrompt string, history []model.ConversationEntry, message string) (string, error) {
	contents := make([]*genai.Content, 0, 2*len(history)+1)
	for _, turn := range history {
		contents = append(contents,
			genai.NewContentFromText(turn.UserMessage, genai.RoleUser),
			genai.NewContentFromText(turn.Reply, genai.RoleModel),
		)
	}
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

	var cfg *genai.GenerateContentConfig
	if strings.TrimSpace(systemPrompt) != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		}
	}

	resp, err := p.client.Models.GenerateContent(ctx, modelName, contents, cfg)
	if err != nil {
		return "", wrapGeminiError(modelName, err)
	}
	return responseText(modelName, resp)
}

func responseText(modelName string, resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: gemini %s: %w", ErrProvider, modelName, ErrEmptyResponse)
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: gemini %s: blocked by safety filters", ErrProvider, modelName)
	}
	return resp.Text(), nil
}

// wrapGeminiError tags err with ErrRateLimited or ErrProvider. The API's
// structured status is authoritative; the message heuristic only applies to
// errors that carry none.
func wrapGeminiError(modelName string, err error) error {
	if code, status, ok := apiErrorStatus(err); ok {
		if code == http.StatusTooManyRequests || status == "RESOURCE_EXHAUSTED" {
			return fmt.Errorf("%w: gemini %s: %w", ErrRateLimited, modelName, err)
		}
		return fmt.Errorf("%w: gemini %s: %w", ErrProvider, modelName, err)
	}
	if looksRateLimited(err.Error()) {
		return fmt.Errorf("%w: gemini %s: %w", ErrRateLimited, modelName, err)
	}
	return fmt.Errorf("%w: gemini %s: %w", ErrProvider, modelName, err)
}

func apiErrorStatus(err error) (int, string, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, apiErr.Status, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, apiErrPtr.Status, true
	}
	return 0, "", false
}

var rateLimitMarkers = []string{"429", "quota", "exhaust", "rate limit", "ratelimit", "throttl", "too many requests"}

func looksRateLimited(msg string) bool {
	lower := strings.ToLower(msg)
	for _, marker := range rateLimitMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
