package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"taskboss/internal/model"
)

const attemptsPerModel = 2

// Provider is a remote text-completion backend addressed by model name.
// Implementations wrap ErrRateLimited for quota or throttling failures.
type Provider interface {
	Complete(ctx context.Context, modelName, prompt string) (string, error)
	CompleteChat(ctx context.Context, modelName, systemPrompt string, history []model.ConversationEntry, message string) (string, error)
}

// Client generates text through an ordered list of models, backing off on
// rate limits and falling back to the next model on any other failure.
type Client struct {
	provider Provider
	models   []string
	backoff  time.Duration
	logger   *zap.Logger
	sleep    func(ctx context.Context, d time.Duration) error
}

type Option func(*Client)

// WithBackoff sets the wait before retrying a rate-limited model.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) { c.backoff = d }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSleep replaces the backoff wait. Tests use it to observe delays.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Client) { c.sleep = sleep }
}

func NewClient(provider Provider, models []string, opts ...Option) (*Client, error) {
	if provider == nil {
		return nil, errors.New("provider is required")
	}
	if len(models) < 2 {
		return nil, fmt.Errorf("need a primary and a fallback model, got %d", len(models))
	}
	c := &Client{
		provider: provider,
		models:   append([]string(nil), models...),
		backoff:  30 * time.Second,
		logger:   zap.NewNop(),
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("ai")
	return c, nil
}

// Generate completes a single prompt.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	return c.run(ctx, func(ctx context.Context, modelName string) (string, error) {
		return c.provider.Complete(ctx, modelName, prompt)
	})
}

// GenerateChat continues a conversation with prior turns as context.
func (c *Client) GenerateChat(ctx context.Context, systemPrompt string, history []model.ConversationEntry, message string) (string, error) {
	return c.run(ctx, func(ctx context.Context, modelName string) (string, error) {
		return c.provider.CompleteChat(ctx, modelName, systemPrompt, history, message)
	})
}

func (c *Client) run(ctx context.Context, call func(ctx context.Context, modelName string) (string, error)) (string, error) {
	var failures []error
	for _, modelName := range c.models {
		for attempt := 1; attempt <= attemptsPerModel; attempt++ {
			text, err := call(ctx, modelName)
			if err == nil {
				if text = strings.TrimSpace(text); text != "" {
					return text, nil
				}
				err = ErrEmptyResponse
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", fmt.Errorf("generation cancelled: %w", ctxErr)
			}

			kind := classify(err)
			failures = append(failures, &GenerationError{Kind: kind, Model: modelName, Attempt: attempt, Err: err})
			c.logger.Warn("generation attempt failed",
				zap.String("model", modelName),
				zap.Int("attempt", attempt),
				zap.Bool("rate_limited", kind == ErrRateLimited),
				zap.Error(err))

			if kind != ErrRateLimited || attempt == attemptsPerModel {
				break
			}
			c.logger.Info("backing off before retry", zap.String("model", modelName), zap.Duration("delay", c.backoff))
			if err := c.sleep(ctx, c.backoff); err != nil {
				return "", fmt.Errorf("generation cancelled: %w", err)
			}
		}
	}
	c.logger.Error("all models failed", zap.Strings("models", c.models))
	return "", fmt.Errorf("%w: %w", ErrAllProvidersExhausted, errors.Join(failures...))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
