package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"taskboss/internal/model"
)

const fallbackTitleRunes = 40

// Generator is the single-prompt half of Client.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Classification is what intake needs to create a task from free text.
type Classification struct {
	Category   model.Category
	ShortTitle string
	DueAt      *time.Time
}

// Classifier turns the owner's free text into a Classification.
type Classifier struct {
	gen Generator
}

func NewClassifier(gen Generator) *Classifier {
	return &Classifier{gen: gen}
}

type classifierResponse struct {
	Category   string  `json:"category"`
	ShortTitle string  `json:"short_title"`
	DueHint    *string `json:"due_hint"`
}

var fencePattern = regexp.MustCompile("```(?:json)?")

// Classify always returns a usable Classification. A non-nil error means the
// result is the fallback: category other, truncated text, no deadline.
func (c *Classifier) Classify(ctx context.Context, text string, now time.Time) (Classification, error) {
	fallback := Classification{Category: model.CategoryOther, ShortTitle: truncateRunes(strings.TrimSpace(text), fallbackTitleRunes)}

	raw, err := c.gen.Generate(ctx, buildClassifierPrompt(text, now.Format("2006-01-02")))
	if err != nil {
		return fallback, fmt.Errorf("classify task: %w", err)
	}
	result, err := parseClassification(raw, now.Location())
	if err != nil {
		return fallback, err
	}
	if result.ShortTitle == "" {
		result.ShortTitle = fallback.ShortTitle
	}
	return result, nil
}

func parseClassification(raw string, loc *time.Location) (Classification, error) {
	clean := strings.TrimSpace(fencePattern.ReplaceAllString(raw, ""))
	var resp classifierResponse
	if err := json.Unmarshal([]byte(clean), &resp); err != nil {
		return Classification{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	out := Classification{
		Category:   model.ParseCategory(resp.Category),
		ShortTitle: strings.TrimSpace(resp.ShortTitle),
	}
	if resp.DueHint != nil {
		if due, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(*resp.DueHint), loc); err == nil {
			out.DueAt = &due
		}
	}
	return out, nil
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
