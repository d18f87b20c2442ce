package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/astramesh/chalice/internal/models"
	"github.com/sirupsen/logrus"
)

// maxPromptItems caps how many items are embedded in the prompt, to stay
// within the model's token limits. This is a hard cap, not configurable.
const maxPromptItems = 10

const maxTokens = 1024

// Service generates natural-language summaries of aggregated content via
// the Anthropic Messages API. Without an API key the service is disabled
// and Summarize returns an empty summary.
type Service struct {
	client  anthropic.Client
	model   anthropic.Model
	enabled bool
}

// NewService creates a new summary service. Extra request options are
// only used by tests to redirect the API endpoint.
func NewService(apiKey, model string, opts ...option.RequestOption) *Service {
	svc := &Service{
		model:   anthropic.Model(model),
		enabled: apiKey != "",
	}

	if !svc.enabled {
		logrus.Warn("Anthropic API key not found - summarization disabled")
		return svc
	}

	clientOpts := append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	svc.client = anthropic.NewClient(clientOpts...)
	logrus.Info("Summary service initialized")

	return svc
}

func (s *Service) Enabled() bool {
	return s.enabled
}

// Summarize produces a synopsis of the given items for the original query.
// It returns ("", nil) when the service is disabled or items is empty; no
// model call is made in either case.
func (s *Service) Summarize(ctx context.Context, items []models.ContentItem, query string) (string, error) {
	if !s.enabled || len(items) == 0 {
		return "", nil
	}

	prompt := buildPrompt(items, query)

	msg, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       s.model,
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(0.3),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("summary generation failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	return sb.String(), nil
}

// buildPrompt embeds the query and the source-labeled content of at most
// maxPromptItems items into a single summarization prompt.
func buildPrompt(items []models.ContentItem, query string) string {
	if len(items) > maxPromptItems {
		items = items[:maxPromptItems]
	}

	sections := make([]string, 0, len(items))
	for _, item := range items {
		sections = append(sections, fmt.Sprintf("Source: %s\nTitle: %s\nContent: %s", item.Source, item.Title, item.Content))
	}
	combined := strings.Join(sections, "\n\n")

	return fmt.Sprintf(`Please provide a comprehensive summary of the following content related to the query: %q

Content:
%s

Summary should be:
- Concise but informative (2-3 paragraphs)
- Highlight key insights and trends
- Mention different perspectives if present
- Be objective and factual`, query, combined)
}
