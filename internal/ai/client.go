package ai

import (
	"context"
	"github.com/myrjola/studyassistant/internal/errors"
	"github.com/myrjola/studyassistant/internal/models"
	"github.com/sashabaranov/go-openai"
	"log/slog"
)

var ErrMissingAPIKey = errors.NewSentinel("API key is missing. Cannot fetch study materials")

const (
	DefaultModel = openai.GPT3Dot5Turbo1106
	MaxTokens    = 4096
)

type Config struct {
	APIKey string
	// BaseURL overrides the OpenAI API endpoint, e.g., for proxies or tests. Empty uses the default.
	BaseURL string
	// Model is the chat model. Empty uses DefaultModel.
	Model string
}

type Client struct {
	client *openai.Client
	model  string
	apiKey string
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
		apiKey: cfg.APIKey,
		logger: logger.With("source", "ai.Client"),
	}
}

// HasCredential reports whether an API key is configured.
func (c *Client) HasCredential() bool {
	return c.apiKey != ""
}

// GenerateStudyMaterials asks the chat model for study materials about topic within subject.
//
// The returned materials are complete and validated. Malformed model output is an error, never partial data.
func (c *Client) GenerateStudyMaterials(ctx context.Context, subject, topic string) (models.StudyMaterials, error) {
	if !c.HasCredential() {
		return models.StudyMaterials{}, ErrMissingAPIKey
	}

	completion, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
			Model:     c.model,
			MaxTokens: MaxTokens,
			Messages:  studyMaterialsMessages(subject, topic),
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		},
	)
	if err != nil {
		return models.StudyMaterials{}, describeAPIError(err, c.model)
	}

	if len(completion.Choices) == 0 {
		return models.StudyMaterials{}, errors.New("the AI service returned no answer")
	}
	choice := completion.Choices[0]
	if choice.FinishReason == openai.FinishReasonLength {
		return models.StudyMaterials{}, errors.New("the AI response was cut off before it was complete",
			slog.Int("completion_tokens", completion.Usage.CompletionTokens))
	}
	if choice.FinishReason == openai.FinishReasonContentFilter {
		return models.StudyMaterials{}, errors.New("the AI service refused to answer this topic")
	}

	c.logger.LogAttrs(ctx, slog.LevelDebug, "received study materials",
		slog.String("subject", subject),
		slog.String("topic", topic),
		slog.Int("total_tokens", completion.Usage.TotalTokens))

	return ParseStudyMaterials(choice.Message.Content)
}

// describeAPIError turns a chat completion error into a message for the user. The provider's own explanation is
// kept when there is one.
func describeAPIError(err error, model string) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return errors.New("the AI service rejected the request: "+apiErr.Message,
			slog.Int("status", apiErr.HTTPStatusCode), slog.String("model", model))
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return errors.Wrap(reqErr.Err, "the AI service could not be reached",
			slog.Int("status", reqErr.HTTPStatusCode), slog.String("model", model))
	}
	return errors.Wrap(err, "the AI service could not be reached", slog.String("model", model))
}
