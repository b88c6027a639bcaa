package openaiLLM

import (
	"context"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/akolanti/StudyRAG/internal/config"
	"github.com/akolanti/StudyRAG/internal/rag/llm"
	"github.com/akolanti/StudyRAG/internal/rag/providerError"
	"github.com/akolanti/StudyRAG/pkg/logger_i"
)

type client struct {
	api         openai.Client
	model       string
	temperature float64
	logger      *logger_i.Logger
}

func New(apiKey, model string, temperature float32, httpClient *http.Client, opts ...option.RequestOption) llm.Provider {
	opts = append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}, opts...)
	return &client{
		api:         openai.NewClient(opts...),
		model:       model,
		temperature: float64(temperature),
		logger:      logger_i.NewLogger("llm_openai"),
	}
}

func (c *client) Name() string {
	return config.ProviderOpenAI
}

func (c *client) Generate(ctx context.Context, question string, contexts []string, history []string) (string, error) {
	res, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(config.ModelContext),
			openai.UserMessage(llm.BuildPrompt(question, contexts, history)),
		},
		Temperature: openai.Float(c.temperature),
	})
	if err != nil {
		c.logger.WithTrace(ctx).Warn("OpenAI generation failed", "error", err)
		return "", providerError.FromOpenAI("openai generation", err)
	}
	if len(res.Choices) == 0 || res.Choices[0].Message.Content == "" {
		return "", llm.ErrEmptyAnswer
	}
	return res.Choices[0].Message.Content, nil
}
