package gemini

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"google.golang.org/genai"

	"github.com/akolanti/StudyRAG/internal/config"
	"github.com/akolanti/StudyRAG/internal/rag/llm"
	"github.com/akolanti/StudyRAG/internal/rag/providerError"
	"github.com/akolanti/StudyRAG/pkg/logger_i"
)

type llmClient struct {
	client      *genai.Client
	modelName   string
	temperature float32
}

var logger *logger_i.Logger
var geminiClient *llmClient
var initErr error
var once sync.Once

// GetGeminiClient builds the process-wide Gemini generator on first use.
func GetGeminiClient(ctx context.Context, modelName string, apikey string, temperature float32, httpClient *http.Client) (llm.Provider, error) {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_gemini")
		newGeminiClient(ctx, modelName, apikey, temperature, httpClient)
	})

	if geminiClient == nil {
		return nil, fmt.Errorf("gemini client unavailable: %w", initErr)
	}
	return geminiClient, nil
}

func newGeminiClient(ctx context.Context, modelName string, apikey string, temperature float32, httpClient *http.Client) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey, Backend: genai.BackendGeminiAPI, HTTPClient: httpClient})
	if err != nil {
		logger.Error("Error creating Gemini client", "error", err)
		initErr = err
		return
	}
	geminiClient = &llmClient{client: c, modelName: modelName, temperature: temperature}
	logger.Debug("Gemini client created", "model", modelName)
	go closeClient(ctx)
}

func (c *llmClient) Name() string {
	return config.ProviderGoogle
}

func (c *llmClient) Generate(ctx context.Context, question string, contexts []string, history []string) (string, error) {
	log := logger.WithTrace(ctx)

	temperature := c.temperature
	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: config.ModelContext}},
		},
		Temperature: &temperature,
	}

	result, err := c.client.Models.GenerateContent(
		ctx,
		c.modelName,
		genai.Text(llm.BuildPrompt(question, contexts, history)),
		contentConfig,
	)
	if err != nil {
		log.Warn("Gemini generation failed", "error", err)
		return "", providerError.FromGoogle("gemini generation", err)
	}
	if result == nil || result.Text() == "" {
		return "", llm.ErrEmptyAnswer
	}
	return result.Text(), nil
}

func closeClient(ctx context.Context) {
	<-ctx.Done()
	logger.Info("Closing Gemini client")
}
