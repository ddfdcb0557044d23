package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/herbalens/internal/domain/ai"
	domain "github.com/bryanwahyu/herbalens/internal/domain/analysis"
	"github.com/bryanwahyu/herbalens/internal/domain/plants"
	"github.com/bryanwahyu/herbalens/internal/infra/ai/prompt"
)

const (
	maxTokens    = 512
	defaultModel = "gpt-4o-mini"
)

// Client is a Classifier backed by a vision-capable chat model.
type Client struct {
	*openai.Client
	Model   string
	Catalog *plants.Catalog
}

// NewClient talks to api.openai.com unless baseURL is set.
func NewClient(apiKey, model, baseURL string, catalog *plants.Catalog) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{Client: openai.NewClientWithConfig(cfg), Model: model, Catalog: catalog}
}

func (c *Client) Classify(ctx context.Context, img domain.Image) (domain.Result, error) {
	model := c.Model
	if model == "" {
		model = defaultModel
	}
	contentType := img.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	dataURL := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(img.Bytes)

	req := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt(c.Catalog.All())},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt.GetUserPrompt(img.Name)},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{
						URL:    dataURL,
						Detail: openai.ImageURLDetailLow,
					}},
				},
			},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		if isQuota(err) {
			return domain.Result{}, fmt.Errorf("%w: %v", ai.ErrQuotaExceeded, err)
		}
		return domain.Result{}, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domain.Result{}, ai.ErrEmptyResponse
	}

	reply, err := prompt.ParseReply(resp.Choices[0].Message.Content)
	if err != nil {
		return domain.Result{}, err
	}
	rec, ok := c.Catalog.ByID(reply.PlantID)
	if !ok {
		return domain.Result{}, fmt.Errorf("%w: %s", ai.ErrUnknownPlant, reply.PlantID)
	}
	return domain.Result{
		Record:       rec,
		Confidence:   int(reply.Confidence),
		HealthStatus: domain.HealthStatus(reply.HealthStatus),
		Diseases:     reply.Diseases,
	}, nil
}

func isQuota(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	var reqErr *openai.RequestError
	return errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests
}
