// Package openai implements the LLM-backed pipeline oracles on the OpenAI
// Chat Completions API.
package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"cookingagent"
	"cookingagent/oracle"
)

const (
	defaultModelID = "gpt-4o-mini"

	// Controls the maximum number of tokens the model can generate in one response.
	defaultMaxTokens = 1024

	// Controls the randomness of the model's output.
	defaultTemperature = 0.7
)

// chatCompleter is the slice of the OpenAI client the oracles need.
type chatCompleter interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

type Options struct {
	ModelID     string
	MaxTokens   int32
	Temperature float32
}

// Client implements the four LLM oracles: classification, research need,
// recipe parsing, and response generation. Recipe search is not an LLM
// capability and is wired separately.
type Client struct {
	chat chatCompleter
	opts Options
}

// NewClient wraps an OpenAI API client as a pipeline oracle backend.
func NewClient(api openai.Client, opts Options) *Client {
	if opts.ModelID == "" {
		opts.ModelID = defaultModelID
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	if opts.Temperature == 0 {
		opts.Temperature = defaultTemperature
	}
	return &Client{
		chat: &api.Chat.Completions,
		opts: opts,
	}
}

// ClassifyQuery reports whether the query is cooking-related.
func (c *Client) ClassifyQuery(ctx context.Context, query string) (bool, error) {
	content, err := c.complete(ctx, oracle.ClassifierPrompt(query))
	if err != nil {
		return false, fmt.Errorf("classify query: %w", err)
	}
	return oracle.ParseBool(content), nil
}

// NeedsResearch reports whether the query requires a recipe search.
func (c *Client) NeedsResearch(ctx context.Context, query string) (bool, error) {
	content, err := c.complete(ctx, oracle.ResearchNeededPrompt(query))
	if err != nil {
		return false, fmt.Errorf("check research needed: %w", err)
	}
	return oracle.ParseBool(content), nil
}

// ParseRecipe extracts a structured recipe from search snippets. Decode and
// validation failures mean the snippets did not contain a usable recipe, so
// they are reported as an absent recipe rather than an error.
func (c *Client) ParseRecipe(ctx context.Context, snippets []string) (*cookingagent.Recipe, error) {
	content, err := c.complete(ctx, oracle.RecipeParserPrompt(snippets))
	if err != nil {
		return nil, fmt.Errorf("parse recipe: %w", err)
	}

	recipe, err := oracle.DecodeRecipe(content)
	if err != nil {
		slog.Warn("ORACLE: Recipe decode failed", "error", err)
		return nil, nil
	}
	return recipe, nil
}

// GenerateResponse produces the final answer for a cooking query.
func (c *Client) GenerateResponse(ctx context.Context, query string, recipe *cookingagent.Recipe, tools cookingagent.ToolSet) (string, error) {
	content, err := c.complete(ctx, oracle.ResponsePrompt(query, recipe, tools))
	if err != nil {
		return "", fmt.Errorf("generate response: %w", err)
	}
	return strings.TrimSpace(content), nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	slog.Info("ORACLE: Invoking OpenAI", "model", c.opts.ModelID, "prompt_len", len(prompt))

	res, err := c.chat.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.opts.ModelID),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(int64(c.opts.MaxTokens)),
		Temperature: openai.Float(float64(c.opts.Temperature)),
	})
	if err != nil {
		return "", err
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response")
	}

	content := res.Choices[0].Message.Content
	slog.Info("ORACLE: OpenAI responded", "content_len", len(content))
	return content, nil
}
