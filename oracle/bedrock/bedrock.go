// Package bedrock implements the LLM-backed pipeline oracles on the AWS
// Bedrock Converse API.
package bedrock

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"cookingagent"
	"cookingagent/oracle"
)

const (
	// defaultModelID is the default model ID for Bedrock Claude.
	// It's an inference profile ID or ARN, not the foundation model's ID.
	// See https://docs.aws.amazon.com/bedrock/latest/userguide/inference-profiles.html.
	defaultModelID = "us.anthropic.claude-3-7-sonnet-20250219-v1:0"

	// Controls the maximum number of tokens the model can generate in one response.
	defaultMaxTokens = 1024

	// Controls the randomness of the model's output. Boolean classification and JSON extraction want low randomness; conversational answers tolerate more.
	defaultTemperature = 0.7

	// Controls the diversity of the model's output.
	defaultTopP = 0.9
)

type bedrockRuntimeClient interface {
	Converse(context.Context, *bedrockruntime.ConverseInput, ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

type Options struct {
	ModelID     string
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

// Client implements the four LLM oracles on top of Bedrock Converse.
type Client struct {
	brc  bedrockRuntimeClient
	opts Options
}

func NewClient(brc bedrockRuntimeClient, opts Options) *Client {
	if opts.ModelID == "" {
		opts.ModelID = defaultModelID
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	if opts.Temperature == 0 {
		opts.Temperature = defaultTemperature
	}
	if opts.TopP == 0 {
		opts.TopP = defaultTopP
	}
	return &Client{
		brc:  brc,
		opts: opts,
	}
}

// ClassifyQuery reports whether the query is cooking-related.
func (c *Client) ClassifyQuery(ctx context.Context, query string) (bool, error) {
	content, err := c.converse(ctx, oracle.ClassifierPrompt(query))
	if err != nil {
		return false, fmt.Errorf("classify query: %w", err)
	}
	return oracle.ParseBool(content), nil
}

// NeedsResearch reports whether the query requires a recipe search.
func (c *Client) NeedsResearch(ctx context.Context, query string) (bool, error) {
	content, err := c.converse(ctx, oracle.ResearchNeededPrompt(query))
	if err != nil {
		return false, fmt.Errorf("check research needed: %w", err)
	}
	return oracle.ParseBool(content), nil
}

// ParseRecipe extracts a structured recipe from search snippets. Decode and
// validation failures surface as an absent recipe, not an error.
func (c *Client) ParseRecipe(ctx context.Context, snippets []string) (*cookingagent.Recipe, error) {
	content, err := c.converse(ctx, oracle.RecipeParserPrompt(snippets))
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
	content, err := c.converse(ctx, oracle.ResponsePrompt(query, recipe, tools))
	if err != nil {
		return "", fmt.Errorf("generate response: %w", err)
	}
	return strings.TrimSpace(content), nil
}

func (c *Client) converse(ctx context.Context, prompt string) (string, error) {
	slog.Info("ORACLE: Invoking Bedrock", "model", c.opts.ModelID, "prompt_len", len(prompt))

	in := &bedrockruntime.ConverseInput{
		ModelId: &c.opts.ModelID,
		Messages: []types.Message{
			{
				Role:    types.ConversationRoleUser,
				Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: prompt}},
			},
		},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(c.opts.MaxTokens),
			Temperature: aws.Float32(c.opts.Temperature),
			TopP:        aws.Float32(c.opts.TopP),
		},
	}

	out, err := c.brc.Converse(ctx, in)
	if err != nil {
		slog.Error("ORACLE: Bedrock invoke failed", "error", err)
		return "", err
	}

	slog.Info("ORACLE: Bedrock invoke succeeded",
		"stop_reason", out.StopReason,
		"latency_ms", aws.ToInt64(out.Metrics.LatencyMs),
		"input_tokens", aws.ToInt32(out.Usage.InputTokens),
		"output_tokens", aws.ToInt32(out.Usage.OutputTokens),
	)

	if out.StopReason == types.StopReasonMaxTokens {
		slog.Warn("ORACLE: Model hit MaxTokens limit; consider increasing MaxTokens")
	}

	return textFromOutput(out), nil
}

func textFromOutput(out *bedrockruntime.ConverseOutput) string {
	if out == nil || out.Output == nil {
		return ""
	}

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok || len(msg.Value.Content) == 0 {
		return ""
	}

	texts := make([]string, 0, len(msg.Value.Content))
	for _, cb := range msg.Value.Content {
		if t, ok := cb.(*types.ContentBlockMemberText); ok && t.Value != "" {
			texts = append(texts, t.Value)
		}
	}

	return strings.TrimSpace(strings.Join(texts, "\n"))
}
