package bedrock

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cookingagent"
)

// mockBedrockClient implements bedrockRuntimeClient for testing
type mockBedrockClient struct {
	response *bedrockruntime.ConverseOutput
	err      error
}

func (m *mockBedrockClient) Converse(ctx context.Context, input *bedrockruntime.ConverseInput, opts ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	return m.response, m.err
}

func textOutput(text string) *bedrockruntime.ConverseOutput {
	return &bedrockruntime.ConverseOutput{
		Output: &types.ConverseOutputMemberMessage{
			Value: types.Message{
				Role:    types.ConversationRoleAssistant,
				Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: text}},
			},
		},
		StopReason: types.StopReasonEndTurn,
		Metrics:    &types.ConverseMetrics{LatencyMs: aws.Int64(10)},
		Usage:      &types.TokenUsage{InputTokens: aws.Int32(100), OutputTokens: aws.Int32(20)},
	}
}

func TestNewClientDefaults(t *testing.T) {
	tests := []struct {
		name     string
		input    Options
		expected Options
	}{
		{
			name:  "empty options uses defaults",
			input: Options{},
			expected: Options{
				ModelID:     defaultModelID,
				MaxTokens:   defaultMaxTokens,
				Temperature: defaultTemperature,
				TopP:        defaultTopP,
			},
		},
		{
			name: "custom options preserved",
			input: Options{
				ModelID:     "custom-model",
				MaxTokens:   2048,
				Temperature: 0.5,
				TopP:        0.8,
			},
			expected: Options{
				ModelID:     "custom-model",
				MaxTokens:   2048,
				Temperature: 0.5,
				TopP:        0.8,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(&mockBedrockClient{}, tt.input)
			assert.Equal(t, tt.expected, client.opts)
		})
	}
}

func TestClassifyQuery(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected bool
	}{
		{"true response", "true", true},
		{"true with whitespace", " True \n", true},
		{"false response", "false", false},
		{"chatty response is not true", "Yes, this is cooking-related.", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(&mockBedrockClient{response: textOutput(tt.content)}, Options{})
			got, err := client.ClassifyQuery(context.Background(), "How do I make a risotto?")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestClassifyQueryError(t *testing.T) {
	client := NewClient(&mockBedrockClient{err: errors.New("throttled")}, Options{})
	_, err := client.ClassifyQuery(context.Background(), "How do I make a risotto?")
	assert.Error(t, err)
}

func TestParseRecipe(t *testing.T) {
	t.Run("valid recipe", func(t *testing.T) {
		client := NewClient(&mockBedrockClient{response: textOutput(`{
			"name": "Omelet",
			"ingredients": ["eggs", "butter"],
			"steps": ["Whisk", "Cook"],
			"required_tools": ["whisk", "frying pan"],
			"cooking_time": "10 minutes",
			"difficulty": "easy",
			"servings": 1
		}`)}, Options{})

		recipe, err := client.ParseRecipe(context.Background(), []string{"snippet"})
		require.NoError(t, err)
		require.NotNil(t, recipe)
		assert.Equal(t, "Omelet", recipe.Name)
	})

	t.Run("undecodable output becomes absent recipe", func(t *testing.T) {
		client := NewClient(&mockBedrockClient{response: textOutput("no recipe here")}, Options{})

		recipe, err := client.ParseRecipe(context.Background(), []string{"snippet"})
		require.NoError(t, err)
		assert.Nil(t, recipe)
	})

	t.Run("invoke error propagates", func(t *testing.T) {
		client := NewClient(&mockBedrockClient{err: errors.New("throttled")}, Options{})

		_, err := client.ParseRecipe(context.Background(), []string{"snippet"})
		assert.Error(t, err)
	})
}

func TestGenerateResponse(t *testing.T) {
	client := NewClient(&mockBedrockClient{response: textOutput("  ## Risotto\n\nStir patiently.  ")}, Options{})

	response, err := client.GenerateResponse(context.Background(), "How do I make a risotto?", nil, cookingagent.DefaultToolSet())
	require.NoError(t, err)
	assert.Equal(t, "## Risotto\n\nStir patiently.", response)
}

func TestTextFromOutput(t *testing.T) {
	assert.Empty(t, textFromOutput(nil))
	assert.Empty(t, textFromOutput(&bedrockruntime.ConverseOutput{}))

	multi := &bedrockruntime.ConverseOutput{
		Output: &types.ConverseOutputMemberMessage{
			Value: types.Message{
				Content: []types.ContentBlock{
					&types.ContentBlockMemberText{Value: "first"},
					&types.ContentBlockMemberText{Value: "second"},
				},
			},
		},
	}
	assert.Equal(t, "first\nsecond", textFromOutput(multi))
}
