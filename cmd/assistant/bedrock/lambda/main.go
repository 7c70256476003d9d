package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joeshaw/envdecode"

	"cookingagent"
	"cookingagent/oracle/bedrock"
	"cookingagent/search/duckduckgo"
	"cookingagent/slack"
	"cookingagent/toolset"
	"cookingagent/workflow"
)

type Params struct {
	Query string `json:"query"`
}

type Results struct {
	Response       string   `json:"response"`
	Relevant       bool     `json:"relevant"`
	ReasoningChain []string `json:"reasoning_chain"`
}

func main() {
	fn := func(ctx context.Context, params Params) (Results, error) {
		var modelConfig cookingagent.ModelConfig
		if err := envdecode.Decode(&modelConfig); err != nil {
			log.Fatalf("Failed to decode: %s", err)
		}

		var agentConfig cookingagent.AgentConfig
		if err := envdecode.Decode(&agentConfig); err != nil {
			log.Fatalf("Failed to decode: %s", err)
		}

		// S3 config from env
		s3Bucket := os.Getenv("ARTIFACTS_S3_BUCKET")
		toolsetKey := os.Getenv("ARTIFACTS_TOOLSET_S3_KEY")
		if s3Bucket == "" || toolsetKey == "" {
			return Results{}, fmt.Errorf("missing S3 config: ARTIFACTS_S3_BUCKET and ARTIFACTS_TOOLSET_S3_KEY must be set")
		}

		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return Results{}, fmt.Errorf("failed to load AWS config: %w", err)
		}
		s3Client := s3.NewFromConfig(awsCfg)

		tools, err := toolset.Load(ctx, toolset.NewS3Source(s3Client, s3Bucket, toolsetKey))
		if err != nil {
			slog.Error("SETUP: Failed to load toolset from S3", "error", err)
			return Results{}, err
		}
		slog.Info("SETUP: Toolset loaded from S3", "tools_count", len(tools.AvailableTools))

		llm := bedrock.NewClient(bedrockruntime.NewFromConfig(awsCfg), bedrock.Options{
			ModelID:     modelConfig.ModelID,
			MaxTokens:   modelConfig.MaxTokens,
			Temperature: modelConfig.Temperature,
			TopP:        modelConfig.TopP,
		})
		search := duckduckgo.NewClient(agentConfig.SearchEndpoint, agentConfig.MaxSearchResults, http.DefaultClient)

		pipeline, err := workflow.New(workflow.Oracles{
			ClassifyQuery:    llm.ClassifyQuery,
			NeedsResearch:    llm.NeedsResearch,
			SearchRecipes:    search.SearchRecipes,
			ParseRecipe:      llm.ParseRecipe,
			GenerateResponse: llm.GenerateResponse,
		}, tools, cookingagent.NewStdoutRunLogger())
		if err != nil {
			slog.Error("SETUP: Failed to create workflow", "error", err)
			return Results{}, err
		}

		result, err := pipeline.Answer(ctx, params.Query)
		if err != nil {
			slog.Error("RUN: Pipeline failed", "error", err)
			return Results{}, err
		}

		if agentConfig.SlackWebhookURL != "" {
			sc := slack.NewClient(agentConfig.SlackWebhookURL, http.DefaultClient)
			if err := sc.PostMessage(ctx, agentConfig.SlackChannel, slack.FormatAnswer(params.Query, result)); err != nil {
				slog.Error("RUN: Failed to post answer to Slack", "error", err)
			}
		}

		return Results{
			Response:       result.Response,
			Relevant:       result.Relevant,
			ReasoningChain: result.ReasoningChain,
		}, nil
	}

	lambda.Start(fn)
}
