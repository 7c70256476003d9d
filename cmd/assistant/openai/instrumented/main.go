package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/joeshaw/envdecode"
	openaiapi "github.com/openai/openai-go/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"cookingagent"
	"cookingagent/oracle/openai"
	"cookingagent/search/duckduckgo"
	"cookingagent/toolset"
	"cookingagent/workflow"
)

func main() {
	ctx := context.Background()

	var modelConfig cookingagent.ModelConfig
	if err := envdecode.Decode(&modelConfig); err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	var agentConfig cookingagent.AgentConfig
	if err := envdecode.Decode(&agentConfig); err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	tools, err := toolset.Load(ctx, toolset.NewFileSource(agentConfig.ArtifactsToolSetPath))
	if err != nil {
		slog.Warn("SETUP: Toolset artifact not loaded, using defaults", "path", agentConfig.ArtifactsToolSetPath, "error", err)
		tools = cookingagent.DefaultToolSet()
	}

	logFile, err := os.Create(cookingagent.NewRunLogFilePath(modelConfig.ModelID))
	if err != nil {
		slog.Error("SETUP: Failed to create run log file", "error", err)
		return
	}
	defer logFile.Close()

	runLogger := cookingagent.NewFileRunLogger(logFile)
	defer func() {
		if err := runLogger.Flush(); err != nil {
			slog.Error("SETUP: Failed to flush run log", "error", err)
		}
	}()

	// The OpenAI client reads OPENAI_API_KEY from the environment.
	llm := openai.NewClient(openaiapi.NewClient(), openai.Options{
		ModelID:     modelConfig.ModelID,
		MaxTokens:   modelConfig.MaxTokens,
		Temperature: modelConfig.Temperature,
	})
	search := duckduckgo.NewClient(agentConfig.SearchEndpoint, agentConfig.MaxSearchResults, http.DefaultClient)

	tracerProvider, meterProvider, otelShutdown, err := cookingagent.InitOtel(ctx)
	if err != nil {
		slog.Error("SETUP: Failed to initialize OpenTelemetry", "error", err)
		return
	}
	defer func() {
		if err := otelShutdown(ctx); err != nil {
			slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
		}
	}()

	tracer := tracerProvider.Tracer(cookingagent.TracerNameOpenAI)
	meter := meterProvider.Meter(cookingagent.TracerNameOpenAI)

	ctx, span := tracer.Start(ctx, cookingagent.TracerNameOpenAI, trace.WithAttributes(
		attribute.String("model.id", modelConfig.ModelID),
		attribute.Int("model.max_tokens", int(modelConfig.MaxTokens)),
		attribute.Float64("model.temperature", float64(modelConfig.Temperature)),
	))
	defer span.End()

	pipeline, err := workflow.NewInstrumented(workflow.Oracles{
		ClassifyQuery:    llm.ClassifyQuery,
		NeedsResearch:    llm.NeedsResearch,
		SearchRecipes:    search.SearchRecipes,
		ParseRecipe:      llm.ParseRecipe,
		GenerateResponse: llm.GenerateResponse,
	}, tools, runLogger, tracer, meter)
	if err != nil {
		slog.Error("SETUP: Failed to create workflow", "error", err)
		return
	}

	query := argOr(1, "How do I make a risotto?")

	state, err := pipeline.Run(ctx, cookingagent.NewAgentState(query))
	if err != nil {
		slog.Error("RUN: Pipeline failed", "error", err)
		return
	}

	if os.Getenv("DEBUG") != "" {
		cookingagent.Dump(state)
	}

	fmt.Println(state.FinalResponse)
}

func argOr(i int, fallback string) string {
	if len(os.Args) > i {
		return os.Args[i]
	}
	return fallback
}
