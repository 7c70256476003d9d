package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/joeshaw/envdecode"
	openaiapi "github.com/openai/openai-go/v3"

	"cookingagent"
	"cookingagent/oracle/openai"
	"cookingagent/search/duckduckgo"
	"cookingagent/server"
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

	var serverConfig cookingagent.ServerConfig
	if err := envdecode.Decode(&serverConfig); err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	tools, err := toolset.Load(ctx, toolset.NewFileSource(agentConfig.ArtifactsToolSetPath))
	if err != nil {
		slog.Warn("SETUP: Toolset artifact not loaded, using defaults", "path", agentConfig.ArtifactsToolSetPath, "error", err)
		tools = cookingagent.DefaultToolSet()
	}

	// The OpenAI client reads OPENAI_API_KEY from the environment.
	llm := openai.NewClient(openaiapi.NewClient(), openai.Options{
		ModelID:     modelConfig.ModelID,
		MaxTokens:   modelConfig.MaxTokens,
		Temperature: modelConfig.Temperature,
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
		log.Fatalf("SETUP: Failed to create workflow: %s", err)
	}

	srv := &http.Server{
		Addr:         serverConfig.Addr,
		Handler:      server.New(pipeline).Routes(),
		ReadTimeout:  time.Duration(serverConfig.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(serverConfig.WriteTimeoutSec) * time.Second,
	}

	slog.Info("SERVER: Listening", "addr", serverConfig.Addr, "model", modelConfig.ModelID)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("SERVER: %s", err)
	}
}
