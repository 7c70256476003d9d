package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"cookingagent"
	"cookingagent/oracle/mock"
	"cookingagent/workflow"
)

func main() {
	ctx := context.Background()

	logFile, err := os.Create(cookingagent.NewRunLogFilePath("mock"))
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

	oracles := mock.NewOracles()
	pipeline, err := workflow.New(workflow.Oracles{
		ClassifyQuery:    oracles.ClassifyQuery,
		NeedsResearch:    oracles.NeedsResearch,
		SearchRecipes:    oracles.SearchRecipes,
		ParseRecipe:      oracles.ParseRecipe,
		GenerateResponse: oracles.GenerateResponse,
	}, cookingagent.DefaultToolSet(), runLogger)
	if err != nil {
		slog.Error("SETUP: Failed to create workflow", "error", err)
		return
	}

	query := argOr(1, "How do I make a risotto?")

	result, err := pipeline.Answer(ctx, query)
	if err != nil {
		slog.Error("RUN: Pipeline failed", "error", err)
		return
	}

	fmt.Println(result.Response)
	fmt.Println()
	for i, entry := range result.ReasoningChain {
		fmt.Printf("%d. %s\n", i+1, entry)
	}
}

func argOr(i int, fallback string) string {
	if len(os.Args) > i {
		return os.Args[i]
	}
	return fallback
}
