// Package workflow sequences a cooking query through the five pipeline
// steps: classify, check research, research, parse, respond. The engine
// always invokes every step in order; each step decides for itself whether
// a prior gate allows it to do real work or pass the state through.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cookingagent"
)

// ErrEmptyResponse indicates the response oracle produced no content.
var ErrEmptyResponse = errors.New("response generation returned empty content")

// Oracles holds the five external capabilities the pipeline depends on.
// Each slot is an explicit named field so tests can swap in deterministic
// stand-ins without touching the others.
type Oracles struct {
	// ClassifyQuery reports whether the query is cooking-related.
	ClassifyQuery func(ctx context.Context, query string) (bool, error)

	// NeedsResearch reports whether the query requires a web search.
	NeedsResearch func(ctx context.Context, query string) (bool, error)

	// SearchRecipes returns up to three text snippets for the query.
	// Implementations suppress their own failures to an empty result.
	SearchRecipes func(ctx context.Context, query string) ([]string, error)

	// ParseRecipe extracts a structured recipe from search snippets.
	// It returns nil, not an error, when the model output cannot be
	// decoded or fails validation.
	ParseRecipe func(ctx context.Context, snippets []string) (*cookingagent.Recipe, error)

	// GenerateResponse produces the final answer text.
	GenerateResponse func(ctx context.Context, query string, recipe *cookingagent.Recipe, tools cookingagent.ToolSet) (string, error)
}

// Validate checks that every oracle slot is wired.
func (o Oracles) Validate() error {
	if o.ClassifyQuery == nil {
		return errors.New("ClassifyQuery oracle is not set")
	}
	if o.NeedsResearch == nil {
		return errors.New("NeedsResearch oracle is not set")
	}
	if o.SearchRecipes == nil {
		return errors.New("SearchRecipes oracle is not set")
	}
	if o.ParseRecipe == nil {
		return errors.New("ParseRecipe oracle is not set")
	}
	if o.GenerateResponse == nil {
		return errors.New("GenerateResponse oracle is not set")
	}
	return nil
}

// Workflow executes the fixed five-step pipeline over one AgentState.
type Workflow struct {
	oracles Oracles
	tools   cookingagent.ToolSet
	logger  cookingagent.RunLogger
}

// step pairs a step name with its implementation so the engine can log and
// audit by name.
type step struct {
	name string
	fn   func(ctx context.Context, state *cookingagent.AgentState) error
}

// New initializes a workflow with its oracle capabilities, the kitchen
// toolset, and a run logger for the audit trail.
func New(oracles Oracles, tools cookingagent.ToolSet, logger cookingagent.RunLogger) (*Workflow, error) {
	if err := oracles.Validate(); err != nil {
		return nil, fmt.Errorf("invalid oracles: %w", err)
	}
	if logger == nil {
		logger = cookingagent.NewNoOpRunLogger()
	}
	return &Workflow{
		oracles: oracles,
		tools:   tools,
		logger:  logger,
	}, nil
}

// Run executes the five steps in fixed order on the given state and returns
// it. Every step is invoked; skipping happens inside the step bodies. Any
// oracle failure ends the run immediately with the error; recovery policy
// belongs to the caller.
func (w *Workflow) Run(ctx context.Context, state *cookingagent.AgentState) (*cookingagent.AgentState, error) {
	if state == nil {
		return nil, cookingagent.ErrInvalidState
	}

	slog.Info("WORKFLOW: Starting run", "query", state.Query)

	steps := []step{
		{name: "classify", fn: w.classifyQuery},
		{name: "check_research", fn: w.checkResearchNeeded},
		{name: "research", fn: w.doResearch},
		{name: "parse", fn: w.parseResults},
		{name: "respond", fn: w.generateResponse},
	}

	for _, s := range steps {
		chainBefore := len(state.ReasoningChain)
		stepLog := cookingagent.StepLog{Step: s.name, Timestamp: time.Now()}

		if err := s.fn(ctx, state); err != nil {
			stepLog.Error = err.Error()
			w.logStep(stepLog)
			return nil, fmt.Errorf("step %s failed: %w", s.name, err)
		}

		if len(state.ReasoningChain) > chainBefore {
			stepLog.Detail = state.ReasoningChain[len(state.ReasoningChain)-1]
		} else {
			stepLog.Skipped = true
		}
		w.logStep(stepLog)
	}

	slog.Info("WORKFLOW: Run complete",
		"is_cooking_related", state.IsCookingRelated,
		"reasoning_steps", len(state.ReasoningChain),
		"response_length", len(state.FinalResponse),
	)

	return state, nil
}

// Answer runs the pipeline for a raw query and extracts the three output
// fields the serving layer consumes. It implements cookingagent.Pipeline.
func (w *Workflow) Answer(ctx context.Context, query string) (cookingagent.Result, error) {
	final, err := w.Run(ctx, cookingagent.NewAgentState(query))
	if err != nil {
		return cookingagent.Result{}, err
	}
	if final == nil || final.FinalResponse == "" {
		// The respond step always sets a response; reaching here means the
		// engine itself misbehaved.
		return cookingagent.Result{}, cookingagent.ErrInvalidState
	}

	return cookingagent.Result{
		Response:       final.FinalResponse,
		Relevant:       final.IsCookingRelated,
		ReasoningChain: final.ReasoningChain,
	}, nil
}

// classifyQuery determines whether the query is cooking-related. It never
// skips and always appends one reasoning entry.
func (w *Workflow) classifyQuery(ctx context.Context, state *cookingagent.AgentState) error {
	slog.Info("WORKFLOW: Classifying query", "query", state.Query)

	isCooking, err := w.oracles.ClassifyQuery(ctx, state.Query)
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}

	state.IsCookingRelated = isCooking
	if isCooking {
		state.AddReasoning("Query classification: cooking-related")
	} else {
		state.AddReasoning("Query classification: not cooking-related")
	}

	slog.Info("WORKFLOW: Query classified", "is_cooking_related", isCooking)
	return nil
}

// checkResearchNeeded decides whether the query needs a web search. Gated
// on the classification result.
func (w *Workflow) checkResearchNeeded(ctx context.Context, state *cookingagent.AgentState) error {
	if !state.IsCookingRelated {
		slog.Info("WORKFLOW: Skipping research check for non-cooking query")
		return nil
	}

	slog.Info("WORKFLOW: Checking if research is needed")

	needsResearch, err := w.oracles.NeedsResearch(ctx, state.Query)
	if err != nil {
		return fmt.Errorf("research check failed: %w", err)
	}

	state.NeedsResearch = needsResearch
	if needsResearch {
		state.AddReasoning("Research needed")
	} else {
		state.AddReasoning("Research not needed")
	}

	slog.Info("WORKFLOW: Research check complete", "needs_research", needsResearch)
	return nil
}

// doResearch performs the recipe search. Gated on the research decision.
// An empty search result leaves the state's results empty and adds no
// reasoning entry, unlike the success path.
func (w *Workflow) doResearch(ctx context.Context, state *cookingagent.AgentState) error {
	if !state.NeedsResearch {
		slog.Info("WORKFLOW: Skipping research - not needed")
		return nil
	}

	slog.Info("WORKFLOW: Performing recipe research")

	results, err := w.oracles.SearchRecipes(ctx, state.Query)
	if err != nil {
		return fmt.Errorf("recipe search failed: %w", err)
	}

	if len(results) == 0 {
		slog.Warn("WORKFLOW: No research results found")
		state.ResearchResults = []string{}
		return nil
	}

	state.ResearchResults = results
	state.AddReasoning("Performed recipe research")

	slog.Info("WORKFLOW: Research complete", "results_count", len(results))
	return nil
}

// parseResults turns search snippets into a structured recipe. Gated on
// having research results. Appends a reasoning entry whether or not
// parsing produced a recipe.
func (w *Workflow) parseResults(ctx context.Context, state *cookingagent.AgentState) error {
	if len(state.ResearchResults) == 0 {
		slog.Info("WORKFLOW: No research results to parse")
		return nil
	}

	slog.Info("WORKFLOW: Parsing research results into recipe")

	recipe, err := w.oracles.ParseRecipe(ctx, state.ResearchResults)
	if err != nil {
		return fmt.Errorf("recipe parsing failed: %w", err)
	}

	state.Recipe = recipe
	if recipe != nil {
		state.AddReasoning("Recipe parsed successfully")
	} else {
		state.AddReasoning("Recipe parsing failed")
	}

	slog.Info("WORKFLOW: Recipe parsing complete", "parsed", recipe != nil)
	return nil
}

// generateResponse produces the final answer. Non-cooking queries get the
// fixed refusal with no oracle call and no reasoning entry; cooking
// queries go through the response oracle with the recipe and toolset.
func (w *Workflow) generateResponse(ctx context.Context, state *cookingagent.AgentState) error {
	slog.Info("WORKFLOW: Generating final response")

	if !state.IsCookingRelated {
		slog.Info("WORKFLOW: Generating non-cooking refusal")
		state.FinalResponse = cookingagent.RefusalMessage
		return nil
	}

	response, err := w.oracles.GenerateResponse(ctx, state.Query, state.Recipe, w.tools)
	if err != nil {
		return fmt.Errorf("response generation failed: %w", err)
	}
	if response == "" {
		return ErrEmptyResponse
	}

	state.FinalResponse = response
	state.AddReasoning("Generated final response")

	slog.Info("WORKFLOW: Response generated", "response_length", len(response))
	return nil
}

func (w *Workflow) logStep(stepLog cookingagent.StepLog) {
	if err := w.logger.LogStep(stepLog); err != nil {
		slog.Error("WORKFLOW: Failed to log step", "step", stepLog.Step, "error", err)
	}
}
