package workflow_test

import (
	"context"
	"errors"
	"testing"

	"cookingagent"
	"cookingagent/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubOracles builds a configurable Oracles value and counts how many times
// each capability was invoked.
type stubOracles struct {
	isCooking     bool
	needsResearch bool
	snippets      []string
	recipe        *cookingagent.Recipe
	response      string

	classifyErr error
	researchErr error
	searchErr   error
	parseErr    error
	respondErr  error

	classifyCalls int
	researchCalls int
	searchCalls   int
	parseCalls    int
	respondCalls  int
}

func (s *stubOracles) oracles() workflow.Oracles {
	return workflow.Oracles{
		ClassifyQuery: func(ctx context.Context, query string) (bool, error) {
			s.classifyCalls++
			return s.isCooking, s.classifyErr
		},
		NeedsResearch: func(ctx context.Context, query string) (bool, error) {
			s.researchCalls++
			return s.needsResearch, s.researchErr
		},
		SearchRecipes: func(ctx context.Context, query string) ([]string, error) {
			s.searchCalls++
			return s.snippets, s.searchErr
		},
		ParseRecipe: func(ctx context.Context, snippets []string) (*cookingagent.Recipe, error) {
			s.parseCalls++
			return s.recipe, s.parseErr
		},
		GenerateResponse: func(ctx context.Context, query string, recipe *cookingagent.Recipe, tools cookingagent.ToolSet) (string, error) {
			s.respondCalls++
			return s.response, s.respondErr
		},
	}
}

func testRecipe() *cookingagent.Recipe {
	return &cookingagent.Recipe{
		Name:          "Mushroom Risotto",
		Ingredients:   []string{"arborio rice", "mushrooms", "stock"},
		Steps:         []string{"Toast rice", "Add stock", "Stir"},
		RequiredTools: []string{"little pot", "spoon"},
		CookingTime:   "30 minutes",
		Difficulty:    "medium",
		Servings:      2,
	}
}

func newWorkflow(t *testing.T, stub *stubOracles) *workflow.Workflow {
	t.Helper()
	w, err := workflow.New(stub.oracles(), cookingagent.DefaultToolSet(), cookingagent.NewNoOpRunLogger())
	require.NoError(t, err)
	return w
}

func TestRunNonCookingQuery(t *testing.T) {
	stub := &stubOracles{isCooking: false}
	w := newWorkflow(t, stub)

	final, err := w.Run(context.Background(), cookingagent.NewAgentState("What is the capital of France?"))
	require.NoError(t, err)

	// Only classification ran; everything downstream was a no-op.
	assert.Equal(t, 1, stub.classifyCalls)
	assert.Zero(t, stub.researchCalls)
	assert.Zero(t, stub.searchCalls)
	assert.Zero(t, stub.parseCalls)
	assert.Zero(t, stub.respondCalls)

	assert.False(t, final.IsCookingRelated)
	assert.False(t, final.NeedsResearch)
	assert.Empty(t, final.ResearchResults)
	assert.Nil(t, final.Recipe)
	assert.Equal(t, cookingagent.RefusalMessage, final.FinalResponse)
	assert.Equal(t, []string{"Query classification: not cooking-related"}, final.ReasoningChain)
}

func TestRunCookingQueryWithoutResearch(t *testing.T) {
	stub := &stubOracles{
		isCooking:     true,
		needsResearch: false,
		response:      "Salt your pasta water generously.",
	}
	w := newWorkflow(t, stub)

	final, err := w.Run(context.Background(), cookingagent.NewAgentState("Why salt pasta water?"))
	require.NoError(t, err)

	assert.Zero(t, stub.searchCalls)
	assert.Zero(t, stub.parseCalls)
	assert.Equal(t, 1, stub.respondCalls)

	assert.Empty(t, final.ResearchResults)
	assert.Nil(t, final.Recipe)
	assert.NotEmpty(t, final.FinalResponse)
	assert.Equal(t, []string{
		"Query classification: cooking-related",
		"Research not needed",
		"Generated final response",
	}, final.ReasoningChain)
}

func TestRunEmptySearchResults(t *testing.T) {
	stub := &stubOracles{
		isCooking:     true,
		needsResearch: true,
		snippets:      nil,
		response:      "Here is some general advice.",
	}
	w := newWorkflow(t, stub)

	final, err := w.Run(context.Background(), cookingagent.NewAgentState("How do I make an unfindable dish?"))
	require.NoError(t, err)

	// The search ran but found nothing: no reasoning entry for it, and the
	// parse step then no-ops on the empty results.
	assert.Equal(t, 1, stub.searchCalls)
	assert.Zero(t, stub.parseCalls)

	assert.Empty(t, final.ResearchResults)
	assert.Nil(t, final.Recipe)
	assert.Equal(t, []string{
		"Query classification: cooking-related",
		"Research needed",
		"Generated final response",
	}, final.ReasoningChain)
}

func TestRunEndToEnd(t *testing.T) {
	stub := &stubOracles{
		isCooking:     true,
		needsResearch: true,
		snippets:      []string{"snippet one", "snippet two", "snippet three"},
		recipe:        testRecipe(),
		response:      "## Mushroom Risotto\n\nHere is how to make it...",
	}
	w := newWorkflow(t, stub)

	final, err := w.Run(context.Background(), cookingagent.NewAgentState("How do I make a risotto?"))
	require.NoError(t, err)

	assert.Equal(t, 1, stub.classifyCalls)
	assert.Equal(t, 1, stub.researchCalls)
	assert.Equal(t, 1, stub.searchCalls)
	assert.Equal(t, 1, stub.parseCalls)
	assert.Equal(t, 1, stub.respondCalls)

	require.NotNil(t, final.Recipe)
	assert.Equal(t, "medium", final.Recipe.Difficulty)
	assert.Len(t, final.ResearchResults, 3)
	assert.NotEmpty(t, final.FinalResponse)
	assert.Equal(t, []string{
		"Query classification: cooking-related",
		"Research needed",
		"Performed recipe research",
		"Recipe parsed successfully",
		"Generated final response",
	}, final.ReasoningChain)
}

func TestRunParseFailureContinues(t *testing.T) {
	stub := &stubOracles{
		isCooking:     true,
		needsResearch: true,
		snippets:      []string{"nothing recipe-shaped here"},
		recipe:        nil,
		response:      "I could not find a specific recipe, but here is some advice.",
	}
	w := newWorkflow(t, stub)

	final, err := w.Run(context.Background(), cookingagent.NewAgentState("How do I make a risotto?"))
	require.NoError(t, err)

	// A failed parse is recorded, not fatal: the respond step still runs
	// with no recipe.
	assert.Equal(t, 1, stub.respondCalls)
	assert.Nil(t, final.Recipe)
	assert.Equal(t, []string{
		"Query classification: cooking-related",
		"Research needed",
		"Performed recipe research",
		"Recipe parsing failed",
		"Generated final response",
	}, final.ReasoningChain)
}

func TestRunEmptyResponseFails(t *testing.T) {
	stub := &stubOracles{
		isCooking: true,
		response:  "",
	}
	w := newWorkflow(t, stub)

	_, err := w.Run(context.Background(), cookingagent.NewAgentState("How do I make a risotto?"))
	require.Error(t, err)
	assert.ErrorIs(t, err, workflow.ErrEmptyResponse)
}

func TestRunOracleFailurePropagates(t *testing.T) {
	oracleErr := errors.New("model unavailable")

	tests := []struct {
		name string
		stub *stubOracles
	}{
		{
			name: "classify failure",
			stub: &stubOracles{classifyErr: oracleErr},
		},
		{
			name: "research check failure",
			stub: &stubOracles{isCooking: true, researchErr: oracleErr},
		},
		{
			name: "search failure",
			stub: &stubOracles{isCooking: true, needsResearch: true, searchErr: oracleErr},
		},
		{
			name: "parse failure",
			stub: &stubOracles{isCooking: true, needsResearch: true, snippets: []string{"s"}, parseErr: oracleErr},
		},
		{
			name: "respond failure",
			stub: &stubOracles{isCooking: true, respondErr: oracleErr},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorkflow(t, tt.stub)
			_, err := w.Run(context.Background(), cookingagent.NewAgentState("How do I make a risotto?"))
			require.Error(t, err)
			assert.ErrorIs(t, err, oracleErr)
		})
	}
}

func TestRunIdempotent(t *testing.T) {
	run := func() *cookingagent.AgentState {
		stub := &stubOracles{
			isCooking:     true,
			needsResearch: true,
			snippets:      []string{"snippet one", "snippet two"},
			recipe:        testRecipe(),
			response:      "## Mushroom Risotto",
		}
		w := newWorkflow(t, stub)
		final, err := w.Run(context.Background(), cookingagent.NewAgentState("How do I make a risotto?"))
		require.NoError(t, err)
		return final
	}

	first := run()
	second := run()

	assert.Equal(t, first.ReasoningChain, second.ReasoningChain)
	assert.Equal(t, first.FinalResponse, second.FinalResponse)
}

func TestRunNilState(t *testing.T) {
	stub := &stubOracles{}
	w := newWorkflow(t, stub)

	_, err := w.Run(context.Background(), nil)
	assert.ErrorIs(t, err, cookingagent.ErrInvalidState)
}

func TestAnswer(t *testing.T) {
	stub := &stubOracles{
		isCooking: true,
		response:  "Use medium heat.",
	}
	w := newWorkflow(t, stub)

	result, err := w.Answer(context.Background(), "How do I cook eggs?")
	require.NoError(t, err)

	assert.Equal(t, "Use medium heat.", result.Response)
	assert.True(t, result.Relevant)
	assert.Equal(t, []string{
		"Query classification: cooking-related",
		"Research not needed",
		"Generated final response",
	}, result.ReasoningChain)
}

func TestOraclesValidate(t *testing.T) {
	stub := &stubOracles{}

	tests := []struct {
		name   string
		mutate func(o *workflow.Oracles)
	}{
		{"missing classify", func(o *workflow.Oracles) { o.ClassifyQuery = nil }},
		{"missing research", func(o *workflow.Oracles) { o.NeedsResearch = nil }},
		{"missing search", func(o *workflow.Oracles) { o.SearchRecipes = nil }},
		{"missing parse", func(o *workflow.Oracles) { o.ParseRecipe = nil }},
		{"missing respond", func(o *workflow.Oracles) { o.GenerateResponse = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oracles := stub.oracles()
			tt.mutate(&oracles)

			_, err := workflow.New(oracles, cookingagent.DefaultToolSet(), nil)
			assert.Error(t, err)
		})
	}

	t.Run("complete oracles with nil logger", func(t *testing.T) {
		_, err := workflow.New(stub.oracles(), cookingagent.DefaultToolSet(), nil)
		assert.NoError(t, err)
	})
}

// captureRunLogger records step logs for assertions.
type captureRunLogger struct {
	steps []cookingagent.StepLog
}

func (c *captureRunLogger) LogStep(step cookingagent.StepLog) error {
	c.steps = append(c.steps, step)
	return nil
}

func TestRunAuditLog(t *testing.T) {
	stub := &stubOracles{isCooking: false}
	logger := &captureRunLogger{}

	w, err := workflow.New(stub.oracles(), cookingagent.DefaultToolSet(), logger)
	require.NoError(t, err)

	_, err = w.Run(context.Background(), cookingagent.NewAgentState("What is the weather?"))
	require.NoError(t, err)

	// Every step is always invoked and logged, even when it skips.
	require.Len(t, logger.steps, 5)
	assert.Equal(t, "classify", logger.steps[0].Step)
	assert.False(t, logger.steps[0].Skipped)
	assert.Equal(t, "Query classification: not cooking-related", logger.steps[0].Detail)

	for _, step := range logger.steps[1:] {
		assert.True(t, step.Skipped, "step %s should be marked skipped", step.Step)
	}
}
