package cookingagent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Pipeline answers a single cooking query end-to-end.
type Pipeline interface {
	Answer(ctx context.Context, query string) (Result, error)
}

// ErrInvalidState indicates the workflow returned a state it should never
// be able to produce. It signals an internal bug, not a bad query.
var ErrInvalidState = errors.New("invalid workflow state")

// RefusalMessage is the fixed response for queries outside the cooking domain.
const RefusalMessage = "I apologize, but I can only help with cooking-related questions. Please ask me about recipes, cooking techniques, or kitchen tools."

// AgentState is the mutable record threaded through one pipeline run.
// It is created fresh per query and never shared across runs.
type AgentState struct {
	Query            string   `json:"query"`
	IsCookingRelated bool     `json:"is_cooking_related"`
	NeedsResearch    bool     `json:"needs_research"`
	ResearchResults  []string `json:"research_results"`
	Recipe           *Recipe  `json:"recipe,omitempty"`
	ReasoningChain   []string `json:"reasoning_chain"`
	FinalResponse    string   `json:"final_response,omitempty"`
}

// NewAgentState creates the initial state for a query.
func NewAgentState(query string) *AgentState {
	return &AgentState{
		Query:           query,
		ResearchResults: []string{},
		ReasoningChain:  []string{},
	}
}

// AddReasoning appends one entry to the audit trail. Steps that skip their
// work must not call it.
func (s *AgentState) AddReasoning(entry string) {
	s.ReasoningChain = append(s.ReasoningChain, entry)
}

// Result is the value handed back to the serving layer once a run finishes.
type Result struct {
	Response       string   `json:"response"`
	Relevant       bool     `json:"relevant"`
	ReasoningChain []string `json:"reasoning_chain"`
}

// Recipe is the structured output of the parsing oracle. It is validated
// once at construction and not mutated afterwards.
type Recipe struct {
	Name          string   `json:"name"`
	Ingredients   []string `json:"ingredients"`
	Steps         []string `json:"steps"`
	RequiredTools []string `json:"required_tools"`
	CookingTime   string   `json:"cooking_time"`
	Difficulty    string   `json:"difficulty"`
	Servings      int      `json:"servings"`
}

// Validate normalizes and checks the recipe fields:
//   - difficulty is lowercased and must be easy, medium, or hard
//   - cooking_time gets a " minutes" suffix when the model left it off
//   - servings must be at least 1
//   - name, ingredients, and steps must be non-empty
func (r *Recipe) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("recipe name cannot be empty")
	}
	if len(r.Ingredients) == 0 {
		return errors.New("recipe must have at least one ingredient")
	}
	if len(r.Steps) == 0 {
		return errors.New("recipe must have at least one step")
	}

	r.Difficulty = strings.ToLower(strings.TrimSpace(r.Difficulty))
	switch r.Difficulty {
	case "easy", "medium", "hard":
	default:
		return fmt.Errorf("difficulty must be one of easy, medium, hard; got %q", r.Difficulty)
	}

	if r.Servings < 1 {
		return fmt.Errorf("servings must be a positive number; got %d", r.Servings)
	}

	r.CookingTime = strings.TrimSpace(r.CookingTime)
	if !strings.HasSuffix(r.CookingTime, "minutes") {
		r.CookingTime += " minutes"
	}

	return nil
}

// ToolSet is the fixed registry of kitchen tools available to the user.
type ToolSet struct {
	AvailableTools []string `json:"available_tools"`
}

// DefaultToolSet returns the stock kitchen setup assumed when no toolset
// artifact is configured.
func DefaultToolSet() ToolSet {
	return ToolSet{
		AvailableTools: []string{
			"Spatula",
			"Frying Pan",
			"Little Pot",
			"Stovetop",
			"Whisk",
			"Knife",
			"Ladle",
			"Spoon",
		},
	}
}

// CanCook reports whether every tool the recipe requires is available.
// The comparison is a case-insensitive set-subset check; a nil recipe can
// always be cooked.
func (t ToolSet) CanCook(recipe *Recipe) bool {
	if recipe == nil {
		return true
	}

	available := make(map[string]bool, len(t.AvailableTools))
	for _, tool := range t.AvailableTools {
		available[strings.ToLower(tool)] = true
	}

	for _, tool := range recipe.RequiredTools {
		if !available[strings.ToLower(tool)] {
			return false
		}
	}
	return true
}
