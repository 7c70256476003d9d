// Package mock provides a deterministic oracle backend so the pipeline can
// be exercised end-to-end without network access.
package mock

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"cookingagent"
)

var cookingKeywords = []string{
	"cook", "recipe", "bake", "roast", "grill", "boil", "fry",
	"ingredient", "kitchen", "meal", "dish", "food", "risotto",
}

// Oracles implements all five pipeline capabilities with canned answers
// derived from the query text.
type Oracles struct{}

func NewOracles() *Oracles {
	return &Oracles{}
}

// ClassifyQuery reports true when the query mentions anything from a small
// cooking vocabulary.
func (o *Oracles) ClassifyQuery(ctx context.Context, query string) (bool, error) {
	slog.Info("ORACLE: Mock classify", "query", query)

	lower := strings.ToLower(query)
	for _, kw := range cookingKeywords {
		if strings.Contains(lower, kw) {
			return true, nil
		}
	}
	return false, nil
}

// NeedsResearch reports true for queries that ask for a specific dish.
func (o *Oracles) NeedsResearch(ctx context.Context, query string) (bool, error) {
	slog.Info("ORACLE: Mock research check", "query", query)

	lower := strings.ToLower(query)
	return strings.Contains(lower, "make") || strings.Contains(lower, "recipe"), nil
}

// SearchRecipes returns three canned snippets about the query, or nothing
// when the query mentions an unfindable dish.
func (o *Oracles) SearchRecipes(ctx context.Context, query string) ([]string, error) {
	slog.Info("ORACLE: Mock search", "query", query)

	if strings.Contains(strings.ToLower(query), "unfindable") {
		return nil, nil
	}

	return []string{
		fmt.Sprintf("A classic take on %s starts with quality ingredients and patience.", query),
		"Use medium heat, season in layers, and taste as you go.",
		"Most home versions take about 30 minutes and serve two.",
	}, nil
}

// ParseRecipe produces a fixed valid recipe from the snippets, or nothing
// when a snippet mentions unparseable content.
func (o *Oracles) ParseRecipe(ctx context.Context, snippets []string) (*cookingagent.Recipe, error) {
	slog.Info("ORACLE: Mock parse", "snippets_count", len(snippets))

	for _, s := range snippets {
		if strings.Contains(strings.ToLower(s), "unparseable") {
			return nil, nil
		}
	}

	recipe := &cookingagent.Recipe{
		Name:          "Mushroom Risotto",
		Ingredients:   []string{"arborio rice", "mushrooms", "vegetable stock", "parmesan", "butter"},
		Steps:         []string{"Saute mushrooms", "Toast rice", "Add stock gradually", "Stir in parmesan and butter"},
		RequiredTools: []string{"little pot", "spoon", "knife"},
		CookingTime:   "30 minutes",
		Difficulty:    "medium",
		Servings:      2,
	}
	if err := recipe.Validate(); err != nil {
		return nil, fmt.Errorf("canned recipe failed validation: %w", err)
	}
	return recipe, nil
}

// GenerateResponse produces a markdown answer referencing the recipe when
// one was parsed.
func (o *Oracles) GenerateResponse(ctx context.Context, query string, recipe *cookingagent.Recipe, tools cookingagent.ToolSet) (string, error) {
	slog.Info("ORACLE: Mock respond", "query", query, "has_recipe", recipe != nil)

	if recipe != nil {
		var b strings.Builder
		fmt.Fprintf(&b, "## %s\n\n", recipe.Name)
		fmt.Fprintf(&b, "Difficulty: %s. Ready in %s, serves %d.\n\n", recipe.Difficulty, recipe.CookingTime, recipe.Servings)
		b.WriteString("### Ingredients\n")
		for _, ing := range recipe.Ingredients {
			fmt.Fprintf(&b, "- %s\n", ing)
		}
		b.WriteString("\n### Steps\n")
		for i, step := range recipe.Steps {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step)
		}
		if !tools.CanCook(recipe) {
			b.WriteString("\nNote: you are missing some of the required tools for this recipe.\n")
		}
		return b.String(), nil
	}

	return fmt.Sprintf("Here is some general advice for %q: keep your knives sharp, season gradually, and taste often.", query), nil
}
