package oracle

import (
	"encoding/json"
	"fmt"
	"strings"

	"cookingagent"
)

// DecodeRecipe turns raw model output into a validated Recipe. Models often
// wrap JSON in markdown code fences despite instructions, so fences are
// stripped before unmarshaling. Callers that implement the parsing oracle
// contract map the returned error to an absent recipe.
func DecodeRecipe(content string) (*cookingagent.Recipe, error) {
	cleaned := stripCodeFences(content)
	if cleaned == "" {
		return nil, fmt.Errorf("empty recipe content")
	}

	var recipe cookingagent.Recipe
	if err := json.Unmarshal([]byte(cleaned), &recipe); err != nil {
		return nil, fmt.Errorf("unmarshal recipe: %w", err)
	}
	if err := recipe.Validate(); err != nil {
		return nil, fmt.Errorf("validate recipe: %w", err)
	}

	return &recipe, nil
}

func stripCodeFences(content string) string {
	cleaned := strings.TrimSpace(content)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = cleaned[len("```json"):]
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = cleaned[len("```"):]
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}
