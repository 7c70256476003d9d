package oracle

import (
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
)

// RecipeSchema describes the structured output expected from the recipe
// parsing oracle. It is rendered into the parser prompt so the model knows
// the exact shape to produce.
func RecipeSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"name": {Type: "string"},
			"ingredients": {
				Type:  "array",
				Items: &jsonschema.Schema{Type: "string"},
			},
			"steps": {
				Type:  "array",
				Items: &jsonschema.Schema{Type: "string"},
			},
			"required_tools": {
				Type:  "array",
				Items: &jsonschema.Schema{Type: "string"},
			},
			"cooking_time": {Type: "string"},
			"difficulty": {
				Type: "string",
				Enum: []any{"easy", "medium", "hard"},
			},
			"servings": {Type: "integer"},
		},
		Required: []string{"name", "ingredients", "steps", "required_tools", "cooking_time", "difficulty", "servings"},
	}
}

func recipeSchemaJSON() string {
	b, err := json.MarshalIndent(RecipeSchema(), "", "  ")
	if err != nil {
		// The schema is a static literal; marshaling it cannot fail at runtime.
		panic(err)
	}
	return string(b)
}
