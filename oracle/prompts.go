// Package oracle holds what the LLM backends share: the prompt texts for
// each pipeline capability, the recipe output schema, and decoding of the
// model's structured output into a validated Recipe.
package oracle

import (
	"encoding/json"
	"fmt"
	"strings"

	"cookingagent"
)

const classifierPromptFmt = `You are a cooking assistant that helps users with recipes and cooking advice.
Determine if the following query is related to cooking, recipes, food preparation, or kitchen tools.

Query: %s

Respond with either 'true' if the query is cooking-related, or 'false' if it's not.
Only respond with the boolean value, no other text.`

const researchNeededPromptFmt = `You are a cooking assistant analyzing if additional research is needed to properly answer a cooking query.
Consider if you need to look up specific recipes, cooking techniques, or ingredient information.

Query: %s

Respond with either 'true' if research is needed, or 'false' if you can answer directly.
Only respond with the boolean value, no other text.`

const recipeParserPromptFmt = `Based on the following research results, extract or create a structured recipe.
Include all necessary ingredients, steps, required tools, cooking time, difficulty level, and number of servings.

Research Results:
%s

Create a recipe in JSON format matching this JSON schema. Ensure all fields are present and properly formatted:
%s

Rules:
1. All fields are required
2. 'ingredients', 'steps', and 'required_tools' must be arrays of strings
3. 'cooking_time' must be a string ending in 'minutes'
4. 'difficulty' must be one of: 'easy', 'medium', 'hard'
5. 'servings' must be a positive integer
6. Do not include any explanatory text, only the JSON object

Example:
{
    "name": "Simple Chicken Stir-Fry",
    "ingredients": ["chicken breast", "vegetables", "soy sauce"],
    "steps": ["Cut chicken", "Heat pan", "Cook chicken", "Add vegetables"],
    "required_tools": ["knife", "frying pan", "spatula"],
    "cooking_time": "30 minutes",
    "difficulty": "easy",
    "servings": 2
}`

const recipeResponsePromptFmt = `You are a helpful cooking assistant providing a detailed response to a user's query.

Query: %s
Recipe: %s
User has required tools: %t
Available tools: %s

Craft a detailed response that:
1. Addresses the user's query directly
2. If a recipe is provided, includes all necessary steps and ingredients
3. Mentions any missing tools if the user can't make the recipe
4. Provides helpful tips and suggestions

Keep the tone friendly and encouraging. Format the response in markdown for readability.`

const basicInstructionsPromptFmt = `You are a helpful cooking assistant providing basic cooking instructions.
The user wants to know how to cook %s.
Provide clear, step-by-step instructions that use their available tools: %s.
Format your response in markdown and include:
1. Basic ingredients needed
2. Preparation steps
3. Cooking method
4. Tips for best results
5. How to tell when it's done

Keep the instructions simple and suitable for beginners.`

const generalCookingPromptFmt = `You are a knowledgeable cooking assistant answering a general cooking question.
Provide a clear, informative response that draws on cooking fundamentals and best practices.

Query: %s

Format your response in markdown and include relevant examples or analogies where helpful.
Focus on practical, actionable advice that considers common kitchen tools and ingredients.`

// ClassifierPrompt builds the is-this-cooking-related prompt.
func ClassifierPrompt(query string) string {
	return fmt.Sprintf(classifierPromptFmt, query)
}

// ResearchNeededPrompt builds the does-this-need-research prompt.
func ResearchNeededPrompt(query string) string {
	return fmt.Sprintf(researchNeededPromptFmt, query)
}

// RecipeParserPrompt builds the structured-extraction prompt from search
// snippets, embedding the recipe JSON schema.
func RecipeParserPrompt(snippets []string) string {
	return fmt.Sprintf(recipeParserPromptFmt, strings.Join(snippets, "\n"), recipeSchemaJSON())
}

// ResponsePrompt builds the final-answer prompt. It picks one of three
// variants: recipe-grounded when a recipe was parsed, basic instructions
// for "how to cook X" queries, and general advice otherwise.
func ResponsePrompt(query string, recipe *cookingagent.Recipe, tools cookingagent.ToolSet) string {
	if recipe != nil {
		recipeJSON, _ := json.Marshal(recipe)
		return fmt.Sprintf(recipeResponsePromptFmt,
			query,
			string(recipeJSON),
			tools.CanCook(recipe),
			strings.Join(tools.AvailableTools, ", "),
		)
	}

	lower := strings.ToLower(query)
	if strings.Contains(lower, "how to cook") {
		subject := strings.TrimSpace(strings.ReplaceAll(lower, "how to cook ", ""))
		return fmt.Sprintf(basicInstructionsPromptFmt, subject, strings.Join(tools.AvailableTools, ", "))
	}

	return fmt.Sprintf(generalCookingPromptFmt, query)
}

// ParseBool interprets a classifier-style model reply as a boolean. Only a
// bare 'true' counts as true, matching the prompt contract.
func ParseBool(content string) bool {
	return strings.ToLower(strings.TrimSpace(content)) == "true"
}
