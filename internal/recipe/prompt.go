package recipe

import (
	"fmt"
	"strings"
)

// SystemPrompt is sent as the system-role instruction with every generation.
const SystemPrompt = "You are a creative culinary expert who matches recipes to moods. " +
	"Always respond with valid JSON only, no markdown formatting and no text outside the JSON object."

const responseShape = `Return a JSON object with exactly the following structure:
{
  "name": "Recipe name here",
  "ingredients": ["ingredient 1", "ingredient 2", "ingredient 3", ...],
  "instructions": ["Step 1: ...", "Step 2: ...", "Step 3: ...", ...],
  "explanation": "A short, warm explanation (2-3 sentences) of why this recipe matches the mood"
}

Respond with the JSON object only. Do not add greetings, commentary or markdown code fences.
Make the recipe creative, specific, and emotionally resonant. The explanation should be personal and delightful. Provide clear, step-by-step cooking instructions.`

// BuildPrompt composes the user prompt for req. Clauses are appended in a
// fixed order: mood, allergy exclusion, ingredient inclusion, cuisine, dish
// type. Empty lists and blank options contribute nothing. The mood is
// expected to be trimmed and non-empty already.
func BuildPrompt(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a creative culinary expert. Generate a food or drink recipe that perfectly matches the mood: %q.", req.Mood)

	if len(req.Allergies) > 0 {
		allergens := strings.Join(req.Allergies, ", ")
		fmt.Fprintf(&b, "\n\nIMPORTANT: The user has allergies to the following: %s. "+
			"You MUST NOT use ANY ingredient that contains or is derived from these allergens, not even in small amounts. "+
			"This is a strict requirement, not a preference.", allergens)
	}

	if len(req.Ingredients) > 0 {
		fmt.Fprintf(&b, "\n\nIMPORTANT: The user wants to include these specific ingredients in the recipe: %s. "+
			"You MUST incorporate every one of these ingredients in a creative and meaningful way. "+
			"The recipe should feature these ingredients prominently while still matching the mood.",
			strings.Join(req.Ingredients, ", "))
	}

	if cuisine := optional(req.Cuisine); cuisine != "" {
		fmt.Fprintf(&b, "\n\nThe recipe should be in the %s cuisine style. Use authentic %s ingredients, cooking techniques, and flavor profiles.", cuisine, cuisine)
	}

	if dishType := optional(req.DishType); dishType != "" {
		fmt.Fprintf(&b, "\n\nThe recipe should be a %s. Make sure it fits this category appropriately.", strings.ToLower(dishType))
	}

	b.WriteString("\n\n")
	b.WriteString(responseShape)
	return b.String()
}
