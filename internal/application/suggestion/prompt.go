package suggestion

import (
	"strconv"
	"strings"

	"github.com/alchemorsel/pantry/internal/domain/ingredient"
	"github.com/alchemorsel/pantry/internal/domain/recipe"
)

const instruction = "You are a cooking assistant. Suggest what to cook using only the available ingredients. " +
	"Prefer the listed recipes when they fit the request. Answer in plain text."

// Cookable keeps the recipes whose every ingredient is in stock. Names are
// compared case-insensitively after trimming. A recipe without ingredients
// is always cookable.
func Cookable(recipes []recipe.Recipe, available []ingredient.Ingredient) []recipe.Recipe {
	stock := make(map[string]struct{}, len(available))
	for _, i := range available {
		if i.Available() {
			stock[ingredient.NormalizeName(i.Name)] = struct{}{}
		}
	}

	cookable := make([]recipe.Recipe, 0, len(recipes))
	for _, r := range recipes {
		ok := true
		for _, name := range r.Ingredients {
			if _, found := stock[ingredient.NormalizeName(name)]; !found {
				ok = false
				break
			}
		}
		if ok {
			cookable = append(cookable, r)
		}
	}
	return cookable
}

// BuildPrompt renders the single message sent to the completion provider
func BuildPrompt(available []ingredient.Ingredient, recipes []recipe.Recipe, userPrompt string) string {
	var b strings.Builder
	b.WriteString(instruction)
	b.WriteString("\n\nAvailable ingredients:")
	if len(available) == 0 {
		b.WriteString(" none")
	}
	for _, i := range available {
		b.WriteString("\n- ")
		b.WriteString(i.Name)
		b.WriteString(" (")
		b.WriteString(strconv.FormatFloat(i.Quantity, 'f', -1, 64))
		if i.Unit != "" {
			b.WriteString(" ")
			b.WriteString(i.Unit)
		}
		b.WriteString(")")
	}

	b.WriteString("\n\nRecipes that can be made:")
	if len(recipes) == 0 {
		b.WriteString(" none")
	}
	for _, r := range recipes {
		b.WriteString("\n- ")
		b.WriteString(r.RecipeName)
		b.WriteString(": ")
		b.WriteString(strings.Join(r.Ingredients, ", "))
		b.WriteString("; ")
		b.WriteString(r.Taste)
		b.WriteString(", ")
		b.WriteString(r.Cuisine)
		b.WriteString(", ")
		b.WriteString(strconv.Itoa(r.PreparationTime))
		b.WriteString(" minutes")
	}

	b.WriteString("\n\nRequest: ")
	b.WriteString(strings.TrimSpace(userPrompt))
	return b.String()
}

// Flatten collapses a multi-line reply into one line: every line is
// trimmed, blank lines are dropped and the rest joined by single spaces.
func Flatten(reply string) string {
	lines := strings.Split(strings.ReplaceAll(reply, "\r\n", "\n"), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, " ")
}
