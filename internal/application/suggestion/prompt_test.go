package suggestion

import (
	"testing"

	"github.com/alchemorsel/pantry/internal/domain/ingredient"
	"github.com/alchemorsel/pantry/internal/domain/recipe"
	"github.com/stretchr/testify/assert"
)

func TestFlatten(t *testing.T) {
	cases := map[string]string{
		"":                      "",
		"single":                "single",
		"a\nb":                  "a b",
		"  a  \n\n\n  b\r\nc  ": "a b c",
		"\n\n\n":                "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Flatten(in), "%q", in)
	}
}

func TestCookable(t *testing.T) {
	available := []ingredient.Ingredient{
		{Name: "Flour", Quantity: 1},
		{Name: " milk", Quantity: 2},
		{Name: "eggs", Quantity: 0},
	}
	recipes := []recipe.Recipe{
		{RID: "1", Ingredients: []string{"flour", "MILK "}},
		{RID: "2", Ingredients: []string{"flour", "eggs"}},
		{RID: "3", Ingredients: []string{}},
		{RID: "4", Ingredients: []string{"sugar"}},
	}

	got := Cookable(recipes, available)

	ids := make([]string, 0, len(got))
	for _, r := range got {
		ids = append(ids, r.RID)
	}
	assert.Equal(t, []string{"1", "3"}, ids)
}

func TestBuildPrompt_EmptyPantry(t *testing.T) {
	prompt := BuildPrompt(nil, nil, "  quick lunch ")

	assert.Contains(t, prompt, "Available ingredients: none")
	assert.Contains(t, prompt, "Recipes that can be made: none")
	assert.Contains(t, prompt, "Request: quick lunch")
}
