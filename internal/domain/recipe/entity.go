// Package recipe contains the recipe record and the line-labelled block
// format recipes are persisted in.
package recipe

// Recipe is one recipe record. Field order mirrors the block layout.
type Recipe struct {
	RID             string   `json:"rid"`
	RecipeName      string   `json:"recipe_name"`
	Ingredients     []string `json:"ingredients"`
	Instructions    string   `json:"instructions"`
	Taste           string   `json:"taste"`
	Cuisine         string   `json:"cuisine"`
	PreparationTime int      `json:"preparation_time"`
	Favorite        bool     `json:"favorite"`
}

// Criteria filters recipes. Empty fields do not filter.
type Criteria struct {
	RID string
	// Favorite is the raw query value; only "true" selects favorites, any
	// other non-empty value selects non-favorites.
	Favorite string
	// MaxPreparationTime is an inclusive upper bound when set.
	MaxPreparationTime *int
}

// Matches reports whether r satisfies every set criterion.
func (c Criteria) Matches(r Recipe) bool {
	if c.RID != "" && r.RID != c.RID {
		return false
	}
	if c.Favorite != "" && r.Favorite != (c.Favorite == "true") {
		return false
	}
	if c.MaxPreparationTime != nil && r.PreparationTime > *c.MaxPreparationTime {
		return false
	}
	return true
}

// Filter returns the recipes matching c, preserving order.
func Filter(recipes []Recipe, c Criteria) []Recipe {
	filtered := make([]Recipe, 0, len(recipes))
	for _, r := range recipes {
		if c.Matches(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
