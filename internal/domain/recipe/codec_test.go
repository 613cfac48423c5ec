package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const teaBlock = "RID: 1\n" +
	"Recipe Name: Tea\n" +
	"Ingredients: water, tea\n" +
	"Instructions: boil\n" +
	"Taste: mild\n" +
	"Cuisine: asian\n" +
	"Preparation Time: 5\n" +
	"Favorite: No"

func TestDecodeBlock(t *testing.T) {
	t.Run("WellFormed_ShouldDecodeAllFields", func(t *testing.T) {
		r, err := DecodeBlock(teaBlock)

		require.NoError(t, err)
		assert.Equal(t, Recipe{
			RID:             "1",
			RecipeName:      "Tea",
			Ingredients:     []string{"water", "tea"},
			Instructions:    "boil",
			Taste:           "mild",
			Cuisine:         "asian",
			PreparationTime: 5,
			Favorite:        false,
		}, r)
	})

	t.Run("LabelsAreIgnored_ShouldDecodePositionally", func(t *testing.T) {
		block := "A: 7\nB: Soup\nC: leek\nD: stir\nE: salty\nF: french\nG: 20\nH: Yes"

		r, err := DecodeBlock(block)

		require.NoError(t, err)
		assert.Equal(t, "7", r.RID)
		assert.Equal(t, "Soup", r.RecipeName)
		assert.Equal(t, []string{"leek"}, r.Ingredients)
		assert.Equal(t, 20, r.PreparationTime)
		assert.True(t, r.Favorite)
	})

	t.Run("ShiftedLines_ShouldMisassignFields", func(t *testing.T) {
		block := "Recipe Name: Tea\nRID: 1\nIngredients: water\nInstructions: boil\nTaste: mild\nCuisine: asian\nPreparation Time: 5\nFavorite: No"

		r, err := DecodeBlock(block)

		require.NoError(t, err)
		assert.Equal(t, "Tea", r.RID)
		assert.Equal(t, "1", r.RecipeName)
	})

	t.Run("TooFewLines_ShouldReturnMalformed", func(t *testing.T) {
		_, err := DecodeBlock("RID: 1\nRecipe Name: Tea")

		assert.ErrorIs(t, err, ErrMalformedBlock)
	})

	t.Run("ValueContainingSeparator_ShouldKeepRemainder", func(t *testing.T) {
		block := "RID: 3\nRecipe Name: Pho\nIngredients: noodles\nInstructions: Step 1: simmer\nTaste: rich\nCuisine: vietnamese\nPreparation Time: 90\nFavorite: Yes"

		r, err := DecodeBlock(block)

		require.NoError(t, err)
		assert.Equal(t, "Step 1: simmer", r.Instructions)
	})

	t.Run("MissingSeparator_ShouldYieldEmptyValue", func(t *testing.T) {
		block := "RID: 4\nRecipe Name\nIngredients:\nInstructions: x\nTaste: x\nCuisine: x\nPreparation Time: soon\nFavorite: yes"

		r, err := DecodeBlock(block)

		require.NoError(t, err)
		assert.Equal(t, "", r.RecipeName)
		assert.Empty(t, r.Ingredients)
		assert.Equal(t, 0, r.PreparationTime)
		assert.False(t, r.Favorite, "only the exact value Yes marks a favorite")
	})
}

func TestEncodeBlock_RoundTrip(t *testing.T) {
	blocks := []string{
		teaBlock,
		"RID: 12\nRecipe Name: Coffee\nIngredients: water, coffee\nInstructions: brew\nTaste: bitter\nCuisine: global\nPreparation Time: 3\nFavorite: Yes",
		"RID: 2\nRecipe Name: Toast\nIngredients: \nInstructions: toast it\nTaste: plain\nCuisine: english\nPreparation Time: 2\nFavorite: No",
	}

	for _, block := range blocks {
		r, err := DecodeBlock(block)
		require.NoError(t, err)
		assert.Equal(t, block, EncodeBlock(r))
	}
}

func TestSplitBlocks(t *testing.T) {
	assert.Nil(t, SplitBlocks(nil))
	assert.Nil(t, SplitBlocks([]byte(" \n\n \t")))

	blob := []byte("\n" + teaBlock + "\n\n" + teaBlock + "\n\n")
	assert.Equal(t, []string{teaBlock, teaBlock}, SplitBlocks(blob))
}

func TestJoinBlocks(t *testing.T) {
	assert.Nil(t, JoinBlocks(nil))
	assert.Equal(t, "a\n\nb\n\n", string(JoinBlocks([]string{"a", "b"})))
}

func TestDecodeBlob(t *testing.T) {
	t.Run("ShouldDecodeInFileOrder", func(t *testing.T) {
		second := "RID: 2\nRecipe Name: Coffee\nIngredients: water, coffee\nInstructions: brew\nTaste: bitter\nCuisine: global\nPreparation Time: 3\nFavorite: No"

		recipes, err := DecodeBlob([]byte(teaBlock + "\n\n" + second + "\n\n"))

		require.NoError(t, err)
		require.Len(t, recipes, 2)
		assert.Equal(t, "Tea", recipes[0].RecipeName)
		assert.Equal(t, "Coffee", recipes[1].RecipeName)
	})

	t.Run("MalformedBlock_ShouldFail", func(t *testing.T) {
		_, err := DecodeBlob([]byte(teaBlock + "\n\nRID: 2"))

		assert.ErrorIs(t, err, ErrMalformedBlock)
		assert.Contains(t, err.Error(), "block 2")
	})
}

func TestBlockRID(t *testing.T) {
	assert.Equal(t, "1", BlockRID(teaBlock))
	assert.Equal(t, "", BlockRID("garbage"))
	assert.Equal(t, "9", BlockRID("RID: 9"))
}

func TestNextRID(t *testing.T) {
	assert.Equal(t, "2", NextRID(nil))
	assert.Equal(t, "2", NextRID([]byte(" \n\n ")))
	assert.Equal(t, "2", NextRID([]byte(teaBlock+"\n\n")))
	assert.Equal(t, "3", NextRID([]byte(teaBlock+"\n\n"+teaBlock)))
}

func TestParseLeadingInt(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"30", 30, true},
		{"  45 minutes", 45, true},
		{"-5", -5, true},
		{"+8", 8, true},
		{"abc", 0, false},
		{"", 0, false},
		{"-", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseLeadingInt(tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
	}
}

func TestFilter(t *testing.T) {
	thirty, five := 30, 5
	recipes := []Recipe{
		{RID: "1", PreparationTime: 5, Favorite: true},
		{RID: "2", PreparationTime: 45, Favorite: false},
		{RID: "3", PreparationTime: 30, Favorite: false},
	}

	byTime := Filter(recipes, Criteria{MaxPreparationTime: &thirty})
	assert.Equal(t, []string{"1", "3"}, rids(byTime))

	assert.Equal(t, []string{"2"}, rids(Filter(recipes, Criteria{RID: "2"})))
	assert.Equal(t, []string{"1"}, rids(Filter(recipes, Criteria{Favorite: "true"})))
	assert.Equal(t, []string{"2", "3"}, rids(Filter(recipes, Criteria{Favorite: "no"})))
	assert.Empty(t, Filter(recipes, Criteria{Favorite: "false", MaxPreparationTime: &five}))
	assert.Len(t, Filter(recipes, Criteria{}), 3)
}

func rids(recipes []Recipe) []string {
	out := make([]string, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, r.RID)
	}
	return out
}
