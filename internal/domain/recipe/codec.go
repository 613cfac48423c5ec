package recipe

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// BlockSeparator separates consecutive recipe blocks.
	BlockSeparator = "\n\n"

	lineSeparator       = "\n"
	valueSeparator      = ": "
	ingredientSeparator = ", "

	// fieldCount is the number of labelled lines in a block.
	fieldCount = 8
)

// Labels in block order. Decoding is positional and never checks them.
var labels = [fieldCount]string{
	"RID",
	"Recipe Name",
	"Ingredients",
	"Instructions",
	"Taste",
	"Cuisine",
	"Preparation Time",
	"Favorite",
}

// SplitBlocks trims the blob and splits it into raw blocks.
// An empty or whitespace-only blob has no blocks.
func SplitBlocks(blob []byte) []string {
	text := strings.TrimSpace(string(blob))
	if text == "" {
		return nil
	}
	return strings.Split(text, BlockSeparator)
}

// JoinBlocks renders blocks as a full blob with a trailing separator.
func JoinBlocks(blocks []string) []byte {
	if len(blocks) == 0 {
		return nil
	}
	return []byte(strings.Join(blocks, BlockSeparator) + BlockSeparator)
}

// DecodeBlob decodes every block of blob in file order.
func DecodeBlob(blob []byte) ([]Recipe, error) {
	blocks := SplitBlocks(blob)
	recipes := make([]Recipe, 0, len(blocks))
	for i, block := range blocks {
		r, err := DecodeBlock(block)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i+1, err)
		}
		recipes = append(recipes, r)
	}
	return recipes, nil
}

// DecodeBlock decodes a single block. Line i always feeds field i, whatever
// its label says; lines past the eighth are ignored.
func DecodeBlock(block string) (Recipe, error) {
	lines := strings.Split(block, lineSeparator)
	if len(lines) < fieldCount {
		return Recipe{}, fmt.Errorf("%w: expected %d lines, got %d", ErrMalformedBlock, fieldCount, len(lines))
	}

	prep, _ := ParseLeadingInt(lineValue(lines[6]))

	return Recipe{
		RID:             lineValue(lines[0]),
		RecipeName:      lineValue(lines[1]),
		Ingredients:     splitIngredients(lineValue(lines[2])),
		Instructions:    lineValue(lines[3]),
		Taste:           lineValue(lines[4]),
		Cuisine:         lineValue(lines[5]),
		PreparationTime: prep,
		Favorite:        lineValue(lines[7]) == "Yes",
	}, nil
}

// EncodeBlock renders r as a block without a trailing separator.
func EncodeBlock(r Recipe) string {
	values := [fieldCount]string{
		r.RID,
		r.RecipeName,
		strings.Join(r.Ingredients, ingredientSeparator),
		r.Instructions,
		r.Taste,
		r.Cuisine,
		strconv.Itoa(r.PreparationTime),
		FormatFavorite(r.Favorite),
	}

	var b strings.Builder
	for i, label := range labels {
		if i > 0 {
			b.WriteString(lineSeparator)
		}
		b.WriteString(label)
		b.WriteString(valueSeparator)
		b.WriteString(values[i])
	}
	return b.String()
}

// NextRID returns the rid a newly appended block gets: the number of
// separator-delimited segments of the trimmed blob plus one. A blank blob is
// still one (empty) segment, so the first recipe of an empty file is "2".
func NextRID(blob []byte) string {
	segments := len(SplitBlocks(blob))
	if segments == 0 {
		segments = 1
	}
	return strconv.Itoa(segments + 1)
}

// BlockRID returns the positional RID of a raw block.
func BlockRID(block string) string {
	first, _, _ := strings.Cut(block, lineSeparator)
	return lineValue(first)
}

// FormatFavorite renders the favorite flag the way blocks store it.
func FormatFavorite(favorite bool) string {
	if favorite {
		return "Yes"
	}
	return "No"
}

// ParseLeadingInt parses an optionally signed run of leading digits after
// leading whitespace, ignoring whatever follows ("30 min" is 30).
func ParseLeadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\r\n")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

func lineValue(line string) string {
	_, value, found := strings.Cut(line, valueSeparator)
	if !found {
		return ""
	}
	return value
}

func splitIngredients(value string) []string {
	if value == "" {
		return []string{}
	}
	return strings.Split(value, ingredientSeparator)
}
